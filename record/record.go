// Package record defines the solution output record and the Sink that receives it.
package record

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrClosed is returned by sinks after Close.
var ErrClosed = errors.New("record: sink closed")

// Record describes one accepted solution.
type Record struct {
	RunID       string    `json:"run_id"`
	Worker      int       `json:"worker"`
	Length      int       `json:"length"`
	MaxSidelobe int       `json:"psl"`
	PeakCount   int       `json:"peak_count"`
	ZeroZone    int       `json:"zcz"`
	Class       string    `json:"class"`
	A           string    `json:"a"`
	B           string    `json:"b"`
	Key         string    `json:"key"`
	Iteration   int64     `json:"iteration"`
	FoundAt     time.Time `json:"found_at"`
}

// Line renders the boundary text form "L,PSL,A,B".
func (r Record) Line() string {
	return fmt.Sprintf("%d,%d,%s,%s", r.Length, r.MaxSidelobe, r.A, r.B)
}

// Sink receives records. Implementations must make each Emit a single atomic
// append and must be safe for concurrent use by several workers.
type Sink interface {
	Emit(ctx context.Context, r Record) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, r Record) error

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, r Record) error { return f(ctx, r) }

// Discard drops every record.
var Discard Sink = SinkFunc(func(context.Context, Record) error { return nil })

// Memory collects records in order.
type Memory struct {
	mu      sync.Mutex
	records []Record
}

// Emit appends r.
func (m *Memory) Emit(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.records = append(m.records, r)
	m.mu.Unlock()

	return nil
}

// Records returns a copy of everything emitted so far.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Record(nil), m.records...)
}
