package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/katalvlaran/pacp/canon"
	"github.com/katalvlaran/pacp/record"
	"github.com/katalvlaran/pacp/sequence"
)

// ErrEmptySeed is returned by LoadSeed for a file without a non-blank line.
var ErrEmptySeed = errors.New("store: seed file is empty")

// FileSink appends one "L,PSL,A,B" line per record.
type FileSink struct {
	mu     sync.Mutex
	f      *os.File
	closed bool
}

// OpenFileSink opens path for appending, creating it with mode 0644.
func OpenFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open result file: %w", err)
	}

	return &FileSink{f: f}, nil
}

// Emit writes r.Line() and a newline in a single write.
func (s *FileSink) Emit(ctx context.Context, r record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return record.ErrClosed
	}
	if _, err := io.WriteString(s.f, r.Line()+"\n"); err != nil {
		return fmt.Errorf("append result: %w", err)
	}

	return nil
}

// Close flushes and closes the file. Further Emits fail with record.ErrClosed.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.f.Sync(); err != nil {
		_ = s.f.Close()
		return err
	}

	return s.f.Close()
}

// LoadSeed reads the first non-blank line of path as "A,B" or "L,PSL,A,B".
func LoadSeed(path string) (sequence.Sequence, sequence.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		a, b, err := sequence.ParsePair(line)
		if err != nil {
			return nil, nil, fmt.Errorf("parse seed: %w", err)
		}
		return a, b, nil
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read seed file: %w", err)
	}

	return nil, nil, ErrEmptySeed
}

// LoadKeys reads a result file and returns the SolutionKeys of its records of
// length n (n ≤ 0 accepts every length). A missing file yields no keys; lines that
// do not parse are skipped and counted.
func LoadKeys(path string, n int, c canon.Canonicalizer) (keys []canon.SolutionKey, skipped int, err error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("open result file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		a, b, perr := sequence.ParsePair(line)
		if perr != nil {
			skipped++
			continue
		}
		if n > 0 && len(a) != n {
			continue
		}
		keys = append(keys, c.Solution(a, b))
	}
	if err = sc.Err(); err != nil {
		return nil, skipped, fmt.Errorf("read result file: %w", err)
	}

	return keys, skipped, nil
}

// Tee returns a Sink that emits to every sink in order and joins their errors.
func Tee(sinks ...record.Sink) record.Sink {
	return record.SinkFunc(func(ctx context.Context, r record.Record) error {
		var errs []error
		for _, s := range sinks {
			if err := s.Emit(ctx, r); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
