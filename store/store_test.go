package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/katalvlaran/pacp/canon"
	"github.com/katalvlaran/pacp/record"
	"github.com/katalvlaran/pacp/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func l4Record() record.Record {
	return record.Record{Length: 4, MaxSidelobe: 4, PeakCount: 2, ZeroZone: 1, Class: "strict", A: "++--", B: "+-+-"}
}

// TestResultStore_Idempotent: equivalent pairs land on one entry.
func TestResultStore_Idempotent(t *testing.T) {
	db, err := store.Open(store.InMemoryConfig())
	require.NoError(t, err)
	defer db.Close()

	rs := store.NewResultStore(db, canon.Canonicalizer{}, nil)
	ctx := context.Background()

	require.NoError(t, rs.Emit(ctx, l4Record()))
	swapped := l4Record()
	swapped.A, swapped.B = "-+-+", "--++" // negated/rotated and swapped
	require.NoError(t, rs.Emit(ctx, swapped))

	keys, err := rs.Keys(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, []canon.SolutionKey{{First: "++--", Second: "+-+-"}}, keys)

	list, err := rs.List(ctx, 4)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "++--", list[0].A)
	assert.Equal(t, "++--,+-+-", list[0].Key)

	other, err := rs.Keys(ctx, 5)
	require.NoError(t, err)
	require.Empty(t, other)

	require.NoError(t, rs.Emit(ctx, record.Record{Length: 2, A: "+-", B: "++"}))
	all, err := rs.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 2, all[0].Length)
	assert.Equal(t, 4, all[1].Length)
}

// TestResultStore_ConcurrentEmit: racing writers of one class still leave one entry.
func TestResultStore_ConcurrentEmit(t *testing.T) {
	db, err := store.Open(store.InMemoryConfig())
	require.NoError(t, err)
	defer db.Close()
	rs := store.NewResultStore(db, canon.Canonicalizer{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, rs.Emit(context.Background(), l4Record()))
		}()
	}
	wg.Wait()

	keys, err := rs.Keys(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, keys, 1)
}

// TestResultStore_Reopen: keys survive a close/open cycle.
func TestResultStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	cfg := store.DefaultConfig(dir)
	cfg.GCInterval = 0

	db, err := store.Open(cfg)
	require.NoError(t, err)
	rs := store.NewResultStore(db, canon.Canonicalizer{}, nil)
	require.NoError(t, rs.Emit(context.Background(), l4Record()))
	require.NoError(t, db.Close())

	db, err = store.Open(cfg)
	require.NoError(t, err)
	defer db.Close()
	keys, err := store.NewResultStore(db, canon.Canonicalizer{}, nil).Keys(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, keys, 1)
}

// TestOpen_RequiresPath rejects an empty persistent path.
func TestOpen_RequiresPath(t *testing.T) {
	_, err := store.Open(store.Config{})
	require.ErrorIs(t, err, store.ErrNoPath)
}

// TestFileSink_AppendAndLoadKeys writes lines and reads their classes back.
func TestFileSink_AppendAndLoadKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	sink, err := store.OpenFileSink(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sink.Emit(ctx, l4Record()))
	r := l4Record()
	r.A = "+--+"
	require.NoError(t, sink.Emit(ctx, r))
	require.NoError(t, sink.Close())
	require.ErrorIs(t, sink.Emit(ctx, r), record.ErrClosed)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "4,4,++--,+-+-\n4,4,+--+,+-+-\n", string(raw))

	require.NoError(t, os.WriteFile(path, append(raw, []byte("garbage\n")...), 0644))
	keys, skipped, err := store.LoadKeys(path, 4, canon.Canonicalizer{})
	require.NoError(t, err)
	require.Equal(t, 1, skipped)
	require.Len(t, keys, 2)
	require.Equal(t, keys[0], keys[1], "rotations share a class")

	keys, _, err = store.LoadKeys(path, 6, canon.Canonicalizer{})
	require.NoError(t, err)
	require.Empty(t, keys)

	keys, _, err = store.LoadKeys(filepath.Join(t.TempDir(), "missing"), 4, canon.Canonicalizer{})
	require.NoError(t, err)
	require.Nil(t, keys)
}

// TestLoadSeed accepts both layouts and reports malformed input.
func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
		return p
	}

	a, b, err := store.LoadSeed(write("plain", "\n++-+, +--+\n"))
	require.NoError(t, err)
	require.Equal(t, "++-+", a.String())
	require.Equal(t, "+--+", b.String())

	a, _, err = store.LoadSeed(write("record", "4,4,++--,+-+-\n"))
	require.NoError(t, err)
	require.Equal(t, "++--", a.String())

	_, _, err = store.LoadSeed(write("empty", "\n\n"))
	require.ErrorIs(t, err, store.ErrEmptySeed)

	_, _, err = store.LoadSeed(write("bad", "++x,+++\n"))
	require.Error(t, err)

	_, _, err = store.LoadSeed(filepath.Join(dir, "nope"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestTee joins errors but still reaches every sink.
func TestTee(t *testing.T) {
	var m1, m2 record.Memory
	boom := errors.New("boom")
	fail := record.SinkFunc(func(context.Context, record.Record) error { return boom })

	err := store.Tee(&m1, fail, &m2).Emit(context.Background(), l4Record())
	require.ErrorIs(t, err, boom)
	require.Len(t, m1.Records(), 1)
	require.Len(t, m2.Records(), 1)
}
