package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/katalvlaran/pacp/canon"
	"github.com/katalvlaran/pacp/record"
	"github.com/katalvlaran/pacp/sequence"
)

// keyPrefix is the namespace of solution entries.
const keyPrefix = "sol/"

// lengthPrefix returns "sol/<L>/".
func lengthPrefix(n int) []byte {
	return []byte(keyPrefix + strconv.Itoa(n) + "/")
}

// ResultStore is a record.Sink backed by BadgerDB. Each solution class is stored
// once: a second Emit of any equivalent pair is a no-op.
type ResultStore struct {
	db     *DB
	canon  canon.Canonicalizer
	logger *slog.Logger
}

// NewResultStore wraps db. c must match the canonicalizer of the producing workers.
func NewResultStore(db *DB, c canon.Canonicalizer, logger *slog.Logger) *ResultStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &ResultStore{db: db, canon: c, logger: logger.With(slog.String("component", "result_store"))}
}

// solutionKey returns the class key of r, computing it from A and B when r.Key is empty.
func (s *ResultStore) solutionKey(r record.Record) (canon.SolutionKey, error) {
	if r.Key != "" {
		return canon.ParseSolutionKey(r.Key)
	}
	a, err := sequence.Parse(r.A)
	if err != nil {
		return canon.SolutionKey{}, err
	}
	b, err := sequence.Parse(r.B)
	if err != nil {
		return canon.SolutionKey{}, err
	}

	return s.canon.Solution(a, b), nil
}

// Emit stores r unless its class is already present.
//
// Description:
//
//	The entry key is sol/<L>/<SolutionKey>, the value is the JSON record. A concurrent
//	writer of the same class surfaces as badger.ErrConflict, which is treated as a
//	duplicate.
//
// Thread Safety: safe for concurrent use.
func (s *ResultStore) Emit(ctx context.Context, r record.Record) error {
	sk, err := s.solutionKey(r)
	if err != nil {
		return fmt.Errorf("result key: %w", err)
	}
	r.Key = sk.String()
	key := append(lengthPrefix(r.Length), sk.String()...)

	val, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	duplicate := false
	err = s.db.withTxn(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			duplicate = true
			return nil
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return txn.Set(key, val)
	})
	if errors.Is(err, badger.ErrConflict) {
		duplicate, err = true, nil
	}
	if err != nil {
		return fmt.Errorf("store record: %w", err)
	}
	if duplicate {
		s.logger.Debug("solution already stored",
			slog.Int("length", r.Length),
			slog.String("key", r.Key))
	}

	return nil
}

// Keys returns every stored SolutionKey of length n.
func (s *ResultStore) Keys(ctx context.Context, n int) ([]canon.SolutionKey, error) {
	prefix := lengthPrefix(n)

	var keys []canon.SolutionKey
	err := s.db.withReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			sk, err := canon.ParseSolutionKey(string(it.Item().Key()[len(prefix):]))
			if err != nil {
				s.logger.Warn("skipping malformed stored key", slog.String("key", string(it.Item().Key())))
				continue
			}
			keys = append(keys, sk)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan keys: %w", err)
	}

	return keys, nil
}

// List returns every stored record of length n in key order; n ≤ 0 lists all lengths.
func (s *ResultStore) List(ctx context.Context, n int) ([]record.Record, error) {
	prefix := []byte(keyPrefix)
	if n > 0 {
		prefix = lengthPrefix(n)
	}

	var out []record.Record
	err := s.db.withReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r record.Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	return out, nil
}
