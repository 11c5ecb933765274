// Package badgerstore persists staleness records in an embedded BadgerDB so
// that reuse decisions survive across invocations.
//
// Records are encoded with msgpack and stored under "record/<target id>".
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/specialistvlad/sosbs/internal/recordstore"
	"github.com/vmihailenco/msgpack/v5"
)

const keyPrefix = "record/"

// Config holds configuration for a record database.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string
	// InMemory keeps the database in RAM. Useful for testing.
	InMemory bool
	// SyncWrites flushes every write to disk before returning.
	SyncWrites bool
	// Logger receives BadgerDB's internal log lines. Nil disables them.
	Logger *slog.Logger
}

// InMemoryConfig returns configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store is a recordstore.Store backed by BadgerDB.
type Store struct {
	db        *badger.DB
	closeOnce sync.Once
	closeErr  error
}

// Open opens (creating if needed) the record database described by cfg.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent record store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create record store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}
	return &Store{db: db}, nil
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}

// Get loads the record for id.
func (s *Store) Get(ctx context.Context, id string) (*recordstore.Record, bool, error) {
	var rec *recordstore.Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			rec = &recordstore.Record{}
			return msgpack.Unmarshal(val, rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read record %q: %w", id, err)
	}
	return rec, true, nil
}

// Put encodes rec and writes it.
func (s *Store) Put(ctx context.Context, rec *recordstore.Record) error {
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record %q: %w", rec.TargetID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(rec.TargetID), data)
	})
	if err != nil {
		return fmt.Errorf("write record %q: %w", rec.TargetID, err)
	}
	return nil
}

// Delete removes the record for id.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(id))
	})
	if err != nil {
		return fmt.Errorf("delete record %q: %w", id, err)
	}
	return nil
}

// IDs lists the target IDs that currently have a record, in key order.
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(keyPrefix):]))
		}
		return nil
	})
	return ids, err
}

// Close closes the underlying database. Later calls return the first result.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

var _ recordstore.Store = (*Store)(nil)
