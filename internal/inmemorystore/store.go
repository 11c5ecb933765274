package inmemorystore

import (
	"context"
	"slices"
	"sync"

	"github.com/specialistvlad/sosbs/internal/recordstore"
)

// Store is an in-memory implementation of recordstore.Store.
type Store struct {
	records sync.Map // Key: target ID, Value: *recordstore.Record
}

// New creates a new, empty in-memory record store.
func New() recordstore.Store {
	return &Store{}
}

// Get returns a copy of the record for id.
func (s *Store) Get(ctx context.Context, id string) (*recordstore.Record, bool, error) {
	v, ok := s.records.Load(id)
	if !ok {
		return nil, false, nil
	}
	return v.(*recordstore.Record).Clone(), true, nil
}

// Put stores a copy of rec.
func (s *Store) Put(ctx context.Context, rec *recordstore.Record) error {
	s.records.Store(rec.TargetID, rec.Clone())
	return nil
}

// Delete forgets the record for id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.records.Delete(id)
	return nil
}

// IDs lists the recorded target IDs in sorted order.
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	s.records.Range(func(k, _ any) bool {
		ids = append(ids, k.(string))
		return true
	})
	slices.Sort(ids)
	return ids, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
