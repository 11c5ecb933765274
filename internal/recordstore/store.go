// Package recordstore defines the storage contract for staleness records:
// what each target looked like the last time it was built.
//
// # Lifecycle
//
// Records are read by the staleness tracker before a target is scheduled and
// written exactly once per target per run, by the worker that finished (or
// failed) that target. Backends therefore only need per-key safety; no two
// writers ever race on the same record.
//
// Two backends exist:
//   - internal/inmemorystore keeps records for the lifetime of the process.
//   - internal/badgerstore persists records so that a later invocation can
//     reuse work done by an earlier one.
package recordstore

import (
	"context"
	"maps"
	"slices"
	"time"
)

// Record is the last known build state of one target.
type Record struct {
	// TargetID identifies the target the record belongs to.
	TargetID string `msgpack:"target_id"`
	// Markers maps each source path to its content marker at build time.
	Markers map[string]string `msgpack:"markers"`
	// DepStamps maps each direct dependency to the Stamp it had when this
	// target was built.
	DepStamps map[string]string `msgpack:"dep_stamps"`
	// Artifacts lists the object files produced for the sources.
	Artifacts []string `msgpack:"artifacts"`
	// Output is the linked output path.
	Output string `msgpack:"output"`
	// Complete is false while a build is in progress or after it failed.
	Complete bool `msgpack:"complete"`
	// Stamp digests Markers and DepStamps; dependents record it.
	Stamp string `msgpack:"stamp"`
	// BuiltAt is when the record was written.
	BuiltAt time.Time `msgpack:"built_at"`
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Markers = maps.Clone(r.Markers)
	c.DepStamps = maps.Clone(r.DepStamps)
	c.Artifacts = slices.Clone(r.Artifacts)
	return &c
}

// Store persists records keyed by target ID.
//
// Implementations MUST be safe for concurrent use on distinct keys.
type Store interface {
	// Get returns the record for id, or false if none exists.
	Get(ctx context.Context, id string) (*Record, bool, error)
	// Put stores rec under rec.TargetID, replacing any previous record.
	Put(ctx context.Context, rec *Record) error
	// Delete removes the record for id. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error
	// IDs lists the target IDs that have a record, sorted.
	IDs(ctx context.Context) ([]string, error)
	// Close releases backend resources.
	Close() error
}
