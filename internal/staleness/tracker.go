package staleness

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/specialistvlad/sosbs/internal/ctxlog"
	"github.com/specialistvlad/sosbs/internal/recordstore"
	"github.com/specialistvlad/sosbs/internal/target"
)

// Reason explains why a target must be rebuilt.
type Reason string

const (
	ReasonNoRecord          Reason = "no previous build"
	ReasonIncomplete        Reason = "previous build incomplete"
	ReasonSourceSetChanged  Reason = "source set changed"
	ReasonSourceChanged     Reason = "source changed"
	ReasonSourceUnreadable  Reason = "source unreadable"
	ReasonDependencyRebuilt Reason = "dependency rebuilt"
	ReasonDependencyChanged Reason = "dependency changed"
	ReasonOutputMissing     Reason = "output missing"
)

// Verdict is the result of a staleness check.
type Verdict struct {
	// Rebuild is true when the target must be compiled and linked again.
	Rebuild bool
	// Reasons lists every reason found, in check order, without duplicates.
	Reasons []Reason
	// Warnings holds non-fatal problems, e.g. *SourceError.
	Warnings []error
	// Previous is the stored record, if any.
	Previous *recordstore.Record

	markers   map[string]string
	depStamps map[string]string
}

func (v *Verdict) add(r Reason) {
	v.Rebuild = true
	if !slices.Contains(v.Reasons, r) {
		v.Reasons = append(v.Reasons, r)
	}
}

// Tracker computes verdicts and records build outcomes.
type Tracker struct {
	store recordstore.Store
	now   func() time.Time
}

// New creates a tracker backed by store.
func New(store recordstore.Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// IsStale reports whether t must be rebuilt. rebuilt holds the IDs of the
// targets rebuilt so far in the current run; it is only read.
//
// Problems reading sources or the store never fail the check: they are
// returned as warnings and force a rebuild.
func (tr *Tracker) IsStale(ctx context.Context, t *target.Target, rebuilt map[string]bool) *Verdict {
	logger := ctxlog.FromContext(ctx)
	v := &Verdict{
		markers:   make(map[string]string),
		depStamps: make(map[string]string, len(t.Dependencies)),
	}

	tr.computeMarkers(t, v)

	for _, dep := range t.Dependencies {
		if rebuilt[dep] {
			v.add(ReasonDependencyRebuilt)
		}
		rec, ok, err := tr.store.Get(ctx, dep)
		if err != nil {
			v.Warnings = append(v.Warnings, fmt.Errorf("read record of dependency %q: %w", dep, err))
			v.add(ReasonDependencyChanged)
			continue
		}
		if ok && rec.Complete {
			v.depStamps[dep] = rec.Stamp
		}
	}

	prev, ok, err := tr.store.Get(ctx, t.ID)
	switch {
	case err != nil:
		v.Warnings = append(v.Warnings, fmt.Errorf("read record of %q: %w", t.ID, err))
		v.add(ReasonNoRecord)
	case !ok:
		v.add(ReasonNoRecord)
	default:
		v.Previous = prev
		tr.compare(prev, v)
	}

	if v.Rebuild {
		logger.Debug("Target is stale.", "target", t.ID, "reasons", v.Reasons)
	}
	return v
}

func (tr *Tracker) computeMarkers(t *target.Target, v *Verdict) {
	sources, err := t.Sources()
	if err != nil {
		v.Warnings = append(v.Warnings, &SourceError{Target: t.ID, Err: err})
		v.add(ReasonSourceUnreadable)
		return
	}
	for _, src := range sources {
		m, err := Marker(src)
		if err != nil {
			v.Warnings = append(v.Warnings, &SourceError{Target: t.ID, Path: src, Err: err})
			v.add(ReasonSourceUnreadable)
			continue
		}
		v.markers[src] = m
	}
}

func (tr *Tracker) compare(prev *recordstore.Record, v *Verdict) {
	if !prev.Complete {
		v.add(ReasonIncomplete)
	}

	if !slices.Equal(slices.Sorted(maps.Keys(prev.Markers)), slices.Sorted(maps.Keys(v.markers))) {
		v.add(ReasonSourceSetChanged)
	}
	for path, m := range v.markers {
		if old, ok := prev.Markers[path]; ok && old != m {
			v.add(ReasonSourceChanged)
			break
		}
	}

	if !maps.Equal(prev.DepStamps, v.depStamps) {
		v.add(ReasonDependencyChanged)
	}

	if prev.Output != "" {
		if _, err := os.Stat(prev.Output); err != nil {
			v.add(ReasonOutputMissing)
		}
	}
}

// MarkIncomplete flags t's record as in progress. A build that never reaches
// Commit leaves the record incomplete, so the next check rebuilds it.
func (tr *Tracker) MarkIncomplete(ctx context.Context, t *target.Target) error {
	rec, ok, err := tr.store.Get(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("mark %q incomplete: %w", t.ID, err)
	}
	if !ok {
		rec = &recordstore.Record{TargetID: t.ID}
	}
	rec.Complete = false
	rec.Stamp = ""
	if err := tr.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("mark %q incomplete: %w", t.ID, err)
	}
	return nil
}

// Commit records a successful build of t using the markers observed in v,
// i.e. before the toolchain ran. Edits made during the build are therefore
// picked up by the next check.
func (tr *Tracker) Commit(ctx context.Context, t *target.Target, v *Verdict, artifacts []string, output string) (*recordstore.Record, error) {
	rec := &recordstore.Record{
		TargetID:  t.ID,
		Markers:   maps.Clone(v.markers),
		DepStamps: maps.Clone(v.depStamps),
		Artifacts: slices.Clone(artifacts),
		Output:    output,
		Complete:  true,
		Stamp:     Stamp(v.markers, v.depStamps),
		BuiltAt:   tr.now(),
	}
	if err := tr.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("commit %q: %w", t.ID, err)
	}
	return rec, nil
}

// Record returns the stored record for id.
func (tr *Tracker) Record(ctx context.Context, id string) (*recordstore.Record, bool, error) {
	return tr.store.Get(ctx, id)
}

// Prune deletes every record whose target keep rejects and returns the
// deleted records, so the caller can remove the files they list.
func (tr *Tracker) Prune(ctx context.Context, keep func(id string) bool) ([]*recordstore.Record, error) {
	ids, err := tr.store.IDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	var pruned []*recordstore.Record
	for _, id := range ids {
		if keep(id) {
			continue
		}
		rec, err := tr.Forget(ctx, id)
		if err != nil {
			return pruned, err
		}
		if rec != nil {
			pruned = append(pruned, rec)
		}
	}
	if len(pruned) > 0 {
		ctxlog.FromContext(ctx).Debug("Pruned orphaned records.", "count", len(pruned))
	}
	return pruned, nil
}

// Forget deletes the record for id and returns it, so the caller can remove
// the files it lists. A missing record yields (nil, nil).
func (tr *Tracker) Forget(ctx context.Context, id string) (*recordstore.Record, error) {
	rec, ok, err := tr.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("forget %q: %w", id, err)
	}
	if err := tr.store.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("forget %q: %w", id, err)
	}
	if !ok {
		return nil, nil
	}
	return rec, nil
}
