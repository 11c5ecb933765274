package report

import (
	"context"
	"sync"
)

// Reporter receives build events.
type Reporter interface {
	Report(ctx context.Context, ev Event)
}

// Func adapts a function to the Reporter interface.
type Func func(ctx context.Context, ev Event)

// Report calls f.
func (f Func) Report(ctx context.Context, ev Event) { f(ctx, ev) }

// Discard drops every event.
var Discard Reporter = Func(func(context.Context, Event) {})

type multi []Reporter

func (m multi) Report(ctx context.Context, ev Event) {
	for _, r := range m {
		r.Report(ctx, ev)
	}
}

// Multi fans events out to every non-nil reporter in order.
func Multi(rs ...Reporter) Reporter {
	var out multi
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Recorder keeps every event in memory. Handy in tests and for summaries.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Report appends ev.
func (r *Recorder) Report(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
