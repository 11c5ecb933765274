package report

import "time"

// Event is a build event. The set of events is closed.
type Event interface {
	event()
}

// RunStarted opens a build run.
type RunStarted struct {
	Targets []string
	Layers  int
}

// LayerStarted is emitted before the targets of a layer are scheduled.
type LayerStarted struct {
	Index   int
	Targets []string
}

// TargetStale is emitted when a target is about to be rebuilt.
type TargetStale struct {
	Target  string
	Reasons []string
}

// TargetReused is emitted when a target's previous outputs are kept.
type TargetReused struct {
	Target string
}

// SourceCompiled is emitted after one source compiled.
type SourceCompiled struct {
	Target   string
	Source   string
	Artifact string
	Duration time.Duration
}

// TargetLinked is emitted after a target's output was linked.
type TargetLinked struct {
	Target   string
	Output   string
	Duration time.Duration
}

// TargetBuilt is emitted when a rebuilt target reached Built.
type TargetBuilt struct {
	Target   string
	Output   string
	Duration time.Duration
}

// TargetFailed is emitted when a target failed to compile or link.
type TargetFailed struct {
	Target   string
	Reason   error
	Duration time.Duration
}

// TargetSkipped is emitted for a target that was never attempted. BlockedBy
// names the failed target it transitively depends on; it is empty when the
// target was canceled by stop-on-first-error.
type TargetSkipped struct {
	Target    string
	BlockedBy string
	Reason    error
}

// Warning is a non-fatal problem, e.g. an unreadable source.
type Warning struct {
	Target string
	Err    error
}

// RunFinished closes a build run.
type RunFinished struct {
	Built, Reused, Failed, Skipped int
	Duration                       time.Duration
}

func (RunStarted) event()     {}
func (LayerStarted) event()   {}
func (TargetStale) event()    {}
func (TargetReused) event()   {}
func (SourceCompiled) event() {}
func (TargetLinked) event()   {}
func (TargetBuilt) event()    {}
func (TargetFailed) event()   {}
func (TargetSkipped) event()  {}
func (Warning) event()        {}
func (RunFinished) event()    {}
