// Package orchestrator runs a resolved build plan.
//
// # State machine
//
// Every target starts Pending. A stale target moves through Compiling and
// Linking to Built; a fresh one goes straight to Reused. A compile or link
// error moves it to Failed. Targets that depend, directly or transitively, on
// a Failed target are never attempted and end Skipped, naming the failed
// target that blocked them.
//
// # Scheduling
//
// Layers run strictly one after another. Inside a layer, targets are built by
// a bounded pool (errgroup with SetLimit) and the layer ends with a barrier.
// Sources of a single target compile sequentially and the first failure stops
// that target; sibling targets are unaffected.
//
// With StopOnError, the first failure cancels work that has not started yet,
// in the current and later layers. Targets already running are allowed to
// finish: toolchain calls receive the caller's context, not the run's
// cancelable one.
package orchestrator
