// Package report carries structured build events from the orchestrator to
// whichever front end renders them.
//
// The core never prints. It emits Event values to a Reporter; this package
// ships reporters that log through slog, print colored console lines, or fan
// out to several others. Metrics live in internal/metrics.
//
// Reporters are called concurrently from build workers and must be safe for
// concurrent use.
package report
