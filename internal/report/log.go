package report

import (
	"context"

	"github.com/specialistvlad/sosbs/internal/ctxlog"
)

// Log writes events to the logger carried by the context.
type Log struct{}

// Report logs ev.
func (Log) Report(ctx context.Context, ev Event) {
	logger := ctxlog.FromContext(ctx)
	switch e := ev.(type) {
	case RunStarted:
		logger.Info("🚀 Build started.", "targets", len(e.Targets), "layers", e.Layers)
	case LayerStarted:
		logger.Debug("Starting layer.", "layer", e.Index, "targets", e.Targets)
	case TargetStale:
		logger.Info("Target is stale.", "target", e.Target, "reasons", e.Reasons)
	case TargetReused:
		logger.Info("Target is up to date.", "target", e.Target)
	case SourceCompiled:
		logger.Debug("Source compiled.", "target", e.Target, "source", e.Source, "duration", e.Duration)
	case TargetLinked:
		logger.Debug("Target linked.", "target", e.Target, "output", e.Output, "duration", e.Duration)
	case TargetBuilt:
		logger.Info("Target built.", "target", e.Target, "output", e.Output, "duration", e.Duration)
	case TargetFailed:
		logger.Error("Target failed.", "target", e.Target, "error", e.Reason)
	case TargetSkipped:
		logger.Warn("Target skipped.", "target", e.Target, "blocked_by", e.BlockedBy, "error", e.Reason)
	case Warning:
		logger.Warn("Build warning.", "target", e.Target, "error", e.Err)
	case RunFinished:
		logger.Info("🏁 Build finished.",
			"built", e.Built, "reused", e.Reused, "failed", e.Failed, "skipped", e.Skipped, "duration", e.Duration)
	}
}
