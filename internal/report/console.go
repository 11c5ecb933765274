package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"
)

// Console prints one colored line per significant event.
type Console struct {
	mu sync.Mutex
	w  io.Writer
	// Verbose also prints per-source and per-layer lines.
	Verbose bool
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Report prints ev.
func (c *Console) Report(_ context.Context, ev Event) {
	line := c.render(ev)
	if line == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, line)
}

func (c *Console) render(ev Event) string {
	switch e := ev.(type) {
	case LayerStarted:
		if c.Verbose {
			return color.Note.Sprintf("layer %d: %s", e.Index, strings.Join(e.Targets, ", "))
		}
	case TargetStale:
		return color.Info.Sprintf("%-20s building (%s)", e.Target, strings.Join(e.Reasons, ", "))
	case TargetReused:
		return color.Secondary.Sprintf("%-20s up to date", e.Target)
	case SourceCompiled:
		if c.Verbose {
			return fmt.Sprintf("%-20s compiled %s", e.Target, e.Source)
		}
	case TargetBuilt:
		return color.Success.Sprintf("%-20s built %s", e.Target, e.Output)
	case TargetFailed:
		return color.Danger.Sprintf("%-20s failed: %v", e.Target, e.Reason)
	case TargetSkipped:
		if e.BlockedBy != "" {
			return color.Warn.Sprintf("%-20s skipped, blocked by %s", e.Target, e.BlockedBy)
		}
		return color.Warn.Sprintf("%-20s skipped: %v", e.Target, e.Reason)
	case Warning:
		return color.Warn.Sprintf("warning: %s: %v", e.Target, e.Err)
	case RunFinished:
		theme := color.Success
		if e.Failed > 0 || e.Skipped > 0 {
			theme = color.Danger
		}
		return theme.Sprintf("%d built, %d up to date, %d failed, %d skipped in %s",
			e.Built, e.Reused, e.Failed, e.Skipped, e.Duration.Round(time.Millisecond))
	}
	return ""
}
