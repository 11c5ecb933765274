package report

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/specialistvlad/sosbs/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulti_FansOutInOrder(t *testing.T) {
	var got []string
	a := Func(func(context.Context, Event) { got = append(got, "a") })
	b := Func(func(context.Context, Event) { got = append(got, "b") })

	Multi(a, nil, b).Report(context.Background(), TargetReused{Target: "libc"})

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Report(context.Background(), TargetReused{Target: "libc"})
	r.Report(context.Background(), TargetBuilt{Target: "app"})

	events := r.Events()
	require.Len(t, events, 2)
	assert.Equal(t, TargetReused{Target: "libc"}, events[0])
}

func TestConsole(t *testing.T) {
	cases := []struct {
		name string
		ev   Event
		want string
	}{
		{"built", TargetBuilt{Target: "libc", Output: "build/libc/liblibc.a"}, "built build/libc/liblibc.a"},
		{"reused", TargetReused{Target: "kernel"}, "up to date"},
		{"failed", TargetFailed{Target: "app", Reason: errors.New("cc exited 1")}, "failed: cc exited 1"},
		{"blocked", TargetSkipped{Target: "app", BlockedBy: "libc"}, "blocked by libc"},
		{"stale", TargetStale{Target: "libc", Reasons: []string{"source changed"}}, "building (source changed)"},
		{"summary", RunFinished{Built: 2, Reused: 1, Duration: time.Second}, "2 built, 1 up to date, 0 failed, 0 skipped"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewConsole(&buf).Report(context.Background(), tc.ev)
			assert.Contains(t, buf.String(), tc.want)
		})
	}
}

func TestConsole_QuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Report(context.Background(), SourceCompiled{Target: "libc", Source: "a.c"})
	assert.Empty(t, buf.String())

	c.Verbose = true
	c.Report(context.Background(), SourceCompiled{Target: "libc", Source: "a.c"})
	assert.Contains(t, buf.String(), "compiled a.c")
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	Log{}.Report(ctx, TargetFailed{Target: "app", Reason: errors.New("boom")})

	assert.Contains(t, buf.String(), "Target failed.")
	assert.Contains(t, buf.String(), "target=app")
	assert.Contains(t, buf.String(), "error=boom")
}
