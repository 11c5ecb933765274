// Package metrics exposes build events as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/specialistvlad/sosbs/internal/report"
)

const namespace = "sosbs"

// Metrics holds the build collectors and the registry they live in.
type Metrics struct {
	Registry *prometheus.Registry

	// targetsTotal counts finished targets.
	// Labels: outcome (built, reused, failed, skipped)
	targetsTotal *prometheus.CounterVec
	// compileDuration measures single-source compile time.
	compileDuration prometheus.Histogram
	// linkDuration measures link time.
	linkDuration prometheus.Histogram
	// targetDuration measures the time spent rebuilding one target.
	targetDuration prometheus.Histogram
	// warningsTotal counts non-fatal problems such as unreadable sources.
	warningsTotal prometheus.Counter
	// runsTotal counts finished runs.
	// Labels: status (success, failure)
	runsTotal *prometheus.CounterVec
	// lastRunDuration is the wall time of the most recent run.
	lastRunDuration prometheus.Gauge
}

// New registers the build collectors in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		targetsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "targets_total",
			Help:      "Targets finished, by outcome",
		}, []string{"outcome"}),
		compileDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "compile_duration_seconds",
			Help:      "Time to compile a single source",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		linkDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "link_duration_seconds",
			Help:      "Time to link a target",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		targetDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "target_duration_seconds",
			Help:      "Time to rebuild a target",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		warningsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "warnings_total",
			Help:      "Non-fatal build warnings",
		}),
		runsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "runs_total",
			Help:      "Build runs, by status",
		}, []string{"status"}),
		lastRunDuration: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the most recent build run",
		}),
	}
}

// Report implements report.Reporter.
func (m *Metrics) Report(_ context.Context, ev report.Event) {
	switch e := ev.(type) {
	case report.SourceCompiled:
		m.compileDuration.Observe(e.Duration.Seconds())
	case report.TargetLinked:
		m.linkDuration.Observe(e.Duration.Seconds())
	case report.TargetBuilt:
		m.targetsTotal.WithLabelValues("built").Inc()
		m.targetDuration.Observe(e.Duration.Seconds())
	case report.TargetReused:
		m.targetsTotal.WithLabelValues("reused").Inc()
	case report.TargetFailed:
		m.targetsTotal.WithLabelValues("failed").Inc()
	case report.TargetSkipped:
		m.targetsTotal.WithLabelValues("skipped").Inc()
	case report.Warning:
		m.warningsTotal.Inc()
	case report.RunFinished:
		status := "success"
		if e.Failed > 0 || e.Skipped > 0 {
			status = "failure"
		}
		m.runsTotal.WithLabelValues(status).Inc()
		m.lastRunDuration.Set(e.Duration.Seconds())
	}
}
