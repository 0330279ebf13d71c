package poll

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes Prometheus collectors describing poll activity. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	cycles        prometheus.Counter
	cycleDuration prometheus.Histogram
	filesParsed   prometheus.Counter
	changes       prometheus.Counter
	files         prometheus.Gauge
	tasks         prometheus.Gauge
	cycleErrors   prometheus.Gauge
}

// MustNewMetrics registers the poll collectors with reg, panicking on
// registration conflicts. Tests should pass a fresh prometheus.NewRegistry().
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		cycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "taskwatch",
			Subsystem: "poll",
			Name:      "cycles_total",
			Help:      "Number of completed poll cycles.",
		}),
		cycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "taskwatch",
			Subsystem: "poll",
			Name:      "cycle_duration_seconds",
			Help:      "Wall time spent in a single poll cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
		filesParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "taskwatch",
			Subsystem: "poll",
			Name:      "files_parsed_total",
			Help:      "Number of task files read and parsed because their modification time changed.",
		}),
		changes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "taskwatch",
			Subsystem: "poll",
			Name:      "status_changes_total",
			Help:      "Number of task status transitions detected between cycles.",
		}),
		files: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "taskwatch",
			Subsystem: "poll",
			Name:      "files",
			Help:      "Task files known after the last cycle.",
		}),
		tasks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "taskwatch",
			Subsystem: "poll",
			Name:      "tasks",
			Help:      "Tasks known after the last cycle.",
		}),
		cycleErrors: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "taskwatch",
			Subsystem: "poll",
			Name:      "cycle_errors",
			Help:      "Warnings and errors recorded by the last cycle.",
		}),
	}
}

// observeCycle records the outcome of one committed cycle.
func (m *Metrics) observeCycle(r Result) {
	if m == nil {
		return
	}
	m.cycles.Inc()
	m.cycleDuration.Observe(r.Duration.Seconds())
	m.filesParsed.Add(float64(r.Parsed))
	m.changes.Add(float64(r.Changes))
	m.files.Set(float64(r.Files))
	m.tasks.Set(float64(r.Tasks))
	m.cycleErrors.Set(float64(r.Errors))
}

// reset zeroes the snapshot gauges after the engine discards its state.
func (m *Metrics) reset() {
	if m == nil {
		return
	}
	m.files.Set(0)
	m.tasks.Set(0)
	m.cycleErrors.Set(0)
}
