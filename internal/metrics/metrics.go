// Package metrics records run statistics in the Prometheus text format, for
// node_exporter's textfile collector or CI artifact upload.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/harrison/pathcomment/internal/processor"
)

// Recorder holds the metrics of one run on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	// files counts processed files by outcome and mode
	files *prometheus.CounterVec
	// errors counts failed files by error kind
	errors *prometheus.CounterVec
	// duration tracks wall time of whole runs
	duration prometheus.Histogram
	// workers is the pool size of the last run
	workers prometheus.Gauge
	// lastRun is the unix time the last run finished
	lastRun prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		files: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "path_comment_files_total",
			Help: "Files processed by outcome and mode",
		}, []string{"outcome", "mode"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "path_comment_errors_total",
			Help: "Files that failed by error kind",
		}, []string{"kind"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "path_comment_run_duration_seconds",
			Help:    "Run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}),
		workers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "path_comment_workers",
			Help: "Worker pool size of the last run",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "path_comment_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveResults counts every result of a run.
func (r *Recorder) ObserveResults(results []processor.Result, mode processor.Mode, kindOf func(error) string) {
	for _, res := range results {
		if res.Failed() {
			kind := "unknown"
			if kindOf != nil {
				kind = kindOf(res.Err)
			}
			r.errors.WithLabelValues(kind).Inc()
			r.files.WithLabelValues("error", mode.String()).Inc()
			continue
		}
		r.files.WithLabelValues(res.Outcome.String(), mode.String()).Inc()
	}
}

// ObserveRun records the duration and pool size of a finished run.
func (r *Recorder) ObserveRun(elapsed time.Duration, workers int) {
	r.duration.Observe(elapsed.Seconds())
	r.workers.Set(float64(workers))
	r.lastRun.SetToCurrentTime()
}

// WriteTextfile atomically writes all metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
