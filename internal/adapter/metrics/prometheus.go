package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "packdemo"

// Recorder exports packdemo counters on its own registry.
type Recorder struct {
	registry     *prometheus.Registry
	recordsShown *prometheus.CounterVec
	steps        *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	releases     *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		recordsShown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_shown_total",
			Help:      "Records written to the output, by kind.",
		}, []string{"kind"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "release_steps_total",
			Help:      "Release plugin hook executions.",
		}, []string{"plugin", "phase", "result"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "release_step_duration_seconds",
			Help:      "Release plugin hook latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"plugin", "phase"}),
		releases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "release_runs_total",
			Help:      "Finished release runs, by status.",
		}, []string{"status"}),
	}
	r.registry.MustRegister(r.recordsShown, r.steps, r.stepDuration, r.releases)
	return r
}

func (r *Recorder) RecordShown(kind string) {
	r.recordsShown.WithLabelValues(kind).Inc()
}

func (r *Recorder) StepFinished(plugin, phase string, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.steps.WithLabelValues(plugin, phase, result).Inc()
	r.stepDuration.WithLabelValues(plugin, phase).Observe(elapsed.Seconds())
}

func (r *Recorder) ReleaseFinished(status string) {
	r.releases.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
