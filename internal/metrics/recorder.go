// Package metrics instruments the discovery loop with Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the loop's Prometheus collectors. A nil *Recorder is valid
// and records nothing, so instrumentation stays optional.
type Recorder struct {
	registry *prometheus.Registry

	cyclesTotal         prometheus.Counter
	observationsTotal   prometheus.Counter
	modelsTotal         *prometheus.CounterVec
	conditionsRequested prometheus.Counter
	conditionsDelivered prometheus.Counter
	stageFailures       *prometheus.CounterVec
	stageDuration       *prometheus.HistogramVec
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		cyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "discovery_cycles_total",
			Help: "Number of completed discovery cycles.",
		}),
		observationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "discovery_observations_total",
			Help: "Number of observation rows appended to the state.",
		}),
		modelsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "discovery_models_fitted_total",
			Help: "Number of models fitted, by family.",
		}, []string{"family"}),
		conditionsRequested: factory.NewCounter(prometheus.CounterOpts{
			Name: "discovery_conditions_requested_total",
			Help: "Number of conditions requested from samplers.",
		}),
		conditionsDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "discovery_conditions_delivered_total",
			Help: "Number of conditions actually delivered by samplers.",
		}),
		stageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "discovery_stage_failures_total",
			Help: "Number of stage failures, by stage.",
		}, []string{"stage"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "discovery_stage_duration_seconds",
			Help:    "Wall-clock duration of each stage invocation.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
	}
}

// Handler returns an HTTP handler exposing the recorder's registry
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// CycleCompleted counts one finished cycle
func (r *Recorder) CycleCompleted() {
	if r == nil {
		return
	}
	r.cyclesTotal.Inc()
}

// ObservationsAppended counts appended observation rows
func (r *Recorder) ObservationsAppended(n int) {
	if r == nil {
		return
	}
	r.observationsTotal.Add(float64(n))
}

// ModelFitted counts one fitted model for a family
func (r *Recorder) ModelFitted(family string) {
	if r == nil {
		return
	}
	r.modelsTotal.WithLabelValues(family).Inc()
}

// ConditionsSampled records requested versus delivered condition counts
func (r *Recorder) ConditionsSampled(requested, delivered int) {
	if r == nil {
		return
	}
	r.conditionsRequested.Add(float64(requested))
	r.conditionsDelivered.Add(float64(delivered))
}

// StageFailed counts a stage failure
func (r *Recorder) StageFailed(stage string) {
	if r == nil {
		return
	}
	r.stageFailures.WithLabelValues(stage).Inc()
}

// StageObserved records a stage invocation's duration
func (r *Recorder) StageObserved(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
