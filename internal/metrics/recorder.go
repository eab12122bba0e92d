// Package metrics records conversation and collaborator metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives per-turn events from the dialogue engine and resolver.
type Recorder interface {
	// ObserveTurn counts one handled turn by mode and outcome (e.g. "greeting", "rejected").
	ObserveTurn(mode, outcome string)
	// ObserveResolution records which strategy answered a support question.
	ObserveResolution(source string, duration time.Duration)
	// ObserveStrategyFailure counts a collaborator failure inside the resolver chain.
	ObserveStrategyFailure(strategy, kind string)
	// ObserveHandoff records one lead hand-off attempt per collaborator.
	ObserveHandoff(collaborator string, ok bool)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) ObserveTurn(string, string) {}
func (Nop) ObserveResolution(string, time.Duration) {}
func (Nop) ObserveStrategyFailure(string, string) {}
func (Nop) ObserveHandoff(string, bool) {}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	turnsTotal         *prometheus.CounterVec
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	strategyFailures   *prometheus.CounterVec
	handoffsTotal      *prometheus.CounterVec
}

// NewPrometheusRecorder registers the collectors on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		turnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_turns_total",
				Help: "Total number of chat turns by session mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		resolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_resolutions_total",
				Help: "Support answers by the strategy that produced them",
			},
			[]string{"source"},
		),
		resolutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chat_resolution_duration_seconds",
				Help:    "Time spent resolving a support answer",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		strategyFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_strategy_failures_total",
				Help: "Collaborator failures inside the answer chain",
			},
			[]string{"strategy", "kind"},
		),
		handoffsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_lead_handoffs_total",
				Help: "Completed lead hand-offs by collaborator and status",
			},
			[]string{"collaborator", "status"},
		),
	}
}

func (p *PrometheusRecorder) ObserveTurn(mode, outcome string) {
	p.turnsTotal.WithLabelValues(mode, outcome).Inc()
}

func (p *PrometheusRecorder) ObserveResolution(source string, duration time.Duration) {
	p.resolutionsTotal.WithLabelValues(source).Inc()
	p.resolutionDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (p *PrometheusRecorder) ObserveStrategyFailure(strategy, kind string) {
	p.strategyFailures.WithLabelValues(strategy, kind).Inc()
}

func (p *PrometheusRecorder) ObserveHandoff(collaborator string, ok bool) {
	status := "success"
	if !ok {
		status = "error"
	}
	p.handoffsTotal.WithLabelValues(collaborator, status).Inc()
}

var (
	_ Recorder = Nop{}
	_ Recorder = (*PrometheusRecorder)(nil)
)
