package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "lexis"

// NL translation outcomes.
const (
	translationRules       = "rules"
	translationInterpreter = "interpreter"
	translationFailed      = "failed"
)

// Metrics holds the Prometheus collectors for the HTTP API. Each Server
// registers its own set on its own registry.
type Metrics struct {
	// RequestsTotal counts requests by method, route template and status.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration measures handler latency by method and route template.
	RequestDuration *prometheus.HistogramVec

	// StringsCreated counts strings stored for the first time.
	StringsCreated prometheus.Counter

	// StringsConflicts counts create requests for strings already stored.
	StringsConflicts prometheus.Counter

	// NLTranslations counts natural-language queries by outcome:
	// rules, interpreter or failed.
	NLTranslations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by method and route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		StringsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "strings",
				Name:      "created_total",
				Help:      "Total number of strings stored",
			},
		),
		StringsConflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "strings",
				Name:      "conflicts_total",
				Help:      "Total number of create requests for strings already stored",
			},
		),
		NLTranslations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "nl_translations_total",
				Help:      "Natural-language queries by translation outcome",
			},
			[]string{"result"},
		),
	}
}
