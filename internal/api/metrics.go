package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the calculation API.
type Metrics struct {
	Registry *prometheus.Registry

	// Calculations by outcome: ok, bad_request, error
	Calculations *prometheus.CounterVec

	// Validation findings by severity and code
	ValidationIssues *prometheus.CounterVec

	// Recommendations emitted by code
	Recommendations *prometheus.CounterVec

	CalculateLatency prometheus.Histogram
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		Calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taxcalc_calculations_total",
			Help: "Total calculation requests by outcome",
		}, []string{"outcome"}),

		ValidationIssues: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taxcalc_validation_issues_total",
			Help: "Validation findings by severity and code",
		}, []string{"severity", "code"}),

		Recommendations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taxcalc_recommendations_total",
			Help: "Recommendations emitted by code",
		}, []string{"code"}),

		CalculateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "taxcalc_calculate_duration_seconds",
			Help:    "Duration of a full tax calculation",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
}

// IncrementOutcome records a calculation outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.Calculations.WithLabelValues(outcome).Inc()
	}
}

// IncrementIssue records a validation finding.
func (m *Metrics) IncrementIssue(severity, code string) {
	if m != nil {
		m.ValidationIssues.WithLabelValues(severity, code).Inc()
	}
}

// IncrementRecommendation records an emitted recommendation.
func (m *Metrics) IncrementRecommendation(code string) {
	if m != nil {
		m.Recommendations.WithLabelValues(code).Inc()
	}
}

// ObserveCalculateLatency records the duration of one calculation.
func (m *Metrics) ObserveCalculateLatency(d time.Duration) {
	if m != nil {
		m.CalculateLatency.Observe(d.Seconds())
	}
}
