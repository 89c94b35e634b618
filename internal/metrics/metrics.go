// Package metrics holds the Prometheus collectors the extraction pipeline
// records into. Collectors are registered on an injected registry so tests
// and embedding applications can keep them isolated.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mlsreport"

// Outcome label values for ReportsProcessed.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Status label values for ListingsExtracted.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// PipelineMetrics groups the pipeline collectors.
type PipelineMetrics struct {
	ReportsProcessed   *prometheus.CounterVec
	ListingsExtracted  *prometheus.CounterVec
	ExtractionAttempts prometheus.Histogram
	ValidationErrors   prometheus.Counter
	ProcessingDuration prometheus.Histogram
}

// New creates the pipeline collectors and registers them on reg. A nil reg
// leaves them unregistered, which is what library callers that do not
// export metrics want.
func New(reg prometheus.Registerer) (*PipelineMetrics, error) {
	m := &PipelineMetrics{
		ReportsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_processed_total",
			Help:      "Reports processed by the pipeline, by outcome and error code.",
		}, []string{"outcome", "code"}),
		ListingsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_extracted_total",
			Help:      "Listings extracted from report text, by status.",
		}, []string{"status"}),
		ExtractionAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_attempts",
			Help:      "Extraction attempts needed per report.",
			Buckets:   []float64{1, 2, 3, 5, 10},
		}),
		ValidationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Validation errors reported on processed reports.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "processing_duration_seconds",
			Help:      "Time spent processing one report.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{
		m.ReportsProcessed,
		m.ListingsExtracted,
		m.ExtractionAttempts,
		m.ValidationErrors,
		m.ProcessingDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register pipeline metrics: %w", err)
		}
	}
	return m, nil
}

// Discard returns unregistered collectors.
func Discard() *PipelineMetrics {
	m, _ := New(nil)
	return m
}

// ObserveSuccess records a successful report and its listing counts.
func (m *PipelineMetrics) ObserveSuccess(active, closed, validationErrors int) {
	m.ReportsProcessed.WithLabelValues(OutcomeSuccess, "").Inc()
	m.ListingsExtracted.WithLabelValues(StatusActive).Add(float64(active))
	m.ListingsExtracted.WithLabelValues(StatusClosed).Add(float64(closed))
	m.ValidationErrors.Add(float64(validationErrors))
}

// ObserveFailure records a failed report under its error code.
func (m *PipelineMetrics) ObserveFailure(code string) {
	m.ReportsProcessed.WithLabelValues(OutcomeFailure, code).Inc()
}
