// Package metrics exposes prometheus instruments for the submission pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	IntakeResultCreated   = "created"
	IntakeResultDuplicate = "duplicate"

	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// ProcessingMetrics captures submission orchestration health signals.
type ProcessingMetrics struct {
	intake           *prometheus.CounterVec
	results          *prometheus.CounterVec
	retriesEnqueued  *prometheus.CounterVec
	retriesExhausted *prometheus.CounterVec
	documentsStored  prometheus.Counter
}

var (
	processingOnce sync.Once
	processing     *ProcessingMetrics
)

// Processing returns the process-wide metrics instance, registering it on first use.
func Processing() *ProcessingMetrics {
	processingOnce.Do(func() {
		processing = newProcessingMetrics(prometheus.DefaultRegisterer)
	})
	return processing
}

func newProcessingMetrics(reg prometheus.Registerer) *ProcessingMetrics {
	m := &ProcessingMetrics{
		intake: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscalgate_intake_total",
			Help: "Intake calls partitioned by provider and result.",
		}, []string{"provider", "result"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscalgate_submission_results_total",
			Help: "Provider submission results applied to records.",
		}, []string{"provider", "outcome"}),
		retriesEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscalgate_retries_enqueued_total",
			Help: "Retry queue entries created or rescheduled.",
		}, []string{"provider"}),
		retriesExhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscalgate_retries_exhausted_total",
			Help: "Records that ran out of retry budget.",
		}, []string{"provider"}),
		documentsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fiscalgate_documents_stored_total",
			Help: "Documents persisted to the archive.",
		}),
	}
	reg.MustRegister(m.intake, m.results, m.retriesEnqueued, m.retriesExhausted, m.documentsStored)
	return m
}

func (m *ProcessingMetrics) IncIntake(provider, result string) {
	if m == nil {
		return
	}
	m.intake.WithLabelValues(provider, result).Inc()
}

func (m *ProcessingMetrics) IncResult(provider, outcome string) {
	if m == nil {
		return
	}
	m.results.WithLabelValues(provider, outcome).Inc()
}

func (m *ProcessingMetrics) IncRetryEnqueued(provider string) {
	if m == nil {
		return
	}
	m.retriesEnqueued.WithLabelValues(provider).Inc()
}

func (m *ProcessingMetrics) IncRetryExhausted(provider string) {
	if m == nil {
		return
	}
	m.retriesExhausted.WithLabelValues(provider).Inc()
}

func (m *ProcessingMetrics) IncDocumentStored() {
	if m == nil {
		return
	}
	m.documentsStored.Inc()
}
