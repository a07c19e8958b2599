package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestProcessingMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newProcessingMetrics(reg)

	m.IncIntake("anaf", IntakeResultCreated)
	m.IncIntake("anaf", IntakeResultCreated)
	m.IncIntake("anaf", IntakeResultDuplicate)
	m.IncResult("anaf", OutcomeFailed)
	m.IncRetryEnqueued("anaf")
	m.IncRetryExhausted("anaf")
	m.IncDocumentStored()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.intake.WithLabelValues("anaf", IntakeResultCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.intake.WithLabelValues("anaf", IntakeResultDuplicate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.results.WithLabelValues("anaf", OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.retriesEnqueued.WithLabelValues("anaf")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.retriesExhausted.WithLabelValues("anaf")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentsStored))
}

func TestProcessingNilSafe(t *testing.T) {
	var m *ProcessingMetrics
	assert.NotPanics(t, func() {
		m.IncIntake("anaf", IntakeResultCreated)
		m.IncResult("anaf", OutcomeCompleted)
		m.IncRetryEnqueued("anaf")
		m.IncRetryExhausted("anaf")
		m.IncDocumentStored()
	})
}
