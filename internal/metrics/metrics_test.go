package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveSuccess(3, 2, 1)
	m.ObserveFailure("NOT_MLS_REPORT")

	count, err := testutil.GatherAndCount(reg, "mlsreport_reports_processed_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "mlsreport_listings_extracted_total", "mlsreport_validation_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNew_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestObserveSuccess(t *testing.T) {
	m := Discard()

	m.ObserveSuccess(4, 1, 2)
	m.ObserveSuccess(1, 0, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReportsProcessed.WithLabelValues(OutcomeSuccess, "")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.ListingsExtracted.WithLabelValues(StatusActive)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ListingsExtracted.WithLabelValues(StatusClosed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationErrors))
}

func TestObserveFailure(t *testing.T) {
	m := Discard()

	m.ObserveFailure("EMPTY_PDF")
	m.ObserveFailure("EMPTY_PDF")
	m.ObserveFailure("UNKNOWN_ERROR")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReportsProcessed.WithLabelValues(OutcomeFailure, "EMPTY_PDF")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportsProcessed.WithLabelValues(OutcomeFailure, "UNKNOWN_ERROR")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ReportsProcessed))
}
