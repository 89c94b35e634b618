package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/mlsreport/internal/models"
)

func TestCompare(t *testing.T) {
	a := models.PricePoint{Date: "2024-01", Price: 500000, Volume: 100}
	b := models.PricePoint{Date: "2024-07", Price: 530000, Volume: 120}

	c, err := Compare(a, b)
	require.NoError(t, err)

	assert.Equal(t, 30000.0, c.PriceDiff)
	assert.InDelta(t, 6.0, c.PriceChange, 1e-9)
	assert.InDelta(t, 20.0, c.VolumeChange, 1e-9)
	assert.Equal(t, 6, c.MonthsDiff)
	assert.InDelta(t, 12.36, c.AnnualizedReturn, 1e-9)
}

func TestCompare_OrdersByDate(t *testing.T) {
	a := models.PricePoint{Date: "2024-01", Price: 500000, Volume: 100}
	b := models.PricePoint{Date: "2024-07", Price: 530000, Volume: 120}

	forward, err := Compare(a, b)
	require.NoError(t, err)
	backward, err := Compare(b, a)
	require.NoError(t, err)

	assert.Equal(t, forward, backward)
	assert.Equal(t, "2024-01", backward.From.Date)
}

func TestCompare_SameMonthClampsSpan(t *testing.T) {
	a := models.PricePoint{Date: "2024-03", Price: 400000, Volume: 10}
	b := models.PricePoint{Date: "2024-03", Price: 404000, Volume: 10}

	c, err := Compare(a, b)
	require.NoError(t, err)

	assert.Equal(t, 1, c.MonthsDiff)
	assert.InDelta(t, (1.01*1.01*1.01*1.01*1.01*1.01*1.01*1.01*1.01*1.01*1.01*1.01-1)*100, c.AnnualizedReturn, 1e-6)
}

func TestCompare_ZeroBaseline(t *testing.T) {
	a := models.PricePoint{Date: "2023-01", Price: 0, Volume: 0}
	b := models.PricePoint{Date: "2024-01", Price: 100000, Volume: 50}

	c, err := Compare(a, b)
	require.NoError(t, err)

	assert.Equal(t, 0.0, c.PriceChange)
	assert.Equal(t, 0.0, c.VolumeChange)
	assert.Equal(t, 0.0, c.AnnualizedReturn)
	assert.Equal(t, 12, c.MonthsDiff)
}

func TestCompare_InvalidDate(t *testing.T) {
	_, err := Compare(
		models.PricePoint{Date: "2024-01", Price: 1},
		models.PricePoint{Date: "July 2024", Price: 1},
	)
	assert.Error(t, err)
}
