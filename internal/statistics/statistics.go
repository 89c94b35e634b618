// Package statistics derives aggregate market figures from listing buckets.
// Every function here is pure and guards its divisors, so no input can
// produce a panic, NaN or Inf.
package statistics

import (
	"math"
	"sort"

	"github.com/stwalsh4118/mlsreport/internal/config"
	"github.com/stwalsh4118/mlsreport/internal/models"
)

// closedSampleMonths is the number of months the closed-listing sample is
// assumed to cover when computing months of supply.
const closedSampleMonths = 3.0

// Synthesizer computes Statistics using configured heuristic shares.
type Synthesizer struct {
	heuristics config.StatisticsConfig
}

// NewSynthesizer creates a Synthesizer with the given heuristics.
func NewSynthesizer(heuristics config.StatisticsConfig) *Synthesizer {
	return &Synthesizer{heuristics: heuristics}
}

// Synthesize computes Statistics with the default heuristics.
func Synthesize(active, closed []models.Property) models.Statistics {
	return NewSynthesizer(config.DefaultStatistics()).Synthesize(active, closed)
}

// Synthesize computes aggregate figures over the active and closed buckets.
func (s *Synthesizer) Synthesize(active, closed []models.Property) models.Statistics {
	activeCount := len(active)
	closedCount := len(closed)

	listPrices := positive(mapProperties(active, func(p models.Property) float64 { return p.ListPrice }))
	soldPrices := positive(mapProperties(closed, models.Property.SoldPriceOrZero))
	daysOnMarket := mapProperties(closed, func(p models.Property) float64 {
		return float64(p.DaysOnMarketOrZero())
	})
	pricePerSqft := mapProperties(append(append([]models.Property{}, active...), closed...),
		func(p models.Property) float64 { return p.PricePerSqft })

	allPrices := append(append([]float64{}, listPrices...), soldPrices...)

	avgList := Average(listPrices)
	avgSold := Average(soldPrices)

	listToSold := 1.0
	if len(soldPrices) > 0 && avgList > 0 {
		listToSold = avgSold / avgList
	}

	pending := share(activeCount, s.heuristics.PendingShare)

	return models.Statistics{
		TotalListings:       activeCount + closedCount,
		ActiveListings:      activeCount,
		ClosedListings:      closedCount,
		NewListings:         share(activeCount, s.heuristics.NewListingsShare),
		PendingListings:     pending,
		CanceledListings:    share(activeCount, s.heuristics.CanceledShare),
		InventoryLevel:      activeCount + pending,
		AverageListPrice:    avgList,
		MedianListPrice:     Median(listPrices),
		AverageSoldPrice:    avgSold,
		MedianSoldPrice:     Median(soldPrices),
		AveragePrice:        Average(allPrices),
		MedianPrice:         Median(allPrices),
		AverageDaysOnMarket: Average(daysOnMarket),
		MedianDaysOnMarket:  Median(daysOnMarket),
		PricePerSquareFoot:  Average(pricePerSqft),
		AbsorptionRate:      AbsorptionRate(activeCount, closedCount),
		MonthsOfSupply:      MonthsOfSupply(activeCount, closedCount),
		ListToSoldRatio:     listToSold,
		PriceRange:          Range(allPrices),
	}
}

// AbsorptionRate is closed listings per active listing as a percentage.
func AbsorptionRate(activeCount, closedCount int) float64 {
	return float64(closedCount) / math.Max(float64(activeCount), 1) * 100
}

// MonthsOfSupply treats the closed count as a three-month sales sample.
func MonthsOfSupply(activeCount, closedCount int) float64 {
	monthlySales := float64(closedCount) / closedSampleMonths
	return float64(activeCount) / math.Max(monthlySales, 1)
}

// Average returns the arithmetic mean, or 0 for an empty slice.
func Average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Median returns the middle value of xs, the mean of the two middle values
// for even lengths, or 0 for an empty slice. xs is not modified.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Range returns the minimum and maximum of xs, zero for an empty slice.
func Range(xs []float64) models.PriceRange {
	if len(xs) == 0 {
		return models.PriceRange{}
	}
	r := models.PriceRange{Min: xs[0], Max: xs[0]}
	for _, x := range xs[1:] {
		r.Min = math.Min(r.Min, x)
		r.Max = math.Max(r.Max, x)
	}
	return r
}

func share(count int, fraction float64) int {
	return int(math.Round(float64(count) * fraction))
}

func positive(xs []float64) []float64 {
	out := xs[:0]
	for _, x := range xs {
		if x > 0 {
			out = append(out, x)
		}
	}
	return out
}

func mapProperties(props []models.Property, fn func(models.Property) float64) []float64 {
	out := make([]float64, 0, len(props))
	for _, p := range props {
		out = append(out, fn(p))
	}
	return out
}
