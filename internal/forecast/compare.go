package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/stwalsh4118/mlsreport/internal/models"
)

// daysPerMonth approximates a calendar month when counting month spans.
const daysPerMonth = 30.0

// Comparison is the change between two price history samples, ordered so
// From is the earlier one. PriceChange, VolumeChange and AnnualizedReturn
// are percentages.
type Comparison struct {
	From             models.PricePoint `json:"from"`
	To               models.PricePoint `json:"to"`
	PriceDiff        float64           `json:"priceDiff"`
	PriceChange      float64           `json:"priceChange"`
	VolumeChange     float64           `json:"volumeChange"`
	MonthsDiff       int               `json:"monthsDiff"`
	AnnualizedReturn float64           `json:"annualizedReturn"`
}

// Compare orders a and b by date and computes the change between them.
// The month span is clamped to at least one so samples from the same
// month still annualize.
func Compare(a, b models.PricePoint) (Comparison, error) {
	if b.Date < a.Date {
		a, b = b, a
	}

	from, err := time.Parse(monthLayout, a.Date)
	if err != nil {
		return Comparison{}, fmt.Errorf("invalid date %q: %w", a.Date, err)
	}
	to, err := time.Parse(monthLayout, b.Date)
	if err != nil {
		return Comparison{}, fmt.Errorf("invalid date %q: %w", b.Date, err)
	}

	months := int(math.Round(to.Sub(from).Hours() / 24 / daysPerMonth))
	if months < 1 {
		months = 1
	}

	c := Comparison{
		From:         a,
		To:           b,
		PriceDiff:    b.Price - a.Price,
		PriceChange:  percentChange(a.Price, b.Price),
		VolumeChange: percentChange(a.Volume, b.Volume),
		MonthsDiff:   months,
	}
	c.AnnualizedReturn = (math.Pow(1+c.PriceChange/100, 12/float64(months)) - 1) * 100
	return c, nil
}

func percentChange(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}
