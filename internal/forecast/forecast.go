// Package forecast derives moving averages, trend strength, a seasonality
// index and short-range price predictions from a report's market trends.
package forecast

import (
	"math"
	"time"

	"github.com/stwalsh4118/mlsreport/internal/config"
	"github.com/stwalsh4118/mlsreport/internal/models"
)

// monthLayout is the layout of PricePoint dates.
const monthLayout = "2006-01"

// AveragePoint is a moving-average value at the date its window ends.
type AveragePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// TrendResult describes recent price momentum. Strength is the mean
// month-over-month change divided by its volatility.
type TrendResult struct {
	Strength      float64      `json:"strength"`
	Direction     models.Trend `json:"direction"`
	AverageChange float64      `json:"averageChange"`
	Volatility    float64      `json:"volatility"`
}

// Prediction is a projected price for a month after the last observation.
type Prediction struct {
	Month      string  `json:"month"`
	Horizon    int     `json:"horizon"`
	Price      float64 `json:"price"`
	Confidence float64 `json:"confidence"`
}

// Analysis bundles everything the engine derives from one MarketTrends.
type Analysis struct {
	ShortTermMA      []AveragePoint  `json:"shortTermMA"`
	LongTermMA       []AveragePoint  `json:"longTermMA"`
	Trend            TrendResult     `json:"trend"`
	SeasonalityIndex map[int]float64 `json:"seasonalityIndex"`
	Predictions      []Prediction    `json:"predictions"`
}

// PredictionInput is the state a projection starts from.
type PredictionInput struct {
	LastPrice   float64
	LastDate    string
	Trend       TrendResult
	Seasonality map[int]float64
	ShortTermMA []AveragePoint
	LongTermMA  []AveragePoint
}

// MovingAverage returns the mean price of each full window of history.
// Points before the window fills are omitted, so the result has
// len(history)-window+1 entries, or none.
func MovingAverage(history []models.PricePoint, window int) []AveragePoint {
	if window < 1 || len(history) < window {
		return nil
	}

	out := make([]AveragePoint, 0, len(history)-window+1)
	var sum float64
	for i, p := range history {
		sum += p.Price
		if i >= window {
			sum -= history[i-window].Price
		}
		if i >= window-1 {
			out = append(out, AveragePoint{Date: p.Date, Value: sum / float64(window)})
		}
	}
	return out
}

// Trend measures momentum over the most recent window points. Changes are
// month-over-month percentages; volatility is their population standard
// deviation. Strength is zero with fewer than two points or no volatility.
func Trend(history []models.PricePoint, window int) TrendResult {
	result := TrendResult{Direction: models.TrendStable}
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	if len(history) < 2 {
		return result
	}

	changes := make([]float64, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		prev := history[i-1].Price
		if prev <= 0 {
			continue
		}
		changes = append(changes, (history[i].Price-prev)/prev*100)
	}
	if len(changes) == 0 {
		return result
	}

	var sum float64
	for _, c := range changes {
		sum += c
	}
	avg := sum / float64(len(changes))

	var sumSquared float64
	for _, c := range changes {
		sumSquared += (c - avg) * (c - avg)
	}
	volatility := math.Sqrt(sumSquared / float64(len(changes)))

	result.AverageChange = avg
	result.Volatility = volatility
	switch {
	case avg > 0:
		result.Direction = models.TrendIncreasing
	case avg < 0:
		result.Direction = models.TrendDecreasing
	}
	if volatility > 0 {
		result.Strength = math.Abs(avg) / volatility
	}
	return result
}

// SeasonalityIndex averages AveragePrice per calendar month across all
// entries. Months outside 1..12 are ignored.
func SeasonalityIndex(seasonality []models.SeasonalityData) map[int]float64 {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, s := range seasonality {
		if s.Month < 1 || s.Month > 12 {
			continue
		}
		sums[s.Month] += s.AveragePrice
		counts[s.Month]++
	}

	index := make(map[int]float64, len(sums))
	for month, sum := range sums {
		index[month] = sum / float64(counts[month])
	}
	return index
}

// GeneratePredictions projects horizon months past the input's last
// observation. Each month's price is the last price scaled by trend,
// seasonal and moving-average momentum factors.
func GeneratePredictions(in PredictionInput, horizon int) []Prediction {
	if horizon < 1 {
		return nil
	}

	last, lastErr := time.Parse(monthLayout, in.LastDate)
	lastMonth := int(last.Month())
	maFactor := momentumFactor(in.ShortTermMA, in.LongTermMA)

	out := make([]Prediction, 0, horizon)
	for h := 1; h <= horizon; h++ {
		p := Prediction{Horizon: h}

		seasonalFactor := 1.0
		if lastErr == nil {
			future := last.AddDate(0, h, 0)
			p.Month = future.Format(monthLayout)
			seasonalFactor = seasonalRatio(in.Seasonality, int(future.Month()), lastMonth)
		}

		p.Price = in.LastPrice * trendFactor(in.Trend, h) * seasonalFactor * maFactor
		p.Confidence = Confidence(in.Trend.Strength, h)
		out = append(out, p)
	}
	return out
}

// Confidence decays by 0.1 per month of horizon and by 0.1/strength for
// weak trends. A zero strength adds no penalty. The result is clamped to
// [0, 1].
func Confidence(strength float64, horizon int) float64 {
	c := 1 - 0.1*float64(horizon)
	if strength > 0 {
		c -= 0.1 / strength
	}
	return math.Min(1, math.Max(0, c))
}

func trendFactor(t TrendResult, horizon int) float64 {
	step := 0.01 * t.Strength * float64(horizon)
	switch t.Direction {
	case models.TrendIncreasing:
		return 1 + step
	case models.TrendDecreasing:
		return 1 - step
	default:
		return 1
	}
}

func seasonalRatio(index map[int]float64, futureMonth, lastMonth int) float64 {
	future, okFuture := index[futureMonth]
	base, okBase := index[lastMonth]
	if !okFuture || !okBase || base == 0 {
		return 1
	}
	return future / base
}

func momentumFactor(short, long []AveragePoint) float64 {
	if len(short) == 0 || len(long) == 0 {
		return 1
	}
	longLatest := long[len(long)-1].Value
	if longLatest == 0 {
		return 1
	}
	return short[len(short)-1].Value / longLatest
}

// Predict runs the full projection for trends with the given windows. It
// returns nil when there is no price history.
func Predict(trends models.MarketTrends, cfg config.ForecastConfig) []Prediction {
	return Analyze(trends, cfg).Predictions
}

// Analyze derives moving averages, trend, seasonality index and
// predictions. Predictions are nil when the price history is empty.
func Analyze(trends models.MarketTrends, cfg config.ForecastConfig) Analysis {
	history := trends.PriceHistory
	analysis := Analysis{
		ShortTermMA:      MovingAverage(history, cfg.ShortWindow),
		LongTermMA:       MovingAverage(history, cfg.LongWindow),
		Trend:            Trend(history, cfg.TrendWindow),
		SeasonalityIndex: SeasonalityIndex(trends.Seasonality),
	}
	if len(history) == 0 {
		return analysis
	}

	last := history[len(history)-1]
	analysis.Predictions = GeneratePredictions(PredictionInput{
		LastPrice:   last.Price,
		LastDate:    last.Date,
		Trend:       analysis.Trend,
		Seasonality: analysis.SeasonalityIndex,
		ShortTermMA: analysis.ShortTermMA,
		LongTermMA:  analysis.LongTermMA,
	}, cfg.Horizon)
	return analysis
}
