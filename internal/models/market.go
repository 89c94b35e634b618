package models

// PricePoint is one month of aggregate price history. Date is "YYYY-MM".
type PricePoint struct {
	Date   string  `json:"date"`
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

// SeasonalityData is the average price and sales volume of one calendar month.
type SeasonalityData struct {
	Month        int     `json:"month"`
	AveragePrice float64 `json:"averagePrice"`
	SalesVolume  float64 `json:"salesVolume"`
}

// ForecastMetric is a predicted fractional price change and its confidence in [0,1].
type ForecastMetric struct {
	PriceChange float64 `json:"priceChange"`
	Confidence  float64 `json:"confidence"`
}

// Forecast holds the three forecast horizons. Confidence must not increase
// with horizon length.
type Forecast struct {
	NextMonth   ForecastMetric `json:"nextMonth"`
	NextQuarter ForecastMetric `json:"nextQuarter"`
	NextYear    ForecastMetric `json:"nextYear"`
}

// MarketTrends bundles chronological price history, the seasonal profile,
// and the forecast.
type MarketTrends struct {
	PriceHistory []PricePoint      `json:"priceHistory"`
	Seasonality  []SeasonalityData `json:"seasonality"`
	Forecast     Forecast          `json:"forecast"`
}

// PriceRange is the span of observed listing prices.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Statistics are the aggregate figures of a report. AbsorptionRate is a
// percentage on a 0-100 scale.
type Statistics struct {
	TotalListings       int        `json:"totalListings"`
	ActiveListings      int        `json:"activeListings"`
	ClosedListings      int        `json:"closedListings"`
	NewListings         int        `json:"newListings"`
	PendingListings     int        `json:"pendingListings"`
	CanceledListings    int        `json:"canceledListings"`
	InventoryLevel      int        `json:"inventoryLevel"`
	AverageListPrice    float64    `json:"averageListPrice"`
	MedianListPrice     float64    `json:"medianListPrice"`
	AverageSoldPrice    float64    `json:"averageSoldPrice"`
	MedianSoldPrice     float64    `json:"medianSoldPrice"`
	AveragePrice        float64    `json:"averagePrice"`
	MedianPrice         float64    `json:"medianPrice"`
	AverageDaysOnMarket float64    `json:"averageDaysOnMarket"`
	MedianDaysOnMarket  float64    `json:"medianDaysOnMarket"`
	PricePerSquareFoot  float64    `json:"pricePerSquareFoot"`
	AbsorptionRate      float64    `json:"absorptionRate"`
	MonthsOfSupply      float64    `json:"monthsOfSupply"`
	ListToSoldRatio     float64    `json:"listToSoldRatio"`
	PriceRange          PriceRange `json:"priceRange"`
}

// NamedValue pairs a statistics field name with its numeric value.
type NamedValue struct {
	Name  string
	Value float64
}

// NumericFields lists every statistics figure by its JSON name.
func (s Statistics) NumericFields() []NamedValue {
	return []NamedValue{
		{"totalListings", float64(s.TotalListings)},
		{"activeListings", float64(s.ActiveListings)},
		{"closedListings", float64(s.ClosedListings)},
		{"newListings", float64(s.NewListings)},
		{"pendingListings", float64(s.PendingListings)},
		{"canceledListings", float64(s.CanceledListings)},
		{"inventoryLevel", float64(s.InventoryLevel)},
		{"averageListPrice", s.AverageListPrice},
		{"medianListPrice", s.MedianListPrice},
		{"averageSoldPrice", s.AverageSoldPrice},
		{"medianSoldPrice", s.MedianSoldPrice},
		{"averagePrice", s.AveragePrice},
		{"medianPrice", s.MedianPrice},
		{"averageDaysOnMarket", s.AverageDaysOnMarket},
		{"medianDaysOnMarket", s.MedianDaysOnMarket},
		{"pricePerSquareFoot", s.PricePerSquareFoot},
		{"absorptionRate", s.AbsorptionRate},
		{"monthsOfSupply", s.MonthsOfSupply},
		{"listToSoldRatio", s.ListToSoldRatio},
		{"priceRange.min", s.PriceRange.Min},
		{"priceRange.max", s.PriceRange.Max},
	}
}
