package models

// Property is a single MLS listing. Optional sale fields are pointers so a
// missing value can be told apart from zero; a listing is closed exactly
// when SoldPrice is set.
type Property struct {
	MLSNumber       string   `json:"mlsNumber"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	ListPrice       float64  `json:"listPrice"`
	Bedrooms        int      `json:"bedrooms"`
	Bathrooms       string   `json:"bathrooms"` // full/half/quarter, e.g. "2/1/0"
	Sqft            float64  `json:"sqft"`
	YearBuilt       int      `json:"yearBuilt"`
	Garage          int      `json:"garage"`
	Pool            bool     `json:"pool"`
	Acres           float64  `json:"acres"`
	PricePerSqft    float64  `json:"pricePerSqft"`
	SoldPrice       *float64 `json:"soldPrice,omitempty"`
	SoldDate        *string  `json:"soldDate,omitempty"`
	DaysOnMarket    *int     `json:"daysOnMarket,omitempty"`
	SaleToListRatio *float64 `json:"saleToListRatio,omitempty"`
}

// IsSold reports whether the listing carries a sold price.
func (p Property) IsSold() bool {
	return p.SoldPrice != nil
}

// DaysOnMarketOrZero returns the days on market, or 0 when unknown.
func (p Property) DaysOnMarketOrZero() int {
	if p.DaysOnMarket == nil {
		return 0
	}
	return *p.DaysOnMarket
}

// SoldPriceOrZero returns the sold price, or 0 when the listing is active.
func (p Property) SoldPriceOrZero() float64 {
	if p.SoldPrice == nil {
		return 0
	}
	return *p.SoldPrice
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
