package models

// UnknownMLSNumber is the report number used when no listing was found.
const UnknownMLSNumber = "UNKNOWN"

// Address is the structured address of the report's subject property.
type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
}

// MLSReport is the aggregate root produced from one report text.
// The validate tags drive the lenient required-field and range checks.
type MLSReport struct {
	MLSNumber           string              `json:"mlsNumber" validate:"required"`
	ListPrice           float64             `json:"listPrice" validate:"gt=0"`
	PropertyType        string              `json:"propertyType" validate:"required"`
	Bedrooms            int                 `json:"bedrooms" validate:"gt=0"`
	Bathrooms           float64             `json:"bathrooms" validate:"gt=0"`
	SquareFeet          float64             `json:"squareFeet" validate:"gt=0"`
	YearBuilt           int                 `json:"yearBuilt" validate:"gt=1800"`
	LotSize             float64             `json:"lotSize" validate:"gt=0"`
	Description         string              `json:"description"`
	Address             Address             `json:"address"`
	Features            []string            `json:"features" validate:"required"`
	Photos              []string            `json:"photos" validate:"required"`
	MarketTrends        MarketTrends        `json:"marketTrends"`
	Statistics          Statistics          `json:"statistics"`
	SchoolDistrict      SchoolDistrict      `json:"schoolDistrict"`
	Demographics        Demographics        `json:"demographics"`
	DemographicAnalysis DemographicAnalysis `json:"demographicAnalysis"`
	ActiveListings      []Property          `json:"activeListings"`
	ClosedListings      []Property          `json:"closedListings"`
	SchoolDistricts     []SchoolInfo        `json:"schoolDistricts"`
}

// AllListings returns active listings followed by closed listings.
func (r *MLSReport) AllListings() []Property {
	all := make([]Property, 0, len(r.ActiveListings)+len(r.ClosedListings))
	all = append(all, r.ActiveListings...)
	return append(all, r.ClosedListings...)
}

// ListingCount is the number of active and closed listings.
func (r *MLSReport) ListingCount() int {
	return len(r.ActiveListings) + len(r.ClosedListings)
}

// SetDemographicAnalysis replaces the canonical demographics and keeps the
// legacy flat shape in sync.
func (r *MLSReport) SetDemographicAnalysis(a DemographicAnalysis) {
	r.DemographicAnalysis = a
	r.Demographics = a.Flatten()
}

// NewUnenrichedReport returns a report whose sections that report text
// never carries (market trends, school district, demographics) hold
// structurally valid "not yet enriched" defaults. Enrichment sources
// overwrite these sections wholesale.
func NewUnenrichedReport() *MLSReport {
	analysis := UnenrichedDemographics()
	return &MLSReport{
		MLSNumber:           UnknownMLSNumber,
		Address:             Address{},
		Features:            []string{},
		Photos:              []string{},
		MarketTrends:        UnenrichedMarketTrends(),
		SchoolDistrict:      UnenrichedSchoolDistrict(),
		DemographicAnalysis: analysis,
		Demographics:        analysis.Flatten(),
		ActiveListings:      []Property{},
		ClosedListings:      []Property{},
		SchoolDistricts:     []SchoolInfo{},
	}
}

// UnenrichedMarketTrends is the empty market-trends placeholder.
func UnenrichedMarketTrends() MarketTrends {
	return MarketTrends{
		PriceHistory: []PricePoint{},
		Seasonality:  []SeasonalityData{},
	}
}

// UnenrichedSchoolDistrict is the empty school-district placeholder.
func UnenrichedSchoolDistrict() SchoolDistrict {
	return SchoolDistrict{
		ElementarySchools: []string{},
		MiddleSchools:     []string{},
		HighSchools:       []string{},
	}
}

// UnenrichedDemographics is the zeroed demographic placeholder; every
// metric is stable with no change.
func UnenrichedDemographics() DemographicAnalysis {
	stable := DemographicMetric{Trend: TrendStable}
	return DemographicAnalysis{
		Population:     stable,
		MedianAge:      stable,
		MedianIncome:   stable,
		EmploymentRate: stable,
		EducationLevels: EducationLevels{
			HighSchool: stable,
			Bachelors:  stable,
			Graduate:   stable,
		},
	}
}
