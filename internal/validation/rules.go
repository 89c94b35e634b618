// Package validation checks the internal consistency of an MLS report.
//
// All checks are built from one predicate library (this file). Two surfaces
// sit on top of it: the Validate* functions return the first violation as
// an *errors.ValidationError, and CollectReportErrors gathers every lenient
// check into a list of messages.
package validation

import (
	"math"
	"regexp"
	"strings"

	apperrors "github.com/stwalsh4118/mlsreport/internal/errors"
	"github.com/stwalsh4118/mlsreport/internal/models"
)

// Thresholds shared by both surfaces.
const (
	MaxPriceVolatility      = 0.15
	MaxVolumeChange         = 0.50
	MinForecastConfidence   = 0.5
	MaxForecastConfidence   = 1.0
	MaxYearlyPriceChange    = 0.30
	MaxSchoolRating         = 10.0
	MaxSchoolDistance       = 10.0
	MinStudentTeacherRatio  = 10.0
	MaxStudentTeacherRatio  = 30.0
	PricePerSqftTolerance   = 1.0
	BuyersMarketSupply      = 6.0
	SellersMarketSupply     = 3.0
	InventorySlack          = 5.0
	MaxEducationShare       = 1.1
	MaxPopulation           = 10000.0
	MaxPriceToIncome        = 5.0
	MaxAbsorptionRate       = 100.0
	MaxAverageDivergence    = 0.5
	MinAverageDaysOnMarket  = 5.0
	SeasonalityProfileMonth = 12
)

// Rule names identify which predicate produced a violation.
const (
	RuleMonthDate        = "pricePoint.date"
	RulePositivePrice    = "pricePoint.price"
	RuleVolume           = "pricePoint.volume"
	RuleChronology       = "marketTrends.chronology"
	RuleVolatility       = "marketTrends.volatility"
	RuleSeasonMonth      = "marketTrends.seasonMonth"
	RuleSeasonVolume     = "marketTrends.seasonVolume"
	RuleSeasonProfile    = "marketTrends.seasonProfile"
	RuleConfidenceRange  = "forecast.confidenceRange"
	RuleConfidenceDecay  = "forecast.confidenceDecay"
	RuleYearlyChange     = "forecast.yearlyChange"
	RuleSchoolRating     = "school.rating"
	RuleSchoolType       = "school.type"
	RuleSchoolDistance   = "school.distance"
	RuleSchoolRatio      = "school.studentTeacherRatio"
	RuleSchoolName       = "school.name"
	RuleSchoolList       = "schoolDistrict.schools"
	RuleMetricValue      = "demographic.value"
	RuleMetricTrend      = "demographic.trend"
	RuleMetricChange     = "demographic.percentChange"
	RuleListPrice        = "property.listPrice"
	RuleSqft             = "property.sqft"
	RuleAddress          = "property.address"
	RuleBedrooms         = "property.bedrooms"
	RuleBathrooms        = "property.bathrooms"
	RulePricePerSqft     = "property.pricePerSqft"
	RuleFinite           = "statistics.finite"
	RuleBuyersMarket     = "statistics.buyersMarket"
	RuleSellersMarket    = "statistics.sellersMarket"
	RuleSaleToList       = "statistics.saleToList"
	RuleInventory        = "statistics.inventory"
	RuleAbsorption       = "statistics.absorptionRate"
	RuleDivergence       = "statistics.divergence"
	RuleDaysOnMarket     = "statistics.daysOnMarket"
	RuleEducationSum     = "demographics.educationSum"
	RulePopulationCap    = "demographics.population"
	RulePriceToIncome    = "demographics.priceToIncome"
	RuleTrendConsistency = "demographics.trendConsistency"
)

var (
	monthDatePattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
	bathroomsPattern = regexp.MustCompile(`^\d+/\d+/\d+$`)
)

// Violation is one failed rule.
type Violation struct {
	Rule    string
	Field   string
	Message string
}

// Err converts the violation to the assertion-surface error type.
func (v Violation) Err() *apperrors.ValidationError {
	return apperrors.NewValidationError(v.Field, v.Message)
}

// String formats the violation as a collector-surface message.
func (v Violation) String() string {
	return v.Err().Error()
}

// under nests every violation's field below prefix.
func under(prefix string, vs []Violation) []Violation {
	for i := range vs {
		vs[i].Field = apperrors.JoinPath(prefix, vs[i].Field)
	}
	return vs
}

// IsMonthDate reports whether s is a "YYYY-MM" date.
func IsMonthDate(s string) bool {
	return monthDatePattern.MatchString(s)
}

// IsBathroomFormat reports whether s is a "full/half/quarter" count.
func IsBathroomFormat(s string) bool {
	return bathroomsPattern.MatchString(s)
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// InRange reports whether lo <= v <= hi.
func InRange(v, lo, hi float64) bool {
	return IsFinite(v) && v >= lo && v <= hi
}

// NotBlank reports whether s has any non-space content.
func NotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// RelativeChange is |cur-prev|/prev, or 0 when prev is not positive.
func RelativeChange(prev, cur float64) float64 {
	if prev <= 0 {
		return 0
	}
	return math.Abs(cur-prev) / prev
}

// WithinVolatility reports whether the change from prev to cur is at most limit.
func WithinVolatility(prev, cur, limit float64) bool {
	return RelativeChange(prev, cur) <= limit
}

// IsValidTrend reports whether t is a known trend direction.
func IsValidTrend(t models.Trend) bool {
	switch t {
	case models.TrendIncreasing, models.TrendDecreasing, models.TrendStable:
		return true
	}
	return false
}

// IsValidSchoolType reports whether t is a known school level.
func IsValidSchoolType(t models.SchoolType) bool {
	switch t {
	case models.SchoolElementary, models.SchoolMiddle, models.SchoolHigh:
		return true
	}
	return false
}

// PricePointViolations checks one price history entry.
func PricePointViolations(p models.PricePoint) []Violation {
	var vs []Violation
	if !IsMonthDate(p.Date) {
		vs = append(vs, Violation{RuleMonthDate, "date", "date must be in YYYY-MM format"})
	}
	if !(p.Price > 0) || !IsFinite(p.Price) {
		vs = append(vs, Violation{RulePositivePrice, "price", "price must be positive"})
	}
	if !(p.Volume >= 0) || !IsFinite(p.Volume) {
		vs = append(vs, Violation{RuleVolume, "volume", "volume must not be negative"})
	}
	return vs
}

// MarketTrendsViolations checks price history chronology and volatility,
// the seasonal profile, and the forecast horizons.
func MarketTrendsViolations(t models.MarketTrends) []Violation {
	var vs []Violation

	for i, p := range t.PriceHistory {
		path := apperrors.IndexPath("priceHistory", i)
		vs = append(vs, under(path, PricePointViolations(p))...)
		if i == 0 {
			continue
		}
		prev := t.PriceHistory[i-1]
		if p.Date <= prev.Date {
			vs = append(vs, Violation{RuleChronology, path + ".date", "price history must be in chronological order"})
		}
		if !WithinVolatility(prev.Price, p.Price, MaxPriceVolatility) {
			vs = append(vs, Violation{RuleVolatility, path + ".price", "volatility exceeds threshold"})
		}
	}

	for i, s := range t.Seasonality {
		path := apperrors.IndexPath("seasonality", i)
		if s.Month < 1 || s.Month > 12 {
			vs = append(vs, Violation{RuleSeasonMonth, path + ".month", "month must be between 1 and 12"})
		}
		if i > 0 && !WithinVolatility(t.Seasonality[i-1].SalesVolume, s.SalesVolume, MaxVolumeChange) {
			vs = append(vs, Violation{RuleSeasonVolume, path + ".salesVolume", "sales volume change exceeds threshold"})
		}
	}

	return append(vs, under("forecast", ForecastViolations(t.Forecast))...)
}

// ForecastViolations checks confidence bounds, confidence decay with
// horizon, and the yearly change cap.
func ForecastViolations(f models.Forecast) []Violation {
	var vs []Violation
	horizons := []struct {
		name   string
		metric models.ForecastMetric
	}{
		{"nextMonth", f.NextMonth},
		{"nextQuarter", f.NextQuarter},
		{"nextYear", f.NextYear},
	}
	for i, h := range horizons {
		if !InRange(h.metric.Confidence, MinForecastConfidence, MaxForecastConfidence) {
			vs = append(vs, Violation{RuleConfidenceRange, h.name + ".confidence", "confidence must be between 0.5 and 1"})
		}
		if i > 0 && h.metric.Confidence > horizons[i-1].metric.Confidence {
			vs = append(vs, Violation{RuleConfidenceDecay, h.name + ".confidence", "confidence must not increase with horizon"})
		}
	}
	if !IsFinite(f.NextYear.PriceChange) || math.Abs(f.NextYear.PriceChange) > MaxYearlyPriceChange {
		vs = append(vs, Violation{RuleYearlyChange, "nextYear.priceChange", "yearly price change exceeds threshold"})
	}
	return vs
}

// SeasonalityProfileViolations flags a non-empty seasonal profile that does
// not cover all twelve months.
func SeasonalityProfileViolations(seasonality []models.SeasonalityData) []Violation {
	if len(seasonality) == 0 {
		return nil
	}
	months := make(map[int]struct{}, len(seasonality))
	for _, s := range seasonality {
		months[s.Month] = struct{}{}
	}
	if len(months) != SeasonalityProfileMonth || len(seasonality) != SeasonalityProfileMonth {
		return []Violation{{RuleSeasonProfile, "seasonality", "incomplete seasonality profile"}}
	}
	return nil
}

// SchoolViolations checks one school's rating, type, distance and ratio.
func SchoolViolations(s models.SchoolInfo) []Violation {
	var vs []Violation
	if !InRange(s.Rating, 0, MaxSchoolRating) {
		vs = append(vs, Violation{RuleSchoolRating, "rating", "rating must be between 0 and 10"})
	}
	if !IsValidSchoolType(s.Type) {
		vs = append(vs, Violation{RuleSchoolType, "type", "type must be one of elementary, middle, high"})
	}
	if !InRange(s.Distance, 0, MaxSchoolDistance) {
		vs = append(vs, Violation{RuleSchoolDistance, "distance", "distance must be between 0 and 10 miles"})
	}
	if !InRange(s.StudentTeacherRatio, MinStudentTeacherRatio, MaxStudentTeacherRatio) {
		vs = append(vs, Violation{RuleSchoolRatio, "studentTeacherRatio", "student-teacher ratio must be between 10 and 30"})
	}
	return vs
}

// SchoolDistrictViolations checks the district name, rating and that every
// level lists at least one school.
func SchoolDistrictViolations(d models.SchoolDistrict) []Violation {
	var vs []Violation
	if !NotBlank(d.Name) {
		vs = append(vs, Violation{RuleSchoolName, "name", "district name is required"})
	}
	if !InRange(d.Rating, 0, MaxSchoolRating) {
		vs = append(vs, Violation{RuleSchoolRating, "rating", "rating must be between 0 and 10"})
	}
	levels := []struct {
		field   string
		schools []string
	}{
		{"elementarySchools", d.ElementarySchools},
		{"middleSchools", d.MiddleSchools},
		{"highSchools", d.HighSchools},
	}
	for _, l := range levels {
		if len(l.schools) == 0 {
			vs = append(vs, Violation{RuleSchoolList, l.field, "at least one school is required"})
			continue
		}
		for i, name := range l.schools {
			if !NotBlank(name) {
				vs = append(vs, Violation{RuleSchoolName, apperrors.IndexPath(l.field, i), "school name is required"})
			}
		}
	}
	return vs
}

// DemographicMetricViolations checks a metric's value, trend and change.
func DemographicMetricViolations(m models.DemographicMetric) []Violation {
	vs := DemographicShapeViolations(m)
	if !(m.Value > 0) {
		vs = append([]Violation{{RuleMetricValue, "value", "value must be positive"}}, vs...)
	}
	return vs
}

// DemographicShapeViolations checks only that a metric is well formed:
// finite numbers and a known trend. Zero values pass.
func DemographicShapeViolations(m models.DemographicMetric) []Violation {
	var vs []Violation
	if !IsFinite(m.Value) {
		vs = append(vs, Violation{RuleMetricValue, "value", "value must be a finite number"})
	}
	if !IsValidTrend(m.Trend) {
		vs = append(vs, Violation{RuleMetricTrend, "trend", "trend must be one of increasing, decreasing, stable"})
	}
	if !IsFinite(m.PercentChange) {
		vs = append(vs, Violation{RuleMetricChange, "percentChange", "percent change must be a finite number"})
	}
	return vs
}

// PropertyViolations checks one listing.
func PropertyViolations(p models.Property) []Violation {
	var vs []Violation
	if !(p.ListPrice > 0) {
		vs = append(vs, Violation{RuleListPrice, "listPrice", "list price must be positive"})
	}
	if !(p.Sqft > 0) {
		vs = append(vs, Violation{RuleSqft, "sqft", "square footage must be positive"})
	}
	if !NotBlank(p.Address) {
		vs = append(vs, Violation{RuleAddress, "address", "address is required"})
	}
	if p.Bedrooms <= 0 {
		vs = append(vs, Violation{RuleBedrooms, "bedrooms", "bedrooms must be positive"})
	}
	if !IsBathroomFormat(p.Bathrooms) {
		vs = append(vs, Violation{RuleBathrooms, "bathrooms", "bathrooms must be in full/half/quarter format"})
	}
	if p.Sqft > 0 && math.Abs(p.ListPrice/p.Sqft-p.PricePerSqft) > PricePerSqftTolerance {
		vs = append(vs, Violation{RulePricePerSqft, "pricePerSqft", "price per square foot does not match list price and square footage"})
	}
	return vs
}

// FiniteStatisticsViolations flags any statistics figure that is NaN or infinite.
func FiniteStatisticsViolations(s models.Statistics) []Violation {
	var vs []Violation
	for _, f := range s.NumericFields() {
		if !IsFinite(f.Value) {
			vs = append(vs, Violation{RuleFinite, f.Name, "must be a finite number"})
		}
	}
	return vs
}

// MarketConditionViolations checks that buyer's and seller's market
// signals agree with months of supply.
func MarketConditionViolations(s models.Statistics) []Violation {
	switch {
	case s.MonthsOfSupply >= BuyersMarketSupply:
		if s.AbsorptionRate > 40 || s.ListToSoldRatio > 0.95 || s.AverageDaysOnMarket < 60 {
			return []Violation{{RuleBuyersMarket, "monthsOfSupply", "inconsistent buyer's market indicators"}}
		}
	case s.MonthsOfSupply <= SellersMarketSupply:
		if s.AbsorptionRate < 60 || s.ListToSoldRatio < 0.98 || s.AverageDaysOnMarket > 30 {
			return []Violation{{RuleSellersMarket, "monthsOfSupply", "inconsistent seller's market indicators"}}
		}
	}
	return nil
}

// StatisticsViolations runs the cross-field statistics rules.
func StatisticsViolations(s models.Statistics) []Violation {
	vs := FiniteStatisticsViolations(s)
	if len(vs) > 0 {
		return vs
	}

	vs = append(vs, MarketConditionViolations(s)...)

	if s.AverageSoldPrice > s.AverageListPrice && s.ListToSoldRatio < 1 {
		vs = append(vs, Violation{RuleSaleToList, "listToSoldRatio", "inconsistent sale-to-list metrics"})
	}
	expected := float64(s.ActiveListings + s.PendingListings)
	if math.Abs(float64(s.InventoryLevel)-expected) > InventorySlack {
		vs = append(vs, Violation{RuleInventory, "inventoryLevel", "inventory level does not match active and pending listings"})
	}
	if !InRange(s.AbsorptionRate, 0, MaxAbsorptionRate) {
		vs = append(vs, Violation{RuleAbsorption, "absorptionRate", "absorption rate must be between 0 and 100"})
	}
	if s.MedianPrice > 0 && math.Abs(s.AveragePrice-s.MedianPrice)/s.MedianPrice > MaxAverageDivergence {
		vs = append(vs, Violation{RuleDivergence, "averagePrice", "average price diverges from median price"})
	}
	if s.AverageDaysOnMarket < MinAverageDaysOnMarket {
		vs = append(vs, Violation{RuleDaysOnMarket, "averageDaysOnMarket", "average days on market is below minimum"})
	}
	return vs
}

// DemographicAnalysisViolations validates every metric and the
// cross-metric demographic rules. stats supplies the prices the
// affordability and trend rules compare against.
func DemographicAnalysisViolations(a models.DemographicAnalysis, stats models.Statistics) []Violation {
	var vs []Violation
	for _, nm := range a.Metrics() {
		vs = append(vs, under(nm.Path, DemographicMetricViolations(nm.Metric))...)
	}

	if a.EducationLevels.EducationSum() > MaxEducationShare {
		vs = append(vs, Violation{RuleEducationSum, "educationLevels", "education levels sum exceeds 1.1"})
	}
	if a.Population.Value > MaxPopulation {
		vs = append(vs, Violation{RulePopulationCap, "population.value", "population exceeds density cap"})
	}
	if income := a.MedianIncome.Value; income > 0 && stats.MedianPrice/income > MaxPriceToIncome {
		vs = append(vs, Violation{RulePriceToIncome, "medianIncome.value", "price-to-income ratio exceeds 5"})
	}
	if a.MedianIncome.Trend == models.TrendDecreasing &&
		a.EmploymentRate.Trend == models.TrendDecreasing &&
		stats.MedianPrice > stats.MedianListPrice {
		vs = append(vs, Violation{RuleTrendConsistency, "", "inconsistent trend indicators"})
	}
	return vs
}

// ReportViolations runs every assertion-surface rule over the report in a
// fixed order: market trends, statistics, schools, demographics, listings.
func ReportViolations(r *models.MLSReport) []Violation {
	if r == nil {
		return []Violation{{"report.required", "report", "report is required"}}
	}

	var vs []Violation
	vs = append(vs, under("marketTrends", MarketTrendsViolations(r.MarketTrends))...)
	vs = append(vs, under("statistics", StatisticsViolations(r.Statistics))...)
	for i, s := range r.SchoolDistricts {
		vs = append(vs, under(apperrors.IndexPath("schoolDistricts", i), SchoolViolations(s))...)
	}
	vs = append(vs, under("demographicAnalysis", DemographicAnalysisViolations(r.DemographicAnalysis, r.Statistics))...)
	for i, p := range r.ActiveListings {
		vs = append(vs, under(apperrors.IndexPath("activeListings", i), PropertyViolations(p))...)
	}
	for i, p := range r.ClosedListings {
		vs = append(vs, under(apperrors.IndexPath("closedListings", i), PropertyViolations(p))...)
	}
	return vs
}
