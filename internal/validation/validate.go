package validation

import (
	"errors"

	apperrors "github.com/stwalsh4118/mlsreport/internal/errors"
	"github.com/stwalsh4118/mlsreport/internal/models"
)

// first returns the first violation as an error, or nil.
func first(vs []Violation) error {
	if len(vs) == 0 {
		return nil
	}
	return vs[0].Err()
}

// ValidatePricePoint checks one price history entry.
func ValidatePricePoint(p models.PricePoint) error {
	return first(PricePointViolations(p))
}

// ValidateMarketTrends checks chronology, volatility, seasonality and
// forecast rules. Fields are relative to the MarketTrends value, for
// example "priceHistory[2].price".
func ValidateMarketTrends(t models.MarketTrends) error {
	return first(MarketTrendsViolations(t))
}

// ValidateSchool checks one school.
func ValidateSchool(s models.SchoolInfo) error {
	return first(SchoolViolations(s))
}

// ValidateDemographicMetric checks one demographic metric.
func ValidateDemographicMetric(m models.DemographicMetric) error {
	return first(DemographicMetricViolations(m))
}

// ValidateProperty checks one listing.
func ValidateProperty(p models.Property) error {
	return first(PropertyViolations(p))
}

// ValidateReport runs every strict rule and returns the first violation.
// The returned error is always a *errors.ValidationError whose field is
// the full path from the report root.
func ValidateReport(r *models.MLSReport) error {
	return first(ReportViolations(r))
}

// AsValidationError unwraps err into a *errors.ValidationError.
func AsValidationError(err error) (*apperrors.ValidationError, bool) {
	var ve *apperrors.ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
