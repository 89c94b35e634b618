package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/stwalsh4118/mlsreport/internal/errors"
	"github.com/stwalsh4118/mlsreport/internal/models"
)

// structValidator drives the required-field and range checks declared as
// struct tags on models.MLSReport. Field names in messages follow the JSON
// names.
var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CollectReportErrors runs the lenient checks and returns every failure as
// a "<field>: <message>" string. It never panics, whatever shape the report
// is in, and returns nil when the report passes.
func CollectReportErrors(r *models.MLSReport) []string {
	if r == nil {
		return []string{"report: This field is required"}
	}

	var errs []string
	errs = append(errs, structErrors(r)...)

	vs := under("statistics", FiniteStatisticsViolations(r.Statistics))
	vs = append(vs, under("schoolDistrict", SchoolDistrictViolations(r.SchoolDistrict))...)
	for _, nm := range r.DemographicAnalysis.Metrics() {
		vs = append(vs, under("demographicAnalysis."+nm.Path, DemographicShapeViolations(nm.Metric))...)
	}
	vs = append(vs, under("marketTrends", SeasonalityProfileViolations(r.MarketTrends.Seasonality))...)

	for _, v := range vs {
		errs = append(errs, v.String())
	}
	return errs
}

func structErrors(r *models.MLSReport) []string {
	err := structValidator.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{"report: " + err.Error()}
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apperrors.FormatFieldError(fe))
	}
	return out
}
