package pipeline

import (
	"errors"

	apperrors "github.com/stwalsh4118/mlsreport/internal/errors"
	"github.com/stwalsh4118/mlsreport/internal/forecast"
	"github.com/stwalsh4118/mlsreport/internal/models"
)

// Result is the outcome of processing one report.
type Result struct {
	RunID            string             `json:"runId"`
	Source           string             `json:"source,omitempty"`
	Success          bool               `json:"success"`
	Data             *models.MLSReport  `json:"data,omitempty"`
	Error            string             `json:"error,omitempty"`
	ErrorCode        string             `json:"errorCode,omitempty"`
	Field            string             `json:"field,omitempty"`
	ValidationErrors []string           `json:"validationErrors,omitempty"`
	Forecast         *forecast.Analysis `json:"forecast,omitempty"`
	RawText          string             `json:"rawText,omitempty"`
	Attempts         int                `json:"attempts"`
}

// failed returns r as a failure carrying err. RawText and Attempts are kept.
func (r Result) failed(err error) Result {
	r.Success = false
	r.Data = nil
	r.Forecast = nil
	r.ValidationErrors = nil
	r.Error = err.Error()
	r.ErrorCode = errorCode(err)

	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		r.Field = ve.Field
	}
	return r
}

// Demographics returns the report's demographics in the flat legacy shape.
func (r Result) Demographics() (models.Demographics, bool) {
	if r.Data == nil {
		return models.Demographics{}, false
	}
	return r.Data.DemographicAnalysis.Flatten(), true
}
