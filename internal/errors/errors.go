package errors

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error code constants attached to failed pipeline results.
const (
	ErrValidation     = "VALIDATION_ERROR"
	ErrExtraction     = "EXTRACTION_FAILED"
	ErrEmptyPDF       = "EMPTY_PDF"
	ErrNotMLSReport   = "NOT_MLS_REPORT"
	ErrTextExtraction = "TEXT_EXTRACTION_FAILED"
	ErrEnrichment     = "ENRICHMENT_FAILED"
	ErrCanceled       = "CANCELED"
	ErrUnknown        = "UNKNOWN_ERROR"
)

// ValidationError is returned by the assertion-style validators on the
// first rule violation. Field is a dotted path such as
// "closedListings[1].bathrooms".
type ValidationError struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// WithPath returns a copy of the error whose field is nested under prefix.
func (e *ValidationError) WithPath(prefix string) *ValidationError {
	return &ValidationError{
		Message: e.Message,
		Field:   JoinPath(prefix, e.Field),
	}
}

// JoinPath joins a parent path and a child field. Index segments ("[2]")
// attach without a dot.
func JoinPath(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	case strings.HasPrefix(field, "["):
		return prefix + field
	default:
		return prefix + "." + field
	}
}

// IndexPath formats "name[i]".
func IndexPath(name string, i int) string {
	return fmt.Sprintf("%s[%d]", name, i)
}

// FormatFieldError converts a validator.FieldError into a lenient-surface
// message of the form "<path>: <message>". The leading struct name is
// dropped from the namespace.
func FormatFieldError(err validator.FieldError) string {
	path := err.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}
	if path == "" {
		path = err.Field()
	}
	return fmt.Sprintf("%s: %s", path, formatValidationError(err))
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "notblank":
		return "Must not be blank"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lt":
		return "Must be less than " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "len":
		return "Must have length of " + err.Param()
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
