// Package pipeline turns MLS report PDFs and text into validated reports.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/stwalsh4118/mlsreport/internal/config"
	apperrors "github.com/stwalsh4118/mlsreport/internal/errors"
	"github.com/stwalsh4118/mlsreport/internal/extractor"
	"github.com/stwalsh4118/mlsreport/internal/forecast"
	"github.com/stwalsh4118/mlsreport/internal/logger"
	"github.com/stwalsh4118/mlsreport/internal/metrics"
	"github.com/stwalsh4118/mlsreport/internal/models"
	"github.com/stwalsh4118/mlsreport/internal/pdftext"
	"github.com/stwalsh4118/mlsreport/internal/validation"
)

// Pipeline-level errors
var (
	// ErrEmptyPDF is reported verbatim for empty PDF input or a PDF with no text.
	ErrEmptyPDF = errors.New("Empty PDF") //nolint:staticcheck // consumers match on this exact message

	ErrNotMLSReport = errors.New("text does not look like an MLS report")
	ErrNoListings   = errors.New("no listings found in report text")
)

// unknownErrorMessage is reported for panics that carry no error.
const unknownErrorMessage = "Unknown error"

// Service defines the interface for turning report input into results.
// Processing failures are reported in the Result, never as a Go error.
type Service interface {
	// ProcessPDF extracts text from a PDF and processes it.
	// Empty input or a PDF without text fails with "Empty PDF".
	ProcessPDF(ctx context.Context, data []byte) Result

	// ProcessText sniffs, extracts, enriches and validates report text.
	ProcessText(ctx context.Context, text string) Result

	// ProcessBatch processes documents concurrently. Results are in input
	// order. The error is non-nil only when ctx ends the batch early.
	ProcessBatch(ctx context.Context, docs []Document) ([]Result, error)
}

// Document is one batch input: PDF bytes when Data is set, otherwise Text.
type Document struct {
	Name string
	Data []byte
	Text string
}

// Enricher fills report sections that report text does not carry, such as
// market trends or demographics.
type Enricher interface {
	Enrich(ctx context.Context, report *models.MLSReport) error
}

// EnricherFunc adapts a function to the Enricher interface.
type EnricherFunc func(ctx context.Context, report *models.MLSReport) error

// Enrich calls f.
func (f EnricherFunc) Enrich(ctx context.Context, report *models.MLSReport) error {
	return f(ctx, report)
}

// Option configures the service.
type Option func(*service)

// WithTextExtractor replaces the PDF text extractor.
func WithTextExtractor(te pdftext.TextExtractor) Option {
	return func(s *service) { s.textExtractor = te }
}

// WithEnrichers appends enrichers, run in order after extraction.
func WithEnrichers(enrichers ...Enricher) Option {
	return func(s *service) { s.enrichers = append(s.enrichers, enrichers...) }
}

// WithMetrics records into m instead of unregistered collectors.
func WithMetrics(m *metrics.PipelineMetrics) Option {
	return func(s *service) { s.metrics = m }
}

// stageError tags an error with the result code of the stage that failed.
type stageError struct {
	code string
	err  error
}

func (e *stageError) Error() string { return e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// service is the concrete implementation of Service.
type service struct {
	extractor     *extractor.Extractor
	textExtractor pdftext.TextExtractor
	enrichers     []Enricher
	metrics       *metrics.PipelineMetrics
	log           *logger.Logger

	maxAttempts int
	concurrency int
	strict      bool
	forecastCfg config.ForecastConfig
}

// NewService creates a new instance of Service.
func NewService(cfg *config.Config, log *logger.Logger, opts ...Option) Service {
	s := &service{
		extractor:     extractor.New(cfg.Pipeline.MarketCity, cfg.Statistics),
		textExtractor: pdftext.NewPDFCPUExtractor(),
		metrics:       metrics.Discard(),
		log:           log,
		maxAttempts:   max(cfg.Pipeline.MaxAttempts, 1),
		concurrency:   max(cfg.Pipeline.Concurrency, 1),
		strict:        cfg.Pipeline.Strict,
		forecastCfg:   cfg.Forecast,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessPDF extracts text from data and processes it.
func (s *service) ProcessPDF(ctx context.Context, data []byte) Result {
	return s.run(ctx, func(ctx context.Context) (string, error) {
		if len(data) == 0 {
			return "", ErrEmptyPDF
		}
		text, err := s.textExtractor.ExtractText(ctx, data)
		switch {
		case errors.Is(err, pdftext.ErrNoText):
			return "", ErrEmptyPDF
		case err != nil:
			return "", &stageError{code: apperrors.ErrTextExtraction, err: err}
		}
		return text, nil
	})
}

// ProcessText processes already-extracted report text.
func (s *service) ProcessText(ctx context.Context, text string) Result {
	return s.run(ctx, func(context.Context) (string, error) {
		return text, nil
	})
}

// run drives one report from its text source to a Result. Panics are
// recovered into failed results.
func (s *service) run(ctx context.Context, source func(context.Context) (string, error)) (result Result) {
	runID := uuid.NewString()
	log := s.log.WithRunID(runID)
	start := time.Now()
	result = Result{RunID: runID}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Panic recovered", fmt.Errorf("panic: %v", rec), map[string]interface{}{
				"stack": string(debug.Stack()),
			})
			result = result.failed(panicError(rec))
		}
		s.observe(result, time.Since(start))
	}()

	text, err := source(ctx)
	if err != nil {
		log.Warn("Failed to read report input", map[string]interface{}{"error": err.Error()})
		return result.failed(err)
	}
	result.RawText = text

	report, attempts, err := s.extract(ctx, log, text)
	result.Attempts = attempts
	if err != nil {
		return result.failed(err)
	}

	for _, e := range s.enrichers {
		if err := e.Enrich(ctx, report); err != nil {
			log.Error("Report enrichment failed", err, nil)
			return result.failed(&stageError{code: apperrors.ErrEnrichment, err: err})
		}
	}

	if s.strict {
		if err := validation.ValidateReport(report); err != nil {
			log.Info("Report failed validation", map[string]interface{}{"error": err.Error()})
			return result.failed(err)
		}
	} else {
		result.ValidationErrors = validation.CollectReportErrors(report)
	}

	if len(report.MarketTrends.PriceHistory) > 0 {
		analysis := forecast.Analyze(report.MarketTrends, s.forecastCfg)
		result.Forecast = &analysis
	}

	result.Success = true
	result.Data = report

	log.Info("Report processed", map[string]interface{}{
		"mls_number":        report.MLSNumber,
		"active_listings":   len(report.ActiveListings),
		"closed_listings":   len(report.ClosedListings),
		"attempts":          attempts,
		"validation_errors": len(result.ValidationErrors),
	})
	return result
}

// extract sniffs the text and then runs the extractor until it yields at
// least one listing, up to maxAttempts times. The extractor is
// deterministic; the loop bounds the failure path.
func (s *service) extract(ctx context.Context, log *logger.Logger, text string) (*models.MLSReport, int, error) {
	if !extractor.Sniff(text) {
		log.Warn("Text does not look like an MLS report", map[string]interface{}{
			"text_length": len(text),
		})
		return nil, 0, ErrNotMLSReport
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, attempt - 1, err
		}

		report := s.extractor.Extract(text)
		if report.ListingCount() > 0 {
			return report, attempt, nil
		}

		log.Debug("Extraction produced no listings", map[string]interface{}{
			"attempt":      attempt,
			"max_attempts": s.maxAttempts,
		})
	}

	return nil, s.maxAttempts, fmt.Errorf("%w after %d attempts", ErrNoListings, s.maxAttempts)
}

func (s *service) observe(result Result, elapsed time.Duration) {
	s.metrics.ProcessingDuration.Observe(elapsed.Seconds())
	if result.Attempts > 0 {
		s.metrics.ExtractionAttempts.Observe(float64(result.Attempts))
	}
	if !result.Success {
		s.metrics.ObserveFailure(result.ErrorCode)
		return
	}
	s.metrics.ObserveSuccess(
		len(result.Data.ActiveListings),
		len(result.Data.ClosedListings),
		len(result.ValidationErrors),
	)
}

// panicError keeps a panicked error's message; any other value becomes
// the generic unknown error.
func panicError(rec interface{}) error {
	if err, ok := rec.(error); ok {
		return &stageError{code: apperrors.ErrUnknown, err: err}
	}
	return &stageError{code: apperrors.ErrUnknown, err: errors.New(unknownErrorMessage)}
}

// errorCode maps a processing error to its result code.
func errorCode(err error) string {
	var stage *stageError
	var ve *apperrors.ValidationError

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrCanceled
	case errors.Is(err, ErrEmptyPDF):
		return apperrors.ErrEmptyPDF
	case errors.Is(err, ErrNotMLSReport):
		return apperrors.ErrNotMLSReport
	case errors.Is(err, ErrNoListings):
		return apperrors.ErrExtraction
	case errors.As(err, &ve):
		return apperrors.ErrValidation
	case errors.As(err, &stage):
		return stage.code
	default:
		return apperrors.ErrUnknown
	}
}
