package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"carprice/internal/catalog"
	"carprice/internal/encoder"
	"carprice/internal/features"
	"carprice/internal/metrics"
	"carprice/internal/model"
	"carprice/internal/predictor"
	"carprice/internal/utils"
)

// Vocabulary lists the trained labels of a categorical field
type Vocabulary interface {
	Vocabulary(field encoder.Field) []string
}

// PredictionService turns a form submission into a rounded price
type PredictionService struct {
	builder      *features.Builder
	predictor    predictor.Predictor
	catalog      *catalog.Catalog
	vocabulary   Vocabulary
	metrics      *metrics.Metrics
	logger       *slog.Logger
	enforcePairs bool
}

// PredictionServiceConfig collects the collaborators of a PredictionService
type PredictionServiceConfig struct {
	Builder    *features.Builder
	Predictor  predictor.Predictor
	Catalog    *catalog.Catalog
	Vocabulary Vocabulary
	Metrics    *metrics.Metrics // optional
	Logger     *slog.Logger     // optional

	// EnforcePairs rejects brand/model combinations missing from the catalog
	EnforcePairs bool
}

// NewPredictionService creates a new prediction service
func NewPredictionService(cfg PredictionServiceConfig) *PredictionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictionService{
		builder:      cfg.Builder,
		predictor:    cfg.Predictor,
		catalog:      cfg.Catalog,
		vocabulary:   cfg.Vocabulary,
		metrics:      cfg.Metrics,
		logger:       logger,
		enforcePairs: cfg.EnforcePairs,
	}
}

// Predict validates the input, runs the model and rounds the result.
// Validation failures come back as *features.InputFormatError (possibly
// joined) or *encoder.UnknownCategoryError and never reach the model.
func (s *PredictionService) Predict(ctx context.Context, in model.RawInput) (*model.PredictionResult, error) {
	startTime := time.Now()

	vector, err := s.builder.Build(in)
	if err == nil && s.enforcePairs {
		err = s.checkPair(in.Brand.String(), in.Model.String())
	}
	if err != nil {
		outcome := Outcome(err)
		s.metrics.ObservePrediction(outcome, time.Since(startTime), 0)
		s.logger.InfoContext(ctx, "prediction rejected", "outcome", outcome, "error", err)
		return nil, err
	}

	raw, err := s.predictor.Predict(vector)
	if err != nil {
		s.metrics.ObservePrediction(metrics.OutcomeError, time.Since(startTime), 0)
		s.logger.ErrorContext(ctx, "model failed", "error", err)
		return nil, err
	}

	price := predictor.Round2(raw)
	took := time.Since(startTime)
	s.metrics.ObservePrediction(metrics.OutcomeOK, took, price)
	s.logger.InfoContext(ctx, "prediction",
		"brand", in.Brand.String(),
		"model", in.Model.String(),
		"year", in.Year.String(),
		"price", price,
		"took", took,
	)

	return &model.PredictionResult{
		Raw:     raw,
		Price:   price,
		Display: predictor.FormatPrice(price),
	}, nil
}

func (s *PredictionService) checkPair(brand, carModel string) error {
	if s.catalog == nil || s.catalog.Contains(brand, carModel) {
		return nil
	}
	err := &encoder.UnknownCategoryError{
		Field:  encoder.FieldModel,
		Label:  carModel,
		Within: brand,
	}
	if suggestion, ok := utils.SuggestLabel(carModel, s.catalog.ModelsFor(brand)); ok {
		err.Suggestion = suggestion
	}
	return err
}

// Options returns the values the prediction form offers
func (s *PredictionService) Options() model.FormOptions {
	opts := model.FormOptions{
		Fuels:         s.vocabulary.Vocabulary(encoder.FieldFuel),
		SellerTypes:   s.vocabulary.Vocabulary(encoder.FieldSellerType),
		Transmissions: s.vocabulary.Vocabulary(encoder.FieldTransmission),
		Owners:        s.vocabulary.Vocabulary(encoder.FieldOwner),
	}
	if s.catalog != nil {
		opts.Brands = s.catalog.Brands()
		opts.Entries = s.catalog.Entries()
	}
	return opts
}

// Brands returns the distinct catalog brands
func (s *PredictionService) Brands() []string {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Brands()
}

// ModelsFor returns the catalog models of one brand
func (s *PredictionService) ModelsFor(brand string) []string {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.ModelsFor(brand)
}

// Outcome classifies a prediction error for metrics and API responses
func Outcome(err error) string {
	var formatErr *features.InputFormatError
	var categoryErr *encoder.UnknownCategoryError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &formatErr):
		return metrics.OutcomeInputFormat
	case errors.As(err, &categoryErr):
		return metrics.OutcomeUnknownCategory
	default:
		return metrics.OutcomeError
	}
}

// IsValidationError reports whether err was caused by the submitted values
func IsValidationError(err error) bool {
	switch Outcome(err) {
	case metrics.OutcomeInputFormat, metrics.OutcomeUnknownCategory:
		return true
	}
	return false
}
