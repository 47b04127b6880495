package service

import (
	"context"
	"errors"
	"testing"

	"carprice/internal/catalog"
	"carprice/internal/encoder"
	"carprice/internal/features"
	"carprice/internal/metrics"
	"carprice/internal/predictor"
	"carprice/internal/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePredictor returns a fixed price and counts its calls.
type fakePredictor struct {
	price float64
	err   error
	calls int
	last  features.Vector
}

func (f *fakePredictor) Predict(v features.Vector) (float64, error) {
	f.calls++
	f.last = v
	return f.price, f.err
}

func newPredictionService(t *testing.T, p predictor.Predictor, enforcePairs bool) (*PredictionService, *metrics.Metrics) {
	t.Helper()
	dir := t.TempDir()
	set, err := encoder.LoadSet(testutil.WriteArtifacts(t, dir))
	require.NoError(t, err)
	cat, err := catalog.LoadFile(testutil.WriteDataset(t, dir))
	require.NoError(t, err)

	m := metrics.New()
	svc := NewPredictionService(PredictionServiceConfig{
		Builder:      features.NewBuilder(set),
		Predictor:    p,
		Catalog:      cat,
		Vocabulary:   set,
		Metrics:      m,
		EnforcePairs: enforcePairs,
	})
	return svc, m
}

func TestPredict(t *testing.T) {
	fake := &fakePredictor{price: 123.4567}
	svc, m := newPredictionService(t, fake, true)

	result, err := svc.Predict(context.Background(), testutil.SwiftInput())
	require.NoError(t, err)

	assert.Equal(t, 123.4567, result.Raw)
	assert.Equal(t, 123.46, result.Price)
	assert.Equal(t, "123.46", result.Display)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, features.Vector{2015, 50000, 3, 1, 1, 0, 18.5, 1200, 80, 5, 5, 5}, fake.last)
	count, err := promtest.GatherAndCount(m.Registry(), "carprice_predictions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPredict_LinearModelEndToEnd(t *testing.T) {
	dir := t.TempDir()
	paths := testutil.WriteArtifacts(t, dir)
	model, err := predictor.Load(paths.Regressor, predictor.Options{})
	require.NoError(t, err)

	svc, _ := newPredictionService(t, model, true)
	result, err := svc.Predict(context.Background(), testutil.SwiftInput())
	require.NoError(t, err)
	assert.Equal(t, 537499.46, result.Price)
	assert.Equal(t, "537499.46", result.Display)
}

func TestPredict_WholeNumberDisplay(t *testing.T) {
	svc, _ := newPredictionService(t, &fakePredictor{price: 100}, true)

	result, err := svc.Predict(context.Background(), testutil.SwiftInput())
	require.NoError(t, err)
	assert.Equal(t, "100.0", result.Display)
}

func TestPredict_UnknownBrandNeverReachesModel(t *testing.T) {
	fake := &fakePredictor{price: 1}
	svc, _ := newPredictionService(t, fake, true)

	in := testutil.SwiftInput()
	in.Brand = "Unknown"

	_, err := svc.Predict(context.Background(), in)
	var categoryErr *encoder.UnknownCategoryError
	require.ErrorAs(t, err, &categoryErr)
	assert.Equal(t, encoder.FieldBrand, categoryErr.Field)
	assert.Equal(t, "Unknown", categoryErr.Label)
	assert.Zero(t, fake.calls)
	assert.Equal(t, metrics.OutcomeUnknownCategory, Outcome(err))
}

func TestPredict_InputFormatNeverReachesModel(t *testing.T) {
	fake := &fakePredictor{price: 1}
	svc, _ := newPredictionService(t, fake, true)

	in := testutil.SwiftInput()
	in.Year = "abc"

	_, err := svc.Predict(context.Background(), in)
	var formatErr *features.InputFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "year", formatErr.Field)
	assert.Zero(t, fake.calls)
	assert.True(t, IsValidationError(err))
}

func TestPredict_PairEnforcement(t *testing.T) {
	// X1 is a trained model label but the catalog only has it under BMW.
	in := testutil.SwiftInput()
	in.Model = "X1"

	t.Run("enforced", func(t *testing.T) {
		fake := &fakePredictor{price: 1}
		svc, _ := newPredictionService(t, fake, true)

		_, err := svc.Predict(context.Background(), in)
		var categoryErr *encoder.UnknownCategoryError
		require.ErrorAs(t, err, &categoryErr)
		assert.Equal(t, encoder.FieldModel, categoryErr.Field)
		assert.Equal(t, "Maruti", categoryErr.Within)
		assert.Zero(t, fake.calls)
	})

	t.Run("not enforced", func(t *testing.T) {
		fake := &fakePredictor{price: 1}
		svc, _ := newPredictionService(t, fake, false)

		_, err := svc.Predict(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, 1, fake.calls)
	})
}

func TestPredict_ModelError(t *testing.T) {
	svc, m := newPredictionService(t, &fakePredictor{err: errors.New("session closed")}, true)

	_, err := svc.Predict(context.Background(), testutil.SwiftInput())
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
	assert.Equal(t, metrics.OutcomeError, Outcome(err))
	count, err := promtest.GatherAndCount(m.Registry(), "carprice_predictions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOptions(t *testing.T) {
	svc, _ := newPredictionService(t, &fakePredictor{}, true)

	opts := svc.Options()
	assert.Equal(t, []string{"Audi", "BMW", "Honda", "Hyundai", "Mahindra", "Maruti", "Toyota"}, opts.Brands)
	assert.Len(t, opts.Entries, 8)
	assert.Equal(t, testutil.Fuels, opts.Fuels)
	assert.Equal(t, testutil.SellerTypes, opts.SellerTypes)
	assert.Equal(t, testutil.Transmissions, opts.Transmissions)
	assert.Equal(t, testutil.Owners, opts.Owners)

	assert.Equal(t, []string{"Swift"}, svc.ModelsFor("Maruti"))
	assert.Empty(t, svc.ModelsFor("Tata"))
}

func TestOutcome(t *testing.T) {
	joined := errors.Join(
		&features.InputFormatError{Field: "year", Value: "x"},
		&features.InputFormatError{Field: "seats", Value: "y"},
	)
	assert.Equal(t, metrics.OutcomeInputFormat, Outcome(joined))
	assert.Equal(t, metrics.OutcomeOK, Outcome(nil))
	assert.False(t, IsValidationError(nil))
}
