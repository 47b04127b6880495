package predictor

import (
	"fmt"
	"os"
	"testing"

	"carprice/internal/artifact"
	"carprice/internal/features"
	"carprice/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// [year, km, fuel, seller, trans, owner, mileage, engine, power, seats, brand, model]
var swift = features.Vector{2015, 50000, 3, 1, 1, 0, 18.5, 1200, 80, 5, 5, 5}

const forestDoc = `kind: forest
aggregate: %s
base: 1000
learning_rate: 0.5
features: [year, km_driven, fuel, seller_type, transmission, owner, mileage, engine, max_power, seats, brand, model]
trees:
  - nodes:
      - {feature: 0, threshold: 2014.5, left: 1, right: 2}
      - {leaf: true, value: 300000}
      - {feature: 8, threshold: 100, left: 3, right: 4}
      - {leaf: true, value: 500000}
      - {leaf: true, value: 900000}
  - nodes:
      - {feature: 1, threshold: 60000, left: 1, right: 2}
      - {left: -1, right: -1, value: 600000}
      - {left: -1, right: -1, value: 400000}
`

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{123.4567, 123.46},
		{100.0, 100.0},
		{2.675, 2.67}, // stored just below the half
		{0.125, 0.12}, // exact half goes to even
		{537499.4568, 537499.46},
		{237.795, 237.79},
		{3961.485, 3961.49}, // stored just above the half
		{1316.7250000000001, 1316.73},
		{-2.675, -2.67},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{123.4567, "123.46"},
		{100.0, "100.0"},
		{100.004, "100.0"},
		{99.999, "100.0"},
		{450000.5, "450000.5"},
		{0, "0.0"},
		{2.675, "2.67"},
		{1316.7250000000001, "1316.73"},
		{237.795, "237.79"},
		{1234567.5, "1234567.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.in), "FormatPrice(%v)", tt.in)
	}
}

func TestLinearModel(t *testing.T) {
	_, err := NewLinearModel(0, []float64{1, 2, 3})
	require.Error(t, err)

	coef := make([]float64, features.Size)
	coef[features.SlotYear] = 500
	coef[features.SlotKmDriven] = -1
	coef[features.SlotMaxPower] = 1000
	m, err := NewLinearModel(-500000.5432, coef)
	require.NoError(t, err)

	got, err := m.Predict(swift)
	require.NoError(t, err)
	assert.InDelta(t, 537499.4568, got, 1e-6)
	assert.Equal(t, "537499.46", FormatPrice(got))

	again, err := m.Predict(swift)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestForest(t *testing.T) {
	dir := t.TempDir()

	t.Run("mean", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "mean.yaml", fmt.Sprintf(forestDoc, "mean"))
		p, err := Load(path, Options{})
		require.NoError(t, err)

		got, err := p.Predict(swift)
		require.NoError(t, err)
		assert.Equal(t, 550000.0, got)

		older := swift
		older[features.SlotYear] = 2010
		older[features.SlotKmDriven] = 90000
		got, err = p.Predict(older)
		require.NoError(t, err)
		assert.Equal(t, 350000.0, got)
	})

	t.Run("sum", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "sum.yaml", fmt.Sprintf(forestDoc, "sum"))
		p, err := Load(path, Options{})
		require.NoError(t, err)

		got, err := p.Predict(swift)
		require.NoError(t, err)
		assert.Equal(t, 551000.0, got)
	})
}

func TestNewTree_Validation(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
	}{
		{"empty", nil},
		{"feature out of range", []Node{{Feature: 12, Left: 1, Right: 2}, {Leaf: true}, {Leaf: true}}},
		{"child points backwards", []Node{{Feature: 0, Left: 0, Right: 1}, {Leaf: true}}},
		{"child past the end", []Node{{Feature: 0, Left: 1, Right: 5}, {Leaf: true}}},
		{"split without children", []Node{{Feature: 3, Threshold: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTree(tt.nodes)
			assert.Error(t, err)
		})
	}
}

func TestNewForest_Validation(t *testing.T) {
	leaf, err := NewTree([]Node{{Leaf: true, Value: 1}})
	require.NoError(t, err)

	_, err = NewForest(nil, AggregateMean, 0, 1)
	assert.Error(t, err)
	_, err = NewForest([]*Tree{leaf}, "median", 0, 1)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("linear fixture", func(t *testing.T) {
		paths := testutil.WriteArtifacts(t, dir)
		p, err := Load(paths.Regressor, Options{})
		require.NoError(t, err)
		assert.IsType(t, &LinearModel{}, p)
	})

	bad := []struct {
		name string
		body string
	}{
		{"no kind", "intercept: 1\n"},
		{"unknown kind", "kind: svm\n"},
		{"short coefficients", "kind: linear\ncoefficients: [1, 2]\n"},
		{"reordered features", "kind: linear\nfeatures: [km_driven, year]\ncoefficients: [0,0,0,0,0,0,0,0,0,0,0,0]\n"},
		{"forest without trees", "kind: forest\n"},
		{"broken tree", "kind: forest\ntrees:\n  - nodes:\n      - {feature: 0, threshold: 1, left: 0, right: 0}\n"},
		{"onnx without path", "kind: onnx\n"},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, dir, "model.yaml", tt.body)
			_, err := Load(path, Options{})
			require.Error(t, err)
			assert.True(t, artifact.IsLoadError(err), "got %v", err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(dir+"/absent.yaml", Options{})
		assert.True(t, artifact.IsLoadError(err))
	})
}

// TestONNXModel needs the onnxruntime library and an exported regressor:
// ONNXRUNTIME_LIB=/usr/lib/libonnxruntime.so ONNX_TEST_MODEL=model.onnx
func TestONNXModel(t *testing.T) {
	lib, modelPath := os.Getenv("ONNXRUNTIME_LIB"), os.Getenv("ONNX_TEST_MODEL")
	if lib == "" || modelPath == "" {
		t.Skip("ONNXRUNTIME_LIB and ONNX_TEST_MODEL not set")
	}

	m, err := NewONNXModel(modelPath, "", "", lib)
	require.NoError(t, err)
	defer m.Close()

	first, err := m.Predict(swift)
	require.NoError(t, err)
	second, err := m.Predict(swift)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, m.Close())
	_, err = m.Predict(swift)
	assert.Error(t, err)
}
