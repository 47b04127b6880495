package predictor

import (
	"fmt"

	"carprice/internal/features"
)

// LinearModel is intercept + coefficients · x.
type LinearModel struct {
	intercept    float64
	coefficients features.Vector
}

// NewLinearModel requires exactly one coefficient per feature.
func NewLinearModel(intercept float64, coefficients []float64) (*LinearModel, error) {
	if len(coefficients) != features.Size {
		return nil, fmt.Errorf("linear model has %d coefficients, expected %d", len(coefficients), features.Size)
	}
	m := &LinearModel{intercept: intercept}
	copy(m.coefficients[:], coefficients)
	return m, nil
}

// Predict implements Predictor.
func (m *LinearModel) Predict(v features.Vector) (float64, error) {
	sum := m.intercept
	for i, c := range m.coefficients {
		sum += c * v[i]
	}
	return checkFinite(sum)
}

func (m *LinearModel) String() string {
	return fmt.Sprintf("linear(%d coefficients)", features.Size)
}
