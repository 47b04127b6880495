// Package artifact loads the pre-trained files the predictor needs at startup:
// six category encoders, the feature list and the regression model.
//
// Artifacts are YAML documents. JSON is a subset of YAML, so files exported
// as JSON by the training pipeline load unchanged.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadError reports a missing, unreadable or malformed artifact.
// It is fatal: the server refuses to start when one is returned.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load artifact %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Errorf builds a LoadError for a structurally invalid artifact.
func Errorf(path, format string, args ...any) error {
	return &LoadError{Path: path, Err: fmt.Errorf(format, args...)}
}

// IsLoadError reports whether err (or anything it wraps) is a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// Load decodes the artifact at path into v.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	if len(data) == 0 {
		return Errorf(path, "empty file")
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return &LoadError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// Paths locates every artifact the application loads.
type Paths struct {
	Brand        string
	Model        string
	Fuel         string
	Seller       string
	Transmission string
	Owner        string
	Features     string
	Regressor    string
}

// Default file names inside the artifact directory.
const (
	BrandFile        = "le_brand.yaml"
	ModelFile        = "le_model.yaml"
	FuelFile         = "le_fuel.yaml"
	SellerFile       = "le_seller.yaml"
	TransmissionFile = "le_trans.yaml"
	OwnerFile        = "le_owner.yaml"
	FeaturesFile     = "features.yaml"
	RegressorFile    = "car_price_model.yaml"
)

// DefaultPaths returns the conventional layout under dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Brand:        filepath.Join(dir, BrandFile),
		Model:        filepath.Join(dir, ModelFile),
		Fuel:         filepath.Join(dir, FuelFile),
		Seller:       filepath.Join(dir, SellerFile),
		Transmission: filepath.Join(dir, TransmissionFile),
		Owner:        filepath.Join(dir, OwnerFile),
		Features:     filepath.Join(dir, FeaturesFile),
		Regressor:    filepath.Join(dir, RegressorFile),
	}
}

// Resolve makes a path referenced from inside an artifact relative to that
// artifact's directory. Absolute paths are returned unchanged.
func Resolve(from, ref string) string {
	if ref == "" || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(filepath.Dir(from), ref)
}
