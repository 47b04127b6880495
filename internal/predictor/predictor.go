// Package predictor wraps the pre-trained price regression model.
//
// The model is an opaque artifact chosen by its "kind": a linear model, a
// tree ensemble exported node by node, or an ONNX graph run through ONNX
// Runtime. All of them take one features.Vector and return one price.
package predictor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"carprice/internal/artifact"
	"carprice/internal/features"
)

// Predictor produces a price for one feature vector. Implementations are
// safe for concurrent use and give the same output for the same input.
type Predictor interface {
	Predict(v features.Vector) (float64, error)
}

// Options carries settings that are not part of the model artifact.
type Options struct {
	// ONNXLibraryPath points at the onnxruntime shared library. Empty means
	// the platform default search path.
	ONNXLibraryPath string
}

// Model kinds.
const (
	KindLinear = "linear"
	KindForest = "forest"
	KindONNX   = "onnx"
)

// modelFile is the on-disk model artifact. Only the fields of its kind are used.
type modelFile struct {
	Kind     string   `yaml:"kind"`
	Features []string `yaml:"features"`

	// linear
	Intercept    float64   `yaml:"intercept"`
	Coefficients []float64 `yaml:"coefficients"`

	// forest
	Aggregate    string     `yaml:"aggregate"`
	Base         float64    `yaml:"base"`
	LearningRate *float64   `yaml:"learning_rate"`
	Trees        []treeFile `yaml:"trees"`

	// onnx
	Path   string `yaml:"path"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// Load reads the model artifact at path and builds the matching predictor.
// Any problem is returned as an *artifact.LoadError.
func Load(path string, opts Options) (Predictor, error) {
	var s modelFile
	if err := artifact.Load(path, &s); err != nil {
		return nil, err
	}
	if len(s.Features) > 0 {
		if err := features.CheckOrder(s.Features); err != nil {
			return nil, &artifact.LoadError{Path: path, Err: err}
		}
	}

	var (
		p   Predictor
		err error
	)
	switch s.Kind {
	case KindLinear:
		p, err = NewLinearModel(s.Intercept, s.Coefficients)
	case KindForest:
		p, err = newForestFromFile(s)
	case KindONNX:
		if s.Path == "" {
			return nil, artifact.Errorf(path, "onnx model requires a path")
		}
		p, err = NewONNXModel(artifact.Resolve(path, s.Path), s.Input, s.Output, opts.ONNXLibraryPath)
	case "":
		return nil, artifact.Errorf(path, "model kind is not set")
	default:
		return nil, artifact.Errorf(path, "unsupported model kind %q", s.Kind)
	}
	if err != nil {
		return nil, &artifact.LoadError{Path: path, Err: err}
	}
	return p, nil
}

// Round2 rounds to two decimals. The exact binary value decides, so 2.675
// (stored as 2.67499...) rounds down and only true halves go to even.
func Round2(x float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	return v
}

// FormatPrice renders a raw prediction the way the result page shows it:
// rounded to two decimals, without trailing zeros but always with one
// fractional digit, so 123.4567 is "123.46" and 100.0 is "100.0".
func FormatPrice(x float64) string {
	s := strings.TrimRight(strconv.FormatFloat(x, 'f', 2, 64), "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

func checkFinite(x float64) (float64, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("model produced a non-finite value %v", x)
	}
	return x, nil
}
