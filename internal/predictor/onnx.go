package predictor

import (
	"errors"
	"fmt"
	"sync"

	"carprice/internal/features"

	ort "github.com/yalue/onnxruntime_go"
)

// Tensor names skl2onnx gives a converted regressor.
const (
	defaultONNXInput  = "float_input"
	defaultONNXOutput = "variable"
)

var (
	ortOnce sync.Once
	ortErr  error
)

// initRuntime loads the onnxruntime library once per process.
func initRuntime(libraryPath string) error {
	ortOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		ortErr = ort.InitializeEnvironment()
	})
	return ortErr
}

// ONNXModel runs a converted model through ONNX Runtime. The session is
// bound to a single input and output tensor, so Predict calls are serialized.
type ONNXModel struct {
	path    string
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewONNXModel opens the graph at modelPath with a [1, 12] float input and a
// [1, 1] output.
func NewONNXModel(modelPath, inputName, outputName, libraryPath string) (*ONNXModel, error) {
	if inputName == "" {
		inputName = defaultONNXInput
	}
	if outputName == "" {
		outputName = defaultONNXOutput
	}
	if err := initRuntime(libraryPath); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", err)
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, features.Size))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{inputName}, []string{outputName},
		[]ort.Value{input}, []ort.Value{output}, nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("open onnx session %s: %w", modelPath, err)
	}

	return &ONNXModel{
		path:    modelPath,
		session: session,
		input:   input,
		output:  output,
	}, nil
}

// Predict implements Predictor.
func (m *ONNXModel) Predict(v features.Vector) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return 0, errors.New("onnx model is closed")
	}

	data := m.input.GetData()
	for i, x := range v {
		data[i] = float32(x)
	}
	if err := m.session.Run(); err != nil {
		return 0, fmt.Errorf("run onnx session: %w", err)
	}
	return checkFinite(float64(m.output.GetData()[0]))
}

// Close releases ORT resources.
func (m *ONNXModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil
	}
	err := errors.Join(m.session.Destroy(), m.input.Destroy(), m.output.Destroy())
	m.session = nil
	return err
}

func (m *ONNXModel) String() string {
	return fmt.Sprintf("onnx(%s)", m.path)
}
