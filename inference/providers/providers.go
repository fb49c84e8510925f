// Package providers - ONNX Runtime execution provider selection.
package providers

import (
	"fmt"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// ProviderBackend represents different ONNX Runtime execution providers
type ProviderBackend string

const (
	// CPUProviderBackend runs on the default CPU provider.
	CPUProviderBackend ProviderBackend = "cpu"
	// CUDAProviderBackend uses NVIDIA CUDA for inference optimization.
	CUDAProviderBackend ProviderBackend = "cuda"
	// CoreMLProviderBackend uses Apple CoreML.
	CoreMLProviderBackend ProviderBackend = "coreml"
	// OpenVINOProviderBackend uses Intel OpenVINO.
	OpenVINOProviderBackend ProviderBackend = "openvino"
)

// Config selects the execution provider for an ONNX session.
type Config struct {
	// Backend is the execution provider. Empty means CPU.
	Backend ProviderBackend `json:"backend" yaml:"backend" koanf:"backend"`
	// DeviceID is the CUDA device index.
	DeviceID int `json:"device_id" yaml:"device_id" koanf:"deviceid"`
	// DeviceType is the OpenVINO target, for example CPU or GPU.
	DeviceType string `json:"device_type" yaml:"device_type" koanf:"devicetype"`
	// Threads caps intra-op parallelism. 0 lets the runtime decide.
	Threads int `json:"threads" yaml:"threads" koanf:"threads"`
}

// Validate checks the backend name and numeric options.
func (c Config) Validate() error {
	switch c.Backend {
	case "", CPUProviderBackend, CUDAProviderBackend, CoreMLProviderBackend, OpenVINOProviderBackend:
	default:
		return errors.Errorf("unsupported execution provider %q", c.Backend)
	}
	if c.DeviceID < 0 {
		return errors.Errorf("device id %d is negative", c.DeviceID)
	}
	if c.Threads < 0 {
		return errors.Errorf("threads %d is negative", c.Threads)
	}
	return nil
}

// cudaOptions are the CUDA provider settings.
// See:
// https://onnxruntime.ai/docs/execution-providers/CUDA-ExecutionProvider.html#configuration-options
func (c Config) cudaOptions() map[string]string {
	return map[string]string{
		"device_id":                 fmt.Sprintf("%d", c.DeviceID),
		"do_copy_in_default_stream": "1",
	}
}

// openVINOOptions are the OpenVINO provider settings.
// See:
// https://onnxruntime.ai/docs/execution-providers/OpenVINO-ExecutionProvider.html#summary-of-options
func (c Config) openVINOOptions() map[string]string {
	deviceType := c.DeviceType
	if deviceType == "" {
		deviceType = "CPU"
	}
	opts := map[string]string{"device_type": deviceType}
	if c.Threads > 0 {
		opts["num_of_threads"] = fmt.Sprintf("%d", c.Threads)
	}
	return opts
}

// NewSessionOptions builds session options with the configured execution
// provider appended. The caller must Destroy them once the session exists.
//
// Arguments:
//   - c: The provider configuration.
//
// Returns:
//   - *ort.SessionOptions: The options.
//   - error: When the runtime rejects the provider.
func NewSessionOptions(c Config) (*ort.SessionOptions, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "creating ORT session options")
	}

	if err := configure(options, c); err != nil {
		options.Destroy()
		return nil, err
	}
	return options, nil
}

func configure(options *ort.SessionOptions, c Config) error {
	if err := options.SetIntraOpNumThreads(c.Threads); err != nil {
		return errors.Wrap(err, "setting intra-op threads")
	}
	if err := options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended); err != nil {
		return errors.Wrap(err, "setting graph optimization level")
	}

	switch c.Backend {
	case "", CPUProviderBackend:
		return nil
	case CoreMLProviderBackend:
		return errors.Wrap(options.AppendExecutionProviderCoreML(0), "enabling CoreML")
	case OpenVINOProviderBackend:
		return errors.Wrap(options.AppendExecutionProviderOpenVINO(c.openVINOOptions()), "enabling OpenVINO")
	case CUDAProviderBackend:
		cuda, err := ort.NewCUDAProviderOptions()
		if err != nil {
			return errors.Wrap(err, "creating CUDA options")
		}
		defer cuda.Destroy()
		if err := cuda.Update(c.cudaOptions()); err != nil {
			return errors.Wrap(err, "updating CUDA options")
		}
		return errors.Wrap(options.AppendExecutionProviderCUDA(cuda), "enabling CUDA")
	}
	return nil
}
