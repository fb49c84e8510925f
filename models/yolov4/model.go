// Package yolov4 - YOLOv4 model.
package yolov4

import (
	"image"
	"os"

	"github.com/pkg/errors"

	"github.com/nvr-ai/yolo-viewer/inference/providers"
	"github.com/nvr-ai/yolo-viewer/models/labels"
	"github.com/nvr-ai/yolo-viewer/models/postprocess"
)

const (
	// DefaultInputSize is the network resolution the COCO weights were trained at.
	DefaultInputSize = 416
	// scaleFactor maps 8-bit pixels into [0,1].
	scaleFactor = 1.0 / 255.0
)

// Options is the options for the YOLOv4 model.
type Options struct {
	// Path is the weights file (darknet) or the model file (onnx).
	Path string
	// NetConfig is the darknet network description.
	NetConfig string
	// InputSize is the network input resolution.
	InputSize image.Point
	// Labels resolves class ids. Nil means COCO.
	Labels *labels.Set
	// Decoder holds the decode thresholds.
	Decoder postprocess.Config
	// SharedLibrary is the ONNX Runtime library (onnx only).
	SharedLibrary string
	// Inputs and Outputs name the ONNX tensors (onnx only).
	Inputs  []string
	Outputs []string
	// Provider selects the ONNX Runtime execution provider (onnx only).
	Provider providers.Config
}

// withDefaults fills unset options.
func (o Options) withDefaults() Options {
	if o.InputSize == (image.Point{}) {
		o.InputSize = image.Pt(DefaultInputSize, DefaultInputSize)
	}
	if o.Labels == nil {
		o.Labels = labels.COCO()
	}
	if o.Decoder == (postprocess.Config{}) {
		o.Decoder = postprocess.DefaultConfig()
	}
	return o
}

func (o Options) validate() error {
	if o.InputSize.X <= 0 || o.InputSize.Y <= 0 {
		return errors.Errorf("input size %v must be positive", o.InputSize)
	}
	if err := o.Decoder.Validate(); err != nil {
		return err
	}
	if err := o.Provider.Validate(); err != nil {
		return err
	}
	return requireFile(o.Path, "model")
}

func requireFile(path, what string) error {
	if path == "" {
		return errors.Errorf("%s path is not set", what)
	}
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(err, "%s file %s", what, path)
	}
	return nil
}
