// Package model - Shared definitions for detection models.
package model

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/nvr-ai/yolo-viewer/inference/providers"
	"github.com/nvr-ai/yolo-viewer/models/postprocess"
)

// Name is the unique identifier of a model.
type Name string

const (
	// ModelNameYOLOv4 is the name of the YOLOv4 model.
	ModelNameYOLOv4 Name = "yolov4"
)

// Backend selects the runtime that executes the network.
type Backend string

const (
	// BackendDarknet runs darknet cfg/weights through the OpenCV DNN module.
	BackendDarknet Backend = "darknet"
	// BackendONNX runs an ONNX export through ONNX Runtime.
	BackendONNX Backend = "onnx"
)

// Config describes which model to load and how to decode its output.
type Config struct {
	Name    Name    `json:"name" yaml:"name" koanf:"name"`
	Backend Backend `json:"backend" yaml:"backend" koanf:"backend"`
	// Path is the darknet weights file or the ONNX model file.
	Path string `json:"path" yaml:"path" koanf:"path"`
	// NetConfig is the darknet network description (yolov4.cfg).
	NetConfig string `json:"net_config" yaml:"net_config" koanf:"netconfig"`
	// Labels is a file with one class name per line. Empty means COCO.
	Labels string `json:"labels" yaml:"labels" koanf:"labels"`
	// InputSize is the network input resolution.
	InputSize image.Point `json:"input_size" yaml:"input_size" koanf:"inputsize"`
	// SharedLibrary is the ONNX Runtime library path (onnx backend only).
	SharedLibrary string `json:"shared_library" yaml:"shared_library" koanf:"sharedlibrary"`
	// Inputs and Outputs are the ONNX tensor names (onnx backend only).
	Inputs  []string `json:"inputs" yaml:"inputs" koanf:"inputs"`
	Outputs []string `json:"outputs" yaml:"outputs" koanf:"outputs"`
	// Provider selects the ONNX Runtime execution provider (onnx backend only).
	Provider providers.Config `json:"provider" yaml:"provider" koanf:"provider"`
	// Decoder holds the confidence and suppression thresholds.
	Decoder postprocess.Config `json:"decoder" yaml:"decoder" koanf:"decoder"`
}

// Model runs inference on a frame and returns decoded detections in the
// frame's pixel coordinates.
type Model interface {
	Detect(img gocv.Mat) ([]postprocess.Result, error)
	Close() error
}
