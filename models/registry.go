// Package models - registry for models.
package models

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/yolo-viewer/models/labels"
	"github.com/nvr-ai/yolo-viewer/models/model"
	"github.com/nvr-ai/yolo-viewer/models/yolov4"
)

// NewModel creates a detection model from its configuration.
//
// The label set is loaded once here, from cfg.Labels when set and from the
// built-in COCO list otherwise, and handed to the model for the lifetime of
// the process.
//
// Arguments:
//   - cfg: The model name, backend, file paths and decode thresholds.
//
// Returns:
//   - model.Model: The loaded model.
//   - error: When labels cannot be loaded, the name or backend is
//     unsupported, or the backend fails to load.
//
// Example:
//
// ```go
//
//	m, err := NewModel(model.Config{
//	    Name:      model.ModelNameYOLOv4,
//	    Backend:   model.BackendDarknet,
//	    Path:      "yolov4.weights",
//	    NetConfig: "yolov4.cfg",
//	    Labels:    "coco.names",
//	})
//
// ```
func NewModel(cfg model.Config) (model.Model, error) {
	set, err := LoadLabels(cfg.Labels)
	if err != nil {
		return nil, err
	}

	if cfg.Name != "" && cfg.Name != model.ModelNameYOLOv4 {
		return nil, errors.Errorf("unsupported model name: %s", cfg.Name)
	}

	opts := yolov4.Options{
		Path:          cfg.Path,
		NetConfig:     cfg.NetConfig,
		InputSize:     cfg.InputSize,
		Labels:        set,
		Decoder:       cfg.Decoder,
		SharedLibrary: cfg.SharedLibrary,
		Inputs:        cfg.Inputs,
		Outputs:       cfg.Outputs,
		Provider:      cfg.Provider,
	}

	switch cfg.Backend {
	case model.BackendDarknet, "":
		m, err := yolov4.NewDarknet(opts)
		if err != nil {
			return nil, err
		}
		return m, nil
	case model.BackendONNX:
		m, err := yolov4.NewONNX(opts)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, errors.Errorf("unsupported backend: %s", cfg.Backend)
	}
}

// LoadLabels loads the label file at path, or the COCO labels when path is
// empty.
func LoadLabels(path string) (*labels.Set, error) {
	if path == "" {
		return labels.COCO(), nil
	}
	return labels.LoadFile(path)
}
