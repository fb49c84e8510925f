// Package postprocess - Postprocessing utilities for detection models.
package postprocess

import (
	"fmt"

	"github.com/nvr-ai/yolo-viewer/images"
)

// RawPrediction is the network output for a single anchor. Spatial values
// are normalized to [0,1] relative to the network input.
type RawPrediction struct {
	CenterX float32
	CenterY float32
	Width   float32
	Height  float32
	// Scores holds one score per class, indexed by class id.
	Scores []float32
}

// Result represents a single detection result.
type Result struct {
	// The bounding box of the result in source image pixels.
	Box images.Rect
	// The confidence score of the result.
	Score float32
	// The predicted class index of the result.
	Class int
	// The class name resolved from the label set.
	Label string
}

// String formats the result for logs and the headless CLI.
func (r Result) String() string {
	return fmt.Sprintf("%s (confidence %.6f): %s", r.Label, r.Score, r.Box)
}

// Boxes converts results into drawable labeled boxes.
func Boxes(results []Result) []images.Box {
	boxes := make([]images.Box, len(results))
	for i, r := range results {
		boxes[i] = images.Box{Rect: r.Box, Label: r.Label}
	}
	return boxes
}
