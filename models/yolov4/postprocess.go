// Package yolov4 - postprocess YOLOv4 model outputs.
package yolov4

import (
	"image"

	"gorgonia.org/tensor"

	"github.com/nvr-ai/yolo-viewer/models/postprocess"
)

// decodeHeads turns the raw YOLO head outputs into detections.
//
// Arguments:
//   - heads: The output tensors, each [rows, 5+C] or [1, rows, 5+C].
//   - frame: The size of the frame the blob was built from.
//   - opts: The model options holding labels and thresholds.
//
// Returns:
//   - A slice of postprocessed results.
func decodeHeads(heads []tensor.Tensor, frame image.Point, opts Options) ([]postprocess.Result, error) {
	predictions, err := postprocess.PredictionsFromTensors(heads...)
	if err != nil {
		return nil, err
	}
	return postprocess.Decode(predictions, frame.X, frame.Y, opts.Labels, opts.Decoder)
}
