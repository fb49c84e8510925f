package postprocess

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// headFields is the number of leading values per row of a YOLO head:
// center x, center y, width, height and objectness. Class scores follow.
const headFields = 5

// PredictionsFromTensor reads a YOLO head output of shape [rows, 5+C] or
// [1, rows, 5+C] into RawPredictions. Objectness is not used; the class
// scores alone decide the confidence.
//
// The data is copied, so the tensor may be backed by memory that is released
// right after the call (e.g. an OpenCV Mat).
//
// Arguments:
//   - t: A float32 tensor.
//
// Returns:
//   - []RawPrediction: One prediction per row.
//   - error: ErrInvalidInput for unsupported shapes or element types.
func PredictionsFromTensor(t tensor.Tensor) ([]RawPrediction, error) {
	shape := t.Shape()

	var rows, cols int
	switch shape.Dims() {
	case 2:
		rows, cols = shape[0], shape[1]
	case 3:
		if shape[0] != 1 {
			return nil, errors.Wrapf(ErrInvalidInput, "batch size %d, want 1", shape[0])
		}
		rows, cols = shape[1], shape[2]
	default:
		return nil, errors.Wrapf(ErrInvalidInput, "tensor shape %v", shape)
	}

	if cols <= headFields {
		return nil, errors.Wrapf(ErrInvalidInput, "row width %d leaves no class scores", cols)
	}

	data, ok := t.Data().([]float32)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidInput, "tensor dtype %v, want float32", t.Dtype())
	}
	if len(data) < rows*cols {
		return nil, errors.Wrapf(ErrInvalidInput, "tensor holds %d values, shape needs %d", len(data), rows*cols)
	}

	backing := make([]float32, rows*cols)
	copy(backing, data)

	predictions := make([]RawPrediction, rows)
	for i := range predictions {
		row := backing[i*cols : (i+1)*cols]
		predictions[i] = RawPrediction{
			CenterX: row[0],
			CenterY: row[1],
			Width:   row[2],
			Height:  row[3],
			Scores:  row[headFields:cols:cols],
		}
	}

	return predictions, nil
}

// PredictionsFromTensors concatenates the predictions of several heads, in
// head order.
func PredictionsFromTensors(ts ...tensor.Tensor) ([]RawPrediction, error) {
	var all []RawPrediction
	for i, t := range ts {
		p, err := PredictionsFromTensor(t)
		if err != nil {
			return nil, errors.Wrapf(err, "output %d", i)
		}
		all = append(all, p...)
	}
	return all, nil
}
