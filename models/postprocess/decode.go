package postprocess

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/nvr-ai/yolo-viewer/images"
	"github.com/nvr-ai/yolo-viewer/models/labels"
)

var (
	// ErrInvalidInput is returned for non-positive image dimensions or
	// thresholds outside (0,1].
	ErrInvalidInput = errors.New("invalid input")
	// ErrLabelLookup is returned when a kept detection's class has no name in
	// the label set.
	ErrLabelLookup = labels.ErrOutOfRange
)

// Labeler resolves class indices to names.
type Labeler interface {
	Name(idx int) (string, error)
}

// Config holds the decoder thresholds.
type Config struct {
	// ConfidenceThreshold is the score a candidate must exceed to be kept.
	ConfidenceThreshold float32 `json:"confidence_threshold" yaml:"confidence_threshold" koanf:"confidencethreshold"`
	// NMS controls overlap suppression.
	NMS NMSConfig `json:"nms" yaml:"nms" koanf:"nms"`
}

// DefaultConfig returns the thresholds the viewer ships with: keep scores
// above 0.5 and suppress overlaps above 0.4 IoU across all classes.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.5,
		NMS: NMSConfig{
			IoUThreshold: 0.4,
		},
	}
}

// Validate checks that both thresholds lie in (0,1].
func (c Config) Validate() error {
	if !(c.ConfidenceThreshold > 0 && c.ConfidenceThreshold <= 1) {
		return errors.Wrapf(ErrInvalidInput, "confidence threshold %v not in (0,1]", c.ConfidenceThreshold)
	}
	if !(c.NMS.IoUThreshold > 0 && c.NMS.IoUThreshold <= 1) {
		return errors.Wrapf(ErrInvalidInput, "iou threshold %v not in (0,1]", c.NMS.IoUThreshold)
	}
	return nil
}

// Decode turns per-anchor network output into labeled, confidence filtered
// and overlap suppressed detections in source image pixels.
//
// For every prediction the highest class score is the confidence. Candidates
// at or below the confidence threshold are dropped. Normalized center/size
// values are scaled by the image size and truncated to whole pixels, then
// the box is anchored at its top-left corner. Greedy NMS runs over the
// remaining candidates and the survivors are returned in prediction order.
//
// Decode performs no I/O and keeps no state; concurrent calls are safe.
//
// Arguments:
//   - predictions: One RawPrediction per anchor. Rows without scores or with
//     non-finite coordinates are skipped.
//   - imageWidth, imageHeight: Source frame size in pixels.
//   - labeler: Resolves class ids of kept detections.
//   - config: Thresholds; see DefaultConfig.
//
// Returns:
//   - []Result: The kept detections, empty when nothing passes.
//   - error: ErrInvalidInput for bad dimensions or thresholds, ErrLabelLookup
//     when a kept class id has no label.
func Decode(predictions []RawPrediction, imageWidth, imageHeight int, labeler Labeler, config Config) ([]Result, error) {
	if imageWidth <= 0 || imageHeight <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "image size %dx%d", imageWidth, imageHeight)
	}
	if labeler == nil {
		return nil, errors.Wrap(ErrInvalidInput, "nil labeler")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	candidates := make([]Result, 0, len(predictions))
	for _, p := range predictions {
		class, score, ok := argmax(p.Scores)
		if !ok || score <= config.ConfidenceThreshold {
			continue
		}
		if !finite(p.CenterX, p.CenterY, p.Width, p.Height) {
			continue
		}
		box, ok := toPixels(p, imageWidth, imageHeight)
		if !ok {
			continue
		}

		candidates = append(candidates, Result{
			Box:   box,
			Score: score,
			Class: class,
		})
	}

	keep := SuppressIndices(candidates, &config.NMS)

	results := make([]Result, 0, len(candidates))
	for i, c := range candidates {
		if !keep[i] {
			continue
		}
		name, err := labeler.Name(c.Class)
		if err != nil {
			return nil, errors.Wrapf(err, "class %d", c.Class)
		}
		c.Label = name
		results = append(results, c)
	}

	return results, nil
}

// argmax returns the first index holding the maximum score. NaN and infinite
// scores are never selected and scores above 1 are clamped to 1.
func argmax(scores []float32) (int, float32, bool) {
	best := -1
	var bestScore float32
	for i, s := range scores {
		if math32.IsNaN(s) || math32.IsInf(s, 0) {
			continue
		}
		if best < 0 || s > bestScore {
			best = i
			bestScore = s
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, math32.Min(bestScore, 1), true
}

func finite(values ...float32) bool {
	for _, v := range values {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// maxPixel bounds scaled coordinates so the int conversion and the area
// products in IoU cannot overflow.
const maxPixel = math.MaxInt32

// toPixels scales a normalized center/size box to the image and anchors it
// at the top-left corner. Every step truncates toward zero. It reports false
// when a scaled value falls outside +/-maxPixel.
func toPixels(p RawPrediction, imageWidth, imageHeight int) (images.Rect, bool) {
	w, h := float64(imageWidth), float64(imageHeight)

	scaled := [4]float64{
		float64(p.CenterX) * w,
		float64(p.CenterY) * h,
		float64(p.Width) * w,
		float64(p.Height) * h,
	}
	for _, v := range scaled {
		if math.Abs(v) > maxPixel {
			return images.Rect{}, false
		}
	}

	centerX := int(scaled[0])
	centerY := int(scaled[1])
	width := int(scaled[2])
	height := int(scaled[3])

	x := int(float64(centerX) - float64(width)/2)
	y := int(float64(centerY) - float64(height)/2)

	return images.XYWH(x, y, width, height), true
}
