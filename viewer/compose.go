package viewer

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// DefaultCanvas is the canvas size assumed before the window reports one.
var DefaultCanvas = image.Point{X: 800, Y: 600}

// Background fills the canvas around the page.
var Background = color.RGBA{R: 64, G: 64, B: 64, A: 255}

// FitScale returns the largest scale at which a frame fits the canvas while
// keeping its aspect ratio. A canvas of 1 pixel or less in either dimension
// has not been laid out yet and is treated as DefaultCanvas.
//
// Arguments:
//   - frame: The frame size.
//   - canvas: The canvas size.
//
// Returns:
//   - float64: The scale, or 0 for an empty frame.
func FitScale(frame, canvas image.Point) float64 {
	if frame.X <= 0 || frame.Y <= 0 {
		return 0
	}
	if canvas.X <= 1 || canvas.Y <= 1 {
		canvas = DefaultCanvas
	}
	return math.Min(float64(canvas.X)/float64(frame.X), float64(canvas.Y)/float64(frame.Y))
}

// ScaledSize returns the frame size after scaling, truncated to whole pixels.
func ScaledSize(frame image.Point, scale float64) image.Point {
	return image.Point{X: int(float64(frame.X) * scale), Y: int(float64(frame.Y) * scale)}
}

// placement clips a page of the given size drawn at offset against the
// canvas. It returns the visible part in page coordinates and where that
// part lands on the canvas.
func placement(canvas, size, offset image.Point) (src, dst image.Rectangle, ok bool) {
	page := image.Rectangle{Min: offset, Max: offset.Add(size)}
	dst = page.Intersect(image.Rectangle{Max: canvas})
	if dst.Empty() {
		return image.Rectangle{}, image.Rectangle{}, false
	}
	return dst.Sub(offset), dst, true
}

// Compose draws frame scaled by scale with its top-left corner at offset on
// a fresh canvas. The caller owns the returned Mat.
//
// Arguments:
//   - frame: The BGR frame to draw.
//   - canvas: The canvas size.
//   - scale: The zoom factor.
//   - offset: Where the frame's top-left corner lands on the canvas.
//
// Returns:
//   - gocv.Mat: The canvas.
//   - error: When frame is empty or scale is not positive.
func Compose(frame gocv.Mat, canvas image.Point, scale float64, offset image.Point) (gocv.Mat, error) {
	if frame.Empty() {
		return gocv.NewMat(), errors.New("frame is empty")
	}
	if !(scale > 0) {
		return gocv.NewMat(), errors.Errorf("invalid scale %v", scale)
	}
	if canvas.X <= 1 || canvas.Y <= 1 {
		canvas = DefaultCanvas
	}

	out := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(
		float64(Background.B), float64(Background.G), float64(Background.R), 0,
	), canvas.Y, canvas.X, frame.Type())

	size := ScaledSize(image.Point{X: frame.Cols(), Y: frame.Rows()}, scale)
	if size.X <= 0 || size.Y <= 0 {
		return out, nil
	}

	scaled := gocv.NewMat()
	defer scaled.Close()
	if err := gocv.Resize(frame, &scaled, size, 0, 0, gocv.InterpolationLanczos4); err != nil {
		return out, errors.Wrapf(err, "resizing frame to %dx%d", size.X, size.Y)
	}

	src, dst, ok := placement(canvas, size, offset)
	if !ok {
		return out, nil
	}

	from := scaled.Region(src)
	defer from.Close()
	to := out.Region(dst)
	defer to.Close()
	if err := from.CopyTo(&to); err != nil {
		return out, errors.Wrap(err, "copying frame onto canvas")
	}

	return out, nil
}
