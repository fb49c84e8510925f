// Package images - Box geometry and frame rendering utilities.
package images

import (
	"fmt"
	"image"
)

// Rect is a lightweight bounding box in pixel coordinates.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// XYWH builds a Rect from a top-left anchored box.
//
// Arguments:
//   - x, y: The top-left corner.
//   - w, h: The width and height. Negative values are clamped to zero.
//
// Returns:
//   - The Rect spanning [x, x+w) x [y, y+h).
func XYWH(x, y, w, h int) Rect {
	w = max(w, 0)
	h = max(h, 0)
	return Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// X returns the left edge.
func (r Rect) X() int { return r.X1 }

// Y returns the top edge.
func (r Rect) Y() int { return r.Y1 }

// Dx returns the width of the rect.
func (r Rect) Dx() int { return r.X2 - r.X1 }

// Dy returns the height of the rect.
func (r Rect) Dy() int { return r.Y2 - r.Y1 }

// Area returns the pixel area, zero for degenerate rects.
func (r Rect) Area() int {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return 0
	}
	return r.Dx() * r.Dy()
}

// Rectangle converts the rect to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X(), r.Y(), r.X2, r.Y2)
}

func (r Rect) String() string {
	return fmt.Sprintf("(x=%d, y=%d, w=%d, h=%d)", r.X(), r.Y(), r.Dx(), r.Dy())
}

// CalculateIoU returns the Intersection over Union of two boxes:
//
//	IoU = Area of Intersection / Area of Union
//
// 1.0 means the boxes are identical, 0.0 means they do not overlap.
//
// The intersection spans from the larger of the two top-left corners to the
// smaller of the two bottom-right corners. When that span has no width or no
// height the boxes are disjoint. The union follows inclusion-exclusion:
//
//	Area(A) + Area(B) - Area(A ∩ B)
//
// Boxes without area (w or h of zero) never overlap anything.
//
// Arguments:
//   - r: The first box.
//   - o: The other box to compare against.
//
// Returns:
//   - float32: A value between 0.0 and 1.0.
//
// Example Usage:
// ```go
//
//	a := Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}
//	b := Rect{X1: 5, Y1: 5, X2: 15, Y2: 15}
//	CalculateIoU(a, b) // 25 / 175 = 0.142857
//
// ```
func CalculateIoU(r, o Rect) float32 {
	ix1 := max(r.X1, o.X1)
	iy1 := max(r.Y1, o.Y1)
	ix2 := min(r.X2, o.X2)
	iy2 := min(r.Y2, o.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	unionArea := r.Area() + o.Area() - interArea
	if unionArea <= 0 {
		return 0.0
	}

	return float32(interArea) / float32(unionArea)
}
