package images

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// labelScale is the Hershey font scale used for labels on Mats.
const labelScale = 0.9

// DrawBoxesMat draws boxes and labels onto mat in place with OpenCV.
//
// Arguments:
//   - mat: The BGR frame to annotate.
//   - boxes: The boxes to draw, in mat pixel coordinates.
//
// Returns:
//   - error: When OpenCV fails to draw a box or label.
func DrawBoxesMat(mat *gocv.Mat, boxes []Box) error {
	for _, box := range boxes {
		if err := gocv.Rectangle(mat, box.Rect.Rectangle(), BoxColor, BoxThickness); err != nil {
			return errors.Wrapf(err, "drawing box %s", box.Rect)
		}
		if box.Label == "" {
			continue
		}
		if err := gocv.PutText(mat, box.Label, image.Pt(box.Rect.X(), box.Rect.Y()-LabelOffset),
			gocv.FontHersheySimplex, labelScale, LabelColor, BoxThickness); err != nil {
			return errors.Wrapf(err, "drawing label %q", box.Label)
		}
	}
	return nil
}
