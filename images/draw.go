package images

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	// BoxColor is the outline color of detection boxes.
	BoxColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	// LabelColor is the color of detection labels.
	LabelColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const (
	// BoxThickness is the outline width in pixels.
	BoxThickness = 2
	// LabelOffset is how far above the box the label baseline sits.
	LabelOffset = 10
	// labelFontSize is the label size in points for the gg renderer.
	labelFontSize = 18
)

var font *truetype.Font

func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// Box is a labeled rectangle to draw.
type Box struct {
	Rect  Rect
	Label string
}

// Overlay draws each box as a green outline with its label in white just
// above the top-left corner. The source image is not modified.
//
// Arguments:
//   - img: The frame to annotate.
//   - boxes: The boxes to draw, in img pixel coordinates.
//
// Returns:
//   - *image.RGBA: A new image holding the annotated frame.
func Overlay(img image.Image, boxes []Box) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	dc := gg.NewContextForRGBA(dst)
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: labelFontSize}))

	for _, box := range boxes {
		r := box.Rect
		dc.SetColor(BoxColor)
		dc.SetLineWidth(BoxThickness)
		dc.DrawRectangle(float64(r.X()), float64(r.Y()), float64(r.Dx()), float64(r.Dy()))
		dc.Stroke()

		if box.Label == "" {
			continue
		}
		dc.SetColor(LabelColor)
		dc.DrawString(box.Label, float64(r.X()), float64(r.Y()-LabelOffset))
	}

	return dst
}
