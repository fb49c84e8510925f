package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func blackImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	return img
}

func TestOverlay(t *testing.T) {
	src := blackImage(100, 100)
	out := Overlay(src, []Box{{Rect: XYWH(20, 30, 40, 40), Label: "person"}})

	require.Equal(t, src.Bounds(), out.Bounds())

	edge := out.RGBAAt(20, 50)
	assert.Greater(t, edge.G, uint8(200), "left edge is drawn")
	assert.Equal(t, uint8(0), edge.R)

	assert.Equal(t, color.RGBA{A: 255}, out.RGBAAt(40, 50), "box interior untouched")
	assert.Equal(t, color.RGBA{A: 255}, src.RGBAAt(20, 50), "source untouched")

	lit := 0
	for y := 0; y < 22; y++ {
		for x := 20; x < 100; x++ {
			if c := out.RGBAAt(x, y); c.R > 0 && c.B > 0 {
				lit++
			}
		}
	}
	assert.Greater(t, lit, 0, "label is drawn above the box")
}

func TestOverlay_NoBoxes(t *testing.T) {
	src := blackImage(10, 10)
	out := Overlay(src, nil)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestOverlay_OffsetBounds(t *testing.T) {
	src := blackImage(30, 30).SubImage(image.Rect(10, 10, 30, 30))
	out := Overlay(src, nil)
	assert.Equal(t, image.Rect(0, 0, 20, 20), out.Bounds())
}

func TestDrawBoxesMat(t *testing.T) {
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC3)
	defer mat.Close()

	require.NoError(t, DrawBoxesMat(&mat, []Box{{Rect: XYWH(20, 30, 40, 40), Label: "dog"}}))

	// BGR order: the box is green.
	v := mat.GetVecbAt(50, 20)
	assert.Equal(t, uint8(0), v[0])
	assert.Equal(t, uint8(255), v[1])
	assert.Equal(t, uint8(0), v[2])

	inside := mat.GetVecbAt(50, 40)
	assert.Equal(t, uint8(0), inside[1])
}
