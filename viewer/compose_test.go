package viewer

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestFitScale(t *testing.T) {
	tests := []struct {
		name     string
		frame    image.Point
		canvas   image.Point
		expected float64
	}{
		{"wide frame", image.Pt(1600, 900), image.Pt(800, 600), 0.5},
		{"tall frame", image.Pt(600, 1200), image.Pt(800, 600), 0.5},
		{"small frame grows", image.Pt(400, 300), image.Pt(800, 600), 2},
		{"unlaid canvas uses default", image.Pt(1600, 1200), image.Pt(1, 1), 0.5},
		{"zero canvas uses default", image.Pt(400, 600), image.Point{}, 1},
		{"empty frame", image.Point{}, image.Pt(800, 600), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, FitScale(tt.frame, tt.canvas), 1e-9)
		})
	}
}

func TestScaledSize(t *testing.T) {
	assert.Equal(t, image.Pt(150, 75), ScaledSize(image.Pt(100, 50), 1.5))
	assert.Equal(t, image.Pt(83, 41), ScaledSize(image.Pt(100, 50), 1/1.2))
}

func TestPlacement(t *testing.T) {
	canvas := image.Pt(100, 80)

	tests := []struct {
		name   string
		size   image.Point
		offset image.Point
		src    image.Rectangle
		dst    image.Rectangle
		ok     bool
	}{
		{
			name: "fits", size: image.Pt(50, 40), offset: image.Pt(10, 10),
			src: image.Rect(0, 0, 50, 40), dst: image.Rect(10, 10, 60, 50), ok: true,
		},
		{
			name: "larger than canvas", size: image.Pt(200, 200), offset: image.Point{},
			src: image.Rect(0, 0, 100, 80), dst: image.Rect(0, 0, 100, 80), ok: true,
		},
		{
			name: "panned up and left", size: image.Pt(50, 40), offset: image.Pt(-20, -10),
			src: image.Rect(20, 10, 50, 40), dst: image.Rect(0, 0, 30, 30), ok: true,
		},
		{
			name: "off canvas", size: image.Pt(50, 40), offset: image.Pt(100, 0),
			ok: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, dst, ok := placement(canvas, tt.size, tt.offset)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.src, src)
			assert.Equal(t, tt.dst, dst)
			assert.Equal(t, src.Size(), dst.Size())
		})
	}
}

func TestCompose(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 255, 0, 0), 20, 40, gocv.MatTypeCV8UC3)
	defer frame.Close()

	out, err := Compose(frame, image.Pt(100, 80), 1, image.Pt(10, 5))
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, 100, out.Cols())
	assert.Equal(t, 80, out.Rows())

	// BGR order: green frame inside, background outside.
	assert.Equal(t, uint8(255), out.GetVecbAt(10, 20)[1])
	assert.Equal(t, Background.G, out.GetVecbAt(2, 2)[1])
	assert.Equal(t, Background.G, out.GetVecbAt(60, 90)[1])
}

func TestCompose_Zoomed(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 255, 0), 10, 10, gocv.MatTypeCV8UC3)
	defer frame.Close()

	out, err := Compose(frame, image.Pt(50, 50), 2, image.Point{})
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, uint8(255), out.GetVecbAt(18, 18)[2])
	assert.Equal(t, Background.R, out.GetVecbAt(25, 25)[2])
}

func TestCompose_Invalid(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	out, err := Compose(empty, image.Pt(10, 10), 1, image.Point{})
	out.Close()
	assert.Error(t, err)

	frame := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer frame.Close()
	out, err = Compose(frame, image.Pt(10, 10), 0, image.Point{})
	out.Close()
	assert.Error(t, err)
}
