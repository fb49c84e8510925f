package images

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIoU_Correctness validates the IoU implementation against known cases.
func TestIoU_Correctness(t *testing.T) {
	tests := []struct {
		name     string
		r1       Rect
		r2       Rect
		expected float32
	}{
		{
			name:     "identical rectangles",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{0, 0, 100, 100},
			expected: 1.0,
		},
		{
			name:     "no overlap",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{200, 200, 300, 300},
			expected: 0.0,
		},
		{
			name:     "touching edges",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{100, 0, 200, 100},
			expected: 0.0,
		},
		{
			name:     "quarter overlap",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{50, 50, 150, 150},
			expected: 2500.0 / 17500.0,
		},
		{
			name:     "one inside other",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{25, 25, 75, 75},
			expected: 0.25,
		},
		{
			name:     "zero width box",
			r1:       Rect{10, 10, 10, 50},
			r2:       Rect{0, 0, 100, 100},
			expected: 0.0,
		},
		{
			name:     "both degenerate",
			r1:       Rect{5, 5, 5, 5},
			r2:       Rect{5, 5, 5, 5},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateIoU(tt.r1, tt.r2), 1e-5)
			assert.InDelta(t, tt.expected, CalculateIoU(tt.r2, tt.r1), 1e-5, "IoU must be symmetric")
		})
	}
}

func TestXYWH(t *testing.T) {
	r := XYWH(256, 192, 128, 96)
	assert.Equal(t, Rect{X1: 256, Y1: 192, X2: 384, Y2: 288}, r)
	assert.Equal(t, 256, r.X())
	assert.Equal(t, 192, r.Y())
	assert.Equal(t, 128, r.Dx())
	assert.Equal(t, 96, r.Dy())
	assert.Equal(t, 128*96, r.Area())
	assert.Equal(t, image.Rect(256, 192, 384, 288), r.Rectangle())
	assert.Equal(t, "(x=256, y=192, w=128, h=96)", r.String())
}

func TestXYWH_ClampsNegativeSize(t *testing.T) {
	r := XYWH(10, 20, -5, -1)
	assert.Equal(t, 0, r.Dx())
	assert.Equal(t, 0, r.Dy())
	assert.Equal(t, 0, r.Area())
}
