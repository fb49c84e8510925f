package viewer

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func pages(t *testing.T, n int) []Page {
	t.Helper()
	out := make([]Page, n)
	for i := range out {
		out[i] = Page{
			Name:  "page",
			Frame: gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3),
		}
	}
	return out
}

func TestState_Empty(t *testing.T) {
	s := NewState()

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, -1, s.Index())
	assert.Equal(t, "No images loaded", s.Counter())
	assert.False(t, s.CanNext())
	assert.False(t, s.CanPrevious())
	assert.False(t, s.Next())
	assert.False(t, s.Previous())

	assert.False(t, s.ZoomIn())
	assert.False(t, s.ZoomOut())
	assert.Equal(t, 1.0, s.Zoom())
}

func TestState_Navigation(t *testing.T) {
	s := NewState()
	defer s.Close()
	s.Load(pages(t, 3))

	assert.Equal(t, "Image 1 of 3", s.Counter())
	assert.False(t, s.CanPrevious())
	assert.True(t, s.CanNext())

	require.True(t, s.Next())
	assert.Equal(t, "Image 2 of 3", s.Counter())
	assert.True(t, s.CanPrevious())
	assert.True(t, s.CanNext())

	require.True(t, s.Next())
	assert.Equal(t, "Image 3 of 3", s.Counter())
	assert.False(t, s.CanNext())
	assert.False(t, s.Next())
	assert.Equal(t, 2, s.Index())

	require.True(t, s.Previous())
	require.True(t, s.Previous())
	assert.False(t, s.Previous())
	assert.Equal(t, "Image 1 of 3", s.Counter())
}

func TestState_LoadReplacesPages(t *testing.T) {
	s := NewState()
	defer s.Close()
	s.Load(pages(t, 2))
	s.Next()

	s.Load(nil)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Index())

	s.Load(pages(t, 4))
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, "Image 1 of 4", s.Counter())
}

func TestState_Zoom(t *testing.T) {
	s := NewState()
	defer s.Close()
	s.Load(pages(t, 1))

	require.True(t, s.ZoomIn())
	assert.InDelta(t, 1.2, s.Zoom(), 1e-9)
	require.True(t, s.ZoomIn())
	assert.InDelta(t, 1.44, s.Zoom(), 1e-9)
	require.True(t, s.ZoomOut())
	require.True(t, s.ZoomOut())
	assert.InDelta(t, 1.0, s.Zoom(), 1e-9)
}

func TestState_Drag(t *testing.T) {
	s := NewState()

	assert.False(t, s.DragTo(image.Pt(5, 5)))
	assert.Equal(t, image.Point{}, s.Offset())

	s.StartDrag(image.Pt(10, 10))
	assert.True(t, s.dragging)
	assert.True(t, s.DragTo(image.Pt(15, 12)))
	assert.True(t, s.DragTo(image.Pt(20, 20)))
	assert.Equal(t, image.Pt(10, 10), s.Offset())

	s.StopDrag()
	assert.False(t, s.dragging)
	assert.False(t, s.DragTo(image.Pt(100, 100)))
	assert.Equal(t, image.Pt(10, 10), s.Offset())

	s.Pan(image.Pt(-3, 4))
	assert.Equal(t, image.Pt(7, 14), s.Offset())
}

func TestState_Clear(t *testing.T) {
	s := NewState()
	s.Load(pages(t, 2))
	s.Next()
	s.ZoomIn()
	s.Pan(image.Pt(5, 5))
	s.StartDrag(image.Pt(1, 1))
	s.SetCameraActive(true)

	s.Clear()

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "No images loaded", s.Counter())
	assert.Equal(t, 1.0, s.Zoom())
	assert.Equal(t, image.Point{}, s.Offset())
	assert.False(t, s.dragging)
	assert.False(t, s.CameraActive())
}
