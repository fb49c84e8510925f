package viewer

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleKey_Empty(t *testing.T) {
	s := NewState()

	tests := []struct {
		key      int
		expected Action
	}{
		{-1, ActionNone},
		{'n', ActionNone},
		{'p', ActionNone},
		{'+', ActionNone},
		{'-', ActionNone},
		{'h', ActionNone},
		{'s', ActionNone},
		{'x', ActionNone},
		{'c', ActionRedraw},
		{'q', ActionQuit},
		{keyEscape, ActionQuit},
	}
	for _, tt := range tests {
		t.Run(string(rune(tt.key)), func(t *testing.T) {
			assert.Equal(t, tt.expected, HandleKey(s, tt.key))
		})
	}
	assert.Equal(t, 1.0, s.Zoom())
}

func TestHandleKey_Browse(t *testing.T) {
	s := NewState()
	defer s.Close()
	s.Load(pages(t, 2))

	assert.Equal(t, ActionRedraw, HandleKey(s, 'n'))
	assert.Equal(t, ActionNone, HandleKey(s, 'n'))
	assert.Equal(t, ActionRedraw, HandleKey(s, 'p'))
	assert.Equal(t, 0, s.Index())

	assert.Equal(t, ActionRedraw, HandleKey(s, '='))
	assert.InDelta(t, ZoomStep, s.Zoom(), 1e-9)
	assert.Equal(t, ActionRedraw, HandleKey(s, '-'))
	assert.InDelta(t, 1.0, s.Zoom(), 1e-9)

	HandleKey(s, 'l')
	HandleKey(s, 'j')
	assert.Equal(t, image.Pt(PanStep, PanStep), s.Offset())
	HandleKey(s, 'h')
	HandleKey(s, 'k')
	assert.Equal(t, image.Point{}, s.Offset())

	// High bits from some window backends are ignored.
	assert.Equal(t, ActionRedraw, HandleKey(s, 0x100000|'n'))
}

func TestHandleKey_Camera(t *testing.T) {
	s := NewState()
	s.SetCameraActive(true)

	assert.Equal(t, ActionStopCamera, HandleKey(s, 's'))
	assert.False(t, s.CameraActive())
	assert.Equal(t, ActionNone, HandleKey(s, 's'))

	s.SetCameraActive(true)
	HandleKey(s, 'c')
	assert.False(t, s.CameraActive())
}
