package viewer

import "image"

// PanStep is how far one pan key moves the page, in canvas pixels.
const PanStep = 40

// Action tells the shell what to do after a key press.
type Action int

const (
	// ActionNone means nothing changed.
	ActionNone Action = iota
	// ActionRedraw means the display must be refreshed.
	ActionRedraw
	// ActionStopCamera stops the live feed.
	ActionStopCamera
	// ActionQuit closes the window.
	ActionQuit
)

const keyEscape = 27

// HandleKey applies a key press to the state.
//
//	n, p       next and previous image
//	+ (=), -   zoom in and out
//	h j k l    pan left, down, up, right
//	c          clear
//	s          stop the camera
//	q, Esc     quit
func HandleKey(s *State, key int) Action {
	if key < 0 {
		return ActionNone
	}

	switch key & 0xff {
	case 'q', keyEscape:
		return ActionQuit
	case 's':
		if s.CameraActive() {
			s.SetCameraActive(false)
			return ActionStopCamera
		}
	case 'c':
		s.Clear()
		return ActionRedraw
	case 'n':
		return redrawIf(s.Next())
	case 'p':
		return redrawIf(s.Previous())
	case '+', '=':
		return redrawIf(s.ZoomIn())
	case '-':
		return redrawIf(s.ZoomOut())
	case 'h':
		return pan(s, image.Point{X: -PanStep})
	case 'l':
		return pan(s, image.Point{X: PanStep})
	case 'k':
		return pan(s, image.Point{Y: -PanStep})
	case 'j':
		return pan(s, image.Point{Y: PanStep})
	}
	return ActionNone
}

func pan(s *State, d image.Point) Action {
	if _, ok := s.Current(); !ok {
		return ActionNone
	}
	s.Pan(d)
	return ActionRedraw
}

func redrawIf(changed bool) Action {
	if changed {
		return ActionRedraw
	}
	return ActionNone
}
