// Package viewer - Display state and the interactive window for detection results.
package viewer

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/nvr-ai/yolo-viewer/models/postprocess"
)

// ZoomStep is the factor applied by one zoom in or zoom out.
const ZoomStep = 1.2

// Page is one loaded image with its detections already drawn.
type Page struct {
	Name string
	// Frame is the annotated frame. The State owns it once loaded.
	Frame      gocv.Mat
	Detections []postprocess.Result
}

// State is everything the display needs between events: the loaded pages,
// which one is shown, zoom, pan and whether the camera is running. The
// shell owns it exclusively; detection code never touches it.
type State struct {
	pages        []Page
	index        int
	zoom         float64
	offset       image.Point
	dragging     bool
	dragFrom     image.Point
	cameraActive bool
}

// NewState returns an empty state with no pages and a zoom of 1.
func NewState() *State {
	return &State{index: -1, zoom: 1}
}

// Load replaces the pages and shows the first one. Previous pages are
// released. Loading no pages keeps the current ones.
func (s *State) Load(pages []Page) {
	if len(pages) == 0 {
		return
	}
	s.closePages()
	s.pages = pages
	s.index = 0
}

// Current returns the page on display.
func (s *State) Current() (*Page, bool) {
	if s.index < 0 || s.index >= len(s.pages) {
		return nil, false
	}
	return &s.pages[s.index], true
}

// Len returns the number of loaded pages.
func (s *State) Len() int {
	return len(s.pages)
}

// Index returns the zero-based index of the current page, -1 when none.
func (s *State) Index() int {
	return s.index
}

// CanNext reports whether a later page exists.
func (s *State) CanNext() bool {
	return len(s.pages) > 0 && s.index < len(s.pages)-1
}

// CanPrevious reports whether an earlier page exists.
func (s *State) CanPrevious() bool {
	return len(s.pages) > 0 && s.index > 0
}

// Next moves to the next page. It reports whether the page changed.
func (s *State) Next() bool {
	if !s.CanNext() {
		return false
	}
	s.index++
	return true
}

// Previous moves to the previous page. It reports whether the page changed.
func (s *State) Previous() bool {
	if !s.CanPrevious() {
		return false
	}
	s.index--
	return true
}

// Counter is the page indicator text.
func (s *State) Counter() string {
	if len(s.pages) == 0 {
		return "No images loaded"
	}
	return fmt.Sprintf("Image %d of %d", s.index+1, len(s.pages))
}

// Zoom returns the zoom factor applied to pages.
func (s *State) Zoom() float64 {
	return s.zoom
}

// ZoomIn enlarges the current page. Without a page it does nothing.
func (s *State) ZoomIn() bool {
	if _, ok := s.Current(); !ok {
		return false
	}
	s.zoom *= ZoomStep
	return true
}

// ZoomOut shrinks the current page. Without a page it does nothing.
func (s *State) ZoomOut() bool {
	if _, ok := s.Current(); !ok {
		return false
	}
	s.zoom /= ZoomStep
	return true
}

// Offset is where the top-left corner of the page sits on the canvas.
func (s *State) Offset() image.Point {
	return s.offset
}

// Pan moves the page by d.
func (s *State) Pan(d image.Point) {
	s.offset = s.offset.Add(d)
}

// StartDrag records the pointer position a drag starts from.
func (s *State) StartDrag(p image.Point) {
	s.dragging = true
	s.dragFrom = p
}

// DragTo moves the page by the pointer movement since the last call. It
// reports whether a drag is in progress.
func (s *State) DragTo(p image.Point) bool {
	if !s.dragging {
		return false
	}
	s.Pan(p.Sub(s.dragFrom))
	s.dragFrom = p
	return true
}

// StopDrag ends a drag. The page stays where it was dropped.
func (s *State) StopDrag() {
	s.dragging = false
	s.dragFrom = image.Point{}
}

// CameraActive reports whether the live feed is running.
func (s *State) CameraActive() bool {
	return s.cameraActive
}

// SetCameraActive marks the live feed as running or stopped.
func (s *State) SetCameraActive(active bool) {
	s.cameraActive = active
}

// Clear drops all pages, resets zoom and pan and stops the camera.
func (s *State) Clear() {
	s.closePages()
	s.index = -1
	s.zoom = 1
	s.offset = image.Point{}
	s.StopDrag()
	s.cameraActive = false
}

// Close releases the loaded pages.
func (s *State) Close() {
	s.closePages()
	s.index = -1
}

func (s *State) closePages() {
	for i := range s.pages {
		s.pages[i].Frame.Close()
	}
	s.pages = nil
}
