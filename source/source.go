// Package source - Frame producers for still images and live cameras.
package source

import (
	"context"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ErrEndOfStream is returned by Next once a source has no more frames.
var ErrEndOfStream = errors.New("end of stream")

// Frame is a single frame from a source.
type Frame struct {
	// Mat is the BGR frame. The receiver owns it and must Close it.
	Mat gocv.Mat
	// Name identifies the frame (a file path or a camera device).
	Name string
	// Index is the zero-based position of the frame in its source.
	Index int
}

// Close releases the frame.
func (f *Frame) Close() error {
	return f.Mat.Close()
}

// Source produces frames on demand. Next blocks until a frame is available,
// the source is exhausted (ErrEndOfStream) or ctx is done.
type Source interface {
	Next(ctx context.Context) (Frame, error)
	Close() error
}
