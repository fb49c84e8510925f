package source

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Camera reads frames from a video capture device or a video file.
type Camera struct {
	name    string
	mu      sync.Mutex
	capture *gocv.VideoCapture
	index   int
}

// NewCamera opens a video capture device.
//
// Arguments:
//   - deviceID: The capture device index (0 is the default camera).
//
// Returns:
//   - *Camera: The open camera.
//   - error: When the device cannot be opened.
func NewCamera(deviceID int) (*Camera, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, errors.Wrapf(err, "opening video capture device %d", deviceID)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, errors.Errorf("video capture device %d is not available", deviceID)
	}
	return &Camera{name: fmt.Sprintf("camera:%d", deviceID), capture: capture}, nil
}

// SupportedVideoExtensions lists the video containers NewVideoFile is used for.
var SupportedVideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv"}

// IsVideoFile reports whether path has a supported video extension.
func IsVideoFile(path string) bool {
	return hasExtension(path, SupportedVideoExtensions)
}

// NewVideoFile opens a video file and plays it like a camera. The stream
// ends with the file.
func NewVideoFile(path string) (*Camera, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening video %s", path)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, errors.Errorf("video %s cannot be read", path)
	}
	return &Camera{name: path, capture: capture}, nil
}

// SetResolution asks the device for a capture size. Devices that cannot
// honour it keep their current size; the size in effect is returned.
func (c *Camera) SetResolution(size image.Point) (image.Point, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return image.Point{}, errors.New("camera is closed")
	}
	if size.X <= 0 || size.Y <= 0 {
		return image.Point{}, errors.Errorf("invalid resolution %dx%d", size.X, size.Y)
	}
	c.capture.Set(gocv.VideoCaptureFrameWidth, float64(size.X))
	c.capture.Set(gocv.VideoCaptureFrameHeight, float64(size.Y))

	return image.Point{
		X: int(c.capture.Get(gocv.VideoCaptureFrameWidth)),
		Y: int(c.capture.Get(gocv.VideoCaptureFrameHeight)),
	}, nil
}

// Next reads the next frame. A failed read or a closed camera ends the
// stream; empty frames are skipped.
func (c *Camera) Next(ctx context.Context) (Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return Frame{}, err
		}
		if c.capture == nil || !c.capture.IsOpened() {
			return Frame{}, ErrEndOfStream
		}

		mat := gocv.NewMat()
		if ok := c.capture.Read(&mat); !ok {
			mat.Close()
			return Frame{}, ErrEndOfStream
		}
		if mat.Empty() {
			mat.Close()
			continue
		}

		frame := Frame{Mat: mat, Name: c.name, Index: c.index}
		c.index++
		return frame, nil
	}
}

// Close releases the device. It is safe to call more than once.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil
	}
	err := c.capture.Close()
	c.capture = nil
	return err
}
