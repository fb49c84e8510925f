package viewer

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/yolo-viewer/models/model"
	"github.com/nvr-ai/yolo-viewer/source"
)

// waitDelay is how long the image view waits for a key, in milliseconds.
const waitDelay = 50

var statusColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Shell is the interactive window. It owns the State and is driven from a
// single goroutine.
type Shell struct {
	title  string
	canvas image.Point
	model  model.Model
	logger *zap.Logger
	state  *State
	window *gocv.Window
}

// NewShell creates a shell. The window opens on first use.
//
// Arguments:
//   - title: The window title.
//   - canvas: The canvas size. Sizes of 1 or less fall back to DefaultCanvas.
//   - m: The detection model.
//   - logger: The logger.
//
// Returns:
//   - *Shell: The shell.
func NewShell(title string, canvas image.Point, m model.Model, logger *zap.Logger) *Shell {
	if canvas.X <= 1 || canvas.Y <= 1 {
		canvas = DefaultCanvas
	}
	return &Shell{
		title:  title,
		canvas: canvas,
		model:  m,
		logger: logger,
		state:  NewState(),
	}
}

// State returns the display state.
func (s *Shell) State() *State {
	return s.state
}

func (s *Shell) open() *gocv.Window {
	if s.window == nil {
		s.window = gocv.NewWindow(s.title)
		if err := s.window.ResizeWindow(s.canvas.X, s.canvas.Y); err != nil {
			s.logger.Warn("resizing window", zap.Error(err))
		}
	}
	return s.window
}

// Load annotates every frame of src and shows the first one. progress,
// when set, is called after each frame.
func (s *Shell) Load(ctx context.Context, src source.Source, progress func(Page)) error {
	pages, err := LoadPages(ctx, src, s.model, s.logger, progress)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		s.logger.Warn("no images could be loaded")
	}
	s.state.Load(pages)
	s.logger.Info("images loaded", zap.Int("count", s.state.Len()))
	return nil
}

// ShowCamera runs the live feed from src with detections drawn on each
// frame. src is closed once the feed stops. Stopping the camera drops into
// the image view; quitting or ctx ending returns.
func (s *Shell) ShowCamera(ctx context.Context, src source.Source) error {
	window := s.open()
	quit, err := s.runFeed(ctx, src, func(out gocv.Mat) Action {
		if err := window.IMShow(out); err != nil {
			s.logger.Warn("showing frame", zap.Error(err))
		}
		return HandleKey(s.state, window.WaitKey(1))
	})
	if err != nil || quit {
		return err
	}
	return s.Browse(ctx)
}

// runFeed reads src until it ends, the camera is stopped or show asks to
// quit. show displays each composed frame and returns the key action. It
// reports whether the user quit.
func (s *Shell) runFeed(ctx context.Context, src source.Source, show func(gocv.Mat) Action) (bool, error) {
	fps := NewFPS()

	s.state.SetCameraActive(true)
	s.logger.Info("camera started")
	defer func() {
		s.state.SetCameraActive(false)
		if err := src.Close(); err != nil {
			s.logger.Warn("closing camera", zap.Error(err))
		}
		s.logger.Info("camera stopped")
	}()

	for s.state.CameraActive() {
		frame, err := src.Next(ctx)
		if errors.Is(err, source.ErrEndOfStream) {
			s.logger.Info("camera stream ended")
			return false, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return true, nil
			}
			return false, errors.Wrap(err, "reading camera")
		}

		annotated, results, err := Annotate(s.model, frame.Mat)
		if err != nil {
			s.logger.Warn("detection failed", zap.String("frame", frame.Name), zap.Error(err))
		}
		size := image.Point{X: frame.Mat.Cols(), Y: frame.Mat.Rows()}
		frame.Close()

		rate := fps.Tick()
		s.logger.Debug("camera frame",
			zap.Int("detections", len(results)),
			zap.Float64("fps", rate),
		)

		out, err := Compose(annotated, s.canvas, FitScale(size, s.canvas), image.Point{})
		annotated.Close()
		if err != nil {
			out.Close()
			return false, err
		}
		if err := s.status(&out, fmt.Sprintf("FPS: %.1f", rate)); err != nil {
			out.Close()
			return false, err
		}
		action := show(out)
		out.Close()

		if action == ActionQuit {
			return true, nil
		}
	}
	return false, nil
}

// Browse shows the loaded images and handles keys until quit or ctx is done.
func (s *Shell) Browse(ctx context.Context) error {
	window := s.open()
	if err := s.render(); err != nil {
		return err
	}
	for ctx.Err() == nil {
		switch HandleKey(s.state, window.WaitKey(waitDelay)) {
		case ActionQuit:
			return nil
		case ActionRedraw:
			if err := s.render(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Shell) render() error {
	var out gocv.Mat
	if page, ok := s.state.Current(); ok {
		var err error
		out, err = Compose(page.Frame, s.canvas, s.state.Zoom(), s.state.Offset())
		if err != nil {
			out.Close()
			return err
		}
	} else {
		out = gocv.NewMatWithSizeFromScalar(gocv.NewScalar(
			float64(Background.B), float64(Background.G), float64(Background.R), 0,
		), s.canvas.Y, s.canvas.X, gocv.MatTypeCV8UC3)
	}
	defer out.Close()

	if err := s.status(&out, s.state.Counter()); err != nil {
		return err
	}
	return errors.Wrap(s.open().IMShow(out), "showing page")
}

func (s *Shell) status(out *gocv.Mat, text string) error {
	err := gocv.PutText(out, text, image.Pt(10, out.Rows()-12), gocv.FontHersheySimplex, 0.6, statusColor, 1)
	return errors.Wrap(err, "drawing status")
}

// Close releases the window and the loaded pages.
func (s *Shell) Close() error {
	s.state.Close()
	if s.window == nil {
		return nil
	}
	err := s.window.Close()
	s.window = nil
	return err
}
