package viewer

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/yolo-viewer/images"
	"github.com/nvr-ai/yolo-viewer/models/model"
	"github.com/nvr-ai/yolo-viewer/models/postprocess"
	"github.com/nvr-ai/yolo-viewer/source"
)

// Annotate detects objects in frame and draws them onto a copy. When
// detection fails the copy is returned without boxes along with the error.
// A drawing failure returns the detections with the error.
// The caller owns the returned Mat.
//
// Arguments:
//   - m: The detection model.
//   - frame: The BGR frame. It is not modified.
//
// Returns:
//   - gocv.Mat: The annotated copy.
//   - []postprocess.Result: The detections.
//   - error: When detection fails.
func Annotate(m model.Model, frame gocv.Mat) (gocv.Mat, []postprocess.Result, error) {
	annotated := frame.Clone()

	results, err := m.Detect(frame)
	if err != nil {
		return annotated, nil, err
	}

	if err := images.DrawBoxesMat(&annotated, postprocess.Boxes(results)); err != nil {
		return annotated, results, err
	}
	return annotated, results, nil
}

// LoadPages reads every frame from src and annotates it. Frames whose
// detection fails are kept without boxes and logged. progress, when set,
// is called after each page.
//
// Arguments:
//   - ctx: Cancels loading between frames.
//   - src: The frame source. It is read to the end but not closed.
//   - m: The detection model.
//   - logger: Receives detection failures.
//   - progress: Optional per-page callback.
//
// Returns:
//   - []Page: The annotated pages in source order.
//   - error: When reading fails or ctx is done. Pages loaded so far are released.
func LoadPages(
	ctx context.Context,
	src source.Source,
	m model.Model,
	logger *zap.Logger,
	progress func(Page),
) ([]Page, error) {
	var pages []Page
	release := func() {
		for i := range pages {
			pages[i].Frame.Close()
		}
	}

	for {
		frame, err := src.Next(ctx)
		if errors.Is(err, source.ErrEndOfStream) {
			return pages, nil
		}
		if err != nil {
			release()
			return nil, errors.Wrap(err, "reading frame")
		}

		annotated, results, err := Annotate(m, frame.Mat)
		if err != nil {
			logger.Warn("detection failed",
				zap.String("frame", frame.Name),
				zap.Error(err),
			)
		} else {
			logger.Debug("detected objects",
				zap.String("frame", frame.Name),
				zap.Int("count", len(results)),
			)
		}
		frame.Close()

		page := Page{Name: frame.Name, Frame: annotated, Detections: results}
		pages = append(pages, page)
		if progress != nil {
			progress(page)
		}
	}
}
