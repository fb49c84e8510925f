package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nvr-ai/yolo-viewer/config"
	"github.com/nvr-ai/yolo-viewer/images"
	"github.com/nvr-ai/yolo-viewer/source"
	"github.com/nvr-ai/yolo-viewer/viewer"
)

var cameraOpts struct {
	video string
}

var cameraCmd = &cobra.Command{
	Use:   "camera",
	Short: "Run detection on a live camera feed",
	Long: `Run detection on every frame from a camera, or from a video file with
--video, and show the annotated feed.

Keys: s stop the feed, q quit. After the feed stops the image keys apply.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCamera(cmd.Context())
	},
}

func init() {
	cameraCmd.Flags().StringVarP(&cameraOpts.video, "video", "v", "", "Play a video file instead of a camera")
	rootCmd.AddCommand(cameraCmd)
}

func runCamera(ctx context.Context) error {
	cam, err := openCamera()
	if err != nil {
		return err
	}
	defer cam.Close()

	m, err := loadModel()
	if err != nil {
		return err
	}
	defer m.Close()

	shell := viewer.NewShell(config.Config.Window.Title, canvasSize(), m, log)
	defer shell.Close()

	return shell.ShowCamera(ctx, cam)
}

func openCamera() (*source.Camera, error) {
	if cameraOpts.video != "" {
		if !source.IsVideoFile(cameraOpts.video) {
			return nil, errors.Errorf("%s is not a supported video file", cameraOpts.video)
		}
		return source.NewVideoFile(cameraOpts.video)
	}

	cfg := config.Config.Camera
	var res images.Resolution
	if cfg.Resolution != "" {
		var err error
		if res, err = cameraResolution(cfg.Resolution); err != nil {
			return nil, err
		}
	}

	cam, err := source.NewCamera(cfg.Device)
	if err != nil {
		return nil, err
	}
	if cfg.Resolution == "" {
		return cam, nil
	}

	actual, err := cam.SetResolution(res.Size())
	if err != nil {
		cam.Close()
		return nil, err
	}
	if actual != res.Size() {
		log.Warn("camera resolution not supported",
			zap.String("requested", res.String()),
			zap.Int("width", actual.X),
			zap.Int("height", actual.Y),
		)
	}
	return cam, nil
}

func cameraResolution(name string) (images.Resolution, error) {
	res, ok := images.LookupResolution(name)
	if !ok {
		return images.Resolution{}, errors.Errorf("camera.resolution: unknown resolution %q", name)
	}
	return res, nil
}
