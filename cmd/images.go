package cmd

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nvr-ai/yolo-viewer/config"
	"github.com/nvr-ai/yolo-viewer/source"
	"github.com/nvr-ai/yolo-viewer/viewer"
)

var imagesCmd = &cobra.Command{
	Use:   "images <path>...",
	Short: "Detect objects in images and page through the results",
	Long: `Detect objects in every image given, or every image in the given
directories, then show them one at a time.

Keys: n/p next and previous, +/- zoom, h/j/k/l pan, c clear, q quit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImages(cmd.Context(), args)
	},
}

func init() {
	rootCmd.AddCommand(imagesCmd)
}

func runImages(ctx context.Context, paths []string) error {
	files, err := imageFiles(paths)
	if err != nil {
		return err
	}

	m, err := loadModel()
	if err != nil {
		return err
	}
	defer m.Close()

	src := source.NewFiles(files)
	defer src.Close()

	shell := viewer.NewShell(config.Config.Window.Title, canvasSize(), m, log)
	defer shell.Close()

	bar := newProgressBar(len(files), "Detecting")
	err = shell.Load(ctx, src, func(viewer.Page) { _ = bar.Add(1) })
	_ = bar.Finish()
	if err != nil {
		return err
	}
	logSkipped(src)

	return shell.Browse(ctx)
}

// imageFiles expands paths and fails when nothing is left to read.
func imageFiles(paths []string) ([]string, error) {
	files, err := source.ExpandPaths(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no image files found")
	}
	return files, nil
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
}

func logSkipped(src *source.Files) {
	for _, path := range src.Skipped() {
		log.Warn("image could not be read", zap.String("path", path))
	}
}
