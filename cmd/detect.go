package cmd

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nvr-ai/yolo-viewer/images"
	"github.com/nvr-ai/yolo-viewer/models/model"
	"github.com/nvr-ai/yolo-viewer/models/postprocess"
	"github.com/nvr-ai/yolo-viewer/source"
)

var detectOpts struct {
	output string
	format string
}

var detectCmd = &cobra.Command{
	Use:   "detect <path>...",
	Short: "Print detections for images without opening a window",
	Long: `Detect objects in every image given, or every image in the given
directories, and print one line per detection. With --output an annotated
copy of each image is written to that directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDetect(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

func init() {
	detectCmd.Flags().StringVarP(&detectOpts.output, "output", "o", "", "Directory for annotated images")
	detectCmd.Flags().StringVarP(&detectOpts.format, "format", "f", string(images.FormatPNG), "Annotated image format: png, jpeg or webp")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(ctx context.Context, out io.Writer, paths []string) error {
	files, err := imageFiles(paths)
	if err != nil {
		return err
	}

	format := images.ImageFormat(strings.ToLower(detectOpts.format))
	if detectOpts.output != "" {
		if _, err := images.FormatFromPath("overlay." + string(format)); err != nil {
			return err
		}
		if err := os.MkdirAll(detectOpts.output, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", detectOpts.output)
		}
	}

	m, err := loadModel()
	if err != nil {
		return err
	}
	defer m.Close()

	src := source.NewFiles(files)
	defer src.Close()

	overlays := newOverlayPaths(detectOpts.output, format)
	bar := newProgressBar(len(files), "Detecting")
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "IMAGE\tLABEL\tCONFIDENCE\tBOX")

	err = detectAll(ctx, src, m, func(frame source.Frame, results []postprocess.Result) error {
		_ = bar.Add(1)
		printResults(w, frame.Name, results)
		if detectOpts.output == "" {
			return nil
		}
		img, err := frame.Mat.ToImage()
		if err != nil {
			return errors.Wrapf(err, "converting %s", frame.Name)
		}
		return writeOverlay(overlays.next(frame.Name, frame.Index), img, results)
	})
	_ = bar.Finish()
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	logSkipped(src)
	return err
}

// detectAll runs m over every frame of src and hands each frame with its
// detections to handle. Frames whose detection fails are logged and
// skipped.
func detectAll(
	ctx context.Context,
	src source.Source,
	m model.Model,
	handle func(source.Frame, []postprocess.Result) error,
) error {
	for {
		frame, err := src.Next(ctx)
		if errors.Is(err, source.ErrEndOfStream) {
			return nil
		}
		if err != nil {
			return err
		}

		if ce := log.Check(zap.DebugLevel, "frame read"); ce != nil {
			ce.Write(
				zap.String("frame", frame.Name),
				zap.Int("index", frame.Index),
				zap.String("checksum", images.MatChecksum(frame.Mat)),
			)
		}

		results, err := m.Detect(frame.Mat)
		if err != nil {
			log.Warn("detection failed", zap.String("frame", frame.Name), zap.Error(err))
			frame.Close()
			continue
		}

		err = handle(frame, results)
		frame.Close()
		if err != nil {
			return err
		}
	}
}

func printResults(w io.Writer, name string, results []postprocess.Result) {
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%.6f\t%s\n", name, r.Label, r.Score, r.Box)
	}
}

// overlayPaths names the annotated copies of images inside one directory.
// Images sharing a base name get the frame index appended so no copy
// overwrites another.
type overlayPaths struct {
	dir    string
	format images.ImageFormat
	used   map[string]bool
}

func newOverlayPaths(dir string, format images.ImageFormat) *overlayPaths {
	return &overlayPaths{dir: dir, format: format, used: make(map[string]bool)}
}

func (o *overlayPaths) next(name string, index int) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	file := base + "." + string(o.format)
	for n := 0; o.used[file]; n++ {
		suffix := fmt.Sprintf("-%d", index)
		if n > 0 {
			suffix = fmt.Sprintf("-%d-%d", index, n)
		}
		file = base + suffix + "." + string(o.format)
	}
	o.used[file] = true
	return filepath.Join(o.dir, file)
}

func writeOverlay(path string, img image.Image, results []postprocess.Result) error {
	format, err := images.FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	if err := images.Encode(f, images.Overlay(img, postprocess.Boxes(results)), format); err != nil {
		return err
	}
	return f.Close()
}
