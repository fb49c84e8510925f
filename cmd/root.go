// Package cmd - Command line entry points for the viewer.
package cmd

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nvr-ai/yolo-viewer/config"
	"github.com/nvr-ai/yolo-viewer/logger"
	"github.com/nvr-ai/yolo-viewer/models"
	"github.com/nvr-ai/yolo-viewer/models/model"
	"github.com/nvr-ai/yolo-viewer/profiler"
)

// Version is the application version.
const Version = "0.1.0"

// Options holds decoder overrides shared by every command.
type Options struct {
	ConfidenceThreshold float32
	IoUThreshold        float32
	ClassAware          bool
	Backend             string
}

var (
	cfgFile string
	opts    Options
	// log is the process logger, set once configuration is loaded.
	log = zap.NewNop()
	// prof records inference timings for the run.
	prof = profiler.New()
)

var rootCmd = &cobra.Command{
	Use:          "yolo-viewer",
	Short:        "Detect objects with YOLOv4 and browse the results",
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		log = logger.New(config.Config.Debug)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		prof.Log(log)
		_ = log.Sync()
	},
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "YAML configuration file")
	flags.Float32Var(&opts.ConfidenceThreshold, "confidence", 0.5, "Minimum class score for a detection to be kept")
	flags.Float32Var(&opts.IoUThreshold, "iou", 0.4, "Overlap above which the weaker of two detections is suppressed")
	flags.BoolVar(&opts.ClassAware, "class-aware", false, "Only suppress overlapping detections of the same class")
	flags.StringVar(&opts.Backend, "backend", "", "Inference backend: darknet or onnx")
}

// loadConfig loads the configuration, applies flag overrides and validates
// the result.
func loadConfig(cmd *cobra.Command) error {
	if err := config.Init(cfgFile); err != nil {
		return err
	}
	applyOverrides(cmd, &config.Config)
	return config.ValidateConfig(&config.Config)
}

// applyOverrides copies flags the user set explicitly over the loaded
// configuration.
func applyOverrides(cmd *cobra.Command, cfg *config.AppConfig) {
	flags := cmd.Flags()
	if flags.Changed("confidence") {
		cfg.Model.Decoder.ConfidenceThreshold = opts.ConfidenceThreshold
	}
	if flags.Changed("iou") {
		cfg.Model.Decoder.NMS.IoUThreshold = opts.IoUThreshold
	}
	if flags.Changed("class-aware") {
		cfg.Model.Decoder.NMS.ClassAware = opts.ClassAware
	}
	if flags.Changed("backend") {
		cfg.Model.Backend = model.Backend(opts.Backend)
	}
}

// loadModel loads the configured model and logs what was loaded.
func loadModel() (model.Model, error) {
	cfg := config.Config.Model
	m, err := models.NewModel(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("model loaded",
		zap.String("name", string(cfg.Name)),
		zap.String("backend", string(cfg.Backend)),
		zap.String("path", cfg.Path),
		zap.Float32("confidence", cfg.Decoder.ConfidenceThreshold),
		zap.Float32("iou", cfg.Decoder.NMS.IoUThreshold),
		zap.Bool("class_aware", cfg.Decoder.NMS.ClassAware),
	)
	if layered, ok := m.(interface{ OutputNames() []string }); ok {
		log.Debug("model outputs", zap.Strings("layers", layered.OutputNames()))
	}
	return models.Timed(m, prof), nil
}

func canvasSize() image.Point {
	return image.Point{X: config.Config.Window.Width, Y: config.Config.Window.Height}
}
