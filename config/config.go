// Package config - Application configuration loaded from defaults, an
// optional YAML file and VIEWER_ environment variables.
package config

import (
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"

	"github.com/nvr-ai/yolo-viewer/images"
	"github.com/nvr-ai/yolo-viewer/models/model"
)

// EnvPrefix marks environment variables that override configuration keys.
// VIEWER_MODEL_DECODER_CONFIDENCETHRESHOLD sets model.decoder.confidencethreshold.
const EnvPrefix = "VIEWER_"

// Config is the application configuration set by Init.
var Config AppConfig

// AppConfig defines
type AppConfig struct {
	Debug  bool         `koanf:"debug"`
	Model  model.Config `koanf:"model"`
	Camera CameraConfig `koanf:"camera"`
	Window WindowConfig `koanf:"window"`
}

// CameraConfig defines the live capture device
type CameraConfig struct {
	Device int `koanf:"device"`
	// Resolution is a capture size name such as 720p. Empty keeps the
	// device default.
	Resolution string `koanf:"resolution"`
}

// WindowConfig defines the display window
type WindowConfig struct {
	Title  string `koanf:"title"`
	Width  int    `koanf:"width"`
	Height int    `koanf:"height"`
}

func defaults() map[string]any {
	return map[string]any{
		"debug":                             false,
		"model.name":                        string(model.ModelNameYOLOv4),
		"model.backend":                     string(model.BackendDarknet),
		"model.path":                        "yolov4.weights",
		"model.netconfig":                   "yolov4.cfg",
		"model.inputsize.x":                 416,
		"model.inputsize.y":                 416,
		"model.decoder.confidencethreshold": 0.5,
		"model.decoder.nms.iouthreshold":    0.4,
		"model.decoder.nms.classaware":      false,
		"model.provider.backend":            "cpu",
		"camera.device":                     0,
		"camera.resolution":                 "",
		"window.title":                      "YOLO Object Detection",
		"window.width":                      800,
		"window.height":                     600,
	}
}

// Init loads the configuration into Config.
func Init(filePath string) error {
	cfg, err := Load(filePath)
	if err != nil {
		return err
	}
	Config = *cfg
	return nil
}

// Load reads the configuration. Defaults are overridden by the YAML file at
// filePath when it is set, then by VIEWER_ environment variables.
// Comma-separated environment values become lists. The result is not
// validated so that command line overrides can still replace bad values;
// call ValidateConfig once they are applied.
func Load(filePath string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "loading defaults")
	}

	if filePath != "" {
		if err := k.Load(file.Provider(filePath), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "loading %s", filePath)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(s string, v string) (string, any) {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
		if strings.Contains(v, ",") {
			return key, strings.Split(strings.TrimSpace(v), ",")
		}
		return key, v
	}), nil); err != nil {
		return nil, errors.Wrap(err, "loading environment")
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "decoding configuration")
	}
	return &cfg, nil
}

// ValidateConfig checks thresholds, the backend and the window size.
func ValidateConfig(cfg *AppConfig) error {
	if err := cfg.Model.Decoder.Validate(); err != nil {
		return errors.Wrap(err, "model.decoder")
	}
	if err := cfg.Model.Provider.Validate(); err != nil {
		return errors.Wrap(err, "model.provider")
	}
	switch cfg.Model.Backend {
	case model.BackendDarknet, model.BackendONNX:
	default:
		return errors.Errorf("model.backend: unsupported backend %q", cfg.Model.Backend)
	}
	if cfg.Model.InputSize.X <= 0 || cfg.Model.InputSize.Y <= 0 {
		return errors.Errorf("model.inputsize: %dx%d is not positive", cfg.Model.InputSize.X, cfg.Model.InputSize.Y)
	}
	if cfg.Camera.Device < 0 {
		return errors.Errorf("camera.device: %d is negative", cfg.Camera.Device)
	}
	if cfg.Camera.Resolution != "" {
		if _, ok := images.LookupResolution(cfg.Camera.Resolution); !ok {
			return errors.Errorf("camera.resolution: unknown resolution %q, expected one of %s",
				cfg.Camera.Resolution, strings.Join(resolutionNames(), ", "))
		}
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return errors.Errorf("window: %dx%d is not positive", cfg.Window.Width, cfg.Window.Height)
	}
	return nil
}

func resolutionNames() []string {
	all := images.Resolutions()
	names := make([]string, 0, len(all))
	for _, res := range all {
		names = append(names, string(res.Name))
	}
	return names
}
