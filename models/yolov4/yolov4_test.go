package yolov4

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/yolo-viewer/images"
	"github.com/nvr-ai/yolo-viewer/models/labels"
	"github.com/nvr-ai/yolo-viewer/models/postprocess"
)

func TestAnchorRows(t *testing.T) {
	assert.Equal(t, 10647, anchorRows(image.Pt(416, 416)))
	assert.Equal(t, 3*(80*80+40*40+20*20), anchorRows(image.Pt(640, 640)))
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, image.Pt(416, 416), opts.InputSize)
	assert.Equal(t, 80, opts.Labels.Len())
	assert.Equal(t, postprocess.DefaultConfig(), opts.Decoder)

	custom := postprocess.Config{ConfidenceThreshold: 0.8, NMS: postprocess.NMSConfig{IoUThreshold: 0.3}}
	opts = Options{InputSize: image.Pt(608, 608), Decoder: custom}.withDefaults()
	assert.Equal(t, image.Pt(608, 608), opts.InputSize)
	assert.Equal(t, custom, opts.Decoder)
}

func TestNewModels_MissingFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := NewDarknet(Options{Path: filepath.Join(dir, "yolov4.weights"), NetConfig: filepath.Join(dir, "yolov4.cfg")})
	assert.ErrorContains(t, err, "model file")

	weights := filepath.Join(dir, "present.weights")
	require.NoError(t, os.WriteFile(weights, []byte{0}, 0o600))
	_, err = NewDarknet(Options{Path: weights, NetConfig: filepath.Join(dir, "yolov4.cfg")})
	assert.ErrorContains(t, err, "network config")

	_, err = NewONNX(Options{Path: filepath.Join(dir, "yolov4.onnx")})
	assert.ErrorContains(t, err, "model file")

	_, err = NewONNX(Options{})
	assert.ErrorContains(t, err, "model path is not set")
}

func TestFillInput(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.RGBA{R: 255, G: 0, B: 51, A: 255})
		}
	}

	size := image.Pt(4, 2)
	dst := make([]float32, 3*size.X*size.Y)
	require.NoError(t, fillInput(src, size, dst))

	plane := size.X * size.Y
	for i := 0; i < plane; i++ {
		assert.InDelta(t, 1.0, dst[i], 0.01, "red plane")
		assert.InDelta(t, 0.0, dst[plane+i], 0.01, "green plane")
		assert.InDelta(t, 0.2, dst[2*plane+i], 0.01, "blue plane")
	}

	assert.Error(t, fillInput(src, size, make([]float32, 5)))
}

func TestDecodeHeads(t *testing.T) {
	set, err := labels.New([]string{"person", "car"})
	require.NoError(t, err)
	opts := Options{Labels: set}.withDefaults()

	small := tensor.New(tensor.WithShape(1, 7), tensor.WithBacking([]float32{
		0.5, 0.5, 0.2, 0.2, 0.99, 0.1, 0.9,
	}))
	large := tensor.New(tensor.WithShape(1, 2, 7), tensor.WithBacking([]float32{
		0.51, 0.5, 0.2, 0.2, 0.9, 0.1, 0.6,
		0.1, 0.1, 0.1, 0.1, 0.9, 0.2, 0.1,
	}))

	results, err := decodeHeads([]tensor.Tensor{small, large}, image.Pt(640, 480), opts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "car", results[0].Label)
	assert.Equal(t, images.XYWH(256, 192, 128, 96), results[0].Box)
}
