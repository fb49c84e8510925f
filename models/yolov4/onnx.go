package yolov4

import (
	"image"
	"sync"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"gocv.io/x/gocv"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/yolo-viewer/inference/providers"
	"github.com/nvr-ai/yolo-viewer/models/postprocess"
)

const (
	defaultInputName  = "input"
	defaultOutputName = "output"
)

// yoloStrides are the downsampling factors of the three YOLOv4 heads.
var yoloStrides = []int{8, 16, 32}

// anchorsPerCell is the number of anchor boxes each grid cell predicts.
const anchorsPerCell = 3

var ortInit sync.Mutex

// ONNX runs a YOLOv4 ONNX export through ONNX Runtime. The export is
// expected to concatenate its heads into one [1, rows, 5+C] output with
// normalized boxes, the same layout the darknet heads produce.
type ONNX struct {
	options Options
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewONNX creates the session with preallocated input and output tensors.
//
// Arguments:
//   - opts: Options with Path set; SharedLibrary overrides the default
//     ONNX Runtime library search.
//
// Returns:
//   - *ONNX: The loaded model.
//   - error: When the runtime or the session cannot be created.
func NewONNX(opts Options) (*ONNX, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(opts.Inputs) == 0 {
		opts.Inputs = []string{defaultInputName}
	}
	if len(opts.Outputs) == 0 {
		opts.Outputs = []string{defaultOutputName}
	}

	if err := initializeRuntime(opts.SharedLibrary); err != nil {
		return nil, err
	}

	input, err := ort.NewEmptyTensor[float32](
		ort.NewShape(1, 3, int64(opts.InputSize.Y), int64(opts.InputSize.X)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating input tensor")
	}

	rows := anchorRows(opts.InputSize)
	cols := 5 + opts.Labels.Len()
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(rows), int64(cols)))
	if err != nil {
		input.Destroy()
		return nil, errors.Wrap(err, "creating output tensor")
	}

	sessionOptions, err := providers.NewSessionOptions(opts.Provider)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, err
	}
	defer sessionOptions.Destroy()

	session, err := ort.NewAdvancedSession(
		opts.Path,
		opts.Inputs,
		opts.Outputs,
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		sessionOptions,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, errors.Wrapf(err, "creating ONNX session for %s", opts.Path)
	}

	return &ONNX{
		options: opts,
		session: session,
		input:   input,
		output:  output,
	}, nil
}

func initializeRuntime(libPath string) error {
	ortInit.Lock()
	defer ortInit.Unlock()

	if ort.IsInitialized() {
		return nil
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return errors.Wrap(err, "initializing ONNX Runtime")
	}
	return nil
}

// anchorRows is the number of predictions YOLOv4 emits for an input size.
func anchorRows(size image.Point) int {
	rows := 0
	for _, stride := range yoloStrides {
		rows += anchorsPerCell * (size.X / stride) * (size.Y / stride)
	}
	return rows
}

// Detect resizes the frame into the input tensor, runs the session and
// decodes the output.
func (m *ONNX) Detect(img gocv.Mat) ([]postprocess.Result, error) {
	if img.Empty() {
		return nil, errors.Wrap(postprocess.ErrInvalidInput, "empty frame")
	}

	src, err := img.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "converting frame")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := fillInput(src, m.options.InputSize, m.input.GetData()); err != nil {
		return nil, err
	}
	if err := m.session.Run(); err != nil {
		return nil, errors.Wrap(err, "running ONNX session")
	}

	shape := m.output.GetShape()
	dims := make([]int, len(shape))
	for i, d := range shape {
		dims[i] = int(d)
	}
	head := tensor.New(tensor.WithShape(dims...), tensor.WithBacking(m.output.GetData()))

	return decodeHeads([]tensor.Tensor{head}, image.Pt(img.Cols(), img.Rows()), m.options)
}

// Close releases the session and its tensors.
func (m *ONNX) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.input != nil {
		m.input.Destroy()
		m.input = nil
	}
	if m.output != nil {
		m.output.Destroy()
		m.output = nil
	}
	if m.session != nil {
		if err := m.session.Destroy(); err != nil {
			return errors.Wrap(err, "destroying ONNX session")
		}
		m.session = nil
	}
	return nil
}

// fillInput resizes img to size and writes it into dst as planar RGB
// scaled to [0,1], the layout of a 1x3xHxW float tensor.
//
// Arguments:
//   - img: The source frame.
//   - size: The network input resolution.
//   - dst: The input tensor data.
//
// Returns:
//   - error: When dst cannot hold 3 planes of size.
func fillInput(img image.Image, size image.Point, dst []float32) error {
	channelSize := size.X * size.Y
	if len(dst) < channelSize*3 {
		return errors.Errorf("input tensor holds %d floats, needs %d", len(dst), channelSize*3)
	}
	red := dst[0:channelSize]
	green := dst[channelSize : channelSize*2]
	blue := dst[channelSize*2 : channelSize*3]

	resized := resize.Resize(uint(size.X), uint(size.Y), img, resize.Bilinear)
	bounds := resized.Bounds()

	i := 0
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			red[i] = float32(r>>8) * scaleFactor
			green[i] = float32(g>>8) * scaleFactor
			blue[i] = float32(b>>8) * scaleFactor
			i++
		}
	}
	return nil
}
