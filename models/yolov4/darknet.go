package yolov4

import (
	"image"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/yolo-viewer/models/postprocess"
)

// Darknet runs YOLOv4 cfg/weights through the OpenCV DNN module.
type Darknet struct {
	options     Options
	mu          sync.Mutex
	net         gocv.Net
	outputNames []string
}

// NewDarknet loads the network and resolves its output layers.
//
// Arguments:
//   - opts: Options with Path (weights) and NetConfig (cfg) set.
//
// Returns:
//   - *Darknet: The loaded model.
//   - error: When files are missing or OpenCV cannot parse them.
func NewDarknet(opts Options) (*Darknet, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := requireFile(opts.NetConfig, "network config"); err != nil {
		return nil, err
	}

	net := gocv.ReadNetFromDarknet(opts.NetConfig, opts.Path)
	if net.Empty() {
		return nil, errors.Errorf("failed to load darknet model %s", opts.Path)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendOpenCV); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "setting darknet backend")
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "setting darknet target")
	}

	names := outputLayerNames(&net)
	if len(names) == 0 {
		net.Close()
		return nil, errors.New("darknet model has no unconnected output layers")
	}

	return &Darknet{
		options:     opts,
		net:         net,
		outputNames: names,
	}, nil
}

// outputLayerNames returns the names of the YOLO heads.
func outputLayerNames(net *gocv.Net) []string {
	ids := net.GetUnconnectedOutLayers()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		layer := net.GetLayer(id)
		names = append(names, layer.GetName())
		layer.Close()
	}
	return names
}

// OutputNames returns the output layer names the model forwards to.
func (d *Darknet) OutputNames() []string {
	return append([]string(nil), d.outputNames...)
}

// Detect runs a forward pass on the frame and decodes the heads.
//
// Arguments:
//   - img: A BGR frame of any size.
//
// Returns:
//   - []postprocess.Result: Detections in img pixel coordinates.
//   - error: Decode errors, or ErrInvalidInput for an empty frame.
func (d *Darknet) Detect(img gocv.Mat) ([]postprocess.Result, error) {
	if img.Empty() {
		return nil, errors.Wrap(postprocess.ErrInvalidInput, "empty frame")
	}

	blob := gocv.BlobFromImage(img, scaleFactor, d.options.InputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	// gocv.Net holds per-call state between SetInput and Forward.
	d.mu.Lock()
	defer d.mu.Unlock()

	d.net.SetInput(blob, "")
	outputs := d.net.ForwardLayers(d.outputNames)
	defer func() {
		for i := range outputs {
			outputs[i].Close()
		}
	}()

	heads := make([]tensor.Tensor, 0, len(outputs))
	for i := range outputs {
		data, err := outputs[i].DataPtrFloat32()
		if err != nil {
			return nil, errors.Wrapf(err, "reading output %s", d.outputNames[i])
		}
		heads = append(heads, tensor.New(
			tensor.WithShape(outputs[i].Rows(), outputs[i].Cols()),
			tensor.WithBacking(data),
		))
	}

	return decodeHeads(heads, image.Pt(img.Cols(), img.Rows()), d.options)
}

// Close releases the network.
func (d *Darknet) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
