package models

import (
	"gocv.io/x/gocv"

	"github.com/nvr-ai/yolo-viewer/models/model"
	"github.com/nvr-ai/yolo-viewer/models/postprocess"
	"github.com/nvr-ai/yolo-viewer/profiler"
)

// OperationDetect is the profiler operation recorded for each Detect call.
const OperationDetect = "detect"

type timedModel struct {
	model.Model
	profiler *profiler.Profiler
}

// Timed wraps m so the duration of every Detect call is recorded in p.
func Timed(m model.Model, p *profiler.Profiler) model.Model {
	return &timedModel{Model: m, profiler: p}
}

func (m *timedModel) Detect(img gocv.Mat) ([]postprocess.Result, error) {
	done := m.profiler.StartOperation(OperationDetect)
	defer done()
	return m.Model.Detect(img)
}
