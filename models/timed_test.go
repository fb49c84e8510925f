package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/yolo-viewer/models/postprocess"
	"github.com/nvr-ai/yolo-viewer/profiler"
)

type countingModel struct {
	calls  int
	closed bool
}

func (m *countingModel) Detect(gocv.Mat) ([]postprocess.Result, error) {
	m.calls++
	return []postprocess.Result{{Score: 0.9}}, nil
}

func (m *countingModel) Close() error {
	m.closed = true
	return nil
}

func TestTimed(t *testing.T) {
	inner := &countingModel{}
	p := profiler.New()
	m := Timed(inner, p)

	img := gocv.NewMat()
	defer img.Close()
	for i := 0; i < 3; i++ {
		results, err := m.Detect(img)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	}

	s, ok := p.Stats(OperationDetect)
	require.True(t, ok)
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, 3, inner.calls)

	require.NoError(t, m.Close())
	assert.True(t, inner.closed)
}
