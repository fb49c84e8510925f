package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestProfiler_Record(t *testing.T) {
	p := New()
	for i := 1; i <= 100; i++ {
		p.Record("detect", time.Duration(i)*time.Millisecond)
	}

	s, ok := p.Stats("detect")
	require.True(t, ok)
	assert.Equal(t, int64(100), s.Count)
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 100*time.Millisecond, s.Max)
	assert.Equal(t, 5050*time.Millisecond, s.Total)
	assert.Equal(t, 50500*time.Microsecond, s.Mean)
	assert.Equal(t, 95*time.Millisecond, s.P95)

	_, ok = p.Stats("render")
	assert.False(t, ok)
}

func TestProfiler_WindowBoundsPercentile(t *testing.T) {
	p := New()
	p.maxSamples = 10
	p.Record("detect", time.Second)
	for i := 0; i < 10; i++ {
		p.Record("detect", time.Millisecond)
	}

	s, _ := p.Stats("detect")
	assert.Equal(t, int64(11), s.Count)
	assert.Equal(t, time.Second, s.Max)
	assert.Equal(t, time.Millisecond, s.P95)
}

func TestProfiler_StartOperation(t *testing.T) {
	current := time.Unix(0, 0)
	p := New()
	p.now = func() time.Time { return current }

	done := p.StartOperation("detect")
	current = current.Add(40 * time.Millisecond)
	done()

	s, ok := p.Stats("detect")
	require.True(t, ok)
	assert.Equal(t, 40*time.Millisecond, s.Mean)
}

func TestProfiler_Log(t *testing.T) {
	p := New()
	p.Record("render", 2*time.Millisecond)
	p.Record("detect", 30*time.Millisecond)

	core, logs := observer.New(zap.InfoLevel)
	p.Log(zap.New(core))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "detect", entries[0].ContextMap()["operation"])
	assert.Equal(t, "render", entries[1].ContextMap()["operation"])
}
