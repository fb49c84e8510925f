package viewer

import "time"

// FPS measures frame rate over windows of at least one second.
type FPS struct {
	now    func() time.Time
	frames int
	last   time.Time
	value  float64
}

// NewFPS returns a counter starting now.
func NewFPS() *FPS {
	return newFPS(time.Now)
}

func newFPS(now func() time.Time) *FPS {
	return &FPS{now: now, last: now()}
}

// Tick counts a frame and returns the latest rate. The rate is recomputed
// once a second has passed since the last update.
func (f *FPS) Tick() float64 {
	f.frames++
	current := f.now()
	elapsed := current.Sub(f.last).Seconds()
	if elapsed >= 1.0 {
		f.value = float64(f.frames) / elapsed
		f.frames = 0
		f.last = current
	}
	return f.value
}
