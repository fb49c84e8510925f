// Package profiler - Operation timing for inference and rendering.
package profiler

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// defaultMaxSamples bounds the window used for percentiles.
const defaultMaxSamples = 1000

// Profiler tracks timing statistics per named operation. It is safe for
// concurrent use.
type Profiler struct {
	mu             sync.Mutex
	now            func() time.Time
	maxSamples     int
	operationTimes map[string]*TimeTracker
}

// TimeTracker tracks operation timing statistics.
type TimeTracker struct {
	name      string
	durations []time.Duration
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// Stats summarizes an operation's timings. Mean, Min and Max cover every
// sample; P95 covers the most recent window.
type Stats struct {
	Name  string
	Count int64
	Total time.Duration
	Mean  time.Duration
	Min   time.Duration
	Max   time.Duration
	P95   time.Duration
}

// New creates a profiler.
func New() *Profiler {
	return &Profiler{
		now:            time.Now,
		maxSamples:     defaultMaxSamples,
		operationTimes: make(map[string]*TimeTracker),
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
//   - name: The name of the operation to track.
//
// Returns:
//   - A function to call when the operation completes.
func (p *Profiler) StartOperation(name string) func() {
	start := p.now()
	return func() {
		p.Record(name, p.now().Sub(start))
	}
}

// Record adds one sample for an operation.
func (p *Profiler) Record(name string, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker, exists := p.operationTimes[name]
	if !exists {
		tracker = &TimeTracker{
			name:    name,
			minTime: duration,
			maxTime: duration,
		}
		p.operationTimes[name] = tracker
	}

	tracker.durations = append(tracker.durations, duration)
	if len(tracker.durations) > p.maxSamples {
		tracker.durations = tracker.durations[1:]
	}

	tracker.totalTime += duration
	tracker.count++

	if duration < tracker.minTime {
		tracker.minTime = duration
	}
	if duration > tracker.maxTime {
		tracker.maxTime = duration
	}
}

// Stats returns the statistics of one operation.
func (p *Profiler) Stats(name string) (Stats, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker, ok := p.operationTimes[name]
	if !ok {
		return Stats{}, false
	}
	return tracker.stats(), true
}

// All returns the statistics of every operation, sorted by name.
func (p *Profiler) All() []Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	all := make([]Stats, 0, len(p.operationTimes))
	for _, tracker := range p.operationTimes {
		all = append(all, tracker.stats())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Log writes one entry per operation.
func (p *Profiler) Log(logger *zap.Logger) {
	for _, s := range p.All() {
		logger.Info("operation timing",
			zap.String("operation", s.Name),
			zap.Int64("count", s.Count),
			zap.Duration("mean", s.Mean),
			zap.Duration("min", s.Min),
			zap.Duration("max", s.Max),
			zap.Duration("p95", s.P95),
		)
	}
}

func (t *TimeTracker) stats() Stats {
	s := Stats{
		Name:  t.name,
		Count: t.count,
		Total: t.totalTime,
		Min:   t.minTime,
		Max:   t.maxTime,
	}
	if t.count > 0 {
		s.Mean = t.totalTime / time.Duration(t.count)
	}
	if n := len(t.durations); n > 0 {
		sorted := append([]time.Duration(nil), t.durations...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		idx := (n*95+99)/100 - 1
		s.P95 = sorted[idx]
	}
	return s
}
