package engine

import (
	"runtime"
	"sync"
	"time"

	"github.com/tejashwikalptaru/aurora/internal/domain"
)

const (
	// SampleWindow is how often the monitor turns frame counts into a sample.
	SampleWindow = time.Second

	// HistorySize is the number of fps samples kept for AverageFPS.
	HistorySize = 60

	// PoorFPS is the average below which performance counts as poor.
	PoorFPS = 30.0

	downgradeParticleCount = 50
	downgradeSpeed         = 0.8
)

// MetricsHandler receives every sample.
type MetricsHandler func(domain.PerformanceMetrics)

type metricsSubscriber struct {
	id uint64
	fn MetricsHandler
}

// Monitor measures the frame rate. Register RecordFrame as a loop frame
// observer; subscribers are called once per SampleWindow on the loop goroutine.
type Monitor struct {
	mu sync.Mutex

	windowStart time.Time
	frames      int
	history     []float64
	latest      domain.PerformanceMetrics
	hasLatest   bool

	subscribers []metricsSubscriber
	nextID      uint64

	// memory reports heap usage in percent; false when unavailable
	memory func() (float64, bool)
}

// NewMonitor creates a monitor reading heap statistics from the runtime.
func NewMonitor() *Monitor {
	return &Monitor{
		history: make([]float64, 0, HistorySize),
		memory:  heapUsage,
	}
}

func heapUsage() (float64, bool) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapSys == 0 {
		return 0, false
	}
	return float64(ms.HeapAlloc) / float64(ms.HeapSys) * 100, true
}

// RecordFrame counts one rendered frame at now and emits a sample once the
// window is full.
func (m *Monitor) RecordFrame(now time.Time) {
	m.mu.Lock()

	if m.windowStart.IsZero() {
		m.windowStart = now
		m.mu.Unlock()
		return
	}

	m.frames++
	elapsed := now.Sub(m.windowStart)
	if elapsed < SampleWindow {
		m.mu.Unlock()
		return
	}

	sample := m.sampleLocked(now, elapsed)
	subs := append([]metricsSubscriber(nil), m.subscribers...)
	m.mu.Unlock()

	for _, s := range subs {
		s.fn(sample)
	}
}

func (m *Monitor) sampleLocked(now time.Time, elapsed time.Duration) domain.PerformanceMetrics {
	fps := float64(m.frames) * 1000 / float64(elapsed.Milliseconds())

	mem := 0.0
	if m.memory != nil {
		if v, ok := m.memory(); ok {
			mem = v
		}
	}

	if len(m.history) == HistorySize {
		copy(m.history, m.history[1:])
		m.history = m.history[:HistorySize-1]
	}
	m.history = append(m.history, fps)

	m.latest = domain.PerformanceMetrics{
		FPS:         fps,
		FrameTime:   elapsed / time.Duration(m.frames),
		MemoryUsage: mem,
		AverageFPS:  m.averageLocked(),
		SampledAt:   now,
	}
	m.hasLatest = true

	m.windowStart = now
	m.frames = 0
	return m.latest
}

func (m *Monitor) averageLocked() float64 {
	if len(m.history) == 0 {
		return 0
	}
	var sum float64
	for _, v := range m.history {
		sum += v
	}
	return sum / float64(len(m.history))
}

// AverageFPS returns the mean over the sample history, 0 before the first sample.
func (m *Monitor) AverageFPS() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.averageLocked()
}

// IsPerformancePoor reports whether the average frame rate is below PoorFPS.
// It is false until the first sample exists.
func (m *Monitor) IsPerformancePoor() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history) > 0 && m.averageLocked() < PoorFPS
}

// Latest returns the most recent sample.
func (m *Monitor) Latest() (domain.PerformanceMetrics, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest, m.hasLatest
}

// Samples returns the number of fps samples in the history.
func (m *Monitor) Samples() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

// Subscribe registers fn for every sample and returns an id for Unsubscribe.
func (m *Monitor) Subscribe(fn MetricsHandler) uint64 {
	if fn == nil {
		panic("metrics handler cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.subscribers = append(m.subscribers, metricsSubscriber{id: m.nextID, fn: fn})
	return m.nextID
}

// Unsubscribe removes a handler. Unknown ids are ignored.
func (m *Monitor) Unsubscribe(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.subscribers {
		if s.id == id {
			m.subscribers = append(m.subscribers[:i:i], m.subscribers[i+1:]...)
			return
		}
	}
}

// Reset drops the history and the current window.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windowStart = time.Time{}
	m.frames = 0
	m.history = m.history[:0]
	m.latest = domain.PerformanceMetrics{}
	m.hasLatest = false
}

// OptimizeConfigForPerformance returns cfg downgraded for a struggling
// device. Applying it to its own result changes nothing.
func OptimizeConfigForPerformance(cfg domain.BackgroundConfig) domain.BackgroundConfig {
	cfg.Intensity = domain.IntensityLow
	if cfg.ParticleCount > downgradeParticleCount {
		cfg.ParticleCount = downgradeParticleCount
	}
	if cfg.AnimationSpeed > downgradeSpeed {
		cfg.AnimationSpeed = downgradeSpeed
	}
	cfg.EnableAudioVisualization = false
	cfg.EnableParallax = false
	cfg.PerformanceMode = domain.PerformanceLow
	return cfg
}
