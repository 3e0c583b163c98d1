package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/ports"
)

const (
	// maxFrameStep caps the animation time one tick may advance, so a stall
	// or a paused window does not make everything jump.
	maxFrameStep = 100 * time.Millisecond

	panicLogInterval = time.Second
)

// Options configure an Engine.
type Options struct {
	// Seed feeds the engine's random source. Equal seeds give equal frames.
	Seed int64

	// Device hints decide between full effects and the minimal fallback.
	Device domain.DeviceHints

	// Smoother eases audio levels between frames. Nil uses raw snapshots.
	Smoother *Smoother

	Logger *slog.Logger
}

// Stats is a point-in-time view of the engine counters.
type Stats struct {
	Frames       uint64
	Skipped      uint64
	Panics       uint64
	ActiveKind   Kind
	FullEffects  bool
	Width        float64
	Height       float64
	Reinits      map[Kind]int
	PoolSize     int
	LastAnalysis domain.AudioAnalysis
}

// resizer is implemented by canvases the engine may resize between ticks.
type resizer interface {
	Resize(width, height int)
}

// Engine renders one background layer. Tick draws one frame; everything it
// touches, including pool reinitialization and resizes, happens under one lock
// so it never races with an in-flight frame.
type Engine struct {
	mu sync.Mutex

	settings ports.BackgroundSettings
	audio    ports.AudioSource
	canvas   ports.Canvas
	device   domain.DeviceHints
	smoother *Smoother
	logger   *slog.Logger

	subsystems map[Kind]Subsystem

	// pool bookkeeping, compared every tick to decide on reinit
	width, height float64
	lastKind      Kind
	lastMode      domain.Mode
	started       bool
	lastIntensity domain.Intensity
	lastPoolSize  int
	reinits       map[Kind]int

	pendingW, pendingH int
	resizePending      bool

	animTime     float64
	lastTick     time.Time
	frames       uint64
	skipped      uint64
	panics       uint64
	lastPanicLog time.Time
	lastAnalysis domain.AudioAnalysis
	fullEffects  bool
}

// NewEngine wires the subsystems to their collaborators. audio may be nil,
// which renders as silence.
func NewEngine(settings ports.BackgroundSettings, audio ports.AudioSource, canvas ports.Canvas, opts Options) *Engine {
	// nolint:gosec // G404 - weak random is fine for visual effects
	rng := rand.New(rand.NewSource(opts.Seed))

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		settings: settings,
		audio:    audio,
		canvas:   canvas,
		device:   opts.Device,
		smoother: opts.Smoother,
		logger:   logger.With(slog.String("component", "engine")),
		reinits:  make(map[Kind]int),
	}

	e.subsystems = map[Kind]Subsystem{
		KindParticles: NewParticleField(rng),
		KindNeural:    NewNeuralGraph(rng),
		KindHologram:  NewHologramGrid(rng),
		KindMatrix:    NewMatrixRain(rng),
		KindMinimal:   NewMinimalGradient(opts.Seed),
	}

	return e
}

// Subsystem returns the subsystem of the given kind.
func (e *Engine) Subsystem(k Kind) Subsystem {
	return e.subsystems[k]
}

// SetAudioSource swaps the audio collaborator before the next tick.
func (e *Engine) SetAudioSource(src ports.AudioSource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.audio = src
	if e.smoother != nil {
		e.smoother.Reset()
	}
}

// Resize records a new canvas size. It is applied at the start of the next tick.
func (e *Engine) Resize(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingW, e.pendingH = width, height
	e.resizePending = true
}

// Tick renders one frame at now and reports whether anything was drawn.
// A zero-sized canvas skips the frame.
func (e *Engine) Tick(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.resizePending {
		if r, ok := e.canvas.(resizer); ok {
			r.Resize(e.pendingW, e.pendingH)
		}
		e.resizePending = false
	}

	w, h := e.canvas.Size()
	if w <= 0 || h <= 0 {
		e.skipped++
		return false
	}

	snap := e.settings.Snapshot()
	cfg := snap.Config.Sanitize()

	step := time.Duration(0)
	if !e.lastTick.IsZero() {
		step = now.Sub(e.lastTick)
		if step < 0 {
			step = 0
		}
		if step > maxFrameStep {
			step = maxFrameStep
		}
	}
	e.lastTick = now
	e.animTime += step.Seconds() * cfg.AnimationSpeed

	var freq []byte
	var playing bool
	if e.audio != nil {
		freq, playing = e.audio.FrequencyData()
	}
	analysis := Analyze(freq, playing && cfg.EnableAudioVisualization)
	if e.smoother != nil {
		analysis = e.smoother.Apply(analysis)
	}
	e.lastAnalysis = analysis

	kind := SelectKind(cfg, snap.Section)
	e.fullEffects = UseFullEffects(e.device)
	if !e.fullEffects {
		kind = KindMinimal
	}

	fc := &FrameContext{
		Config:    cfg,
		Theme:     snap.Theme,
		Palette:   ResolvePalette(snap.Theme.Accent),
		Section:   snap.Section,
		Audio:     analysis,
		Frequency: freq,
		Playing:   playing,
		Time:      e.animTime,
		Width:     w,
		Height:    h,
		Frame:     e.frames,
	}

	switched := !e.started || kind != e.lastKind
	e.prepare(kind, fc)

	if !e.draw(e.subsystems[kind], fc, switched, now) {
		return false
	}
	e.frames++
	return true
}

// prepare reinitializes the pool of a pooled kind when it just became active,
// the configured mode changed, the canvas changed size, or its size inputs
// changed.
func (e *Engine) prepare(kind Kind, fc *FrameContext) {
	sizeChanged := fc.Width != e.width || fc.Height != e.height
	kindChanged := !e.started || kind != e.lastKind
	modeChanged := fc.Config.Mode != e.lastMode

	e.width, e.height = fc.Width, fc.Height
	e.lastKind = kind
	e.lastMode = fc.Config.Mode
	e.started = true

	pool, ok := e.subsystems[kind].(Pooled)
	if !ok {
		return
	}

	count := PoolSize(kind, fc.Config)
	if !kindChanged && !modeChanged && !sizeChanged && fc.Config.Intensity == e.lastIntensity && count == e.lastPoolSize {
		return
	}

	pool.Reset(fc.Width, fc.Height, count)
	e.lastIntensity = fc.Config.Intensity
	e.lastPoolSize = count
	e.reinits[kind]++

	e.logger.Debug("pool reinitialized",
		slog.String("kind", kind.String()),
		slog.Int("count", count),
		slog.Float64("width", fc.Width),
		slog.Float64("height", fc.Height))
}

// draw runs one subsystem inside a saved canvas state. A panic is contained
// here so one bad frame never stops the loop.
func (e *Engine) draw(sub Subsystem, fc *FrameContext, switched bool, now time.Time) (ok bool) {
	saved := false
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if saved {
				e.canvas.Restore()
			}
			e.panics++
			if now.Sub(e.lastPanicLog) >= panicLogInterval {
				e.lastPanicLog = now
				e.logger.Error("render panicked",
					slog.String("kind", sub.Kind().String()),
					slog.String("panic", fmt.Sprint(r)),
					slog.Uint64("total", e.panics))
			}
		}
	}()

	if tk, isTrail := sub.(TrailKeeper); !isTrail || !tk.KeepsTrail() || switched {
		e.canvas.Clear()
	}

	e.canvas.Save()
	saved = true
	e.canvas.SetGlobalAlpha(fc.Config.Opacity)

	sub.Update(fc)
	sub.Render(e.canvas, fc)

	e.canvas.Restore()
	return true
}

// ActiveKind returns the subsystem drawn on the last tick.
func (e *Engine) ActiveKind() Kind {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastKind
}

// ReinitCount returns how often the pool of kind was rebuilt.
func (e *Engine) ReinitCount(k Kind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reinits[k]
}

// Stats returns a copy of the engine counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	reinits := make(map[Kind]int, len(e.reinits))
	for k, v := range e.reinits {
		reinits[k] = v
	}

	poolSize := 0
	if p, ok := e.subsystems[e.lastKind].(Pooled); ok {
		poolSize = p.Len()
	}

	return Stats{
		Frames:       e.frames,
		Skipped:      e.skipped,
		Panics:       e.panics,
		ActiveKind:   e.lastKind,
		FullEffects:  e.fullEffects,
		Width:        e.width,
		Height:       e.height,
		Reinits:      reinits,
		PoolSize:     poolSize,
		LastAnalysis: e.lastAnalysis,
	}
}
