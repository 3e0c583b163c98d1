package engine

import (
	"image/color"
	"math/rand"
	"sync"

	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/ports"
)

// drawOp is one recorded canvas call.
type drawOp struct {
	name   string
	x, y   float64
	x2, y2 float64
	r      float64
	width  float64
	c      color.NRGBA
	points []ports.Point
	text   string
	stops  []ports.GradientStop
}

// recordingCanvas implements ports.Canvas by logging every call.
type recordingCanvas struct {
	w, h    float64
	ops     []drawOp
	depth   int
	alpha   float64
	resizes int
}

func newRecordingCanvas(w, h float64) *recordingCanvas {
	return &recordingCanvas{w: w, h: h, alpha: 1}
}

func (c *recordingCanvas) Size() (float64, float64) {
	return c.w, c.h
}

func (c *recordingCanvas) Clear() {
	c.ops = append(c.ops, drawOp{name: "clear"})
}

func (c *recordingCanvas) Save() {
	c.depth++
	c.ops = append(c.ops, drawOp{name: "save"})
}

func (c *recordingCanvas) Restore() {
	c.depth--
	c.ops = append(c.ops, drawOp{name: "restore"})
}

func (c *recordingCanvas) SetGlobalAlpha(a float64) {
	c.alpha = a
	c.ops = append(c.ops, drawOp{name: "alpha", r: a})
}

func (c *recordingCanvas) SetShadow(blur float64, col color.NRGBA) {
	c.ops = append(c.ops, drawOp{name: "shadow", r: blur, c: col})
}

func (c *recordingCanvas) FillRect(x, y, w, h float64, col color.NRGBA) {
	c.ops = append(c.ops, drawOp{name: "rect", x: x, y: y, x2: w, y2: h, c: col})
}

func (c *recordingCanvas) FillCircle(x, y, r float64, col color.NRGBA) {
	c.ops = append(c.ops, drawOp{name: "circle", x: x, y: y, r: r, c: col})
}

func (c *recordingCanvas) StrokeLine(x1, y1, x2, y2, width float64, col color.NRGBA) {
	c.ops = append(c.ops, drawOp{name: "line", x: x1, y: y1, x2: x2, y2: y2, width: width, c: col})
}

func (c *recordingCanvas) StrokePath(points []ports.Point, width float64, col color.NRGBA) {
	pts := append([]ports.Point(nil), points...)
	c.ops = append(c.ops, drawOp{name: "path", points: pts, width: width, c: col})
}

func (c *recordingCanvas) FillLinearGradient(x0, y0, x1, y1 float64, stops []ports.GradientStop) {
	st := append([]ports.GradientStop(nil), stops...)
	c.ops = append(c.ops, drawOp{name: "linear", x: x0, y: y0, x2: x1, y2: y1, stops: st})
}

func (c *recordingCanvas) FillRadialGradient(cx, cy, r0, r1 float64, stops []ports.GradientStop) {
	st := append([]ports.GradientStop(nil), stops...)
	c.ops = append(c.ops, drawOp{name: "radial", x: cx, y: cy, r: r1, stops: st})
}

func (c *recordingCanvas) FillText(text string, x, y, size float64, col color.NRGBA) {
	c.ops = append(c.ops, drawOp{name: "text", x: x, y: y, r: size, c: col, text: text})
}

// Resize lets the engine apply pending resizes.
func (c *recordingCanvas) Resize(w, h int) {
	c.w, c.h = float64(w), float64(h)
	c.resizes++
}

func (c *recordingCanvas) count(name string) int {
	n := 0
	for _, op := range c.ops {
		if op.name == name {
			n++
		}
	}
	return n
}

func (c *recordingCanvas) filter(name string) []drawOp {
	var out []drawOp
	for _, op := range c.ops {
		if op.name == name {
			out = append(out, op)
		}
	}
	return out
}

func (c *recordingCanvas) reset() { c.ops = nil }

var _ ports.Canvas = (*recordingCanvas)(nil)

// staticSettings is a BackgroundSettings the test mutates between ticks.
type staticSettings struct {
	mu   sync.Mutex
	snap domain.BackgroundSnapshot
}

func newStaticSettings(cfg domain.BackgroundConfig) *staticSettings {
	return &staticSettings{snap: domain.BackgroundSnapshot{Config: cfg, Theme: domain.DefaultTheme()}}
}

func (s *staticSettings) Snapshot() domain.BackgroundSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *staticSettings) update(fn func(*domain.BackgroundSnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.snap)
}

// fixedAudio returns the same snapshot every frame.
type fixedAudio struct {
	data    []byte
	playing bool
}

func (a *fixedAudio) FrequencyData() ([]byte, bool) {
	return append([]byte(nil), a.data...), a.playing
}

func newRNG() *rand.Rand {
	// nolint:gosec // G404 - deterministic test source
	return rand.New(rand.NewSource(42))
}

// spectrum returns n bins filled with fill, with the first bass fraction set to bass.
func spectrum(n int, bass, fill byte) []byte {
	data := make([]byte, n)
	bassEnd, _ := BandBounds(n)
	for i := range data {
		if i < bassEnd {
			data[i] = bass
		} else {
			data[i] = fill
		}
	}
	return data
}

// frame builds a silent frame context for a w x h canvas.
func frame(cfg domain.BackgroundConfig, w, h float64) *FrameContext {
	return &FrameContext{
		Config:  cfg,
		Theme:   domain.DefaultTheme(),
		Palette: ResolvePalette(DefaultAccent),
		Width:   w,
		Height:  h,
	}
}

// withAudio attaches a playing snapshot to fc.
func withAudio(fc *FrameContext, data []byte) *FrameContext {
	fc.Frequency = data
	fc.Playing = true
	fc.Audio = Analyze(data, true)
	return fc
}
