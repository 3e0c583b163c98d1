package engine

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/tejashwikalptaru/aurora/internal/ports"
)

const (
	minimalDrift     = 0.2  // fraction of the canvas the endpoints wander
	minimalDriftRate = 0.05 // noise-space units per animation second
	minimalBaseAlpha = 0.3
	minimalGlowLevel = 0.3
	perlinAlpha      = 2.0
	perlinBeta       = 2.0
	perlinOctaves    = 3
)

// MinimalGradient is the low-cost fallback: a slowly drifting three-stop
// linear gradient with an optional radial glow on loud passages.
type MinimalGradient struct {
	noise *perlin.Perlin
}

// NewMinimalGradient creates a gradient whose drift follows seeded noise.
func NewMinimalGradient(seed int64) *MinimalGradient {
	return &MinimalGradient{noise: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

// Kind implements Subsystem.
func (m *MinimalGradient) Kind() Kind { return KindMinimal }

// Update is a no-op; the gradient is a function of the frame context.
func (m *MinimalGradient) Update(*FrameContext) {}

// Drift returns the endpoint offset at animation time t, each axis within
// ±minimalDrift of the canvas size.
func (m *MinimalGradient) Drift(t, width, height float64) (dx, dy float64) {
	s := t * minimalDriftRate
	dx = clampUnit(m.noise.Noise2D(s, 0.5)) * width * minimalDrift
	dy = clampUnit(m.noise.Noise2D(0.5, s)) * height * minimalDrift
	return dx, dy
}

// Render fills the canvas with the gradient.
func (m *MinimalGradient) Render(c ports.Canvas, fc *FrameContext) {
	p := ContrastAdjusted(fc.Palette, fc.Theme.IsDark)
	w, h := fc.Width, fc.Height
	dx, dy := m.Drift(fc.Time, w, h)

	edge, middle := minimalBaseAlpha, minimalBaseAlpha
	if fc.AudioActive() {
		edge += fc.Audio.AverageLevel * 0.3
		middle += fc.Audio.BassLevel * 0.4
	}

	c.FillLinearGradient(dx, dy, w-dx, h-dy, []ports.GradientStop{
		{Offset: 0, Color: rgba(p.Primary, edge)},
		{Offset: 0.5, Color: rgba(p.Secondary, middle)},
		{Offset: 1, Color: rgba(p.Accent, edge)},
	})

	if avg := fc.Audio.AverageLevel; avg > minimalGlowLevel {
		c.FillRadialGradient(w/2, h/2, 0, math.Max(w, h)/2, []ports.GradientStop{
			{Offset: 0, Color: rgba(p.Accent, avg*0.4)},
			{Offset: 1, Color: rgba(p.Accent, 0)},
		})
	}
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

var _ Subsystem = (*MinimalGradient)(nil)
