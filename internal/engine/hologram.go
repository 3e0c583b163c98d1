package engine

import (
	"math"
	"math/rand"

	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/ports"
)

const (
	// HologramSpacing is the grid pitch in pixels.
	HologramSpacing = 50.0

	hologramSegment       = 5.0
	hologramCoarseSegment = 10.0
	hologramBrightLevel   = 0.3
	hologramRipple        = 30.0
	hologramBandWave      = 15.0
)

// HologramLine is one grid line. Endpoints and phase never change after the
// grid is built; Opacity is recomputed every frame.
type HologramLine struct {
	X1, Y1, X2, Y2 float64
	Horizontal     bool
	Opacity        float64
	Phase          float64
}

// HologramGrid is the distorted holographic plane subsystem.
type HologramGrid struct {
	rng    *rand.Rand
	lines  []HologramLine
	width  float64
	height float64

	// scratch buffers reused for segment points
	points []ports.Point
	stops  []float64
}

// NewHologramGrid creates a grid drawing line phases from rng.
func NewHologramGrid(rng *rand.Rand) *HologramGrid {
	return &HologramGrid{rng: rng}
}

// Kind implements Subsystem.
func (g *HologramGrid) Kind() Kind { return KindHologram }

// Lines returns the grid lines. The slice is owned by the grid.
func (g *HologramGrid) Lines() []HologramLine { return g.lines }

// build lays out the grid for a new canvas size.
// nolint:gosec // G404 - weak random is fine for visual effects
func (g *HologramGrid) build(width, height float64) {
	g.width, g.height = width, height
	g.lines = g.lines[:0]
	for y := 0.0; y <= height; y += HologramSpacing {
		g.lines = append(g.lines, HologramLine{X1: 0, Y1: y, X2: width, Y2: y, Horizontal: true, Phase: g.rng.Float64() * 2 * math.Pi})
	}
	for x := 0.0; x <= width; x += HologramSpacing {
		g.lines = append(g.lines, HologramLine{X1: x, Y1: 0, X2: x, Y2: height, Phase: g.rng.Float64() * 2 * math.Pi})
	}
}

// Update rebuilds the grid on a size change and pulses line opacity.
func (g *HologramGrid) Update(fc *FrameContext) {
	if fc.Width != g.width || fc.Height != g.height || g.lines == nil {
		g.build(fc.Width, fc.Height)
	}

	audio := 0.0
	if fc.AudioActive() {
		audio = fc.Audio.AverageLevel * 0.3
	}
	for i := range g.lines {
		l := &g.lines[i]
		l.Opacity = clamp01(0.1 + 0.1*math.Sin(fc.Time*2+l.Phase) + audio)
	}
}

// SegmentLength returns the step used to break lines into segments. Low
// intensity and the low performance mode halve the resolution, which is how
// the grid sheds work after a performance downgrade.
func SegmentLength(cfg domain.BackgroundConfig) float64 {
	if cfg.PerformanceMode == domain.PerformanceLow || cfg.Intensity == domain.IntensityLow {
		return hologramCoarseSegment
	}
	return hologramSegment
}

// Render draws every line as a rippled polyline and, on loud passages,
// adds pulsing dots at the intersections.
func (g *HologramGrid) Render(c ports.Canvas, fc *FrameContext) {
	step := SegmentLength(fc.Config)
	t := fc.Time
	a := fc.Audio
	bright := a.AverageLevel > hologramBrightLevel

	col := fc.Palette.Primary
	width := 1.0
	if bright {
		col = fc.Palette.Accent
		width = 1.5
	}

	for i := range g.lines {
		l := &g.lines[i]
		g.points = g.points[:0]

		if l.Horizontal {
			g.stops = segmentStops(g.stops[:0], l.X1, l.X2, step)
			for _, x := range g.stops {
				off := ripple(x, t, a.AverageLevel) + math.Sin(x*0.02+t*3)*a.BassLevel*hologramBandWave
				g.points = append(g.points, ports.Point{X: x, Y: l.Y1 + off})
			}
		} else {
			g.stops = segmentStops(g.stops[:0], l.Y1, l.Y2, step)
			for _, y := range g.stops {
				off := ripple(y, t, a.AverageLevel) + math.Sin(y*0.02+t*3)*a.TrebleLevel*hologramBandWave
				g.points = append(g.points, ports.Point{X: l.X1 + off, Y: y})
			}
		}

		alpha := l.Opacity
		if bright {
			alpha = clamp01(alpha * (1 + a.AverageLevel))
		}
		c.StrokePath(g.points, width, rgba(col, alpha))
	}

	if bright {
		g.renderPulse(c, fc)
	}
}

// segmentStops appends the coordinates from, from+step, ... up to to, and to
// itself when the last step falls short of it.
func segmentStops(dst []float64, from, to, step float64) []float64 {
	n := int(math.Floor((to - from) / step))
	for i := 0; i <= n; i++ {
		dst = append(dst, from+float64(i)*step)
	}
	if last := from + float64(n)*step; to-last > 1e-9 {
		dst = append(dst, to)
	}
	return dst
}

func ripple(coord, t, level float64) float64 {
	return math.Sin((coord+t*50)*0.01) * level * hologramRipple * math.Sin(t*2)
}

// renderPulse draws intersection dots whose brightness travels outward from
// the center as a wave.
func (g *HologramGrid) renderPulse(c ports.Canvas, fc *FrameContext) {
	cx, cy := g.width/2, g.height/2
	avg := fc.Audio.AverageLevel
	for y := 0.0; y <= g.height; y += HologramSpacing {
		for x := 0.0; x <= g.width; x += HologramSpacing {
			d := math.Hypot(x-cx, y-cy)
			b := (math.Sin(d*0.02-fc.Time*4) + 1) / 2 * avg
			if b < 0.05 {
				continue
			}
			c.FillCircle(x, y, 1.5+b*2, rgba(fc.Palette.Accent, b))
		}
	}
}

var _ Subsystem = (*HologramGrid)(nil)
