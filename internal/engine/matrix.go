package engine

import (
	"image/color"
	"math/rand"

	"github.com/tejashwikalptaru/aurora/internal/ports"
)

const (
	// MatrixFontSize is the glyph size and the column pitch in pixels.
	MatrixFontSize = 14.0

	matrixBaseEmission = 0.02
	matrixBassEmission = 0.3
	matrixAccentAmp    = 0.7
	matrixSecondaryAmp = 0.4
	matrixGlowAmp      = 0.6
	matrixGlowBlur     = 8.0
	matrixFadeActive   = 0.04
	matrixFadeIdle     = 0.08
)

var matrixGlyphs = []rune("0123456789ABCDEFXYZ<>=+*#$%&αβγδεζηθλμξπσφψωΔΛΞΠΣΦΨΩ")

// MatrixDrop is the state of one column.
type MatrixDrop struct {
	X       float64
	Y       float64
	Speed   float64
	Glyph   rune
	Opacity float64

	// Emitted is true when the column shows a glyph this frame, Amp is the
	// bass amplitude that decided it.
	Emitted bool
	Amp     float64
}

// MatrixRain is the glyph rain subsystem. Each frame every column
// independently decides whether to flash a glyph at a random height, with a
// probability that rises with its bass amplitude.
type MatrixRain struct {
	rng    *rand.Rand
	drops  []MatrixDrop
	width  float64
	height float64

	emissions uint64
}

// NewMatrixRain creates an empty rain drawing randomness from rng.
func NewMatrixRain(rng *rand.Rand) *MatrixRain {
	return &MatrixRain{rng: rng}
}

// Kind implements Subsystem.
func (m *MatrixRain) Kind() Kind { return KindMatrix }

// KeepsTrail implements TrailKeeper.
func (m *MatrixRain) KeepsTrail() bool { return true }

// Drops returns the columns. The slice is owned by the rain.
func (m *MatrixRain) Drops() []MatrixDrop { return m.drops }

// Emissions returns the number of glyphs emitted since creation.
func (m *MatrixRain) Emissions() uint64 { return m.emissions }

// nolint:gosec // G404 - weak random is fine for visual effects
func (m *MatrixRain) build(width, height float64) {
	m.width, m.height = width, height
	columns := int(width / MatrixFontSize)
	m.drops = make([]MatrixDrop, columns)
	for i := range m.drops {
		d := &m.drops[i]
		d.X = float64(i) * MatrixFontSize
		d.Y = -m.rng.Float64() * height
		d.Speed = 1 + m.rng.Float64()*2
		m.roll(d)
	}
}

// EmissionChance returns the per-frame probability that a column with bass
// amplitude amp shows a glyph.
func EmissionChance(amp float64) float64 {
	return matrixBaseEmission + matrixBassEmission*clamp01(amp)
}

// Update advances every column and rolls this frame's emissions.
func (m *MatrixRain) Update(fc *FrameContext) {
	if fc.Width != m.width || fc.Height != m.height || m.drops == nil {
		m.build(fc.Width, fc.Height)
	}

	speed := fc.Config.AnimationSpeed
	n := len(m.drops)
	for i := range m.drops {
		d := &m.drops[i]
		d.Amp = fc.BassSample(i, n)
		d.Emitted = false

		d.Y += d.Speed * (1 + d.Amp*2) * speed
		if d.Y > m.height {
			d.Y = -m.rng.Float64() * MatrixFontSize
			m.roll(d)
		}

		if m.rng.Float64() < EmissionChance(d.Amp) {
			d.Y = m.rng.Float64() * m.height
			m.roll(d)
			d.Emitted = true
			m.emissions++
		}
	}
}

func (m *MatrixRain) roll(d *MatrixDrop) {
	d.Glyph = matrixGlyphs[m.rng.Intn(len(matrixGlyphs))]
	d.Opacity = 0.5 + m.rng.Float64()*0.5
}

// Render fades the previous frame and draws the emitted glyphs.
func (m *MatrixRain) Render(c ports.Canvas, fc *FrameContext) {
	fade := matrixFadeIdle
	if fc.AudioActive() {
		fade = matrixFadeActive
	}
	c.FillRect(0, 0, fc.Width, fc.Height, color.NRGBA{A: uint8(fade * 255)})

	for i := range m.drops {
		d := &m.drops[i]
		if !d.Emitted {
			continue
		}

		col := fc.Palette.Primary
		switch {
		case d.Amp > matrixAccentAmp:
			col = fc.Palette.Accent
		case d.Amp > matrixSecondaryAmp:
			col = fc.Palette.Secondary
		}

		glow := d.Amp > matrixGlowAmp
		if glow {
			c.SetShadow(matrixGlowBlur, rgba(col, 1))
		}
		c.FillText(string(d.Glyph), d.X, d.Y, MatrixFontSize, rgba(col, d.Opacity))
		if glow {
			c.SetShadow(0, color.NRGBA{})
		}
	}
}

var (
	_ Subsystem   = (*MatrixRain)(nil)
	_ TrailKeeper = (*MatrixRain)(nil)
)
