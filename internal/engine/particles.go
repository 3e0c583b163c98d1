package engine

import (
	"math"
	"math/rand"

	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/ports"
)

const (
	particleMinSize    = 1.0
	particleSizeSpread = 3.0
	particleMinLife    = 50.0
	particleLifeSpread = 100.0
	particleLifeStep   = 0.5
	particleDamping    = 0.99
	particleMaxSpeed   = 0.5 // initial velocity spread, px/frame
	particleNudge      = 0.5
	particleHaloBoost  = 0.7
)

// colorSlot picks one of the three palette colors.
type colorSlot uint8

const (
	slotPrimary colorSlot = iota
	slotSecondary
	slotAccent
)

func (s colorSlot) of(p domain.Palette) domain.RGB {
	switch s {
	case slotSecondary:
		return p.Secondary
	case slotAccent:
		return p.Accent
	}
	return p.Primary
}

// Particle is one element of the particle pool. Audio never changes Size or
// Slot; the audio-modulated look exists only while rendering.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Size   float64
	Slot   colorSlot

	Life    float64
	MaxLife float64

	// AudioInfluence scales how strongly this particle reacts to audio (0..1)
	AudioInfluence float64

	// Generation counts respawns.
	Generation int
}

// ParticleField is the particle swarm subsystem.
type ParticleField struct {
	rng    *rand.Rand
	pool   []Particle
	width  float64
	height float64
}

// NewParticleField creates an empty field drawing randomness from rng.
func NewParticleField(rng *rand.Rand) *ParticleField {
	return &ParticleField{rng: rng}
}

// Kind implements Subsystem.
func (f *ParticleField) Kind() Kind { return KindParticles }

// Len implements Pooled.
func (f *ParticleField) Len() int { return len(f.pool) }

// Particles returns the pool. The slice is owned by the field.
func (f *ParticleField) Particles() []Particle { return f.pool }

// Reset scatters count particles uniformly over a width x height canvas.
// nolint:gosec // G404 - weak random is fine for visual effects
func (f *ParticleField) Reset(width, height float64, count int) {
	f.width, f.height = width, height
	f.pool = make([]Particle, count)
	for i := range f.pool {
		p := &f.pool[i]
		p.X = f.rng.Float64() * width
		p.Y = f.rng.Float64() * height
		p.VX = (f.rng.Float64() - 0.5) * particleMaxSpeed
		p.VY = (f.rng.Float64() - 0.5) * particleMaxSpeed
		p.Size = particleMinSize + f.rng.Float64()*particleSizeSpread
		p.Slot = colorSlot(f.rng.Intn(3))
		p.MaxLife = particleMinLife + f.rng.Float64()*particleLifeSpread
		p.Life = p.MaxLife
		p.AudioInfluence = 0.5 + f.rng.Float64()*0.5
	}
}

// Update integrates one frame: audio nudge, toroidal move, damping and aging.
func (f *ParticleField) Update(fc *FrameContext) {
	if f.width <= 0 || f.height <= 0 {
		return
	}

	speed := fc.Config.AnimationSpeed
	active := fc.AudioActive()
	avg := fc.Audio.AverageLevel

	for i := range f.pool {
		p := &f.pool[i]

		if active {
			nudge := p.AudioInfluence * avg * particleNudge
			p.VX += (f.rng.Float64() - 0.5) * nudge
			p.VY += (f.rng.Float64() - 0.5) * nudge
		}

		p.X = wrap(p.X+p.VX*speed, f.width)
		p.Y = wrap(p.Y+p.VY*speed, f.height)

		p.VX *= particleDamping
		p.VY *= particleDamping

		p.Life -= particleLifeStep
		if p.Life <= 0 {
			p.Life = p.MaxLife
			p.X = f.rng.Float64() * f.width
			p.Y = f.rng.Float64() * f.height
			p.Generation++
		}
	}
}

// Render draws every particle. With audio, particles swell with the average
// level, pick up band colors and get a halo on loud transients; without it
// they fade out over their life.
func (f *ParticleField) Render(c ports.Canvas, fc *FrameContext) {
	active := fc.AudioActive()
	a := fc.Audio

	for i := range f.pool {
		p := &f.pool[i]
		base := p.Slot.of(fc.Palette)

		if !active {
			c.FillCircle(p.X, p.Y, p.Size, rgba(base, p.Life/p.MaxLife))
			continue
		}

		boost := p.AudioInfluence * a.AverageLevel
		size := p.Size * (1 + a.AverageLevel*2)
		col := domain.RGB{
			R: addChannel(base.R, a.BassLevel),
			G: addChannel(base.G, a.MidLevel),
			B: addChannel(base.B, a.TrebleLevel),
		}
		alpha := 0.6 + boost*0.4

		if boost > particleHaloBoost {
			c.FillCircle(p.X, p.Y, size*2, rgba(col, alpha*0.2))
		}
		c.FillCircle(p.X, p.Y, size, rgba(col, alpha))
	}
}

// wrap maps v onto [0, limit): leaving one edge re-enters at the other.
func wrap(v, limit float64) float64 {
	v = math.Mod(v, limit)
	if v < 0 {
		v += limit
	}
	if v >= limit {
		v = 0
	}
	return v
}

var _ Pooled = (*ParticleField)(nil)
