package engine

import (
	"strings"

	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/ports"
)

// Kind identifies one of the five visual subsystems.
type Kind int

// Subsystem kinds.
const (
	KindParticles Kind = iota
	KindNeural
	KindHologram
	KindMatrix
	KindMinimal
)

func (k Kind) String() string {
	switch k {
	case KindParticles:
		return "particles"
	case KindNeural:
		return "neural"
	case KindHologram:
		return "hologram"
	case KindMatrix:
		return "matrix"
	case KindMinimal:
		return "minimal"
	}
	return "unknown"
}

// Kinds returns every subsystem kind.
func Kinds() []Kind {
	return []Kind{KindParticles, KindNeural, KindHologram, KindMatrix, KindMinimal}
}

// Subsystem is one visual mode. Update advances state, Render draws it.
// Both run on the frame loop only.
type Subsystem interface {
	Kind() Kind
	Update(fc *FrameContext)
	Render(c ports.Canvas, fc *FrameContext)
}

// Pooled is a subsystem that owns a fixed-size pool sized from the canvas and
// the intensity. Reset discards the pool and builds a new one.
type Pooled interface {
	Subsystem
	Reset(width, height float64, count int)
	Len() int
}

// TrailKeeper is implemented by subsystems that fade the previous frame
// themselves. The engine does not clear the canvas before them.
type TrailKeeper interface {
	KeepsTrail() bool
}

// sectionKinds is the adaptive mapping from page section to subsystem.
var sectionKinds = map[string]Kind{
	"home":     KindParticles,
	"about":    KindMinimal,
	"skills":   KindNeural,
	"projects": KindHologram,
	"contact":  KindMatrix,
}

// Sections returns the page sections with a dedicated adaptive subsystem.
func Sections() []string {
	return []string{"home", "about", "skills", "projects", "contact"}
}

// KindForSection returns the subsystem adaptive mode uses for section.
// Unknown sections use particles.
func KindForSection(section string) Kind {
	if k, ok := sectionKinds[strings.ToLower(strings.TrimSpace(section))]; ok {
		return k
	}
	return KindParticles
}

// SelectKind picks the subsystem for a frame. Fixed modes map directly,
// adaptive mode follows the section unless AdaptToSection is off, and unknown
// modes use particles.
func SelectKind(cfg domain.BackgroundConfig, section string) Kind {
	switch cfg.Mode {
	case domain.ModeParticles:
		return KindParticles
	case domain.ModeNeural:
		return KindNeural
	case domain.ModeHologram:
		return KindHologram
	case domain.ModeMatrix:
		return KindMatrix
	case domain.ModeMinimal:
		return KindMinimal
	case domain.ModeAdaptive:
		if !cfg.AdaptToSection {
			return KindParticles
		}
		return KindForSection(section)
	}
	return KindParticles
}

var (
	particlePoolSizes = map[domain.Intensity]int{
		domain.IntensityLow:    50,
		domain.IntensityMedium: 100,
		domain.IntensityHigh:   150,
	}
	neuralPoolSizes = map[domain.Intensity]int{
		domain.IntensityLow:    20,
		domain.IntensityMedium: 30,
		domain.IntensityHigh:   50,
	}
)

// PoolSize returns the pool size for a pooled kind, 0 for the others.
// A positive ParticleCount lowers the particle pool further but never raises it.
func PoolSize(kind Kind, cfg domain.BackgroundConfig) int {
	intensity := cfg.Intensity
	if !intensity.Valid() {
		intensity = domain.IntensityMedium
	}

	switch kind {
	case KindParticles:
		n := particlePoolSizes[intensity]
		if cfg.ParticleCount > 0 && cfg.ParticleCount < n {
			n = cfg.ParticleCount
		}
		return n
	case KindNeural:
		return neuralPoolSizes[intensity]
	}
	return 0
}
