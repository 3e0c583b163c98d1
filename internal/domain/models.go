// Package domain contains core models of the background engine with no external dependencies.
// It defines the configuration, theme and measurement types shared by the engine,
// the services and the adapters.
package domain

import (
	"strings"
	"time"
)

// Mode selects which visual subsystem renders the background.
type Mode string

// Available background modes.
const (
	ModeAdaptive  Mode = "adaptive"
	ModeParticles Mode = "particles"
	ModeNeural    Mode = "neural"
	ModeHologram  Mode = "hologram"
	ModeMatrix    Mode = "matrix"
	ModeMinimal   Mode = "minimal"
)

// Modes returns every mode in display order.
func Modes() []Mode {
	return []Mode{ModeAdaptive, ModeParticles, ModeNeural, ModeHologram, ModeMatrix, ModeMinimal}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	for _, known := range Modes() {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMode converts a user supplied string into a Mode.
// Matching is case-insensitive; unknown values return false.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	return m, m.Valid()
}

// Intensity controls how dense the pooled subsystems are.
type Intensity string

// Available intensities.
const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Valid reports whether i is a known intensity.
func (i Intensity) Valid() bool {
	switch i {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return true
	}
	return false
}

// PerformanceMode tells the engine how aggressively it may spend frame time.
type PerformanceMode string

// Available performance modes.
const (
	PerformanceAuto PerformanceMode = "auto"
	PerformanceHigh PerformanceMode = "high"
	PerformanceLow  PerformanceMode = "low"
)

// Valid reports whether p is a known performance mode.
func (p PerformanceMode) Valid() bool {
	switch p {
	case PerformanceAuto, PerformanceHigh, PerformanceLow:
		return true
	}
	return false
}

// BackgroundConfig holds the user-chosen background settings.
// The engine only reads it; writes come from the settings service or the
// performance downgrade path.
type BackgroundConfig struct {
	// Mode is the selected visual mode (adaptive picks one per page section)
	Mode Mode

	// Intensity sets the pool sizes of the particle and neural subsystems
	Intensity Intensity

	// PerformanceMode is auto, high or low
	PerformanceMode PerformanceMode

	// ParticleCount caps the particle pool (0 means no cap beyond intensity)
	ParticleCount int

	// AnimationSpeed multiplies every time and velocity term
	AnimationSpeed float64

	// Opacity is the global alpha applied to the whole layer (0.0 to 1.0)
	Opacity float64

	// EnableAudioVisualization lets audio data modulate the subsystems
	EnableAudioVisualization bool

	// EnableInteractivity is reserved for pointer-driven effects in the host
	EnableInteractivity bool

	// EnableParallax is reserved for scroll-driven offsets in the host
	EnableParallax bool

	// AdaptToSection lets adaptive mode follow the active page section
	AdaptToSection bool
}

// DefaultBackgroundConfig returns the configuration used on first start.
func DefaultBackgroundConfig() BackgroundConfig {
	return BackgroundConfig{
		Mode:                     ModeAdaptive,
		Intensity:                IntensityMedium,
		PerformanceMode:          PerformanceAuto,
		ParticleCount:            100,
		AnimationSpeed:           1.0,
		Opacity:                  0.6,
		EnableAudioVisualization: true,
		EnableInteractivity:      true,
		EnableParallax:           true,
		AdaptToSection:           true,
	}
}

// Validate checks every field and returns the first ValidationError found.
func (c BackgroundConfig) Validate() error {
	switch {
	case !c.Mode.Valid():
		return NewValidationError("mode", c.Mode, "unknown mode")
	case !c.Intensity.Valid():
		return NewValidationError("intensity", c.Intensity, "must be low, medium or high")
	case !c.PerformanceMode.Valid():
		return NewValidationError("performanceMode", c.PerformanceMode, "must be auto, high or low")
	case c.ParticleCount < 0:
		return NewValidationError("particleCount", c.ParticleCount, "must not be negative")
	case c.AnimationSpeed <= 0 || c.AnimationSpeed > 5:
		return NewValidationError("animationSpeed", c.AnimationSpeed, "must be in (0, 5]")
	case c.Opacity < 0 || c.Opacity > 1:
		return ErrInvalidOpacity
	}
	return nil
}

// Sanitize returns a copy with every field forced into range.
// Unknown enums fall back to the defaults; numbers are clamped.
func (c BackgroundConfig) Sanitize() BackgroundConfig {
	def := DefaultBackgroundConfig()
	if !c.Mode.Valid() {
		c.Mode = ModeParticles
	}
	if !c.Intensity.Valid() {
		c.Intensity = def.Intensity
	}
	if !c.PerformanceMode.Valid() {
		c.PerformanceMode = def.PerformanceMode
	}
	if c.ParticleCount < 0 {
		c.ParticleCount = 0
	}
	if c.AnimationSpeed <= 0 {
		c.AnimationSpeed = def.AnimationSpeed
	}
	if c.AnimationSpeed > 5 {
		c.AnimationSpeed = 5
	}
	if c.Opacity < 0 {
		c.Opacity = 0
	}
	if c.Opacity > 1 {
		c.Opacity = 1
	}
	return c
}

// Theme is the accent/brightness pair supplied by the theme collaborator.
type Theme struct {
	// Accent is an abstract accent identifier such as "purple" or "blue"
	Accent string

	// IsDark is true when the page uses a dark background
	IsDark bool
}

// DefaultTheme returns the theme used before the host reports one.
func DefaultTheme() Theme {
	return Theme{Accent: "purple", IsDark: true}
}

// RGB is an opaque 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// Palette holds the three colors every visual mode draws with.
type Palette struct {
	Primary   RGB
	Secondary RGB
	Accent    RGB
}

// AudioAnalysis is the per-frame decomposition of a frequency snapshot.
// All levels are normalized to [0, 1].
type AudioAnalysis struct {
	BassLevel    float64
	MidLevel     float64
	TrebleLevel  float64
	AverageLevel float64
	PeakLevel    float64
}

// Silent reports whether every level is zero.
func (a AudioAnalysis) Silent() bool {
	return a == AudioAnalysis{}
}

// DeviceHints describe the rendering device. They are consumed once when the
// canvas is sized to decide between full effects and the static fallback.
type DeviceHints struct {
	IsMobile            bool
	HardwareConcurrency int
	PixelRatio          float64
}

// BackgroundSnapshot is everything the settings side contributes to one frame.
type BackgroundSnapshot struct {
	Config  BackgroundConfig
	Theme   Theme
	Section string
}

// PerformanceMetrics is one sample emitted by the performance monitor.
type PerformanceMetrics struct {
	// FPS is frames per second over the last sampling window
	FPS float64

	// FrameTime is the mean time per frame over the window
	FrameTime time.Duration

	// MemoryUsage is heap usage in percent, 0 when the runtime cannot report it
	MemoryUsage float64

	// AverageFPS is the mean over the rolling history
	AverageFPS float64

	// SampledAt is the end of the sampling window
	SampledAt time.Time
}
