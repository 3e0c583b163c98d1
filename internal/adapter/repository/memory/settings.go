// Package memory implements the repositories on top of Fyne preferences.
package memory

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/ports"
)

// Preference keys.
const (
	keyMode            = "background.mode"
	keyIntensity       = "background.intensity"
	keyPerformanceMode = "background.performance_mode"
	keyParticleCount   = "background.particle_count"
	keyAnimationSpeed  = "background.animation_speed"
	keyOpacity         = "background.opacity"
	keyAudio           = "background.audio_visualization"
	keyInteractivity   = "background.interactivity"
	keyParallax        = "background.parallax"
	keyAdaptToSection  = "background.adapt_to_section"

	keyAccent = "theme.accent"
	keyDark   = "theme.dark"
)

// SettingsRepository implements ports.SettingsRepository using Fyne preferences.
// This provides a thin wrapper around Fyne's preferences system.
//
// Thread-safe: All operations protected by sync.RWMutex.
type SettingsRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewSettingsRepository creates a new settings repository.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewSettingsRepository(prefs fyne.Preferences) *SettingsRepository {
	return &SettingsRepository{
		prefs: prefs,
	}
}

// SaveBackgroundConfig persists every field of cfg.
// Invalid configurations are rejected with the validation error.
func (r *SettingsRepository) SaveBackgroundConfig(cfg domain.BackgroundConfig) error {
	if err := cfg.Validate(); err != nil {
		return domain.NewRepositoryError("save", "settings", "invalid background config", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyMode, string(cfg.Mode))
	r.prefs.SetString(keyIntensity, string(cfg.Intensity))
	r.prefs.SetString(keyPerformanceMode, string(cfg.PerformanceMode))
	r.prefs.SetInt(keyParticleCount, cfg.ParticleCount)
	r.prefs.SetFloat(keyAnimationSpeed, cfg.AnimationSpeed)
	r.prefs.SetFloat(keyOpacity, cfg.Opacity)
	r.prefs.SetBool(keyAudio, cfg.EnableAudioVisualization)
	r.prefs.SetBool(keyInteractivity, cfg.EnableInteractivity)
	r.prefs.SetBool(keyParallax, cfg.EnableParallax)
	r.prefs.SetBool(keyAdaptToSection, cfg.AdaptToSection)
	return nil
}

// LoadBackgroundConfig retrieves the saved configuration. Missing keys take
// their defaults and out-of-range values are clamped.
func (r *SettingsRepository) LoadBackgroundConfig() (domain.BackgroundConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def := domain.DefaultBackgroundConfig()
	cfg := domain.BackgroundConfig{
		Mode:                     domain.Mode(r.prefs.StringWithFallback(keyMode, string(def.Mode))),
		Intensity:                domain.Intensity(r.prefs.StringWithFallback(keyIntensity, string(def.Intensity))),
		PerformanceMode:          domain.PerformanceMode(r.prefs.StringWithFallback(keyPerformanceMode, string(def.PerformanceMode))),
		ParticleCount:            r.prefs.IntWithFallback(keyParticleCount, def.ParticleCount),
		AnimationSpeed:           r.prefs.FloatWithFallback(keyAnimationSpeed, def.AnimationSpeed),
		Opacity:                  r.prefs.FloatWithFallback(keyOpacity, def.Opacity),
		EnableAudioVisualization: r.prefs.BoolWithFallback(keyAudio, def.EnableAudioVisualization),
		EnableInteractivity:      r.prefs.BoolWithFallback(keyInteractivity, def.EnableInteractivity),
		EnableParallax:           r.prefs.BoolWithFallback(keyParallax, def.EnableParallax),
		AdaptToSection:           r.prefs.BoolWithFallback(keyAdaptToSection, def.AdaptToSection),
	}

	return cfg.Sanitize(), nil
}

// SaveTheme persists the theme preference.
func (r *SettingsRepository) SaveTheme(theme domain.Theme) error {
	if theme.Accent == "" {
		return domain.NewRepositoryError("save", "settings", "empty accent", domain.NewValidationError("accent", theme.Accent, "must not be empty"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyAccent, theme.Accent)
	r.prefs.SetBool(keyDark, theme.IsDark)
	return nil
}

// LoadTheme retrieves the saved theme preference.
func (r *SettingsRepository) LoadTheme() (domain.Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def := domain.DefaultTheme()
	return domain.Theme{
		Accent: r.prefs.StringWithFallback(keyAccent, def.Accent),
		IsDark: r.prefs.BoolWithFallback(keyDark, def.IsDark),
	}, nil
}

// Clear removes all saved settings.
func (r *SettingsRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range []string{
		keyMode, keyIntensity, keyPerformanceMode, keyParticleCount, keyAnimationSpeed,
		keyOpacity, keyAudio, keyInteractivity, keyParallax, keyAdaptToSection,
		keyAccent, keyDark,
	} {
		r.prefs.RemoveValue(key)
	}

	return nil
}

// Verify interface implementation
var _ ports.SettingsRepository = (*SettingsRepository)(nil)
