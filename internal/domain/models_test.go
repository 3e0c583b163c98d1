package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, ok := ParseMode(" " + string(m) + " ")
		assert.True(t, ok)
		assert.Equal(t, m, got)
	}

	got, ok := ParseMode("NEURAL")
	assert.True(t, ok)
	assert.Equal(t, ModeNeural, got)

	_, ok = ParseMode("plasma")
	assert.False(t, ok)
}

func TestDefaultBackgroundConfigIsValid(t *testing.T) {
	cfg := DefaultBackgroundConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ModeAdaptive, cfg.Mode)
	assert.Equal(t, IntensityMedium, cfg.Intensity)
	assert.Equal(t, PerformanceAuto, cfg.PerformanceMode)
	assert.Equal(t, 100, cfg.ParticleCount)
	assert.Equal(t, 1.0, cfg.AnimationSpeed)
	assert.Equal(t, 0.6, cfg.Opacity)
	assert.True(t, cfg.EnableAudioVisualization)
	assert.True(t, cfg.AdaptToSection)
}

func TestBackgroundConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*BackgroundConfig)
		field string
	}{
		{"mode", func(c *BackgroundConfig) { c.Mode = "plasma" }, "mode"},
		{"intensity", func(c *BackgroundConfig) { c.Intensity = "ultra" }, "intensity"},
		{"performance", func(c *BackgroundConfig) { c.PerformanceMode = "turbo" }, "performanceMode"},
		{"count", func(c *BackgroundConfig) { c.ParticleCount = -1 }, "particleCount"},
		{"speed zero", func(c *BackgroundConfig) { c.AnimationSpeed = 0 }, "animationSpeed"},
		{"speed high", func(c *BackgroundConfig) { c.AnimationSpeed = 6 }, "animationSpeed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBackgroundConfig()
			tt.edit(&cfg)

			err := cfg.Validate()
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	cfg := DefaultBackgroundConfig()
	cfg.Opacity = -0.1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidOpacity)
}

func TestBackgroundConfigSanitize(t *testing.T) {
	cfg := BackgroundConfig{
		Mode:            "plasma",
		Intensity:       "ultra",
		PerformanceMode: "turbo",
		ParticleCount:   -5,
		AnimationSpeed:  9,
		Opacity:         2,
	}

	got := cfg.Sanitize()
	require.NoError(t, got.Validate())
	assert.Equal(t, ModeParticles, got.Mode)
	assert.Equal(t, IntensityMedium, got.Intensity)
	assert.Equal(t, PerformanceAuto, got.PerformanceMode)
	assert.Zero(t, got.ParticleCount)
	assert.Equal(t, 5.0, got.AnimationSpeed)
	assert.Equal(t, 1.0, got.Opacity)

	cfg.AnimationSpeed = -1
	cfg.Opacity = -1
	got = cfg.Sanitize()
	assert.Equal(t, 1.0, got.AnimationSpeed)
	assert.Zero(t, got.Opacity)

	valid := DefaultBackgroundConfig()
	assert.Equal(t, valid, valid.Sanitize())
}

func TestAudioAnalysisSilent(t *testing.T) {
	assert.True(t, AudioAnalysis{}.Silent())
	assert.False(t, AudioAnalysis{PeakLevel: 0.1}.Silent())
}

func TestErrorsUnwrap(t *testing.T) {
	base := errors.New("disk full")

	repoErr := NewRepositoryError("save", "settings", "write failed", base)
	assert.ErrorIs(t, repoErr, base)
	assert.Contains(t, repoErr.Error(), "settings.save")

	svcErr := NewServiceError("BackgroundService", "SetOpacity", "rejected", ErrInvalidOpacity)
	assert.ErrorIs(t, svcErr, ErrInvalidOpacity)

	audioErr := NewAudioSourceError("decode", "/tmp/a.xyz", "unknown container", ErrUnsupportedFormat)
	assert.ErrorIs(t, audioErr, ErrUnsupportedFormat)
	assert.Contains(t, audioErr.Error(), "/tmp/a.xyz")
	assert.NotContains(t, NewAudioSourceError("play", "", "device busy", nil).Error(), "''")
}

func TestEventTypes(t *testing.T) {
	cfg := DefaultBackgroundConfig()
	events := map[EventType]Event{
		EventConfigChanged:       NewConfigChangedEvent(cfg, cfg),
		EventSectionChanged:      NewSectionChangedEvent("", "home"),
		EventThemeChanged:        NewThemeChangedEvent(DefaultTheme()),
		EventPerformanceMetrics:  NewPerformanceMetricsEvent(PerformanceMetrics{}),
		EventPerformanceDegraded: NewPerformanceDegradedEvent(12, cfg),
		EventPlaybackChanged:     NewPlaybackChangedEvent(true, "synth", ""),
	}
	for want, ev := range events {
		assert.Equal(t, want, ev.Type())
		assert.False(t, ev.Timestamp().IsZero())
	}
}
