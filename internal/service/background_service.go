// Package service provides the settings side of the background renderer.
package service

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/engine"
	"github.com/tejashwikalptaru/aurora/internal/ports"
)

const serviceName = "BackgroundService"

// BackgroundService owns the background configuration, the theme and the
// active page section. The engine reads them once per frame through Snapshot;
// the UI and the performance downgrade write through the setters.
//
// All operations are thread-safe via sync.RWMutex. Changes are announced on the
// event bus after the lock is released. Saves are serialized under saveMu and
// always write the latest cached value, so the stored settings never fall
// behind the cache when the UI and the performance downgrade race.
type BackgroundService struct {
	// Dependencies (injected)
	logger     *slog.Logger
	repository ports.SettingsRepository
	bus        ports.EventBus

	// Cached settings
	config  domain.BackgroundConfig
	theme   domain.Theme
	section string

	mu     sync.RWMutex
	saveMu sync.Mutex
}

// NewBackgroundService creates the service and loads saved settings. Load
// failures are logged and the defaults are used.
func NewBackgroundService(
	logger *slog.Logger,
	repository ports.SettingsRepository,
	bus ports.EventBus,
) *BackgroundService {
	s := &BackgroundService{
		logger:     logger,
		repository: repository,
		bus:        bus,
		config:     domain.DefaultBackgroundConfig(),
		theme:      domain.DefaultTheme(),
	}

	s.load()
	logger.Debug("background service initialized",
		slog.String("mode", string(s.config.Mode)),
		slog.String("accent", s.theme.Accent))

	return s
}

func (s *BackgroundService) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg, err := s.repository.LoadBackgroundConfig(); err == nil {
		s.config = cfg.Sanitize()
	} else {
		s.logger.Warn("failed to load background config", slog.Any("error", err))
	}

	if theme, err := s.repository.LoadTheme(); err == nil {
		s.theme = theme
	} else {
		s.logger.Warn("failed to load theme", slog.Any("error", err))
	}
}

// Snapshot implements ports.BackgroundSettings.
func (s *BackgroundService) Snapshot() domain.BackgroundSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.BackgroundSnapshot{
		Config:  s.config,
		Theme:   s.theme,
		Section: s.section,
	}
}

// Config returns the current configuration.
func (s *BackgroundService) Config() domain.BackgroundConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// UpdateConfig applies edit to a copy of the configuration. The result must
// validate; it then replaces the cached config, is saved and announced.
func (s *BackgroundService) UpdateConfig(edit func(*domain.BackgroundConfig)) error {
	s.mu.Lock()
	previous := s.config
	next := previous
	edit(&next)

	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return domain.NewServiceError(serviceName, "UpdateConfig", "invalid configuration", err)
	}
	if next == previous {
		s.mu.Unlock()
		return nil
	}
	s.config = next
	s.mu.Unlock()

	s.bus.Publish(domain.NewConfigChangedEvent(previous, next))

	return s.saveConfig("UpdateConfig")
}

// saveConfig persists the current cached configuration.
func (s *BackgroundService) saveConfig(operation string) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := s.repository.SaveBackgroundConfig(s.Config()); err != nil {
		return domain.NewServiceError(serviceName, operation, "failed to save configuration", err)
	}
	return nil
}

// SetConfig replaces the whole configuration.
func (s *BackgroundService) SetConfig(cfg domain.BackgroundConfig) error {
	return s.UpdateConfig(func(c *domain.BackgroundConfig) { *c = cfg })
}

// SetMode selects the visual mode.
func (s *BackgroundService) SetMode(mode domain.Mode) error {
	return s.UpdateConfig(func(c *domain.BackgroundConfig) { c.Mode = mode })
}

// SetIntensity sets the pool density.
func (s *BackgroundService) SetIntensity(intensity domain.Intensity) error {
	return s.UpdateConfig(func(c *domain.BackgroundConfig) { c.Intensity = intensity })
}

// SetPerformanceMode sets auto, high or low.
func (s *BackgroundService) SetPerformanceMode(mode domain.PerformanceMode) error {
	return s.UpdateConfig(func(c *domain.BackgroundConfig) { c.PerformanceMode = mode })
}

// SetOpacity sets the layer opacity (0.0 to 1.0).
func (s *BackgroundService) SetOpacity(opacity float64) error {
	return s.UpdateConfig(func(c *domain.BackgroundConfig) { c.Opacity = opacity })
}

// SetAnimationSpeed sets the animation multiplier.
func (s *BackgroundService) SetAnimationSpeed(speed float64) error {
	return s.UpdateConfig(func(c *domain.BackgroundConfig) { c.AnimationSpeed = speed })
}

// SetParticleCount caps the particle pool; 0 removes the cap.
func (s *BackgroundService) SetParticleCount(count int) error {
	return s.UpdateConfig(func(c *domain.BackgroundConfig) { c.ParticleCount = count })
}

// SetAudioVisualization toggles audio reactivity.
func (s *BackgroundService) SetAudioVisualization(enabled bool) error {
	return s.UpdateConfig(func(c *domain.BackgroundConfig) { c.EnableAudioVisualization = enabled })
}

// SetAdaptToSection toggles section following in adaptive mode.
func (s *BackgroundService) SetAdaptToSection(enabled bool) error {
	return s.UpdateConfig(func(c *domain.BackgroundConfig) { c.AdaptToSection = enabled })
}

// Theme returns the current theme.
func (s *BackgroundService) Theme() domain.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme replaces the theme. The accent is stored lower-case.
func (s *BackgroundService) SetTheme(theme domain.Theme) error {
	theme.Accent = strings.ToLower(strings.TrimSpace(theme.Accent))
	if theme.Accent == "" {
		return domain.NewValidationError("accent", theme.Accent, "must not be empty")
	}

	s.mu.Lock()
	if s.theme == theme {
		s.mu.Unlock()
		return nil
	}
	s.theme = theme
	s.mu.Unlock()

	s.bus.Publish(domain.NewThemeChangedEvent(theme))

	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if err := s.repository.SaveTheme(s.Theme()); err != nil {
		return domain.NewServiceError(serviceName, "SetTheme", "failed to save theme", err)
	}
	return nil
}

// Section returns the active page section.
func (s *BackgroundService) Section() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.section
}

// SetSection records the active page section. It is not persisted.
func (s *BackgroundService) SetSection(section string) {
	s.mu.Lock()
	previous := s.section
	if previous == section {
		s.mu.Unlock()
		return
	}
	s.section = section
	s.mu.Unlock()

	s.bus.Publish(domain.NewSectionChangedEvent(previous, section))
}

// ApplyPerformanceDowngrade writes the downgraded configuration back. It
// reports whether anything changed; a second call on an already downgraded
// config is a no-op and publishes nothing.
func (s *BackgroundService) ApplyPerformanceDowngrade(averageFPS float64) (bool, error) {
	s.mu.Lock()
	previous := s.config
	next := engine.OptimizeConfigForPerformance(previous)
	if next == previous {
		s.mu.Unlock()
		return false, nil
	}
	s.config = next
	s.mu.Unlock()

	s.logger.Warn("performance downgrade applied",
		slog.Float64("average_fps", averageFPS),
		slog.String("intensity", string(next.Intensity)),
		slog.Int("particle_count", next.ParticleCount))

	s.bus.Publish(domain.NewConfigChangedEvent(previous, next))
	s.bus.Publish(domain.NewPerformanceDegradedEvent(averageFPS, next))

	return true, s.saveConfig("ApplyPerformanceDowngrade")
}

// ResetToDefaults restores the default configuration and theme.
func (s *BackgroundService) ResetToDefaults() error {
	if err := s.SetConfig(domain.DefaultBackgroundConfig()); err != nil {
		return err
	}
	return s.SetTheme(domain.DefaultTheme())
}

// Shutdown cleans up resources.
func (s *BackgroundService) Shutdown() error {
	// No cleanup needed; every change is saved when it happens
	return nil
}

var _ ports.BackgroundSettings = (*BackgroundService)(nil)
