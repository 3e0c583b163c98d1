// Package fyne provides Fyne UI adapter implementations.
// This package hosts the rendered background in a window and lets the user
// change the background settings.
package fyne

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/engine"
	"github.com/tejashwikalptaru/aurora/internal/ports"
	"github.com/tejashwikalptaru/aurora/internal/service"
)

// UIView defines the interface for UI updates.
// The actual UI implementation (MainWindow) must implement this interface.
// Implementations must be safe to call from any goroutine.
type UIView interface {
	SetConfig(cfg domain.BackgroundConfig)
	SetTheme(theme domain.Theme)
	SetSection(section string)
	SetPlaybackState(playing bool, title string)
	SetMetrics(m domain.PerformanceMetrics)

	// Notifications
	ShowNotification(title, message string)
}

// AudioController is the audio side the presenter drives.
type AudioController interface {
	// TogglePlayback starts or pauses the current source.
	TogglePlayback() error

	// OpenFile replaces the current source with an audio file and plays it.
	OpenFile(path string) error
}

// Presenter implements the Presenter pattern (MVP architecture).
// It coordinates between the background service and the UI.
//
// Responsibilities:
// - Subscribe to events from the event bus
// - Map domain events to UI updates
// - Translate UI commands to service method calls
//
// Thread-safety: event handlers may run on the frame loop goroutine.
type Presenter struct {
	// Dependencies
	logger *slog.Logger

	// Services (injected)
	background *service.BackgroundService
	audio      AudioController

	// Event bus for subscriptions
	EventBus ports.EventBus

	// UI view
	view UIView

	subscriptions []domain.SubscriptionID

	// Concurrency control
	mu           sync.Mutex
	shutdownOnce sync.Once
}

// NewPresenter creates a new presenter and syncs the view with the current settings.
func NewPresenter(
	logger *slog.Logger,
	background *service.BackgroundService,
	audio AudioController,
	eventBus ports.EventBus,
	view UIView,
) *Presenter {
	p := &Presenter{
		logger:     logger,
		background: background,
		audio:      audio,
		EventBus:   eventBus,
		view:       view,
	}

	p.subscribeToEvents()
	p.syncInitialState()

	return p
}

// subscribeToEvents subscribes to all relevant events from the event bus.
func (p *Presenter) subscribeToEvents() {
	subscriptions := map[domain.EventType]domain.EventHandler{
		// Settings events
		domain.EventConfigChanged:  p.onConfigChanged,
		domain.EventThemeChanged:   p.onThemeChanged,
		domain.EventSectionChanged: p.onSectionChanged,

		// Performance events
		domain.EventPerformanceMetrics:  p.onPerformanceMetrics,
		domain.EventPerformanceDegraded: p.onPerformanceDegraded,

		// Audio events
		domain.EventPlaybackChanged: p.onPlaybackChanged,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for eventType, handler := range subscriptions {
		p.subscriptions = append(p.subscriptions, p.EventBus.Subscribe(eventType, handler))
	}
}

// syncInitialState pushes the current settings into the view.
func (p *Presenter) syncInitialState() {
	snap := p.background.Snapshot()
	p.view.SetConfig(snap.Config)
	p.view.SetTheme(snap.Theme)
	p.view.SetSection(snap.Section)
}

// Event handlers

func (p *Presenter) onConfigChanged(event domain.Event) {
	if e, ok := event.(domain.ConfigChangedEvent); ok {
		p.view.SetConfig(e.Current)
	}
}

func (p *Presenter) onThemeChanged(event domain.Event) {
	if e, ok := event.(domain.ThemeChangedEvent); ok {
		p.view.SetTheme(e.Theme)
	}
}

func (p *Presenter) onSectionChanged(event domain.Event) {
	if e, ok := event.(domain.SectionChangedEvent); ok {
		p.view.SetSection(e.Section)
	}
}

func (p *Presenter) onPerformanceMetrics(event domain.Event) {
	if e, ok := event.(domain.PerformanceMetricsEvent); ok {
		p.view.SetMetrics(e.Metrics)
	}
}

func (p *Presenter) onPerformanceDegraded(event domain.Event) {
	if e, ok := event.(domain.PerformanceDegradedEvent); ok {
		p.view.ShowNotification("Performance",
			fmt.Sprintf("Averaging %.0f FPS, switched to low quality", e.AverageFPS))
	}
}

func (p *Presenter) onPlaybackChanged(event domain.Event) {
	if e, ok := event.(domain.PlaybackChangedEvent); ok {
		p.view.SetPlaybackState(e.Playing, e.Title)
	}
}

// UI command handlers

// OnModeSelected handles the mode selector.
func (p *Presenter) OnModeSelected(name string) {
	mode, ok := domain.ParseMode(name)
	if !ok {
		p.logger.Warn("unknown mode selected", slog.String("mode", name))
		return
	}
	p.apply("mode", p.background.SetMode(mode))
}

// OnIntensitySelected handles the intensity selector.
func (p *Presenter) OnIntensitySelected(name string) {
	p.apply("intensity", p.background.SetIntensity(domain.Intensity(strings.ToLower(name))))
}

// OnPerformanceModeSelected handles the performance selector.
func (p *Presenter) OnPerformanceModeSelected(name string) {
	p.apply("performance mode", p.background.SetPerformanceMode(domain.PerformanceMode(strings.ToLower(name))))
}

// OnOpacityChanged handles the opacity slider (0-100).
func (p *Presenter) OnOpacityChanged(percent float64) {
	p.apply("opacity", p.background.SetOpacity(percent/100))
}

// OnSpeedChanged handles the animation speed slider.
func (p *Presenter) OnSpeedChanged(speed float64) {
	p.apply("animation speed", p.background.SetAnimationSpeed(speed))
}

// OnAudioVisualizationToggled handles the audio reactivity check.
func (p *Presenter) OnAudioVisualizationToggled(enabled bool) {
	p.apply("audio visualization", p.background.SetAudioVisualization(enabled))
}

// OnAdaptToSectionToggled handles the section follow check.
func (p *Presenter) OnAdaptToSectionToggled(enabled bool) {
	p.apply("adapt to section", p.background.SetAdaptToSection(enabled))
}

// OnSectionSelected handles the section selector.
func (p *Presenter) OnSectionSelected(section string) {
	p.background.SetSection(strings.ToLower(section))
}

// OnNextSection advances to the next page section, wrapping around.
func (p *Presenter) OnNextSection() {
	sections := engine.Sections()
	current := p.background.Section()
	next := sections[0]
	for i, s := range sections {
		if s == current {
			next = sections[(i+1)%len(sections)]
			break
		}
	}
	p.background.SetSection(next)
}

// OnBackgroundTapped cycles sections when interactivity is enabled.
func (p *Presenter) OnBackgroundTapped() {
	if !p.background.Config().EnableInteractivity {
		return
	}
	p.OnNextSection()
}

// OnAccentSelected handles the accent selector.
func (p *Presenter) OnAccentSelected(accent string) {
	theme := p.background.Theme()
	theme.Accent = accent
	p.apply("accent", p.background.SetTheme(theme))
}

// OnDarkToggled handles the dark page check.
func (p *Presenter) OnDarkToggled(dark bool) {
	theme := p.background.Theme()
	theme.IsDark = dark
	p.apply("theme", p.background.SetTheme(theme))
}

// OnResetClicked restores the default settings.
func (p *Presenter) OnResetClicked() {
	p.apply("defaults", p.background.ResetToDefaults())
}

// OnPlayClicked toggles audio playback.
func (p *Presenter) OnPlayClicked() {
	if p.audio == nil {
		return
	}
	if err := p.audio.TogglePlayback(); err != nil {
		p.logger.Error("failed to toggle playback", slog.Any("error", err))
		p.view.ShowNotification("Audio", fmt.Sprintf("Playback failed: %v", err))
	}
}

// OnFileOpened loads an audio file as the background's audio source.
func (p *Presenter) OnFileOpened(path string) error {
	if p.audio == nil {
		return domain.ErrNotInitialized
	}
	if err := p.audio.OpenFile(path); err != nil {
		p.logger.Error("failed to open audio file", slog.String("path", path), slog.Any("error", err))
		return err
	}
	return nil
}

// apply reports a failed settings change to the user.
func (p *Presenter) apply(what string, err error) {
	if err == nil {
		return
	}
	p.logger.Warn("settings change failed", slog.String("setting", what), slog.Any("error", err))
	p.view.ShowNotification("Settings", fmt.Sprintf("Could not change %s: %v", what, err))
}

// Shutdown unsubscribes from the event bus.
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for _, id := range p.subscriptions {
			p.EventBus.Unsubscribe(id)
		}
		p.subscriptions = nil
	})
}
