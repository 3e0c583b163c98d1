// Package domain defines events for the event-driven architecture.
// Settings, performance and audio changes are broadcast through the event bus
// so the host, the engine wiring and logging stay decoupled.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Settings events
	EventConfigChanged  EventType = "background.config_changed"
	EventSectionChanged EventType = "background.section_changed"
	EventThemeChanged   EventType = "background.theme_changed"

	// Performance events
	EventPerformanceMetrics  EventType = "performance.metrics"
	EventPerformanceDegraded EventType = "performance.degraded"

	// Audio events
	EventPlaybackChanged EventType = "audio.playback_changed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// ConfigChangedEvent is published after the background configuration changed.
type ConfigChangedEvent struct {
	baseEvent
	Previous BackgroundConfig
	Current  BackgroundConfig
}

// Type returns the event type.
func (e ConfigChangedEvent) Type() EventType {
	return EventConfigChanged
}

// NewConfigChangedEvent creates a new ConfigChangedEvent.
func NewConfigChangedEvent(previous, current BackgroundConfig) ConfigChangedEvent {
	return ConfigChangedEvent{
		baseEvent: newBaseEvent(),
		Previous:  previous,
		Current:   current,
	}
}

// SectionChangedEvent is published when the active page section changes.
type SectionChangedEvent struct {
	baseEvent
	Previous string
	Section  string
}

// Type returns the event type.
func (e SectionChangedEvent) Type() EventType {
	return EventSectionChanged
}

// NewSectionChangedEvent creates a new SectionChangedEvent.
func NewSectionChangedEvent(previous, section string) SectionChangedEvent {
	return SectionChangedEvent{
		baseEvent: newBaseEvent(),
		Previous:  previous,
		Section:   section,
	}
}

// ThemeChangedEvent is published when the accent or brightness changes.
type ThemeChangedEvent struct {
	baseEvent
	Theme Theme
}

// Type returns the event type.
func (e ThemeChangedEvent) Type() EventType {
	return EventThemeChanged
}

// NewThemeChangedEvent creates a new ThemeChangedEvent.
func NewThemeChangedEvent(theme Theme) ThemeChangedEvent {
	return ThemeChangedEvent{
		baseEvent: newBaseEvent(),
		Theme:     theme,
	}
}

// PerformanceMetricsEvent carries one monitor sample (about once per second).
type PerformanceMetricsEvent struct {
	baseEvent
	Metrics PerformanceMetrics
}

// Type returns the event type.
func (e PerformanceMetricsEvent) Type() EventType {
	return EventPerformanceMetrics
}

// NewPerformanceMetricsEvent creates a new PerformanceMetricsEvent.
func NewPerformanceMetricsEvent(m PerformanceMetrics) PerformanceMetricsEvent {
	return PerformanceMetricsEvent{
		baseEvent: newBaseEvent(),
		Metrics:   m,
	}
}

// PerformanceDegradedEvent is published when the downgrade was applied.
type PerformanceDegradedEvent struct {
	baseEvent
	AverageFPS float64
	Config     BackgroundConfig
}

// Type returns the event type.
func (e PerformanceDegradedEvent) Type() EventType {
	return EventPerformanceDegraded
}

// NewPerformanceDegradedEvent creates a new PerformanceDegradedEvent.
func NewPerformanceDegradedEvent(avgFPS float64, cfg BackgroundConfig) PerformanceDegradedEvent {
	return PerformanceDegradedEvent{
		baseEvent:  newBaseEvent(),
		AverageFPS: avgFPS,
		Config:     cfg,
	}
}

// PlaybackChangedEvent is published when an audio source starts or stops.
type PlaybackChangedEvent struct {
	baseEvent
	Playing bool
	Source  string // "file" or "synth"
	Title   string
}

// Type returns the event type.
func (e PlaybackChangedEvent) Type() EventType {
	return EventPlaybackChanged
}

// NewPlaybackChangedEvent creates a new PlaybackChangedEvent.
func NewPlaybackChangedEvent(playing bool, source, title string) PlaybackChangedEvent {
	return PlaybackChangedEvent{
		baseEvent: newBaseEvent(),
		Playing:   playing,
		Source:    source,
		Title:     title,
	}
}
