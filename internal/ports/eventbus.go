// Package ports define the EventBus interface for event-driven communication.
package ports

import (
	"github.com/tejashwikalptaru/aurora/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
// Settings changes, performance samples and playback changes travel through it, so the
// producers (services, monitor, audio adapters) never know who is listening.
//
// Thread-safety: Implementations must be thread-safe. The frame loop publishes
// performance samples from its own goroutine while the UI publishes settings changes.
//
// Example usage:
//
//	subID := bus.Subscribe(domain.EventSectionChanged, func(event domain.Event) {
//	    e := event.(domain.SectionChangedEvent)
//	    logger.Info("section", slog.String("name", e.Section))
//	})
//	defer bus.Unsubscribe(subID)
type EventBus interface {
	// Publish delivers an event to all subscribers of its type and to wildcard subscribers.
	// Handlers must return quickly; the publisher may be the frame loop.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type and returns
	// an ID for Unsubscribe. The same handler may be registered more than once.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered handler.
	// Unknown or already removed IDs are a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives every event.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers reports whether anyone listens for eventType.
	// Publishers use it to skip building expensive events.
	HasSubscribers(eventType domain.EventType) bool

	// Close drops all subscriptions. Publishing after Close is a no-op.
	Close() error
}
