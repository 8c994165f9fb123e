// Package pubsub provides a small generic publish/subscribe broker.
//
// The editor core is single-threaded; pubsub exists for the places
// where something happens off the main loop and the UI wants to hear
// about it, currently file watcher notifications.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened.
type EventType string

const (
	// FileChangedEvent fires when the open document is written by
	// another process.
	FileChangedEvent EventType = "file_changed"
)

// Event is a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts events for delivery.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
