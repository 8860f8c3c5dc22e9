// Package pubsub provides a generic publish/subscribe event broker used for
// best-effort fan-out, such as tailing log entries from multiple observers.
//
// The broker intentionally drops events when a subscriber falls behind; it
// is NOT the workflow event stream, which guarantees lossless ordered
// delivery to its single consumer (see internal/workflow).
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// CreatedEvent marks a newly produced payload, such as a log entry.
	CreatedEvent EventType = "created"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
