package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBuffer = 32

// Broker fans events out to any number of subscribers. Publishing never
// blocks: a subscriber whose channel is full misses the event.
type Broker[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event[T]
	closed bool
	buffer int
}

// NewBroker returns a broker with the default per-subscriber buffer.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBuffer)
}

// NewBrokerWithBuffer returns a broker with a custom buffer size.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:   make(map[int]chan Event[T]),
		buffer: size,
	}
}

// Subscribe registers a channel that receives events until ctx is
// cancelled or the broker closes. The channel is closed on teardown.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event[T], b.buffer)
	if b.closed {
		close(ch)
		return ch
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}()

	return ch
}

// Publish delivers the event to every subscriber that has room.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	ev := Event[T]{Type: eventType, Payload: payload, Timestamp: time.Now()}
	for _, sub := range b.subs {
		select {
		case sub <- ev:
		default:
			// Full channel: drop rather than stall the publisher.
		}
	}
}

// Close tears down the broker and closes all subscriber channels.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub)
	}
}

// SubscriberCount returns the number of live subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
