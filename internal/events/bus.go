package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// Filter selects the events a subscription receives. A nil Filter matches
// everything.
type Filter func(Event) bool

// OfType matches events whose EventType is one of types.
func OfType(types ...string) Filter {
	return func(e Event) bool { return slices.Contains(types, e.EventType()) }
}

// ForEntity matches events about one library, session or sync run.
func ForEntity(entityType, entityID string) Filter {
	return func(e Event) bool { return e.EntityType() == entityType && e.EntityID() == entityID }
}

type subscription struct {
	ch    chan Event
	match Filter
}

// Bus fans catalog and playback events out to subscribers. Publishing never
// waits on a slow reader: an event that does not fit a subscriber's buffer
// is dropped for that subscriber and counted.
type Bus struct {
	logger  *slog.Logger
	dropped atomic.Int64

	mu     sync.RWMutex
	subs   []subscription
	closed bool
}

// NewBus returns an open bus. A nil logger means slog.Default().
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger.With("component", "events")}
}

// Publish delivers e to every matching subscriber. A nil or closed bus
// discards it.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}

	for _, sub := range b.subs {
		if sub.match != nil && !sub.match(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			n := b.dropped.Add(1)
			b.logger.Warn("subscriber behind, event dropped",
				"type", e.EventType(),
				"entity_id", e.EntityID(),
				"dropped_total", n)
		}
	}
	return nil
}

// SubscribeFunc registers a subscription with its own filter. The channel is
// closed by Unsubscribe or Close; subscribing to a closed bus returns a
// closed channel.
func (b *Bus) SubscribeFunc(match Filter, bufferSize int) <-chan Event {
	ch := make(chan Event, bufferSize)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, subscription{ch: ch, match: match})
	return ch
}

// Subscribe receives events of one type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	return b.SubscribeFunc(OfType(eventType), bufferSize)
}

// SubscribeAll receives every event.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	return b.SubscribeFunc(nil, bufferSize)
}

// SubscribeEntity receives every event about one entity.
func (b *Bus) SubscribeEntity(entityType, entityID string, bufferSize int) <-chan Event {
	return b.SubscribeFunc(ForEntity(entityType, entityID), bufferSize)
}

// Unsubscribe closes ch and stops delivery to it. Unknown channels are
// ignored.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.subs, func(s subscription) bool { return s.ch == ch })
	if i < 0 {
		return
	}
	close(b.subs[i].ch)
	b.subs = slices.Delete(b.subs, i, i+1)
}

// Dropped returns how many deliveries were skipped because a subscriber's
// buffer was full.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes every subscriber channel. Later publishes are discarded.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
	return nil
}
