// Package events fans out store.ActivityEvent records to in-process
// subscribers (the dashboard render loop, the notifier, the websocket
// mirror) without any of them holding a direct reference to the store.
// Grounded on the teacher's internal/events/bus.go backpressure-with-
// retry broadcast design.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskweave/orchestrator/internal/store"
)

// Backpressure tuning, unchanged from the teacher's constants.
const (
	maxBackpressureRetries = 3
	backpressureRetryDelay = 10 * time.Millisecond
	subscriberBufferSize   = 100
)

// subscription is one Subscribe call's channel plus its type filter.
type subscription struct {
	ch    chan store.ActivityEvent
	types map[store.ActivityEventType]bool // nil/empty = all types
}

// Bus broadcasts activity events to every matching subscriber. The zero
// value is not usable; construct with NewBus.
type Bus struct {
	mu          sync.RWMutex
	subscribers []*subscription
	log         zerolog.Logger
	dropped     uint64
}

// NewBus creates an empty bus.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{log: log}
}

// Subscribe returns a channel receiving every future event whose type is
// in types (or every event, if types is empty). Callers must drain the
// channel or risk their events being dropped under backpressure.
func (b *Bus) Subscribe(types ...store.ActivityEventType) <-chan store.ActivityEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	filter := make(map[store.ActivityEventType]bool, len(types))
	for _, t := range types {
		filter[t] = true
	}

	sub := &subscription{ch: make(chan store.ActivityEvent, subscriberBufferSize), types: filter}
	b.subscribers = append(b.subscribers, sub)
	return sub.ch
}

// Unsubscribe removes ch from the subscriber list and closes it. Safe to
// call once per channel returned by Subscribe.
func (b *Bus) Unsubscribe(ch <-chan store.ActivityEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub.ch == ch {
			close(sub.ch)
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return
		}
	}
}

// Publish delivers event to every matching subscriber. Delivery is best
// effort: a full channel is retried briefly, then the event is dropped
// and counted rather than blocking the caller (typically the reconciler's
// apply step).
func (b *Bus) Publish(event store.ActivityEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		if !matchesType(event.Type, sub.types) {
			continue
		}
		b.sendWithBackpressure(sub, event)
	}
}

func (b *Bus) sendWithBackpressure(sub *subscription, event store.ActivityEvent) {
	select {
	case sub.ch <- event:
		return
	default:
	}

	for retry := 1; retry <= maxBackpressureRetries; retry++ {
		time.Sleep(backpressureRetryDelay)
		select {
		case sub.ch <- event:
			b.log.Debug().Int("retry", retry).Str("type", string(event.Type)).Msg("event delivered after backpressure")
			return
		default:
		}
	}

	dropped := atomic.AddUint64(&b.dropped, 1)
	b.log.Warn().
		Str("type", string(event.Type)).
		Uint64("total_dropped", dropped).
		Msg("dropped event after exhausting backpressure retries")
}

// DroppedCount returns how many events have been dropped since startup.
func (b *Bus) DroppedCount() uint64 {
	return atomic.LoadUint64(&b.dropped)
}

func matchesType(t store.ActivityEventType, filter map[store.ActivityEventType]bool) bool {
	if len(filter) == 0 {
		return true
	}
	return filter[t]
}
