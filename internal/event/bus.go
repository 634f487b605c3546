package event

import (
	"runtime/debug"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Iron-Ham/branchtint/internal/logging"
)

// Handler receives published events on the publisher's goroutine.
type Handler func(Event)

// wildcard is the pseudo event type matched by SubscribeAll.
const wildcard = "*"

type subscriber struct {
	id      string
	handler Handler
}

// Bus is a synchronous pub-sub bus. Host adapters (file watchers, the
// ticker, the document feed, the TUI) publish on it and the highlighter
// consumes from it.
type Bus struct {
	mu     sync.RWMutex
	byType map[string][]subscriber
	logger *logging.Logger

	ids atomic.Uint64
}

func NewBus() *Bus {
	return &Bus{
		byType: make(map[string][]subscriber),
		logger: logging.NopLogger(),
	}
}

// SetLogger sets where recovered handler panics are reported. nil discards.
func (b *Bus) SetLogger(logger *logging.Logger) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	b.mu.Lock()
	b.logger = logger.WithComponent("event")
	b.mu.Unlock()
}

// Subscribe registers handler for one event type and returns the ID to
// pass to Unsubscribe.
func (b *Bus) Subscribe(eventType string, handler Handler) string {
	return b.SubscribeTypes([]string{eventType}, handler)
}

// SubscribeAll registers handler for every event. Wildcard handlers run
// after the type-specific ones.
func (b *Bus) SubscribeAll(handler Handler) string {
	return b.Subscribe(wildcard, handler)
}

// SubscribeTypes registers handler for several event types under one ID.
// Repeated types count once, so an event is never delivered twice to the
// same subscription.
func (b *Bus) SubscribeTypes(eventTypes []string, handler Handler) string {
	id := "sub-" + strconv.FormatUint(b.ids.Add(1), 10)
	sub := subscriber{id: id, handler: handler}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, eventType := range eventTypes {
		if slices.Contains(eventTypes[:i], eventType) {
			continue
		}
		b.byType[eventType] = append(b.byType[eventType], sub)
	}
	return id
}

// Unsubscribe removes id from every event type it was registered for and
// reports whether anything was removed.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	found := false
	for eventType, subs := range b.byType {
		n := len(subs)
		subs = slices.DeleteFunc(subs, func(s subscriber) bool { return s.id == id })
		if len(subs) == n {
			continue
		}
		found = true
		if len(subs) == 0 {
			delete(b.byType, eventType)
		} else {
			b.byType[eventType] = subs
		}
	}
	return found
}

// Publish delivers e to the handlers for its type in registration order,
// then to the wildcard handlers. Handlers may publish or (un)subscribe. A
// panicking handler is logged and the remaining handlers still run.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	targets := slices.Concat(b.byType[e.EventType()], b.byType[wildcard])
	logger := b.logger
	b.mu.RUnlock()

	for _, sub := range targets {
		deliver(logger, sub.handler, e)
	}
}

func deliver(logger *logging.Logger, handler Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event handler panicked",
				"event", e.EventType(),
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	handler(e)
}

// Clear drops every subscription.
func (b *Bus) Clear() {
	b.mu.Lock()
	b.byType = make(map[string][]subscriber)
	b.mu.Unlock()
}

// SubscriptionCount returns the number of (event type, handler) pairs.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, subs := range b.byType {
		n += len(subs)
	}
	return n
}
