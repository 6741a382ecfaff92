package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// MemoryBus is an in-process implementation of Bus. Handlers run
// synchronously in Emit's goroutine, after the ledger transaction has
// already committed.
type MemoryBus struct {
	mu        sync.RWMutex
	handlers  map[string][]HandlerFunc
	published []Event
	logger    *slog.Logger
}

// NewMemoryBus creates an in-memory event bus.
func NewMemoryBus(logger *slog.Logger) *MemoryBus {
	return &MemoryBus{
		handlers: make(map[string][]HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

// Register adds a handler for the given event type.
func (b *MemoryBus) Register(eventType string, handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit dispatches the event to all handlers registered for its type. Handler
// errors are logged, not propagated: the triggering operation has already
// committed.
func (b *MemoryBus) Emit(ctx context.Context, e Event) error {
	b.mu.RLock()
	handlers := b.handlers[e.Type()]
	b.mu.RUnlock()

	b.mu.Lock()
	b.published = append(b.published, e)
	b.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ctx, e); err != nil {
			b.logger.Error("event handler failed", "event", e.Type(), "error", err)
		}
	}
	return nil
}

// Published returns the events emitted so far. Useful in tests.
func (b *MemoryBus) Published() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Event(nil), b.published...)
}

var _ Bus = (*MemoryBus)(nil)
