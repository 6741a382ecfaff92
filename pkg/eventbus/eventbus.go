// Package eventbus decouples ledger commits from their side effects. Email
// notification subscribes here; a handler failure is logged and never rolls
// back the financial mutation that triggered it.
package eventbus

import "context"

// Event is anything that can be published on the bus.
type Event interface {
	Type() string
}

// HandlerFunc consumes one event. Errors are the handler's own problem.
type HandlerFunc func(ctx context.Context, e Event) error

// Bus registers handlers per event type and dispatches published events.
type Bus interface {
	Register(eventType string, handler HandlerFunc)
	Emit(ctx context.Context, e Event) error
}
