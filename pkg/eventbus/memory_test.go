package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct{ name string }

func (e testEvent) Type() string { return e.name }

func TestMemoryBus_EmitDispatchesToRegisteredHandlers(t *testing.T) {
	bus := NewMemoryBus(slog.Default())
	var got []string
	bus.Register("a", func(_ context.Context, e Event) error {
		got = append(got, e.Type())
		return nil
	})

	require.NoError(t, bus.Emit(context.Background(), testEvent{"a"}))
	require.NoError(t, bus.Emit(context.Background(), testEvent{"b"}))

	assert.Equal(t, []string{"a"}, got)
	assert.Len(t, bus.Published(), 2)
}

func TestMemoryBus_HandlerErrorDoesNotPropagate(t *testing.T) {
	bus := NewMemoryBus(slog.Default())
	bus.Register("a", func(context.Context, Event) error {
		return errors.New("boom")
	})
	assert.NoError(t, bus.Emit(context.Background(), testEvent{"a"}))
}
