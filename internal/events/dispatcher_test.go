package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var got []EventType
	d.Subscribe(EventUserLoggedIn, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), New(EventUserLoggedIn, 1, nil)))
	require.NoError(t, d.Publish(context.Background(), New(EventUserLoggedOut, 1, nil)))

	assert.Equal(t, []EventType{EventUserLoggedIn}, got)
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	calls := 0
	d.Subscribe(EventOrderPlaced, func(context.Context, Event) error {
		calls++
		return errors.New("boom")
	})
	d.Subscribe(EventOrderPlaced, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), New(EventOrderPlaced, 2, OrderPlacedPayload{Pizzas: 1})))
	assert.Equal(t, 2, calls)
}

func TestNewStampsEvent(t *testing.T) {
	e := New(EventAuthFailed, 0, AuthFailedPayload{Email: "x@jwt.com"})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
}
