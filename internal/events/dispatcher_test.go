package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gram-panchayat/panchayat-service/internal/domain"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventLoginSucceeded, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventLoginFailed, func(context.Context, Event) error {
		t.Fatal("unexpected delivery")
		return nil
	})

	evt := NewEvent(EventLoginSucceeded, domain.Identity{SubjectID: 3, Email: "a@x.com", Role: domain.RoleCitizen}, nil)
	require.NoError(t, d.Publish(context.Background(), evt))

	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].SubjectID)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestDispatcherRunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	first := errors.New("first")
	calls := 0

	d.Subscribe(EventSessionRevoked, func(context.Context, Event) error {
		calls++
		return first
	})
	d.Subscribe(EventSessionRevoked, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventSessionRevoked})
	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, err, first)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	assert.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventSignupRejected}))
}
