package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-marketplace/internal/services"
)

func TestHandleWithRetrySucceedsOnLaterAttempt(t *testing.T) {
	c := &Consumer{}
	msg := &services.OrderConfirmedMessage{OrderID: 9, BookingCode: "ABCDEFGHJK"}

	calls := 0
	handler := func(ctx context.Context, m *services.OrderConfirmedMessage) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	}

	err := c.handleWithRetry(context.Background(), handler, msg, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestHandleWithRetryGivesUp(t *testing.T) {
	c := &Consumer{}
	msg := &services.OrderConfirmedMessage{OrderID: 9}

	calls := 0
	handler := func(ctx context.Context, m *services.OrderConfirmedMessage) error {
		calls++
		return errors.New("permanent")
	}

	err := c.handleWithRetry(context.Background(), handler, msg, 1)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "permanent")
}

func TestHandleWithRetryStopsOnCancel(t *testing.T) {
	c := &Consumer{}
	msg := &services.OrderConfirmedMessage{OrderID: 9}

	ctx, cancel := context.WithCancel(context.Background())
	handler := func(ctx context.Context, m *services.OrderConfirmedMessage) error {
		cancel()
		return errors.New("transient")
	}

	err := c.handleWithRetry(ctx, handler, msg, 3)
	assert.ErrorIs(t, err, context.Canceled)
}
