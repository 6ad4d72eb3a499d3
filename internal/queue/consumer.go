package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"event-marketplace/internal/services"
)

// OrderHandler processes one confirmed-order message. Returning an error
// makes the consumer retry with backoff before moving on.
type OrderHandler func(ctx context.Context, msg *services.OrderConfirmedMessage) error

// Consumer reads confirmed orders from Kafka and drives the notification
// pipeline
type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer creates a new consumer in the given group
func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads messages until ctx is cancelled. A handler failure is
// retried a few times with linear backoff; a message that keeps failing is
// logged and skipped so one bad order cannot wedge the pipeline.
func (c *Consumer) Consume(ctx context.Context, handler OrderHandler) error {
	const maxAttempts = 3

	for {
		raw, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		var msg services.OrderConfirmedMessage
		if err := json.Unmarshal(raw.Value, &msg); err != nil {
			log.Printf("queue: dropping malformed message at offset %d: %v", raw.Offset, err)
			continue
		}

		if err := c.handleWithRetry(ctx, handler, &msg, maxAttempts); err != nil {
			log.Printf("queue: giving up on order %d (%s) after %d attempts: %v",
				msg.OrderID, msg.BookingCode, maxAttempts, err)
		}
	}
}

func (c *Consumer) handleWithRetry(ctx context.Context, handler OrderHandler, msg *services.OrderConfirmedMessage, maxAttempts int) error {
	var lastErr error

	for i := 0; i < maxAttempts; i++ {
		if err := handler(ctx, msg); err == nil {
			return nil
		} else {
			lastErr = err
			log.Printf("queue: attempt %d for order %d failed: %v", i+1, msg.OrderID, err)
		}

		if i < maxAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * time.Second):
			}
		}
	}

	return fmt.Errorf("handler failed: %w", lastErr)
}
