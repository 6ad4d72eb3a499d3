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

// Producer writes confirmed orders to Kafka for the notification worker
type Producer struct {
	brokers []string
	topic   string
	writer  *kafka.Writer
}

// NewProducer creates a new Kafka producer for the given orders topic
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		topic:   topic,
		writer:  writer,
	}
}

// PublishOrderConfirmed publishes one confirmation message, keyed by
// booking code so redeliveries of the same order stay on one partition.
func (p *Producer) PublishOrderConfirmed(ctx context.Context, msg *services.OrderConfirmedMessage) error {
	return p.publishWithRetry(ctx, msg.BookingCode, msg, 3)
}

func (p *Producer) publish(ctx context.Context, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	return nil
}

func (p *Producer) publishWithRetry(ctx context.Context, key string, payload interface{}, maxRetries int) error {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := p.publish(ctx, key, payload)
		if err == nil {
			return nil
		}

		lastErr = err
		log.Printf("queue: publish attempt %d for key %s failed: %v", i+1, key, err)

		if i < maxRetries-1 {
			time.Sleep(time.Duration(i+1) * 500 * time.Millisecond)
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

// CheckConnection dials the first broker and lists partitions
func (p *Producer) CheckConnection(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ReadPartitions(); err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
