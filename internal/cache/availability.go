package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"event-marketplace/internal/config"
)

// AvailabilityCache keeps short-lived ticket availability counts in Redis
// for the public catalogue. The database row stays authoritative; checkout
// never reads from here.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache creates a new availability cache
func NewAvailabilityCache(cfg config.RedisConfig) *AvailabilityCache {
	return &AvailabilityCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    time.Duration(cfg.AvailabilityTTL) * time.Second,
	}
}

// Get returns the cached availability for a ticket. The second return is
// false on a cache miss.
func (c *AvailabilityCache) Get(ctx context.Context, ticketID int) (int, bool, error) {
	val, err := c.client.Get(ctx, availabilityKey(ticketID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}

	available, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt availability entry for ticket %d: %w", ticketID, err)
	}
	return available, true, nil
}

// Set stores the availability for a ticket under the configured TTL
func (c *AvailabilityCache) Set(ctx context.Context, ticketID, available int) error {
	return c.client.Set(ctx, availabilityKey(ticketID), strconv.Itoa(available), c.ttl).Err()
}

// Invalidate drops cached entries after stock changed
func (c *AvailabilityCache) Invalidate(ctx context.Context, ticketIDs ...int) error {
	if len(ticketIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(ticketIDs))
	for _, id := range ticketIDs {
		keys = append(keys, availabilityKey(id))
	}
	return c.client.Del(ctx, keys...).Err()
}

// Ping verifies the Redis connection
func (c *AvailabilityCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *AvailabilityCache) Close() error {
	return c.client.Close()
}

func availabilityKey(ticketID int) string {
	return fmt.Sprintf("availability:ticket:%d", ticketID)
}
