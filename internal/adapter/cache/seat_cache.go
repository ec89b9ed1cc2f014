package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const seatKeyPrefix = "seats:"

// SeatCache publishes each event's available seat count under
// "seats:<eventID>".
type SeatCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSeatCache keeps keys for ttl; zero keeps them forever.
func NewSeatCache(client *redis.Client, ttl time.Duration) *SeatCache {
	return &SeatCache{client: client, ttl: ttl}
}

func SeatKey(eventID int) string {
	return fmt.Sprintf("%s%d", seatKeyPrefix, eventID)
}

func (c *SeatCache) SetAvailableSeats(ctx context.Context, eventID int, available int) error {
	return c.client.Set(ctx, SeatKey(eventID), available, c.ttl).Err()
}

// AvailableSeats reads a published count. ok is false when nothing is cached.
func (c *SeatCache) AvailableSeats(ctx context.Context, eventID int) (int, bool, error) {
	n, err := c.client.Get(ctx, SeatKey(eventID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}
