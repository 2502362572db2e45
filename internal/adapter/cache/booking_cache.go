package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

const keyPrefix = "bookings:"

// BookingCache stores booking lists in Redis as JSON under
// bookings:<scope>:<generation>. Invalidate bumps the generation of a scope;
// lists written under an older generation are never read again and expire.
type BookingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBookingCache(client *redis.Client, ttl time.Duration) *BookingCache {
	return &BookingCache{client: client, ttl: ttl}
}

// Key is the list key of scope at the given generation.
func Key(scope string, generation int64) string {
	return keyPrefix + scope + ":" + strconv.FormatInt(generation, 10)
}

// GenerationKey holds the counter Invalidate increments for scope.
func GenerationKey(scope string) string {
	return keyPrefix + "gen:" + scope
}

func (c *BookingCache) generation(ctx context.Context, scope string) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey(scope)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	return gen, nil
}

func (c *BookingCache) GetBookings(ctx context.Context, scope string) ([]domain.Booking, int64, bool, error) {
	gen, err := c.generation(ctx, scope)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, Key(scope, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to read cached bookings: %w", err)
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, gen, false, fmt.Errorf("failed to decode cached bookings: %w", err)
	}

	return bookings, gen, true, nil
}

func (c *BookingCache) SetBookings(ctx context.Context, scope string, generation int64, bookings []domain.Booking) error {
	raw, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("failed to encode bookings: %w", err)
	}

	if err := c.client.Set(ctx, Key(scope, generation), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache bookings: %w", err)
	}

	return nil
}

func (c *BookingCache) Invalidate(ctx context.Context, scopes ...string) error {
	if len(scopes) == 0 {
		return nil
	}

	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, scope := range scopes {
			pipe.Incr(ctx, GenerationKey(scope))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate cached bookings: %w", err)
	}

	return nil
}
