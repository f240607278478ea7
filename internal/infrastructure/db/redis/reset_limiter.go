package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const resetWindow = 15 * time.Minute

// ResetLimiter throttles forgot-password requests per email address, backed
// by Redis. Key format: pwreset:<email>
type ResetLimiter struct {
	client *redis.Client
}

// NewResetLimiter creates a ResetLimiter wrapping the given Redis client.
func NewResetLimiter(client *redis.Client) *ResetLimiter {
	return &ResetLimiter{client: client}
}

// Allow reports whether a reset may be requested for email right now. The
// first call in a window claims the slot (SET NX with TTL); repeat calls
// within the window are rejected until the key expires.
func (l *ResetLimiter) Allow(ctx context.Context, email string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(email), "1", resetWindow).Result()
	if err != nil {
		return false, fmt.Errorf("reset limiter: %w", err)
	}
	return ok, nil
}

func (l *ResetLimiter) key(email string) string {
	return "pwreset:" + email
}
