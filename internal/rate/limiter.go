package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRateLimited      = errors.New("rate limited")
	ErrRedisUnavailable = errors.New("rate limiter redis unavailable")
)

// Config holds rate limiter tuning parameters.
type Config struct {
	EnableRefreshThrottle   bool
	MaxRefreshAttempts      int
	RefreshCooldownDuration time.Duration
}

// Limiter enforces a per-family rotation budget using Redis counters.
// A family that rotates faster than any legitimate client would is either
// a misbehaving integration or a credential being raced by two holders;
// throttling it caps the damage either way.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a rate [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

func refreshKey(family string) string {
	return "rtl:" + family
}

// CheckRefresh enforces the rotation budget by incrementing the family's
// counter and applying the cooldown TTL. Returns [ErrRateLimited] when the
// budget is exhausted.
func (l *Limiter) CheckRefresh(ctx context.Context, family string) error {
	if l == nil || !l.config.EnableRefreshThrottle {
		return nil
	}

	count, err := l.incrementWithTTL(ctx, refreshKey(family), l.config.RefreshCooldownDuration)
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxRefreshAttempts) {
		return ErrRateLimited
	}

	return nil
}

// Reset clears the rotation counter for a family. Called when the family
// is revoked so a re-login starts with a clean budget.
func (l *Limiter) Reset(ctx context.Context, family string) error {
	if l == nil || !l.config.EnableRefreshThrottle {
		return nil
	}

	if err := l.redis.Del(ctx, refreshKey(family)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}
