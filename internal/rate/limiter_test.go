package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb, cfg), mr
}

func TestCheckRefreshWithinBudget(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t, Config{
		EnableRefreshThrottle:   true,
		MaxRefreshAttempts:      3,
		RefreshCooldownDuration: time.Minute,
	})

	for i := 0; i < 3; i++ {
		if err := limiter.CheckRefresh(ctx, "fam"); err != nil {
			t.Fatalf("attempt %d should be allowed: %v", i+1, err)
		}
	}
	if err := limiter.CheckRefresh(ctx, "fam"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestWindowResetsAfterCooldown(t *testing.T) {
	ctx := context.Background()
	limiter, mr := newTestLimiter(t, Config{
		EnableRefreshThrottle:   true,
		MaxRefreshAttempts:      1,
		RefreshCooldownDuration: time.Minute,
	})

	if err := limiter.CheckRefresh(ctx, "fam"); err != nil {
		t.Fatalf("first attempt should be allowed: %v", err)
	}
	if err := limiter.CheckRefresh(ctx, "fam"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	mr.FastForward(time.Minute + time.Second)

	if err := limiter.CheckRefresh(ctx, "fam"); err != nil {
		t.Fatalf("attempt after cooldown should be allowed: %v", err)
	}
}

func TestResetClearsBudget(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t, Config{
		EnableRefreshThrottle:   true,
		MaxRefreshAttempts:      1,
		RefreshCooldownDuration: time.Minute,
	})

	if err := limiter.CheckRefresh(ctx, "fam"); err != nil {
		t.Fatalf("first attempt should be allowed: %v", err)
	}
	if err := limiter.Reset(ctx, "fam"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if err := limiter.CheckRefresh(ctx, "fam"); err != nil {
		t.Fatalf("attempt after reset should be allowed: %v", err)
	}
}

func TestFamiliesAreIsolated(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t, Config{
		EnableRefreshThrottle:   true,
		MaxRefreshAttempts:      1,
		RefreshCooldownDuration: time.Minute,
	})

	if err := limiter.CheckRefresh(ctx, "fam-a"); err != nil {
		t.Fatalf("fam-a attempt failed: %v", err)
	}
	if err := limiter.CheckRefresh(ctx, "fam-a"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited for fam-a, got %v", err)
	}
	if err := limiter.CheckRefresh(ctx, "fam-b"); err != nil {
		t.Fatalf("fam-b must not share fam-a's budget: %v", err)
	}
}

func TestDisabledLimiterIsNoOp(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t, Config{EnableRefreshThrottle: false})

	for i := 0; i < 100; i++ {
		if err := limiter.CheckRefresh(ctx, "fam"); err != nil {
			t.Fatalf("disabled limiter rejected attempt: %v", err)
		}
	}

	var nilLimiter *Limiter
	if err := nilLimiter.CheckRefresh(ctx, "fam"); err != nil {
		t.Fatalf("nil limiter must be a no-op: %v", err)
	}
	if err := nilLimiter.Reset(ctx, "fam"); err != nil {
		t.Fatalf("nil limiter Reset must be a no-op: %v", err)
	}
}

func TestOutageSurfacesAsRedisUnavailable(t *testing.T) {
	ctx := context.Background()
	limiter, mr := newTestLimiter(t, Config{
		EnableRefreshThrottle:   true,
		MaxRefreshAttempts:      1,
		RefreshCooldownDuration: time.Minute,
	})

	mr.Close()

	err := limiter.CheckRefresh(ctx, "fam")
	if !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
	if errors.Is(err, ErrRateLimited) {
		t.Fatal("outage must not be classified as rate limited")
	}
}
