package tokenrot

import (
	"errors"
	"time"
)

// Config groups all Manager tuning parameters. Instances are intended to
// be configured during initialization and then treated as immutable.
type Config struct {
	Token     TokenConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

// TokenConfig controls token lifetimes.
type TokenConfig struct {
	// Lifetime is the absolute TTL of every issued token, measured from
	// its creation. Each rotation issues a fresh token with a full
	// lifetime, so an active family persists; an idle one lapses.
	Lifetime time.Duration

	// GraceWindow is how long a just-rotated record is retained. Within
	// the window a second presentation is classified as reuse and revokes
	// the family; after it, the record is gone and the same presentation
	// degrades to a plain invalid-token failure.
	GraceWindow time.Duration
}

// StoreConfig controls the Redis adapter.
type StoreConfig struct {
	// RedisPrefix namespaces record keys. Defaults to "rt".
	RedisPrefix string

	// OpTimeout bounds every store call so an outage surfaces as
	// ErrStoreUnavailable instead of hanging the caller.
	OpTimeout time.Duration
}

// RateLimitConfig controls the optional per-family rotation throttle.
type RateLimitConfig struct {
	EnableRefreshThrottle   bool
	MaxRefreshAttempts      int
	RefreshCooldownDuration time.Duration
}

// AuditConfig controls the async audit event dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration the Manager ships with: 7-day
// absolute token lifetime, 60-second rotation grace window, 2-second store
// timeout, auditing and metrics off.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			Lifetime:    7 * 24 * time.Hour,
			GraceWindow: 60 * time.Second,
		},
		Store: StoreConfig{
			RedisPrefix: "rt",
			OpTimeout:   2 * time.Second,
		},
		RateLimit: RateLimitConfig{
			EnableRefreshThrottle:   false,
			MaxRefreshAttempts:      30,
			RefreshCooldownDuration: time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}

func validateConfig(cfg Config) error {
	if cfg.Token.Lifetime <= 0 {
		return errors.New("token lifetime must be positive")
	}
	if cfg.Token.GraceWindow <= 0 {
		return errors.New("grace window must be positive")
	}
	if cfg.Token.GraceWindow >= cfg.Token.Lifetime {
		return errors.New("grace window must be shorter than token lifetime")
	}
	if cfg.Store.OpTimeout < 0 {
		return errors.New("store op timeout must not be negative")
	}
	if cfg.RateLimit.EnableRefreshThrottle {
		if cfg.RateLimit.MaxRefreshAttempts <= 0 {
			return errors.New("max refresh attempts must be positive")
		}
		if cfg.RateLimit.RefreshCooldownDuration <= 0 {
			return errors.New("refresh cooldown must be positive")
		}
	}
	return nil
}
