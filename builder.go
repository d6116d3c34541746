package tokenrot

import (
	"errors"

	"github.com/redis/go-redis/v9"

	internalaudit "github.com/tokenrot/tokenrot/internal/audit"
	internalmetrics "github.com/tokenrot/tokenrot/internal/metrics"
	"github.com/tokenrot/tokenrot/internal/rate"
	"github.com/tokenrot/tokenrot/token"
)

// Builder assembles a [Manager]. Construction is allocation-only; no
// Redis traffic happens until the first Manager method call.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the token store, the rate
// limiter, and nothing else. The Manager takes no ownership; closing the
// client is the caller's job.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the destination for audit events and enables
// auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles rotation latency histograms. Implies
// nothing about counters; those follow [Builder.WithMetricsEnabled].
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready [Manager].
// A Builder is single-use.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}
	b.built = true

	store := token.NewStore(b.redis, b.config.Store.RedisPrefix, b.config.Store.OpTimeout)

	var limiter *rate.Limiter
	if b.config.RateLimit.EnableRefreshThrottle {
		limiter = rate.New(b.redis, rate.Config{
			EnableRefreshThrottle:   true,
			MaxRefreshAttempts:      b.config.RateLimit.MaxRefreshAttempts,
			RefreshCooldownDuration: b.config.RateLimit.RefreshCooldownDuration,
		})
	}

	metrics := internalmetrics.New(internalmetrics.Config{
		Enabled:       b.config.Metrics.Enabled,
		EnableLatency: b.config.Metrics.EnableLatencyHistograms,
	})

	dispatcher := internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    b.config.Audit.Enabled,
		BufferSize: b.config.Audit.BufferSize,
		DropIfFull: b.config.Audit.DropIfFull,
	}, b.auditSink)

	m := &Manager{
		config:  b.config,
		store:   store,
		limiter: limiter,
		metrics: metrics,
		audit:   dispatcher,
	}
	m.sweeper = &revocationSweeper{
		store:   store,
		metrics: metrics,
	}

	return m, nil
}
