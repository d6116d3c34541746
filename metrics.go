package tokenrot

import (
	internalmetrics "github.com/tokenrot/tokenrot/internal/metrics"
)

// MetricID identifies a specific counter or histogram in the in-process
// metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricCreateSuccess counts tokens issued by Create and Rotate.
	MetricCreateSuccess = internalmetrics.MetricCreateSuccess
	// MetricCreateFailure counts failed issuance attempts.
	MetricCreateFailure = internalmetrics.MetricCreateFailure
	// MetricRotateSuccess counts successful rotations.
	MetricRotateSuccess = internalmetrics.MetricRotateSuccess
	// MetricRotateFailure counts every rotation that did not mint a
	// successor, whatever the reason.
	MetricRotateFailure = internalmetrics.MetricRotateFailure
	// MetricReuseDetected counts reuse-triggered family revocations.
	MetricReuseDetected = internalmetrics.MetricReuseDetected
	// MetricRefreshRateLimited counts throttled rotation attempts.
	MetricRefreshRateLimited = internalmetrics.MetricRefreshRateLimited
	// MetricTokenRevoked counts single-token logouts.
	MetricTokenRevoked = internalmetrics.MetricTokenRevoked
	// MetricFamilyRevoked counts explicit family revocations.
	MetricFamilyRevoked = internalmetrics.MetricFamilyRevoked
	// MetricUserRevokedAll counts log-out-everywhere operations.
	MetricUserRevokedAll = internalmetrics.MetricUserRevokedAll
	// MetricSweepPartialFailure counts revocation sweeps that left keys behind.
	MetricSweepPartialFailure = internalmetrics.MetricSweepPartialFailure
	// MetricStoreUnavailable counts operations aborted by store outages.
	MetricStoreUnavailable = internalmetrics.MetricStoreUnavailable
	// MetricSessionsListed counts ListSessions calls.
	MetricSessionsListed = internalmetrics.MetricSessionsListed
	// MetricRotateLatency is the rotation latency histogram.
	MetricRotateLatency = internalmetrics.MetricRotateLatency
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
