package internaldefs

import (
	tokenrot "github.com/tokenrot/tokenrot"
)

// CounterDef binds a tokenrot counter to its exposition name.
type CounterDef struct {
	ID   tokenrot.MetricID
	Name string
	Help string
}

// HistogramDef binds a tokenrot histogram to its exposition name.
type HistogramDef struct {
	ID   tokenrot.MetricID
	Name string
	Help string
}

// CounterDefs enumerates every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: tokenrot.MetricCreateSuccess, Name: "tokenrot_create_success_total", Help: "Successfully issued refresh tokens."},
	{ID: tokenrot.MetricCreateFailure, Name: "tokenrot_create_failure_total", Help: "Failed token creation attempts."},
	{ID: tokenrot.MetricRotateSuccess, Name: "tokenrot_rotate_success_total", Help: "Successful token rotations."},
	{ID: tokenrot.MetricRotateFailure, Name: "tokenrot_rotate_failure_total", Help: "Failed token rotations."},
	{ID: tokenrot.MetricReuseDetected, Name: "tokenrot_reuse_detected_total", Help: "Detected refresh token reuses."},
	{ID: tokenrot.MetricRefreshRateLimited, Name: "tokenrot_refresh_rate_limited_total", Help: "Rate-limited rotation attempts."},
	{ID: tokenrot.MetricTokenRevoked, Name: "tokenrot_token_revoked_total", Help: "Single-token revocations."},
	{ID: tokenrot.MetricFamilyRevoked, Name: "tokenrot_family_revoked_total", Help: "Token family revocations."},
	{ID: tokenrot.MetricUserRevokedAll, Name: "tokenrot_user_revoked_all_total", Help: "Logout-everywhere operations."},
	{ID: tokenrot.MetricSweepPartialFailure, Name: "tokenrot_sweep_partial_failure_total", Help: "Revocation sweeps that left some deletes incomplete."},
	{ID: tokenrot.MetricStoreUnavailable, Name: "tokenrot_store_unavailable_total", Help: "Operations failed by store unavailability."},
	{ID: tokenrot.MetricSessionsListed, Name: "tokenrot_sessions_listed_total", Help: "Session list operations."},
}

// HistogramDefs enumerates every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: tokenrot.MetricRotateLatency, Name: "tokenrot_rotate_latency_seconds", Help: "Rotation latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, matching the
// core histogram layout.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with characters legal in
// instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
