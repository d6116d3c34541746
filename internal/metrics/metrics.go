package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a specific counter or histogram bucket.
type MetricID uint16

const (
	MetricCreateSuccess MetricID = iota
	MetricCreateFailure
	MetricRotateSuccess
	MetricRotateFailure
	MetricReuseDetected
	MetricRefreshRateLimited
	MetricTokenRevoked
	MetricFamilyRevoked
	MetricUserRevokedAll
	MetricSweepPartialFailure
	MetricStoreUnavailable
	MetricSessionsListed
	MetricRotateLatency

	MetricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

// histBounds are upper bounds in milliseconds for the first seven latency
// buckets; the eighth is +Inf.
var histBounds = [histBucketCount - 1]int64{5, 10, 25, 50, 100, 250, 500}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

type histogram struct {
	buckets [histBucketCount]uint64
}

// Config controls which metric paths are active.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

// Metrics holds lock-free counters and optional latency histograms. All
// write-path operations are atomic and allocation-free; a nil or disabled
// Metrics turns every call into a no-op.
type Metrics struct {
	enabled bool
	latency bool

	counters   [MetricIDCount]paddedCounter
	histograms [MetricIDCount]histogram
}

// New creates a [Metrics] instance. When cfg.Enabled is false all
// operations are no-ops.
func New(cfg Config) *Metrics {
	return &Metrics{
		enabled: cfg.Enabled,
		latency: cfg.EnableLatency,
	}
}

// Inc adds one to a counter.
func (m *Metrics) Inc(id MetricID) {
	m.Add(id, 1)
}

// Add adds n to a counter.
func (m *Metrics) Add(id MetricID, n uint64) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, n)
}

// Observe records a latency sample into the metric's histogram and bumps
// the matching counter.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)

	if !m.latency {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketFor(d)], 1)
}

func bucketFor(d time.Duration) int {
	ms := d.Milliseconds()
	for i, bound := range histBounds {
		if ms <= bound {
			return i
		}
	}
	return histBucketCount - 1
}

// Snapshot is a point-in-time deep copy of all metrics.
type Snapshot struct {
	Counters   [MetricIDCount]uint64
	Histograms [MetricIDCount][histBucketCount]uint64
}

// Snapshot copies every counter and histogram bucket atomically per slot.
func (m *Metrics) Snapshot() Snapshot {
	var snap Snapshot
	if m == nil || !m.enabled {
		return snap
	}

	for i := MetricID(0); i < MetricIDCount; i++ {
		snap.Counters[i] = atomic.LoadUint64(&m.counters[i].value)
		for b := 0; b < histBucketCount; b++ {
			snap.Histograms[i][b] = atomic.LoadUint64(&m.histograms[i].buckets[b])
		}
	}
	return snap
}

// Counter returns the current value of one counter.
func (m *Metrics) Counter(id MetricID) uint64 {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}
