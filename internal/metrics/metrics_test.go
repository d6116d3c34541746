package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestDisabledMetricsAreNoOps(t *testing.T) {
	m := New(Config{Enabled: false})

	m.Inc(MetricRotateSuccess)
	m.Observe(MetricRotateLatency, 10*time.Millisecond)

	if m.Counter(MetricRotateSuccess) != 0 {
		t.Fatal("disabled metrics recorded a count")
	}

	var nilMetrics *Metrics
	nilMetrics.Inc(MetricRotateSuccess) // must not panic
}

func TestCountersAndSnapshot(t *testing.T) {
	m := New(Config{Enabled: true, EnableLatency: true})

	m.Inc(MetricCreateSuccess)
	m.Add(MetricReuseDetected, 3)
	m.Observe(MetricRotateLatency, 2*time.Millisecond)
	m.Observe(MetricRotateLatency, time.Second)

	snap := m.Snapshot()
	if snap.Counters[MetricCreateSuccess] != 1 {
		t.Fatalf("create counter = %d", snap.Counters[MetricCreateSuccess])
	}
	if snap.Counters[MetricReuseDetected] != 3 {
		t.Fatalf("reuse counter = %d", snap.Counters[MetricReuseDetected])
	}
	if snap.Counters[MetricRotateLatency] != 2 {
		t.Fatalf("latency sample count = %d", snap.Counters[MetricRotateLatency])
	}
	if snap.Histograms[MetricRotateLatency][0] != 1 {
		t.Fatalf("expected one sample in first bucket, got %d", snap.Histograms[MetricRotateLatency][0])
	}
	if snap.Histograms[MetricRotateLatency][histBucketCount-1] != 1 {
		t.Fatalf("expected one sample in overflow bucket, got %d", snap.Histograms[MetricRotateLatency][histBucketCount-1])
	}
}

func TestConcurrentIncrements(t *testing.T) {
	m := New(Config{Enabled: true})

	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				m.Inc(MetricRotateSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Counter(MetricRotateSuccess); got != workers*perWorker {
		t.Fatalf("expected %d, got %d", workers*perWorker, got)
	}
}
