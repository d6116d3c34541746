package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tokenrot "github.com/tokenrot/tokenrot"
)

type fakeSource struct {
	snapshot tokenrot.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() tokenrot.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                      { return f.dropped }

func TestRenderIncludesCounterAndHistogram(t *testing.T) {
	var snap tokenrot.MetricsSnapshot
	snap.Counters[tokenrot.MetricCreateSuccess] = 7
	snap.Histograms[tokenrot.MetricRotateLatency] = [8]uint64{1, 2, 3, 4, 5, 6, 7, 8}

	exp := NewPrometheusExporterFromSource(fakeSource{snapshot: snap, dropped: 2})

	out := exp.Render()
	if !strings.Contains(out, "tokenrot_create_success_total 7") {
		t.Fatalf("expected create_success counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "tokenrot_rotate_latency_seconds_bucket{le=\"0.005\"} 1") {
		t.Fatalf("expected first histogram bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "tokenrot_rotate_latency_seconds_bucket{le=\"+Inf\"} 36") {
		t.Fatalf("expected +Inf cumulative bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "tokenrot_audit_dropped_total 2") {
		t.Fatalf("expected audit dropped counter in output, got:\n%s", out)
	}
}

func TestRenderCoversEveryDefinedCounter(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{})

	out := exp.Render()
	for _, name := range []string{
		"tokenrot_rotate_success_total",
		"tokenrot_reuse_detected_total",
		"tokenrot_store_unavailable_total",
		"tokenrot_sweep_partial_failure_total",
	} {
		if !strings.Contains(out, name+" 0") {
			t.Fatalf("expected zero-valued %s in output, got:\n%s", name, out)
		}
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	var snap tokenrot.MetricsSnapshot
	snap.Counters[tokenrot.MetricCreateSuccess] = 1

	exp := NewPrometheusExporterFromSource(fakeSource{snapshot: snap})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func BenchmarkRender(b *testing.B) {
	var snap tokenrot.MetricsSnapshot
	snap.Counters[tokenrot.MetricCreateSuccess] = 1000
	snap.Counters[tokenrot.MetricRotateSuccess] = 800
	snap.Counters[tokenrot.MetricRotateFailure] = 10
	snap.Counters[tokenrot.MetricReuseDetected] = 3
	snap.Counters[tokenrot.MetricTokenRevoked] = 40
	snap.Histograms[tokenrot.MetricRotateLatency] = [8]uint64{10, 20, 30, 40, 50, 60, 70, 80}

	exp := NewPrometheusExporterFromSource(fakeSource{snapshot: snap})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
