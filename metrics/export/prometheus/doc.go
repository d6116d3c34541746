// Package prometheus provides Prometheus collectors for tokenrot metrics.
//
// [NewPrometheusExporter] accepts a [tokenrot.Manager] and exposes an
// [http.Handler] that renders all tokenrot counters and histograms in
// Prometheus text exposition format. Counter names are prefixed
// tokenrot_*_total; the single histogram is tokenrot_rotate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate manager state.
package prometheus
