// Package otel provides OpenTelemetry metric exporter bindings for tokenrot
// counters and histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each
// tokenrot metric and Int64ObservableGauge per histogram bucket. A single
// callback reads [tokenrot.Manager.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate manager state.
package otel
