// Package metrics provides lock-free counters and latency histograms for
// token lifecycle observability.
//
// # Design
//
// Counters are stored in cache-line-padded uint64 slots and incremented
// atomically via [sync/atomic.AddUint64]. Histograms use 8 fixed buckets
// (≤5ms … +Inf). Both are allocation-free on the write path, so metrics can
// stay enabled on the rotation hot path.
//
// # Architecture boundaries
//
// This package owns metric storage and snapshot creation. Exporting
// snapshots to a metrics backend is the embedding application's concern.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls.
//   - Import the root package or any sibling package.
//   - Expose global metric registries.
package metrics
