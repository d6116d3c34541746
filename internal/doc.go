// Package internal contains helper utilities that are intentionally private to tokenrot,
// including secure secret generation and digest encoding.
//
// # Sub-packages
//
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//   - metrics — lock-free counters and latency histograms
//   - rate — Redis-backed per-family rotation throttle
//
// # What this package must NOT do
//
//   - Export types that appear in the public tokenrot API.
//   - Be imported by any package outside the tokenrot module.
package internal
