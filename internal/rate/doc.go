// Package rate provides the Redis-backed rotation throttle for token
// families.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key
// prefix rtl: — rotation attempts per family.
//
// # What this package must NOT do
//
//   - Decide what happens to a throttled family (the Manager does).
//   - Be imported outside the tokenrot module.
package rate
