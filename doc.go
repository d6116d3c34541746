// Package tokenrot implements the refresh-token lifecycle: issuing opaque
// rotating refresh credentials, detecting reuse of already-rotated tokens,
// and fanning out revocation across token families and users, all backed by
// Redis.
//
// The package is designed for concurrent server workloads: Manager methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. The Manager holds no token state in process — every call
// reads and writes the store, so any number of replicas can serve the same
// user population.
//
// # Architecture boundaries
//
// tokenrot is the public surface. It exposes [Manager], [Builder], [Config],
// the error taxonomy, and value types (CreateResult, RotateResult,
// SessionInfo, MetricsSnapshot). Store access, secret generation, rate
// limiting, metrics storage, and audit dispatch live under token/ and
// internal/ and are never coordinated by callers directly.
//
// Deliberately out of scope: password verification happens before Create is
// called, and turning the returned user ID into a signed access token is the
// caller's JWT issuer's job. tokenrot only manages the long-lived refresh
// credential.
//
// # Failure model
//
// Expected conditions are sentinel errors, not panics: [ErrInvalidToken]
// and [ErrTokenReuse] are ordinary outcomes a caller must branch on, and
// both surface to the end user as "please log in again". Only
// [ErrStoreUnavailable] indicates infrastructure failure; it is never
// conflated with an invalid token, because silently accepting an
// unverifiable credential is worse than forcing a re-login.
package tokenrot
