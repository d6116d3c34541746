// Package token implements Redis persistence for refresh-token records and
// the revocation index sets built over them.
//
// # Key layout
//
// Records live at <prefix>:<digest>, one per issued token, TTL-bound to the
// token's absolute lifetime. Two set keys index them for fan-out revocation:
// rtf:<family> collects every digest descended from one login, and
// rtu:<user> collects every digest a user holds across devices. Set TTLs are
// refreshed on every add so a set always covers its longest-lived member.
//
// # Failure semantics
//
// Transport failures always wrap [ErrStoreUnavailable]; absence is always
// [ErrNotFound]. The two are never conflated — an unreachable store fails
// closed at the caller, it does not look like a revoked token.
//
// # What this package must NOT do
//
//   - Decide rotation or reuse policy; it stores what it is told.
//   - Cache records in process.
//   - Import the root package.
package token
