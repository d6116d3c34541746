package tokenrot

import (
	"errors"

	"github.com/tokenrot/tokenrot/token"
)

var (
	// ErrInvalidToken is returned when a presented refresh token was never
	// issued, has expired, or was already deleted. Recoverable: the caller
	// re-authenticates.
	ErrInvalidToken = errors.New("invalid refresh token")

	// ErrTokenReuse is returned when an already-rotated token is presented
	// again within its grace window. The token's whole family has been
	// revoked by the time this error is returned; treat it as a security
	// event worth alerting on, not just a failed request.
	ErrTokenReuse = errors.New("refresh token reuse detected")

	// ErrRefreshRateLimited is returned when a family exceeds its rotation
	// budget. The token itself remains live.
	ErrRefreshRateLimited = errors.New("refresh rate limited")

	// ErrEmptyUserID is returned by Create and the user-scoped operations
	// when no principal is named.
	ErrEmptyUserID = errors.New("empty user id")

	// ErrStoreUnavailable is the token store's transport-failure sentinel,
	// re-exported so callers can branch on it without importing token.
	// Callers should retry with backoff or fail the request; refresh
	// operations fail closed during an outage.
	ErrStoreUnavailable = token.ErrStoreUnavailable
)
