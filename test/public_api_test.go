package test

import (
	"context"
	"testing"
	"time"

	tokenrot "github.com/tokenrot/tokenrot"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = tokenrot.New

	var _ *tokenrot.Manager
	var _ tokenrot.Config
	var _ tokenrot.Metadata
	var _ *tokenrot.CreateResult
	var _ *tokenrot.RotateResult
	var _ tokenrot.SessionInfo
	var _ tokenrot.AuditSink
	var _ tokenrot.AuditEvent

	var _ error = tokenrot.ErrInvalidToken
	var _ error = tokenrot.ErrTokenReuse
	var _ error = tokenrot.ErrStoreUnavailable
	var _ error = tokenrot.ErrRefreshRateLimited
	var _ error = tokenrot.ErrEmptyUserID

	var _ func(*tokenrot.Manager, context.Context, string, tokenrot.Metadata) (*tokenrot.CreateResult, error) = (*tokenrot.Manager).Create
	var _ func(*tokenrot.Manager, context.Context, string) (*tokenrot.RotateResult, error) = (*tokenrot.Manager).Rotate
	var _ func(*tokenrot.Manager, context.Context, string) error = (*tokenrot.Manager).RevokeToken
	var _ func(*tokenrot.Manager, context.Context, string, string) error = (*tokenrot.Manager).RevokeFamily
	var _ func(*tokenrot.Manager, context.Context, string) error = (*tokenrot.Manager).RevokeAllForUser
	var _ func(*tokenrot.Manager, context.Context, string) ([]tokenrot.SessionInfo, error) = (*tokenrot.Manager).ListSessions
	var _ func(*tokenrot.Manager, context.Context) (time.Duration, error) = (*tokenrot.Manager).Ping

	var _ func(context.Context, string) context.Context = tokenrot.WithClientIP
	var _ func(context.Context, string) context.Context = tokenrot.WithDeviceInfo
}
