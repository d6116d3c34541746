package tokenrot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tokenrot/tokenrot/internal"
	internalaudit "github.com/tokenrot/tokenrot/internal/audit"
	internalmetrics "github.com/tokenrot/tokenrot/internal/metrics"
	"github.com/tokenrot/tokenrot/internal/rate"
	"github.com/tokenrot/tokenrot/token"
)

// Manager owns the refresh-token state machine: issuance, rotation with
// reuse detection, and revocation. It is stateless between calls — all
// token state lives in the store — so a single Manager serves any number
// of concurrent requests and replicas.
type Manager struct {
	config  Config
	store   *token.Store
	limiter *rate.Limiter
	metrics *internalmetrics.Metrics
	audit   *internalaudit.Dispatcher
	sweeper *revocationSweeper
}

// Close drains and stops the audit dispatcher. The Redis client is not
// touched; the caller owns it.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	m.audit.Close()
}

// Create issues a fresh refresh token for an authenticated user. Called
// after credential verification (the login path); rotation reuses the same
// issuance internally. The returned plaintext token exists nowhere else —
// the store keeps only its digest.
//
// Empty Metadata fields fall back to values attached via [WithClientIP]
// and [WithDeviceInfo].
func (m *Manager) Create(ctx context.Context, userID string, meta Metadata) (*CreateResult, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	meta = m.fillMetadata(ctx, meta)

	result, err := m.issue(ctx, userID, "", meta)
	if err != nil {
		m.metrics.Inc(internalmetrics.MetricCreateFailure)
		m.countIfUnavailable(err)
		return nil, err
	}

	m.emit(ctx, internalaudit.Event{
		EventType:  "token.created",
		UserID:     userID,
		Family:     result.TokenFamily,
		IP:         meta.IPAddress,
		DeviceInfo: meta.DeviceInfo,
		Success:    true,
	})

	return result, nil
}

// Rotate exchanges a live refresh token for its successor in the same
// family.
//
// Outcomes:
//   - success: the presented token is marked rotated and retained for the
//     grace window; a new token in the same family is returned together
//     with the owning user ID.
//   - [ErrTokenReuse]: the token was already exchanged once. The whole
//     family has been revoked before this returns.
//   - [ErrInvalidToken]: unknown, expired, or malformed token.
//   - [ErrStoreUnavailable]: the store could not be reached; nothing was
//     decided about the token.
//
// Two concurrent Rotate calls presenting the same live token may both
// succeed, each minting a distinct successor: the read-mark-write sequence
// is deliberately not atomic, and the grace window absorbs the race as a
// benign double rotation. A third presentation always lands on the rotated
// record and trips reuse detection.
func (m *Manager) Rotate(ctx context.Context, refreshToken string) (*RotateResult, error) {
	start := time.Now()

	secret, err := internal.DecodeToken(refreshToken)
	if err != nil {
		m.metrics.Inc(internalmetrics.MetricRotateFailure)
		return nil, ErrInvalidToken
	}
	digest := internal.HashSecret(secret)

	record, err := m.store.Get(ctx, digest)
	if err != nil {
		m.metrics.Inc(internalmetrics.MetricRotateFailure)
		switch {
		case errors.Is(err, token.ErrNotFound):
			return nil, ErrInvalidToken
		default:
			m.countIfUnavailable(err)
			return nil, err
		}
	}

	if record.Rotated {
		m.metrics.Inc(internalmetrics.MetricRotateFailure)
		return nil, m.handleReuse(ctx, record)
	}

	if err := m.checkRefreshBudget(ctx, record.Family); err != nil {
		m.metrics.Inc(internalmetrics.MetricRotateFailure)
		return nil, err
	}

	now := time.Now()
	record.Rotated = true
	record.RotatedAt = now.Unix()
	record.LastUsedAt = now.Unix()

	// Re-persist with the short grace TTL instead of deleting: a retained
	// rotated record is what lets a second presentation be recognized as
	// reuse rather than an unknown token.
	if err := m.store.Save(ctx, digest, record, m.config.Token.GraceWindow); err != nil {
		m.metrics.Inc(internalmetrics.MetricRotateFailure)
		m.countIfUnavailable(err)
		return nil, err
	}

	created, err := m.issue(ctx, record.UserID, record.Family, Metadata{
		DeviceInfo: record.DeviceInfo,
		IPAddress:  record.IPAddress,
	})
	if err != nil {
		m.metrics.Inc(internalmetrics.MetricRotateFailure)
		m.countIfUnavailable(err)
		return nil, err
	}

	m.metrics.Inc(internalmetrics.MetricRotateSuccess)
	m.metrics.Observe(internalmetrics.MetricRotateLatency, time.Since(start))
	m.emit(ctx, internalaudit.Event{
		EventType:  "token.rotated",
		UserID:     record.UserID,
		Family:     record.Family,
		IP:         record.IPAddress,
		DeviceInfo: record.DeviceInfo,
		Success:    true,
	})

	return &RotateResult{
		RefreshToken: created.RefreshToken,
		UserID:       record.UserID,
		TokenFamily:  record.Family,
		ExpiresIn:    created.ExpiresIn,
	}, nil
}

// RevokeToken invalidates a single session: the record is deleted and
// detached from its family and user indexes. Unknown tokens are a no-op —
// logout must be idempotent.
func (m *Manager) RevokeToken(ctx context.Context, refreshToken string) error {
	secret, err := internal.DecodeToken(refreshToken)
	if err != nil {
		return ErrInvalidToken
	}
	digest := internal.HashSecret(secret)

	record, err := m.store.Get(ctx, digest)
	if err != nil {
		if errors.Is(err, token.ErrNotFound) {
			return nil
		}
		m.countIfUnavailable(err)
		return err
	}

	member := m.store.MemberFor(digest)
	if err := m.store.RemoveFromFamily(ctx, record.Family, member); err != nil {
		m.countIfUnavailable(err)
		return err
	}
	if err := m.store.RemoveFromUserIndex(ctx, record.UserID, member); err != nil {
		m.countIfUnavailable(err)
		return err
	}
	if err := m.store.Delete(ctx, digest); err != nil {
		m.countIfUnavailable(err)
		return err
	}

	m.metrics.Inc(internalmetrics.MetricTokenRevoked)
	m.emit(ctx, internalaudit.Event{
		EventType: "token.revoked",
		UserID:    record.UserID,
		Family:    record.Family,
		Success:   true,
	})

	return nil
}

// RevokeFamily invalidates every token ever issued within one family:
// "log out this device chain". Partial store failures do not abort the
// sweep; see [revocationSweeper].
func (m *Manager) RevokeFamily(ctx context.Context, family, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	if err := m.sweeper.revokeFamily(ctx, family, userID); err != nil {
		m.countIfUnavailable(err)
		return err
	}
	m.resetRefreshBudget(ctx, family)

	m.metrics.Inc(internalmetrics.MetricFamilyRevoked)
	m.emit(ctx, internalaudit.Event{
		EventType: "family.revoked",
		UserID:    userID,
		Family:    family,
		Success:   true,
	})

	return nil
}

// RevokeAllForUser invalidates every token the user holds across all
// devices and families: "log out everywhere", typically triggered by a
// password change.
func (m *Manager) RevokeAllForUser(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	families, err := m.sweeper.revokeAllForUser(ctx, userID)
	if err != nil {
		m.countIfUnavailable(err)
		return err
	}
	for _, family := range families {
		m.resetRefreshBudget(ctx, family)
	}

	m.metrics.Inc(internalmetrics.MetricUserRevokedAll)
	m.emit(ctx, internalaudit.Event{
		EventType: "user.revoked_all",
		UserID:    userID,
		Success:   true,
	})

	return nil
}

// Ping reports store reachability and round-trip latency.
func (m *Manager) Ping(ctx context.Context) (time.Duration, error) {
	return m.store.Ping(ctx)
}

// MetricsSnapshot returns a point-in-time copy of all counters and
// histograms. Zero-valued when metrics are disabled.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	return m.metrics.Snapshot()
}

// AuditDropped reports audit events discarded under buffer pressure.
func (m *Manager) AuditDropped() uint64 {
	return m.audit.Dropped()
}

// issue mints a secret, persists its record, and links it into the family
// and user index sets. An empty family means a new login chain.
func (m *Manager) issue(ctx context.Context, userID, family string, meta Metadata) (*CreateResult, error) {
	secret, err := internal.NewSecret()
	if err != nil {
		return nil, fmt.Errorf("secret generation failed: %w", err)
	}
	digest := internal.HashSecret(secret)

	if family == "" {
		family = uuid.NewString()
	}

	now := time.Now()
	record := &token.Record{
		UserID:     userID,
		Family:     family,
		DeviceInfo: meta.DeviceInfo,
		IPAddress:  meta.IPAddress,
		CreatedAt:  now.Unix(),
		LastUsedAt: now.Unix(),
	}

	ttl := m.config.Token.Lifetime
	if err := m.store.Save(ctx, digest, record, ttl); err != nil {
		return nil, err
	}
	if err := m.store.AddToFamily(ctx, family, digest, ttl); err != nil {
		return nil, err
	}
	if err := m.store.AddToUserIndex(ctx, userID, digest, ttl); err != nil {
		return nil, err
	}

	m.metrics.Inc(internalmetrics.MetricCreateSuccess)
	return &CreateResult{
		RefreshToken: internal.EncodeToken(secret),
		TokenFamily:  family,
		ExpiresIn:    ttl,
	}, nil
}

// handleReuse is Rotate's compromise path: an already-rotated token came
// back, meaning a replay or a stolen credential shared by two holders.
// The entire family is revoked before the caller hears about it.
func (m *Manager) handleReuse(ctx context.Context, record *token.Record) error {
	if err := m.sweeper.revokeFamily(ctx, record.Family, record.UserID); err != nil {
		m.countIfUnavailable(err)
		return err
	}
	m.resetRefreshBudget(ctx, record.Family)

	m.metrics.Inc(internalmetrics.MetricReuseDetected)
	m.emit(ctx, internalaudit.Event{
		EventType:  "token.reuse_detected",
		UserID:     record.UserID,
		Family:     record.Family,
		IP:         record.IPAddress,
		DeviceInfo: record.DeviceInfo,
		Success:    false,
		Error:      ErrTokenReuse.Error(),
	})

	return ErrTokenReuse
}

func (m *Manager) checkRefreshBudget(ctx context.Context, family string) error {
	if m.limiter == nil {
		return nil
	}

	err := m.limiter.CheckRefresh(ctx, family)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, rate.ErrRateLimited):
		m.metrics.Inc(internalmetrics.MetricRefreshRateLimited)
		return ErrRefreshRateLimited
	default:
		m.metrics.Inc(internalmetrics.MetricStoreUnavailable)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

func (m *Manager) resetRefreshBudget(ctx context.Context, family string) {
	if m.limiter == nil {
		return
	}
	// Best effort; a stale counter expires on its own.
	_ = m.limiter.Reset(ctx, family)
}

func (m *Manager) fillMetadata(ctx context.Context, meta Metadata) Metadata {
	if meta.IPAddress == "" {
		meta.IPAddress = clientIPFromContext(ctx)
	}
	if meta.DeviceInfo == "" {
		meta.DeviceInfo = deviceInfoFromContext(ctx)
	}
	return meta
}

func (m *Manager) countIfUnavailable(err error) {
	if errors.Is(err, ErrStoreUnavailable) {
		m.metrics.Inc(internalmetrics.MetricStoreUnavailable)
	}
}

func (m *Manager) emit(ctx context.Context, event internalaudit.Event) {
	if m.audit == nil {
		return
	}
	event.Timestamp = time.Now()
	m.audit.Emit(ctx, event)
}
