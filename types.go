package tokenrot

import (
	"io"
	"time"

	internalaudit "github.com/tokenrot/tokenrot/internal/audit"
)

// Metadata carries descriptive per-session attributes captured at login.
// Used for session display and audit only — never for authorization
// decisions.
type Metadata struct {
	DeviceInfo string
	IPAddress  string
}

// CreateResult is returned by [Manager.Create]. RefreshToken is the only
// copy of the plaintext secret that will ever exist outside the client;
// the store retains just its digest.
type CreateResult struct {
	RefreshToken string
	TokenFamily  string
	ExpiresIn    time.Duration
}

// RotateResult is returned by [Manager.Rotate] on a successful exchange.
// The family is unchanged from the presented token; UserID identifies the
// owning principal for the caller's access-token issuer.
type RotateResult struct {
	RefreshToken string
	UserID       string
	TokenFamily  string
	ExpiresIn    time.Duration
}

// SessionInfo is one live login as shown to the user. Rotated grace-window
// records are implementation detail and never appear here.
type SessionInfo struct {
	DeviceInfo string
	IPAddress  string
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// AuditEvent is a structured audit record emitted by the Manager.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the Manager's dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
