package tokenrot

import (
	"context"
	"sort"
	"time"

	internalmetrics "github.com/tokenrot/tokenrot/internal/metrics"
)

// ListSessions enumerates the user's live logins, newest first. Each live
// (non-rotated) token is one session, usually one logged-in device.
// Rotated grace-window records are filtered out: they are rotation
// machinery, not sessions a user should see or selectively revoke.
func (m *Manager) ListSessions(ctx context.Context, userID string) ([]SessionInfo, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	members, err := m.store.UserIndexMembers(ctx, userID)
	if err != nil {
		m.countIfUnavailable(err)
		return nil, err
	}

	records, err := m.store.GetMany(ctx, members)
	if err != nil {
		m.countIfUnavailable(err)
		return nil, err
	}

	sessions := make([]SessionInfo, 0, len(records))
	for _, record := range records {
		if record.Rotated {
			continue
		}
		sessions = append(sessions, SessionInfo{
			DeviceInfo: record.DeviceInfo,
			IPAddress:  record.IPAddress,
			CreatedAt:  time.Unix(record.CreatedAt, 0),
			LastUsedAt: time.Unix(record.LastUsedAt, 0),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	m.metrics.Inc(internalmetrics.MetricSessionsListed)
	return sessions, nil
}
