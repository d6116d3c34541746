package tokenrot

import (
	"context"
	"log"

	internalmetrics "github.com/tokenrot/tokenrot/internal/metrics"
	"github.com/tokenrot/tokenrot/token"
)

// revocationSweeper fans revocation out across a token family or a user's
// full token set. Deletion is a sequence of independent operations, not a
// transaction: one bad key must never block revoking the rest of the
// family, so failures are logged and counted while the sweep continues.
// A stray key left behind expires on its own TTL.
type revocationSweeper struct {
	store   *token.Store
	metrics *internalmetrics.Metrics
}

// revokeFamily deletes every record in the family, detaches each from the
// user's index, then drops the family set itself. Returns an error only
// when the member enumeration fails — with no member list there is nothing
// to sweep.
func (s *revocationSweeper) revokeFamily(ctx context.Context, family, userID string) error {
	members, err := s.store.FamilyMembers(ctx, family)
	if err != nil {
		return err
	}

	var failed int
	for _, member := range members {
		if err := s.store.DeleteMember(ctx, member); err != nil {
			failed++
		}
		if err := s.store.RemoveFromUserIndex(ctx, userID, member); err != nil {
			failed++
		}
	}
	if err := s.store.DeleteFamily(ctx, family); err != nil {
		failed++
	}

	if failed > 0 {
		log.Printf("tokenrot: family revocation left %d operations incomplete", failed)
		s.metrics.Inc(internalmetrics.MetricSweepPartialFailure)
	}

	return nil
}

// revokeAllForUser walks the user's token index, resolves each member to
// its family, and sweeps every family found. Members whose records the TTL
// already reaped are deleted directly. Returns the swept family IDs so the
// caller can reset per-family state.
func (s *revocationSweeper) revokeAllForUser(ctx context.Context, userID string) ([]string, error) {
	members, err := s.store.UserIndexMembers(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.store.GetMany(ctx, members)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	families := make([]string, 0, len(records))
	for _, record := range records {
		if _, dup := seen[record.Family]; dup {
			continue
		}
		seen[record.Family] = struct{}{}
		families = append(families, record.Family)
	}

	var failed int
	for _, family := range families {
		if err := s.revokeFamily(ctx, family, userID); err != nil {
			failed++
		}
	}

	// Index members without a live record have nothing left to sweep, but
	// the orphaned keys should not linger until their TTL.
	for _, member := range members {
		if _, ok := records[member]; ok {
			continue
		}
		if err := s.store.DeleteMember(ctx, member); err != nil {
			failed++
		}
	}

	if err := s.store.DeleteUserIndex(ctx, userID); err != nil {
		failed++
	}

	if failed > 0 {
		log.Printf("tokenrot: user revocation left %d operations incomplete", failed)
		s.metrics.Inc(internalmetrics.MetricSweepPartialFailure)
	}

	return families, nil
}
