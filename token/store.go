package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tokenrot/tokenrot/internal"
)

// ErrStoreUnavailable wraps every Redis transport failure. Callers must
// treat it distinctly from ErrNotFound: an unreachable store means the
// token could not be verified, not that it is invalid.
var ErrStoreUnavailable = errors.New("token store unavailable")

// ErrNotFound is returned when no record exists for a digest. Covers
// never-issued, expired, and deleted tokens alike.
var ErrNotFound = errors.New("refresh token record not found")

const (
	familyKeyPrefix = "rtf:"
	userKeyPrefix   = "rtu:"
)

// Store is the Redis adapter for refresh-token records and the two
// revocation index sets (per-family and per-user). Each method touches
// only the keys it names; atomicity beyond single commands and pipelines
// is the Manager's concern, not the Store's.
//
// Store instances are intended to be configured during initialization and
// then treated as immutable.
type Store struct {
	redis     redis.UniversalClient
	prefix    string
	opTimeout time.Duration
}

// NewStore creates a token [Store] backed by the given Redis client.
// prefix sets the record key namespace; opTimeout bounds every Redis call
// so a store outage surfaces as [ErrStoreUnavailable] instead of hanging
// the caller.
func NewStore(redisClient redis.UniversalClient, prefix string, opTimeout time.Duration) *Store {
	if prefix == "" {
		prefix = "rt"
	}
	return &Store{
		redis:     redisClient,
		prefix:    prefix,
		opTimeout: opTimeout,
	}
}

func (s *Store) recordKey(member string) string {
	return s.prefix + ":" + member
}

func (s *Store) familyKey(family string) string {
	return familyKeyPrefix + family
}

func (s *Store) userKey(userID string) string {
	return userKeyPrefix + userID
}

// MemberFor renders a digest as the set-member string used in the family
// and user index sets.
func (s *Store) MemberFor(digest [32]byte) string {
	return internal.EncodeDigest(digest)
}

func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Save persists a [Record] under the digest key with the given TTL,
// overwriting unconditionally.
func (s *Store) Save(ctx context.Context, digest [32]byte, record *Record, ttl time.Duration) error {
	encoded, err := encodeRecord(record)
	if err != nil {
		return err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.redis.Set(ctx, s.recordKey(s.MemberFor(digest)), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Get fetches and decodes the record stored under a digest. Missing keys
// return [ErrNotFound]; transport failures return [ErrStoreUnavailable].
func (s *Store) Get(ctx context.Context, digest [32]byte) (*Record, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	data, err := s.redis.Get(ctx, s.recordKey(s.MemberFor(digest))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	record, err := decodeRecord(data)
	if err != nil {
		// The key exists, so the token is not provably invalid; a blob we
		// cannot decode is a store-side fault and must read as one.
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return record, nil
}

// GetMany pipelines record fetches for a batch of set members. Missing and
// undecodable members are skipped, not errors: sets may briefly reference
// records the TTL already reaped, and one bad blob must not abort the batch.
func (s *Store) GetMany(ctx context.Context, members []string) (map[string]*Record, error) {
	records := make(map[string]*Record, len(members))
	if len(members) == 0 {
		return records, nil
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.StringCmd, len(members))
	for i, member := range members {
		cmds[i] = pipe.Get(ctx, s.recordKey(member))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	for i, cmd := range cmds {
		data, cmdErr := cmd.Bytes()
		if cmdErr != nil {
			if errors.Is(cmdErr, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, cmdErr)
		}

		record, decErr := decodeRecord(data)
		if decErr != nil {
			// One undecodable blob must not sink the whole batch; revocation
			// fan-out would rather sweep the members it can read.
			continue
		}
		records[members[i]] = record
	}

	return records, nil
}

// Delete removes the record stored under a digest. Deleting an absent
// record is not an error.
func (s *Store) Delete(ctx context.Context, digest [32]byte) error {
	return s.DeleteMember(ctx, s.MemberFor(digest))
}

// DeleteMember removes the record referenced by a set-member string.
func (s *Store) DeleteMember(ctx context.Context, member string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.redis.Del(ctx, s.recordKey(member)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// AddToFamily adds a digest to a family's member set and refreshes the set
// TTL in the same pipeline, so the set always outlives its newest member.
func (s *Store) AddToFamily(ctx context.Context, family string, digest [32]byte, ttl time.Duration) error {
	return s.addToSet(ctx, s.familyKey(family), s.MemberFor(digest), ttl)
}

// RemoveFromFamily detaches a member from a family set.
func (s *Store) RemoveFromFamily(ctx context.Context, family, member string) error {
	return s.removeFromSet(ctx, s.familyKey(family), member)
}

// FamilyMembers returns every digest ever issued within a family that has
// not yet expired or been revoked out of the set.
func (s *Store) FamilyMembers(ctx context.Context, family string) ([]string, error) {
	return s.setMembers(ctx, s.familyKey(family))
}

// DeleteFamily removes the family set itself.
func (s *Store) DeleteFamily(ctx context.Context, family string) error {
	return s.deleteKey(ctx, s.familyKey(family))
}

// ExpireFamily refreshes the TTL on a family set key.
func (s *Store) ExpireFamily(ctx context.Context, family string, ttl time.Duration) error {
	return s.expireKey(ctx, s.familyKey(family), ttl)
}

// AddToUserIndex adds a digest to the user's cross-device token index and
// refreshes the index TTL in the same pipeline.
func (s *Store) AddToUserIndex(ctx context.Context, userID string, digest [32]byte, ttl time.Duration) error {
	return s.addToSet(ctx, s.userKey(userID), s.MemberFor(digest), ttl)
}

// RemoveFromUserIndex detaches a member from the user's token index.
func (s *Store) RemoveFromUserIndex(ctx context.Context, userID, member string) error {
	return s.removeFromSet(ctx, s.userKey(userID), member)
}

// UserIndexMembers returns every tracked digest for a user, across all
// devices and families.
func (s *Store) UserIndexMembers(ctx context.Context, userID string) ([]string, error) {
	return s.setMembers(ctx, s.userKey(userID))
}

// DeleteUserIndex removes the user's token index set.
func (s *Store) DeleteUserIndex(ctx context.Context, userID string) error {
	return s.deleteKey(ctx, s.userKey(userID))
}

// ExpireUserIndex refreshes the TTL on a user index key.
func (s *Store) ExpireUserIndex(ctx context.Context, userID string, ttl time.Duration) error {
	return s.expireKey(ctx, s.userKey(userID), ttl)
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return time.Since(start), nil
}

func (s *Store) addToSet(ctx context.Context, key, member string, ttl time.Duration) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, member)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) removeFromSet(ctx context.Context, key, member string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.redis.SRem(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) setMembers(ctx context.Context, key string) ([]string, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	members, err := s.redis.SMembers(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return members, nil
}

func (s *Store) deleteKey(ctx context.Context, key string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) expireKey(ctx context.Context, key string, ttl time.Duration) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.redis.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
