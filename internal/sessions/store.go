package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store keeps track of issued token ids so that logout and account
// suspension can invalidate tokens before they expire.
type Store struct {
	rdb *redis.Client
}

func New(addr string) *Store {
	return &Store{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func revokedKey(tokenID string) string {
	return "revoked:" + tokenID
}

func userKey(userID uint) string {
	return fmt.Sprintf("sessions:%d", userID)
}

// Track registers a freshly issued token under its user so that
// RevokeAllForUser can find it later.
func (s *Store) Track(ctx context.Context, userID uint, tokenID string, ttl time.Duration) error {
	if err := s.rdb.SAdd(ctx, userKey(userID), tokenID).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, userKey(userID), ttl).Err()
}

func (s *Store) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

func (s *Store) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RevokeAllForUser invalidates every tracked session of one user. Used when
// an admin suspends or deletes the account.
func (s *Store) RevokeAllForUser(ctx context.Context, userID uint, ttl time.Duration) error {
	ids, err := s.rdb.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Revoke(ctx, id, ttl); err != nil {
			return err
		}
	}
	return s.rdb.Del(ctx, userKey(userID)).Err()
}
