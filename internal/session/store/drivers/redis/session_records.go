// Package redis provides a SessionRecords driver that keeps the per-identity
// refresh-token slot in Redis instead of the primary database. Useful when
// several instances share session state, or when session churn would bloat
// the sqlite file.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quillhaven/quill/internal/session/domain"
	"github.com/quillhaven/quill/internal/session/store"
)

const keyPrefix = "quill:session:"

type SessionRecords struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *SessionRecords {
	return &SessionRecords{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// NewWithClient wraps an existing client, mainly for tests.
func NewWithClient(rdb *redis.Client) *SessionRecords {
	return &SessionRecords{rdb: rdb}
}

func (s *SessionRecords) Close() error { return s.rdb.Close() }

func (s *SessionRecords) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *SessionRecords) Get(ctx context.Context, identityID string) (domain.SessionRecord, error) {
	key := keyPrefix + identityID

	token, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return domain.SessionRecord{}, store.ErrNotFound
	}
	if err != nil {
		return domain.SessionRecord{}, err
	}

	rec := domain.SessionRecord{IdentityID: identityID, Token: token}
	if ttl, err := s.rdb.PTTL(ctx, key).Result(); err == nil && ttl > 0 {
		rec.ExpiresAt = time.Now().Add(ttl)
	}
	return rec, nil
}

// Put overwrites the slot. The key TTL tracks the token's own expiry, so a
// stale slot disappears on its own.
func (s *SessionRecords) Put(ctx context.Context, rec domain.SessionRecord) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return s.Clear(ctx, rec.IdentityID)
	}
	return s.rdb.Set(ctx, keyPrefix+rec.IdentityID, rec.Token, ttl).Err()
}

func (s *SessionRecords) Clear(ctx context.Context, identityID string) error {
	return s.rdb.Del(ctx, keyPrefix+identityID).Err()
}

// ClearExpired is a no-op: Redis key TTLs already reap expired slots.
func (s *SessionRecords) ClearExpired(ctx context.Context, now time.Time) error {
	return nil
}
