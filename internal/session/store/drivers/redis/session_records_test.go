package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/quillhaven/quill/internal/session/domain"
	"github.com/quillhaven/quill/internal/session/store"
)

func setup(t *testing.T) (*SessionRecords, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s := NewWithClient(rdb)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestPutGetClear(t *testing.T) {
	s, _ := setup(t)
	ctx := t.Context()

	_, err := s.Get(ctx, "01ID")
	require.ErrorIs(t, err, store.ErrNotFound)

	rec := domain.SessionRecord{
		IdentityID: "01ID",
		Token:      "refresh-token-value",
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, "01ID")
	require.NoError(t, err)
	require.Equal(t, rec.Token, got.Token)
	require.WithinDuration(t, rec.ExpiresAt, got.ExpiresAt, 2*time.Second)

	require.NoError(t, s.Clear(ctx, "01ID"))
	_, err = s.Get(ctx, "01ID")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPutOverwritesPriorToken(t *testing.T) {
	s, _ := setup(t)
	ctx := t.Context()

	first := domain.SessionRecord{IdentityID: "01ID", Token: "old", ExpiresAt: time.Now().Add(time.Hour)}
	second := domain.SessionRecord{IdentityID: "01ID", Token: "new", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, s.Put(ctx, first))
	require.NoError(t, s.Put(ctx, second))

	got, err := s.Get(ctx, "01ID")
	require.NoError(t, err)
	require.Equal(t, "new", got.Token)
}

func TestSlotExpiresWithToken(t *testing.T) {
	s, mr := setup(t)
	ctx := t.Context()

	rec := domain.SessionRecord{IdentityID: "01ID", Token: "short", ExpiresAt: time.Now().Add(time.Second)}
	require.NoError(t, s.Put(ctx, rec))

	mr.FastForward(2 * time.Second)

	_, err := s.Get(ctx, "01ID")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPutAlreadyExpiredClears(t *testing.T) {
	s, _ := setup(t)
	ctx := t.Context()

	live := domain.SessionRecord{IdentityID: "01ID", Token: "live", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, s.Put(ctx, live))

	dead := domain.SessionRecord{IdentityID: "01ID", Token: "dead", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, s.Put(ctx, dead))

	_, err := s.Get(ctx, "01ID")
	require.ErrorIs(t, err, store.ErrNotFound)
}
