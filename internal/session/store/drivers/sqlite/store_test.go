package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quillhaven/quill/internal/session/domain"
	"github.com/quillhaven/quill/internal/session/store"
	"github.com/quillhaven/quill/pkg/idx"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedIdentity(t *testing.T, s *Store, username string) domain.Identity {
	t.Helper()

	ident := domain.Identity{
		ID:           idx.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		DisplayName:  username,
		PasswordHash: "$2a$10$fake",
		Role:         domain.RoleReader,
	}
	require.NoError(t, s.Identities().Create(t.Context(), ident))
	return ident
}

func TestIdentitiesCreateAndGet(t *testing.T) {
	s := testStore(t)
	ctx := t.Context()

	ident := seedIdentity(t, s, "alice")

	byID, err := s.Identities().GetByID(ctx, ident.ID)
	require.NoError(t, err)
	require.Equal(t, ident.Username, byID.Username)
	require.Equal(t, domain.RoleReader, byID.Role)

	byName, err := s.Identities().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, ident.ID, byName.ID)

	byEmail, err := s.Identities().GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, ident.ID, byEmail.ID)

	_, err = s.Identities().GetByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestIdentitiesCreateDuplicateUsername(t *testing.T) {
	s := testStore(t)

	seedIdentity(t, s, "alice")

	dup := domain.Identity{
		ID:       idx.New().String(),
		Username: "alice",
		Email:    "other@example.com",
		Role:     domain.RoleReader,
	}
	err := s.Identities().Create(t.Context(), dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestIdentitiesList(t *testing.T) {
	s := testStore(t)

	seedIdentity(t, s, "alice")
	seedIdentity(t, s, "bob")

	all, err := s.Identities().List(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestSessionRecordsLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := t.Context()

	ident := seedIdentity(t, s, "alice")

	_, err := s.SessionRecords().Get(ctx, ident.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	rec := domain.SessionRecord{
		IdentityID: ident.ID,
		Token:      "first-refresh",
		ExpiresAt:  time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, s.SessionRecords().Put(ctx, rec))

	got, err := s.SessionRecords().Get(ctx, ident.ID)
	require.NoError(t, err)
	require.Equal(t, "first-refresh", got.Token)

	// Overwrite is unconditional: the new value simply replaces the old.
	rec.Token = "second-refresh"
	require.NoError(t, s.SessionRecords().Put(ctx, rec))

	got, err = s.SessionRecords().Get(ctx, ident.ID)
	require.NoError(t, err)
	require.Equal(t, "second-refresh", got.Token)

	require.NoError(t, s.SessionRecords().Clear(ctx, ident.ID))
	_, err = s.SessionRecords().Get(ctx, ident.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionRecordsPutUnknownIdentity(t *testing.T) {
	s := testStore(t)

	rec := domain.SessionRecord{IdentityID: "missing", Token: "x", ExpiresAt: time.Now().Add(time.Hour)}
	err := s.SessionRecords().Put(t.Context(), rec)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionRecordsClearExpired(t *testing.T) {
	s := testStore(t)
	ctx := t.Context()

	expired := seedIdentity(t, s, "stale")
	live := seedIdentity(t, s, "fresh")

	require.NoError(t, s.SessionRecords().Put(ctx, domain.SessionRecord{
		IdentityID: expired.ID, Token: "old", ExpiresAt: time.Now().Add(-time.Hour).UTC(),
	}))
	require.NoError(t, s.SessionRecords().Put(ctx, domain.SessionRecord{
		IdentityID: live.ID, Token: "new", ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}))

	require.NoError(t, s.SessionRecords().ClearExpired(ctx, time.Now().UTC()))

	_, err := s.SessionRecords().Get(ctx, expired.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.SessionRecords().Get(ctx, live.ID)
	require.NoError(t, err)
}
