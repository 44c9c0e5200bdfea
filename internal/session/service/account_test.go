package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillhaven/quill/internal/session/domain"
	"github.com/quillhaven/quill/internal/session/store/drivers/sqlite"
)

func newTestAccountService(t *testing.T) (*AccountService, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return &AccountService{Identities: st.Identities()}, st
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := t.Context()

	ident, err := svc.Register(ctx, RegisterParams{
		Username:    "alice",
		Email:       "Alice@Example.com",
		DisplayName: "Alice",
		Password:    "correct-password",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleReader, ident.Role)
	require.Equal(t, "alice@example.com", ident.Email)

	got, err := svc.Login(ctx, "alice", "correct-password")
	require.NoError(t, err)
	require.Equal(t, ident.ID, got.ID)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(ctx, "nobody", "whatever")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := t.Context()

	_, err := svc.Register(ctx, RegisterParams{Username: "", Email: "a@b.c", Password: "x"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, RegisterParams{Username: "a", Email: "not-an-email", Password: "x"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, RegisterParams{Username: "a", Email: "a@b.c", Password: ""})
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := t.Context()

	_, err := svc.Register(ctx, RegisterParams{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterParams{Username: "alice", Email: "other@example.com", Password: "pw"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestFederatedLoginCreatesThenReuses(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := t.Context()

	ext := ExternalIdentity{Subject: "google|123", Email: "Carol@Example.com", Name: "Carol"}

	first, err := svc.FederatedLogin(ctx, ext)
	require.NoError(t, err)
	require.Equal(t, "carol@example.com", first.Email)
	require.Equal(t, "Carol", first.DisplayName)
	require.Empty(t, first.PasswordHash)

	second, err := svc.FederatedLogin(ctx, ext)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestFederatedLoginRequiresEmail(t *testing.T) {
	svc, _ := newTestAccountService(t)

	_, err := svc.FederatedLogin(t.Context(), ExternalIdentity{Subject: "x"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestLoginFederatedOnlyAccountHasNoPassword(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := t.Context()

	_, err := svc.FederatedLogin(ctx, ExternalIdentity{Email: "carol@example.com"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "carol@example.com", "anything")
	require.ErrorIs(t, err, ErrAuthentication)
}
