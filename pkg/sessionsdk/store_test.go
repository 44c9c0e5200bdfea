package sessionsdk

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPair(n string) TokenPair {
	return TokenPair{AccessToken: "access-" + n, RefreshToken: "refresh-" + n, TokenType: "Bearer"}
}

func testIdentity() Identity {
	return Identity{ID: "identity-1", Username: "alice", Email: "alice@example.com", DisplayName: "Alice", Role: "reader"}
}

func TestAuthStoreLifecycle(t *testing.T) {
	store := NewAuthStore(NewMemoryStorage())
	require.Equal(t, StateAnonymous, store.State())

	store.Establish(testIdentity(), testPair("1"))
	snap := store.Snapshot()
	require.Equal(t, StateAuthenticated, snap.State)
	require.Equal(t, "access-1", snap.AccessToken)
	require.Equal(t, "alice", snap.Identity.Username)

	store.RotateTokens(testPair("2"))
	snap = store.Snapshot()
	require.Equal(t, "access-2", snap.AccessToken)
	require.Equal(t, "refresh-2", snap.RefreshToken)
	require.Equal(t, "alice", snap.Identity.Username)

	store.Logout()
	snap = store.Snapshot()
	require.Equal(t, StateAnonymous, snap.State)
	require.Empty(t, snap.AccessToken)
	require.Empty(t, snap.RefreshToken)
	require.Nil(t, snap.Identity)
}

func TestAuthStoreRestoresPersistedSession(t *testing.T) {
	storage := NewMemoryStorage()

	first := NewAuthStore(storage)
	first.Establish(testIdentity(), testPair("1"))

	// A second store over the same storage picks the session back up.
	second := NewAuthStore(storage)
	snap := second.Snapshot()
	require.Equal(t, StateAuthenticated, snap.State)
	require.Equal(t, "refresh-1", snap.RefreshToken)
	require.Equal(t, "alice", snap.Identity.Username)
}

type failingStorage struct{}

func (failingStorage) Load() (*PersistedSession, error) { return nil, errors.New("disk gone") }
func (failingStorage) Save(*PersistedSession) error     { return errors.New("disk gone") }
func (failingStorage) Clear() error                     { return errors.New("disk gone") }

func TestAuthStoreLogoutAlwaysEndsAnonymous(t *testing.T) {
	store := NewAuthStore(failingStorage{})
	store.Establish(testIdentity(), testPair("1"))

	store.Logout()
	snap := store.Snapshot()
	require.Equal(t, StateAnonymous, snap.State)
	require.Empty(t, snap.RefreshToken)
	require.Error(t, snap.LastError)
}

func TestFileStorageRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	storage := NewFileStorage(path)

	// Nothing saved yet.
	session, err := storage.Load()
	require.NoError(t, err)
	require.Nil(t, session)

	saved := &PersistedSession{
		Identity:     testIdentity(),
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	}
	require.NoError(t, storage.Save(saved))

	// Owner-only permissions on the session file.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := storage.Load()
	require.NoError(t, err)
	require.Equal(t, saved, loaded)

	require.NoError(t, storage.Clear())
	session, err = storage.Load()
	require.NoError(t, err)
	require.Nil(t, session)

	// Clearing twice is fine.
	require.NoError(t, storage.Clear())
}

func TestFileStorageRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStorage(path).Load()
	require.Error(t, err)

	// The store degrades to anonymous rather than failing.
	store := NewAuthStore(NewFileStorage(path))
	require.Equal(t, StateAnonymous, store.State())
}
