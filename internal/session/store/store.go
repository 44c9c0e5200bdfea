// Package store defines the data access interfaces the session service is
// written against. Concrete drivers live under drivers/.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/quillhaven/quill/internal/session/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface backed by the primary database.
type Store interface {
	Identities() Identities
	SessionRecords() SessionRecords

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Identities interface {
	// GetByID returns an identity by id.
	GetByID(ctx context.Context, id string) (domain.Identity, error)

	// GetByUsername is used during credential login.
	GetByUsername(ctx context.Context, username string) (domain.Identity, error)

	// GetByEmail is used to match federated logins to existing accounts.
	GetByEmail(ctx context.Context, email string) (domain.Identity, error)

	// Create inserts a new identity (id is provided by the app via ULID).
	Create(ctx context.Context, ident domain.Identity) error

	// List returns all identities ordered newest first.
	List(ctx context.Context) ([]domain.Identity, error)
}

// SessionRecords is the single refresh-token slot per identity. Put
// overwrites whatever was there, which is what makes every prior refresh
// token dead on rotation. There is deliberately no compare-and-swap here:
// two clients racing a rotation is resolved last-write-wins and the loser
// re-authenticates.
type SessionRecords interface {
	// Get returns the current record, or ErrNotFound when the slot is empty.
	Get(ctx context.Context, identityID string) (domain.SessionRecord, error)

	// Put replaces the slot for the identity.
	Put(ctx context.Context, rec domain.SessionRecord) error

	// Clear empties the slot. Clearing an already-empty slot is not an error.
	Clear(ctx context.Context, identityID string) error

	// ClearExpired empties every slot whose stored token expired before now.
	// Housekeeping only; verification checks expiry on its own.
	ClearExpired(ctx context.Context, now time.Time) error
}
