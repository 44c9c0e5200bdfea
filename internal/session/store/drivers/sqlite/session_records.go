package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/quillhaven/quill/internal/session/domain"
	"github.com/quillhaven/quill/internal/session/store"
)

// sessionRecordsRepo keeps the refresh-token slot on the identities row
// itself. The UPDATE is an unconditional overwrite: concurrent rotations are
// last-write-wins by design.
type sessionRecordsRepo struct {
	db *sql.DB
}

func (r *sessionRecordsRepo) Get(ctx context.Context, identityID string) (domain.SessionRecord, error) {
	var token sql.NullString
	var expires sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT refresh_token, refresh_expires_at FROM identities WHERE id = ?`, identityID).
		Scan(&token, &expires)
	if err != nil {
		return domain.SessionRecord{}, mapNotFound(err)
	}
	if !token.Valid || token.String == "" {
		return domain.SessionRecord{}, store.ErrNotFound
	}

	rec := domain.SessionRecord{IdentityID: identityID, Token: token.String}
	if expires.Valid {
		rec.ExpiresAt = expires.Time
	}
	return rec, nil
}

func (r *sessionRecordsRepo) Put(ctx context.Context, rec domain.SessionRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE identities
		 SET refresh_token = ?, refresh_expires_at = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		rec.Token, rec.ExpiresAt, rec.IdentityID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionRecordsRepo) Clear(ctx context.Context, identityID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE identities
		 SET refresh_token = NULL, refresh_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`, identityID)
	return err
}

func (r *sessionRecordsRepo) ClearExpired(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE identities
		 SET refresh_token = NULL, refresh_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE refresh_token IS NOT NULL AND refresh_expires_at < ?`, now)
	return err
}
