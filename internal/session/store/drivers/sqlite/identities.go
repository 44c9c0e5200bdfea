package sqlite

import (
	"context"
	"database/sql"

	"github.com/quillhaven/quill/internal/session/domain"
)

type identitiesRepo struct {
	db *sql.DB
}

const identityColumns = `id, username, email, display_name, password_hash, role, created_at, updated_at`

func (r *identitiesRepo) GetByID(ctx context.Context, id string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE id = ?`, id)
	return scanIdentity(row)
}

func (r *identitiesRepo) GetByUsername(ctx context.Context, username string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE username = ?`, username)
	return scanIdentity(row)
}

func (r *identitiesRepo) GetByEmail(ctx context.Context, email string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE email = ?`, email)
	return scanIdentity(row)
}

func (r *identitiesRepo) Create(ctx context.Context, ident domain.Identity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO identities (id, username, email, display_name, password_hash, role)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ident.ID, ident.Username, ident.Email, ident.DisplayName, ident.PasswordHash, string(ident.Role))
	return mapConflict(err)
}

func (r *identitiesRepo) List(ctx context.Context) ([]domain.Identity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+identityColumns+` FROM identities ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Identity
	for rows.Next() {
		ident, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ident)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (domain.Identity, error) {
	var ident domain.Identity
	var role string
	err := row.Scan(
		&ident.ID, &ident.Username, &ident.Email, &ident.DisplayName,
		&ident.PasswordHash, &role, &ident.CreatedAt, &ident.UpdatedAt,
	)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return domain.Identity{}, err
	}
	ident.Role = parsed
	return ident, nil
}
