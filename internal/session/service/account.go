package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quillhaven/quill/internal/session/domain"
	"github.com/quillhaven/quill/internal/session/store"
	"github.com/quillhaven/quill/pkg/cryptox"
	"github.com/quillhaven/quill/pkg/idx"
	"github.com/quillhaven/quill/pkg/slogx"
)

// AccountService verifies credentials and federated identities and turns
// them into identities that the TokenService can mint sessions for.
type AccountService struct {
	Identities store.Identities
}

type RegisterParams struct {
	Username    string
	Email       string
	DisplayName string
	Password    string
}

// Register creates a new reader-role identity from credentials.
func (s *AccountService) Register(ctx context.Context, p RegisterParams) (domain.Identity, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.DisplayName = strings.TrimSpace(p.DisplayName)

	if p.Username == "" || p.Password == "" {
		return domain.Identity{}, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	if !strings.Contains(p.Email, "@") {
		return domain.Identity{}, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if p.DisplayName == "" {
		p.DisplayName = p.Username
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.Identity{}, err
	}

	ident := domain.Identity{
		ID:           idx.New().String(),
		Username:     p.Username,
		Email:        p.Email,
		DisplayName:  p.DisplayName,
		PasswordHash: hash,
		Role:         domain.RoleReader,
	}

	if err := s.Identities.Create(ctx, ident); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Identity{}, fmt.Errorf("%w: username or email already registered", ErrValidation)
		}
		return domain.Identity{}, err
	}

	return ident, nil
}

// Login verifies a username/password pair. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (domain.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Identity{}, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	ident, err := s.Identities.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, fmt.Errorf("%w: invalid credentials", ErrAuthentication)
		}
		return domain.Identity{}, err
	}

	if ident.PasswordHash == "" {
		// Federated-only account; there is no password to check.
		return domain.Identity{}, fmt.Errorf("%w: invalid credentials", ErrAuthentication)
	}

	if err := cryptox.VerifyPassword(password, ident.PasswordHash); err != nil {
		slogx.FromContext(ctx).Info("password verification failed", "username", username)
		return domain.Identity{}, fmt.Errorf("%w: invalid credentials", ErrAuthentication)
	}

	return ident, nil
}

// FederatedLogin matches a verified external identity to a local one by
// email, creating a reader-role account on first sight.
func (s *AccountService) FederatedLogin(ctx context.Context, ext ExternalIdentity) (domain.Identity, error) {
	email := strings.TrimSpace(strings.ToLower(ext.Email))
	if email == "" {
		return domain.Identity{}, fmt.Errorf("%w: federated identity carries no email", ErrValidation)
	}

	ident, err := s.Identities.GetByEmail(ctx, email)
	if err == nil {
		return ident, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, err
	}

	displayName := strings.TrimSpace(ext.Name)
	if displayName == "" {
		displayName = email
	}

	ident = domain.Identity{
		ID:          idx.New().String(),
		Username:    email,
		Email:       email,
		DisplayName: displayName,
		Role:        domain.RoleReader,
	}

	if err := s.Identities.Create(ctx, ident); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Another login created the account between our lookup and insert.
			return s.Identities.GetByEmail(ctx, email)
		}
		return domain.Identity{}, err
	}

	slogx.FromContext(ctx).Info("federated identity enrolled", "identity_id", ident.ID)
	return ident, nil
}
