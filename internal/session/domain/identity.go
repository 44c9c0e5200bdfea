package domain

import (
	"errors"
	"time"
)

// Role is the closed set of account roles. Guards compare against these
// values exactly; anything else is rejected at parse time.
type Role string

const (
	RoleReader        Role = "reader"
	RoleAuthor        Role = "author"
	RoleAdministrator Role = "administrator"
)

var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole validates a stored or submitted role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleReader, RoleAuthor, RoleAdministrator:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string { return string(r) }

// Identity is a stable account record. The single outstanding refresh token
// for an identity lives in its SessionRecord, not here.
type Identity struct {
	ID           string
	Username     string
	Email        string
	DisplayName  string
	PasswordHash string // bcrypt; empty for federated-only accounts
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
