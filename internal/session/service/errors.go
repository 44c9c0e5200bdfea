package service

import "errors"

// Sentinel errors for the session service. Handlers map these to HTTP
// statuses at the boundary; nothing escapes unmapped.
var (
	// ErrValidation covers malformed or missing input, such as an absent
	// refresh token or an empty username.
	ErrValidation = errors.New("validation failed")

	// ErrAuthentication covers bad credentials, bad signatures, expired
	// tokens, and refresh tokens that no longer match the session record.
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthorization covers a valid identity holding an insufficient role.
	ErrAuthorization = errors.New("insufficient role")

	// ErrNotFound covers identities that vanished between issuance and use.
	ErrNotFound = errors.New("identity not found")
)
