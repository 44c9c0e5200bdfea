package sessionsdk

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotAuthenticated is returned when an operation needs an active
	// session but the store is anonymous.
	ErrNotAuthenticated = errors.New("sessionsdk: not authenticated")

	// ErrSessionExpired is returned when token renewal fails and the
	// session has been forced back to anonymous.
	ErrSessionExpired = errors.New("sessionsdk: session expired")
)

// APIError is a failure envelope returned by the service. Its presence
// distinguishes a definitive server-side rejection from a transient network
// failure, which surfaces as an ordinary wrapped transport error instead.
type APIError struct {
	// Status is the HTTP status code of the response
	Status int

	// Message is the human-readable message from the failure envelope
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsAuthenticationError reports whether err is a definitive credential
// rejection (401) from the service, as opposed to a network failure or any
// other class of API error.
func IsAuthenticationError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsAuthorizationError reports whether err is a role/permission rejection.
func IsAuthorizationError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden
}

// IsValidationError reports whether err is a malformed-input rejection.
func IsValidationError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}

// IsTransientError reports whether err looks like a transport-level failure
// that may succeed on retry: anything that is not a typed APIError.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	return !errors.As(err, &apiErr)
}
