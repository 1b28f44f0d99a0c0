package storefront

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetworkUnavailable means the backend could not be reached or failed
	// on its side. Callers fall back to the local mirror.
	ErrNetworkUnavailable = errors.New("storefront: network unavailable")
	// ErrInvalidCredentials is returned when a login cannot be matched to an account
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrAlreadyExists is returned when registering an email that is already taken
	ErrAlreadyExists = errors.New("Email already exists")
	// ErrNotFound is returned for an unknown product
	ErrNotFound = errors.New("storefront: not found")
	// ErrNotAuthenticated is returned by operations that need a session, and
	// for any 401 from the backend (missing, expired or offline-only token)
	ErrNotAuthenticated = errors.New("storefront: not logged in")
	// ErrEmptyCart is returned when checking out without any lines
	ErrEmptyCart = errors.New("storefront: cart is empty")
)

// RemoteError is a definite rejection from the backend, such as a 4xx response
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("backend rejected request (%d): %s", e.Status, e.Message)
}

// Unwrap maps well-known backend messages onto the package sentinels
func (e *RemoteError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrNotAuthenticated
	}
	switch e.Message {
	case "Email already exists":
		return ErrAlreadyExists
	case "Invalid credentials", "User not found", "Please login with Google", "Invalid Google token":
		return ErrInvalidCredentials
	case "Product not found":
		return ErrNotFound
	}
	return nil
}

func unavailable(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNetworkUnavailable, fmt.Sprintf(format, args...))
}

// retainable reports whether a failed write should stay queued: the backend
// was unreachable or refused the session, not the change itself
func retainable(err error) bool {
	return errors.Is(err, ErrNetworkUnavailable) || errors.Is(err, ErrNotAuthenticated)
}
