package user

import "errors"

var (
	// ErrNotFound signals that no record matched the lookup. Handlers map it
	// to 404; it is not a failure of the store.
	ErrNotFound = errors.New("user not found")

	// ErrEmailExists is the duplicate-email domain conflict.
	ErrEmailExists = errors.New("a user with this email already exists")

	// ErrPartnerIDExists is raised when an allocated partner id collides with
	// a concurrent creation. The service retries allocation on it.
	ErrPartnerIDExists = errors.New("partner id already exists")

	// ErrInvalidInput wraps request-shape problems the caller can fix.
	ErrInvalidInput = errors.New("invalid input")
)
