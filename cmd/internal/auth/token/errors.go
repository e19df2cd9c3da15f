package token

import "errors"

var (
	// ErrConfig indicates an unusable signing configuration.
	ErrConfig = errors.New("token: invalid config")

	// ErrExpired indicates a well-formed, correctly signed token whose
	// validity window has passed. Kept distinct from ErrInvalid for
	// observability; both map to the same HTTP rejection class.
	ErrExpired = errors.New("token: expired")

	// ErrInvalid indicates a malformed token, a signature mismatch, or
	// claims that fail validation for any reason other than expiry.
	ErrInvalid = errors.New("token: invalid")
)
