// Package ids provides identity ID primitives used by the identity service.
package ids

import "github.com/google/uuid"

// NewUserID returns a new opaque user identifier (UUIDv4 string).
// User IDs are generated at creation time and immutable afterwards.
func NewUserID() string {
	return uuid.NewString()
}
