package identity

import (
	"context"
	"time"
)

// DefaultPreferredLanguage is applied when registration omits a language code.
const DefaultPreferredLanguage = "en"

// User is agrigate's canonical security principal.
// PasswordHash is the stored one-way hash; it must never be serialized
// into any API response.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string

	FirstName         string
	LastName          string
	PreferredLanguage string

	// IsAdmin is never settable through any profile-mutation path.
	IsAdmin bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUserInput describes a user registration request.
// PasswordHash must already be hashed by the caller; the store never sees
// plaintext credentials.
type CreateUserInput struct {
	Email        string
	Username     string
	PasswordHash string

	FirstName         string
	LastName          string
	PreferredLanguage string

	Now time.Time
}

// ProfileUpdate is a sparse, allow-listed profile mutation.
// Nil fields are left untouched. IsAdmin and Email are deliberately
// absent: neither is mutable through the profile path.
type ProfileUpdate struct {
	Username          *string
	FirstName         *string
	LastName          *string
	PreferredLanguage *string
}

// Empty reports whether the update carries no allow-listed field.
func (p ProfileUpdate) Empty() bool {
	return p.Username == nil && p.FirstName == nil && p.LastName == nil && p.PreferredLanguage == nil
}

// Store is the credential persistence boundary.
//
// Uniqueness contract:
//   - Email and username uniqueness is enforced by storage-level unique
//     constraints, never by application-level check-then-insert. A
//     constraint violation surfaces as ConflictError and is the single
//     source of truth for conflicts.
type Store interface {
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)

	// GetUserByEmail performs an exact-match (case-sensitive) lookup.
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)

	// UpdateProfile persists only the non-nil fields of upd plus a
	// refreshed updated_at. Empty updates are rejected with
	// ErrInvalidInput; the caller decides whether that is a no-op.
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate, now time.Time) (User, error)

	// UpdatePassword replaces the stored password hash and refreshes
	// updated_at. Nothing else on the record changes.
	UpdatePassword(ctx context.Context, userID string, passwordHash string, now time.Time) error
}
