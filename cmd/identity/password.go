package identity

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Password hashing (bcrypt).
//
// Security contract:
//   - HashPassword generates a fresh random salt on every call; two hashes
//     of the same password never compare equal as strings.
//   - VerifyPassword recomputes and compares; it never decodes the stored
//     hash back to a password.

// bcryptCost balances verification latency against brute-force resistance.
const bcryptCost = bcrypt.DefaultCost

// MaxPasswordBytes is bcrypt's hard input limit.
const MaxPasswordBytes = 72

// HashPassword returns a salted bcrypt hash of the plaintext password.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", OpError{Op: "identity.HashPassword", Kind: ErrInvalidInput, Msg: "empty password"}
	}
	if len(plain) > MaxPasswordBytes {
		return "", OpError{Op: "identity.HashPassword", Kind: ErrInvalidInput, Msg: "password too long"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a stored bcrypt hash.
// A mismatch is (false, nil); only malformed hashes or internal failures
// return a non-nil error.
func VerifyPassword(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
