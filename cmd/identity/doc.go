// Package identity implements agrigate's identity foundation.
//
// It contains the User entity, the credential store boundary
// (Postgres-backed), and the password hashing primitives used by the
// HTTP auth layer.
//
// This package is intentionally dependency-light and security-first.
package identity
