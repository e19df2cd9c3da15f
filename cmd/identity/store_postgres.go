package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"agrigate/cmd/identity/ids"
)

// PostgresStore implements the credential Store over PostgreSQL.
//
// Design notes:
//   - The pgx pool is owned by the caller; this store must NOT close it.
//   - Schema/table identifiers are safely quoted to avoid SQL injection via
//     identifiers.
//   - Email/username uniqueness relies on the table's unique constraints;
//     violations are classified into ConflictError. There is no
//     check-then-insert round trip, so concurrent registrations cannot race
//     past the uniqueness invariant.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the store (default "public").
// The schema name is validated to be a legal PostgreSQL identifier.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore with secure defaults.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "public",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

const userColumns = `id, email, username, password_hash, first_name, last_name, preferred_language, is_admin, created_at, updated_at`

// CreateUser inserts a new user row. The unique constraints on email and
// username are the single source of truth for ConflictError.
func (s *PostgresStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	if s == nil || s.pool == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	email := CanonicalEmail(in.Email)
	username := CanonicalUsername(in.Username)

	if email == "" {
		return User{}, pgInvalid(op, "email is required")
	}
	if username == "" {
		return User{}, pgInvalid(op, "username is required")
	}
	if strings.TrimSpace(in.PasswordHash) == "" {
		return User{}, pgInvalid(op, "password hash is required")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	lang := strings.TrimSpace(in.PreferredLanguage)
	if lang == "" {
		lang = DefaultPreferredLanguage
	}

	u := User{
		ID:                ids.NewUserID(),
		Email:             email,
		Username:          username,
		PasswordHash:      in.PasswordHash,
		FirstName:         strings.TrimSpace(in.FirstName),
		LastName:          strings.TrimSpace(in.LastName),
		PreferredLanguage: lang,
		IsAdmin:           false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	users := pgIdent(s.schema, "users")

	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+users+` (
		     id, email, username, password_hash, first_name, last_name, preferred_language, is_admin, created_at, updated_at
		   ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID,
		u.Email,
		u.Username,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.PreferredLanguage,
		u.IsAdmin,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if field, ok := pgClassifyUniqueViolation(err); ok {
			return User{}, ConflictError{Op: op, Field: field}
		}
		return User{}, err
	}

	return u, nil
}

// GetUserByEmail fetches exactly one user by exact-match email.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const op = "identity.GetUserByEmail"

	if s == nil || s.pool == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	email = CanonicalEmail(email)
	if email == "" {
		return User{}, pgInvalid(op, "email is required")
	}

	users := pgIdent(s.schema, "users")

	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM `+users+` WHERE email = $1`,
		email,
	)
	return scanUser(op, "user", row)
}

// GetUserByID fetches exactly one user by id.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (User, error) {
	const op = "identity.GetUserByID"

	if s == nil || s.pool == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, pgInvalid(op, "id is required")
	}

	users := pgIdent(s.schema, "users")

	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM `+users+` WHERE id = $1`,
		id,
	)
	return scanUser(op, "user", row)
}

// UpdateProfile persists the non-nil allow-listed fields plus a refreshed
// updated_at, returning the updated row.
func (s *PostgresStore) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate, now time.Time) (User, error) {
	const op = "identity.UpdateProfile"

	if s == nil || s.pool == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return User{}, pgInvalid(op, "missing user_id")
	}
	if upd.Empty() {
		return User{}, pgInvalid(op, "no fields to update")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	set := make([]string, 0, 5)
	args := make([]any, 0, 6)

	appendSet := func(col string, val string) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Username != nil {
		appendSet("username", CanonicalUsername(*upd.Username))
	}
	if upd.FirstName != nil {
		appendSet("first_name", strings.TrimSpace(*upd.FirstName))
	}
	if upd.LastName != nil {
		appendSet("last_name", strings.TrimSpace(*upd.LastName))
	}
	if upd.PreferredLanguage != nil {
		appendSet("preferred_language", strings.TrimSpace(*upd.PreferredLanguage))
	}

	args = append(args, now)
	set = append(set, fmt.Sprintf("updated_at = $%d", len(args)))

	args = append(args, userID)

	users := pgIdent(s.schema, "users")

	row := s.pool.QueryRow(ctx,
		`UPDATE `+users+`
		    SET `+strings.Join(set, ", ")+`
		  WHERE id = $`+fmt.Sprint(len(args))+`
		 RETURNING `+userColumns,
		args...,
	)
	u, err := scanUser(op, "user", row)
	if err != nil {
		if field, ok := pgClassifyUniqueViolation(err); ok {
			return User{}, ConflictError{Op: op, Field: field}
		}
		return User{}, err
	}
	return u, nil
}

// UpdatePassword replaces the stored password hash and refreshes updated_at.
func (s *PostgresStore) UpdatePassword(ctx context.Context, userID string, passwordHash string, now time.Time) error {
	const op = "identity.UpdatePassword"

	if s == nil || s.pool == nil {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return pgInvalid(op, "missing user_id")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return pgInvalid(op, "missing password hash")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	users := pgIdent(s.schema, "users")

	ct, err := s.pool.Exec(ctx,
		`UPDATE `+users+`
		    SET password_hash = $1,
		        updated_at = $2
		  WHERE id = $3`,
		passwordHash, now, userID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return NotFoundError{Op: op, Resource: "user"}
	}
	return nil
}

// ---- helpers ----

type pgRow interface {
	Scan(dest ...any) error
}

func scanUser(op, resource string, row pgRow) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.PreferredLanguage,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, NotFoundError{Op: op, Resource: resource}
		}
		return User{}, err
	}
	return u, nil
}

// pgInvalid standardizes invalid input errors.
func pgInvalid(op, msg string) error {
	return OpError{Op: op, Kind: ErrInvalidInput, Msg: msg}
}

// pgIdent safely quotes a schema-qualified identifier: "schema"."name".
func pgIdent(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

func pgClassifyUniqueViolation(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != "23505" { // unique_violation
		return "", false
	}

	// Prefer stable schema constraint names. Fall back to heuristic
	// substring matching.
	c := strings.ToLower(strings.TrimSpace(pgErr.ConstraintName))

	switch c {
	case "uq_users_email":
		return "email", true
	case "uq_users_username":
		return "username", true
	default:
		switch {
		case strings.Contains(c, "email"):
			return "email", true
		case strings.Contains(c, "username"):
			return "username", true
		default:
			return "unique", true
		}
	}
}
