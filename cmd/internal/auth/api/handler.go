// Package authapi wires the identity HTTP endpoints: registration, login,
// session verification, and profile/credential mutation.
package authapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"agrigate/cmd/identity"
	"agrigate/cmd/internal/auth/token"
)

// Config controls auth API behavior.
type Config struct {
	// MaxBodyBytes caps request body size for JSON endpoints.
	MaxBodyBytes int64
}

// Handler serves the identity endpoints. It orchestrates the credential
// store, the password hasher, and the token issuer; it owns no state of
// its own between requests.
type Handler struct {
	log    *slog.Logger
	cfg    Config
	store  identity.Store
	tokens *token.Manager
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, store identity.Store, tokens *token.Manager, cfg Config) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	return &Handler{log: log, cfg: cfg, store: store, tokens: tokens}
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/register", h.handleRegister)
	mux.HandleFunc("/login", h.handleLogin)
	mux.Handle("/verify-token", h.RequireUser(http.HandlerFunc(h.handleVerifyToken)))
	mux.Handle("/update-profile", h.RequireUser(http.HandlerFunc(h.handleUpdateProfile)))
	mux.Handle("/change-password", h.RequireUser(http.HandlerFunc(h.handleChangePassword)))
}

// ---- handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := identity.CanonicalEmail(req.Email)
	username := identity.CanonicalUsername(req.Username)
	if email == "" || username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email, username, and password are required")
		return
	}

	// Hash before touching the store; the store never sees plaintext.
	hash, err := identity.HashPassword(req.Password)
	if err != nil {
		if identity.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, "Invalid password")
			return
		}
		h.log.Error("auth.register.hash.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	_, err = h.store.CreateUser(r.Context(), identity.CreateUserInput{
		Email:             email,
		Username:          username,
		PasswordHash:      hash,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PreferredLanguage: req.PreferredLanguage,
		Now:               time.Now().UTC(),
	})
	if err != nil {
		switch {
		case identity.IsConflict(err):
			writeError(w, http.StatusBadRequest, conflictMessage(err))
		case identity.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "Email, username, and password are required")
		default:
			h.log.Error("auth.register.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	// No token is issued here: the password is re-verified on the
	// immediately following login instead of trusting the just-submitted
	// value again.
	writeJSON(w, http.StatusCreated, messageResponse{Message: "User registered successfully"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := identity.CanonicalEmail(req.Email)
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, err := h.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		if identity.IsNotFound(err) {
			// Deliberately generic: never disclose whether the email exists.
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.log.Error("auth.login.lookup.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	ok, err := identity.VerifyPassword(req.Password, u.PasswordHash)
	if err != nil {
		h.log.Error("auth.login.verify.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	signed, _, err := h.tokens.Issue(u.ID, time.Now().UTC())
	if err != nil {
		h.log.Error("auth.login.issue.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		User:  toUserResponse(u),
		Token: signed,
	})
}

func (h *Handler) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	u, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token is missing")
		return
	}

	// Purely reflects the gate's result; no side effects.
	writeJSON(w, http.StatusOK, verifyResponse{Valid: true, User: toUserResponse(u)})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	u, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token is missing")
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	upd := identity.ProfileUpdate{
		Username:          req.Username,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PreferredLanguage: req.PreferredLanguage,
	}
	if upd.Empty() {
		// Success, not error: nothing allow-listed was submitted, so the
		// record (including updated_at) is left untouched.
		writeJSON(w, http.StatusOK, messageResponse{Message: "No changes to update"})
		return
	}

	updated, err := h.store.UpdateProfile(r.Context(), u.ID, upd, time.Now().UTC())
	if err != nil {
		switch {
		case identity.IsConflict(err):
			writeError(w, http.StatusBadRequest, conflictMessage(err))
		default:
			h.log.Error("auth.update_profile.fail", "err", err)
			writeError(w, http.StatusBadRequest, "Could not update profile")
		}
		return
	}

	writeJSON(w, http.StatusOK, updateProfileResponse{
		Message: "Profile updated successfully",
		User:    toUserResponse(updated),
	})
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	u, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token is missing")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.CurrentPassword) == "" || strings.TrimSpace(req.NewPassword) == "" {
		writeError(w, http.StatusBadRequest, "Current password and new password are required")
		return
	}

	// Identity is already established by the gate, so this failure is
	// specific (unlike login's generic credentials message).
	ok, err := identity.VerifyPassword(req.CurrentPassword, u.PasswordHash)
	if err != nil {
		h.log.Error("auth.change_password.verify.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := identity.HashPassword(req.NewPassword)
	if err != nil {
		if identity.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, "Invalid password")
			return
		}
		h.log.Error("auth.change_password.hash.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Previously issued tokens stay valid until their own expiry; the
	// validity window bounds the blast radius of a leaked token.
	if err := h.store.UpdatePassword(r.Context(), u.ID, hash, time.Now().UTC()); err != nil {
		h.log.Error("auth.change_password.fail", "err", err)
		writeError(w, http.StatusBadRequest, "Could not change password")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Password changed successfully"})
}

// conflictMessage maps a storage conflict to the distinguishable
// email-in-use / username-in-use message.
func conflictMessage(err error) string {
	switch identity.ConflictField(err) {
	case "email":
		return "Email already in use"
	case "username":
		return "Username already in use"
	default:
		return "Email or username already in use"
	}
}
