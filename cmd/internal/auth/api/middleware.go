package authapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"agrigate/cmd/identity"
	"agrigate/cmd/internal/auth/token"
)

type ctxKey int

const userCtxKey ctxKey = iota

// withUser returns a child context carrying the authenticated user.
func withUser(ctx context.Context, u identity.User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

// UserFromContext returns the user attached by RequireUser.
// Downstream handlers must obtain identity exclusively through this; they
// never trust client-supplied identifiers.
func UserFromContext(ctx context.Context) (identity.User, bool) {
	u, ok := ctx.Value(userCtxKey).(identity.User)
	return u, ok
}

// RequireUser is the authorization gate. It extracts the bearer token,
// validates signature and expiry, resolves the subject to a live user
// record, and injects that record into the request context. Any failure
// rejects the request before it reaches next.
func (h *Handler) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "Token is missing")
			return
		}

		subject, err := h.tokens.Verify(raw)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				writeError(w, http.StatusUnauthorized, "Token has expired")
				return
			}
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		u, err := h.store.GetUserByID(r.Context(), subject)
		if err != nil {
			if identity.IsNotFound(err) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			h.log.Error("auth.gate.lookup.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u)))
	})
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
