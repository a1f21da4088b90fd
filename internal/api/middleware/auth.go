package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rohits-web03/evently/internal/api/services"
	"github.com/rohits-web03/evently/internal/logging"
	"github.com/rohits-web03/evently/internal/utils"
)

type contextKey string

const UserIDKey contextKey = "userID"

// SessionCookie carries the bearer token for browser clients.
const SessionCookie = "token"

// ActiveChecker reports whether a user account is still active.
type ActiveChecker interface {
	IsActive(ctx context.Context, id uint) (bool, error)
}

// UserIDFromContext returns the authenticated user id set by Authenticator.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok && id != 0
}

// WithUserID stores id the way Authenticator does.
func WithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

type Authenticator struct {
	tokens *services.TokenIssuer
	users  ActiveChecker
	log    logging.Logger
}

func NewAuthenticator(tokens *services.TokenIssuer, users ActiveChecker, log logging.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, log: log}
}

// bearerToken reads the Authorization header, falling back to the login cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, found := strings.Cut(h, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// Require rejects requests without a valid token for an active user.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		raw := bearerToken(r)
		if raw == "" {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		claims, err := a.tokens.Parse(raw)
		if err != nil {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		active, err := a.users.IsActive(r.Context(), claims.UserID)
		if err != nil {
			a.log.Error(r.Context(), "auth user lookup", "user_id", claims.UserID, "error", err)
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !active {
			utils.Error(w, http.StatusUnauthorized, "Account is no longer active")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
	})
}
