package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/yaduvivaah/agent-portal-api/internal/auth"
	"github.com/yaduvivaah/agent-portal-api/internal/session"
)

type contextKey struct{}

var sessionKey = contextKey{}

// RequestSession is the authenticated session attached to a request context.
type RequestSession struct {
	SessionID     string
	IdentityToken string
}

// RequireAuth validates the bearer token and checks the session is still
// live; logged-out tokens are rejected even before they expire.
func RequireAuth(tokens auth.TokenIssuer, sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or malformed authorization header"})
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired session token"})
				return
			}

			if sessions.Lookup(claims.ID) == nil {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "session has been logged out, please log in again"})
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, RequestSession{
				SessionID:     claims.ID,
				IdentityToken: claims.IdentityToken,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the authenticated session attached by
// RequireAuth.
func SessionFromContext(ctx context.Context) (RequestSession, bool) {
	s, ok := ctx.Value(sessionKey).(RequestSession)
	return s, ok
}
