package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaduvivaah/agent-portal-api/internal/auth"
	"github.com/yaduvivaah/agent-portal-api/internal/config"
	"github.com/yaduvivaah/agent-portal-api/internal/model"
	"github.com/yaduvivaah/agent-portal-api/internal/session"
)

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokenIssuer(config.SessionConfig{
		TokenSecret:    "test-secret",
		TokenExpiresIn: time.Hour,
		Issuer:         "agent-portal",
	})
	sessions := session.NewManager()

	var captured RequestSession
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := RequireAuth(tokens, sessions)(next)

	issue := func(t *testing.T) (token, sessionID string) {
		t.Helper()
		token, sessionID, err := tokens.Issue("uid-1")
		require.NoError(t, err)
		return token, sessionID
	}

	t.Run("passes a live session through", func(t *testing.T) {
		token, sessionID := issue(t)
		sessions.Establish(sessionID, "uid-1", &model.Agent{IdentityToken: "uid-1"})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, sessionID, captured.SessionID)
		assert.Equal(t, "uid-1", captured.IdentityToken)
	})

	t.Run("rejects a missing authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a non-bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a valid token after logout", func(t *testing.T) {
		token, sessionID := issue(t)
		sessions.Establish(sessionID, "uid-1", &model.Agent{IdentityToken: "uid-1"})
		sessions.Destroy(sessionID)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
