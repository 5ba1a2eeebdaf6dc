package verification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
	"github.com/yaduvivaah/agent-portal-api/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.VerificationConfig{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		CountryCode: "91",
	})
}

func apiErrorBody(message string) map[string]any {
	return map[string]any{"error": map[string]any{"message": message}}
}

func TestRequestChallenge(t *testing.T) {
	t.Run("sends the normalized phone and returns the session handle", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/accounts:sendVerificationCode", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))

			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "+919876543210", req["phoneNumber"])

			_ = json.NewEncoder(w).Encode(map[string]string{"sessionInfo": "handle-1"})
		})

		handle, err := client.RequestChallenge(context.Background(), "9876543210")
		require.NoError(t, err)
		assert.Equal(t, "handle-1", handle)
	})

	t.Run("rejects a malformed phone without calling the service", func(t *testing.T) {
		called := false
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := client.RequestChallenge(context.Background(), "12345")
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		assert.False(t, called)
	})

	t.Run("empty session handle is a transport error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{})
		})

		_, err := client.RequestChallenge(context.Background(), "9876543210")
		require.Error(t, err)
		assert.Equal(t, apperror.KindTransport, apperror.KindOf(err))
	})

	t.Run("quota errors surface as transport", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(apiErrorBody("QUOTA_EXCEEDED"))
		})

		_, err := client.RequestChallenge(context.Background(), "9876543210")
		require.Error(t, err)
		assert.Equal(t, apperror.KindTransport, apperror.KindOf(err))
	})
}

func TestConfirmChallenge(t *testing.T) {
	t.Run("returns the verified identity", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/accounts:verifyPhoneNumber", r.URL.Path)

			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "handle-1", req["sessionInfo"])
			assert.Equal(t, "123456", req["code"])

			_ = json.NewEncoder(w).Encode(map[string]string{
				"localId":     "uid-1",
				"phoneNumber": "+919876543210",
			})
		})

		identity, err := client.ConfirmChallenge(context.Background(), "handle-1", "123456")
		require.NoError(t, err)
		assert.Equal(t, "uid-1", identity.Token)
		assert.Equal(t, "+919876543210", identity.PhoneNumber)
	})

	t.Run("maps service error codes onto error kinds", func(t *testing.T) {
		cases := []struct {
			message string
			kind    apperror.Kind
		}{
			{"INVALID_CODE", apperror.KindVerification},
			{"SESSION_EXPIRED", apperror.KindChallengeExpired},
			{"CODE_EXPIRED", apperror.KindChallengeExpired},
			{"INVALID_SESSION_INFO", apperror.KindChallengeExpired},
			{"INVALID_PHONE_NUMBER", apperror.KindValidation},
			{"TOO_MANY_ATTEMPTS_TRY_LATER", apperror.KindTransport},
			{"SOMETHING_ELSE", apperror.KindTransport},
		}

		for _, tc := range cases {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(apiErrorBody(tc.message))
			})

			_, err := client.ConfirmChallenge(context.Background(), "handle-1", "000000")
			require.Error(t, err, "message %s", tc.message)
			assert.Equal(t, tc.kind, apperror.KindOf(err), "message %s", tc.message)
		}
	})

	t.Run("empty identity is a transport error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"phoneNumber": "+919876543210"})
		})

		_, err := client.ConfirmChallenge(context.Background(), "handle-1", "123456")
		require.Error(t, err)
		assert.Equal(t, apperror.KindTransport, apperror.KindOf(err))
	})
}
