package pincode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestResolve(t *testing.T) {
	t.Run("first post office of the first entry wins", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/pincode/560001", r.URL.Path)
			_, _ = w.Write([]byte(`[{
				"Status": "Success",
				"PostOffice": [
					{"Region": "Bangalore HQ", "District": "Bangalore", "State": "Karnataka"},
					{"Region": "Other", "District": "Other", "State": "Other"}
				]
			}]`))
		})

		addr, err := client.Resolve(context.Background(), "560001")
		require.NoError(t, err)
		assert.Equal(t, "Bangalore HQ", addr.Region)
		assert.Equal(t, "Bangalore", addr.District)
		assert.Equal(t, "Karnataka", addr.State)
	})

	t.Run("rejects malformed codes without calling the service", func(t *testing.T) {
		called := false
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		for _, code := range []string{"", "12345", "1234567", "56000a"} {
			_, err := client.Resolve(context.Background(), code)
			require.Error(t, err, "code %q", code)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		}
		assert.False(t, called)
	})

	t.Run("unknown pincode surfaces a validation error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"Status": "Error", "PostOffice": null}]`))
		})

		_, err := client.Resolve(context.Background(), "999999")
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("success status with no post offices is still invalid", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"Status": "Success", "PostOffice": []}]`))
		})

		_, err := client.Resolve(context.Background(), "560001")
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("non-200 responses surface as transport errors", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.Resolve(context.Background(), "560001")
		require.Error(t, err)
		assert.Equal(t, apperror.KindTransport, apperror.KindOf(err))
	})
}
