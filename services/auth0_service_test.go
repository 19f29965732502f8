package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/assistec/assistec-api/config"
)

func TestGetUserInfo(t *testing.T) {
	t.Run("decodes a successful response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/userinfo", r.URL.Path)
			assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(Auth0UserInfo{
				Sub:   "auth0|abc123",
				Email: "tech@assistec.test",
				Name:  "Tech User",
			})
		}))
		defer server.Close()

		svc := NewAuth0Service(&config.Config{Auth0Domain: server.URL})
		info, err := svc.GetUserInfo("good-token")
		assert.NoError(t, err)
		assert.Equal(t, "auth0|abc123", info.Sub)
		assert.Equal(t, "tech@assistec.test", info.Email)
	})

	t.Run("propagates non-200 responses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		svc := NewAuth0Service(&config.Config{Auth0Domain: server.URL})
		_, err := svc.GetUserInfo("expired-token")
		assert.Error(t, err)
	})
}
