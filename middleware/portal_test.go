package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/assistec/assistec-api/config"
)

const portalTestSecret = "portal-test-secret"

func mintPortalToken(t *testing.T, clientID uint, secret string, expiresAt time.Time) string {
	claims := &PortalClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "assistec-api",
			Subject:   "client:1",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign portal token: %v", err)
	}
	return token
}

func buildPortalRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{GoEnv: "test", PortalTokenSecret: portalTestSecret}

	router := gin.New()
	router.GET("/portal/tickets", EnsurePortalToken(cfg), func(c *gin.Context) {
		clientID, err := GetPortalClientID(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"client_id": clientID}})
	})
	return router
}

func TestEnsurePortalToken(t *testing.T) {
	router := buildPortalRouter()

	doRequest := func(authHeader string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/portal/tickets", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("accepts a valid token and scopes the request", func(t *testing.T) {
		token := mintPortalToken(t, 7, portalTestSecret, time.Now().Add(time.Hour))
		w := doRequest("Bearer " + token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"client_id":7`)
	})

	t.Run("rejects a missing token", func(t *testing.T) {
		w := doRequest("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "MISSING_TOKEN")
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		token := mintPortalToken(t, 7, "wrong-secret", time.Now().Add(time.Hour))
		w := doRequest("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_PORTAL_TOKEN")
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		token := mintPortalToken(t, 7, portalTestSecret, time.Now().Add(-time.Hour))
		w := doRequest("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a token without a client scope", func(t *testing.T) {
		token := mintPortalToken(t, 0, portalTestSecret, time.Now().Add(time.Hour))
		w := doRequest("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a token with the wrong issuer", func(t *testing.T) {
		claims := &PortalClaims{
			ClientID: 7,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(portalTestSecret))
		assert.NoError(t, err)

		w := doRequest("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetPortalClientID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("fails outside the portal middleware", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		_, err := GetPortalClientID(c)
		assert.Error(t, err)
		authErr := err.(*AuthError)
		assert.Equal(t, "MISSING_CLIENT_SCOPE", authErr.Code)
	})
}
