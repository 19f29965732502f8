package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/assistec/assistec-api/config"
	"github.com/assistec/assistec-api/middleware"
)

func TestNewPortalTokenService(t *testing.T) {
	t.Run("requires a secret", func(t *testing.T) {
		_, err := NewPortalTokenService(&config.Config{PortalTokenTTL: "720h"})
		assert.Error(t, err)
	})

	t.Run("rejects a malformed ttl", func(t *testing.T) {
		_, err := NewPortalTokenService(&config.Config{PortalTokenSecret: "s", PortalTokenTTL: "thirty days"})
		assert.Error(t, err)
	})
}

func TestIssueToken(t *testing.T) {
	svc, err := NewPortalTokenService(&config.Config{PortalTokenSecret: "portal-secret", PortalTokenTTL: "720h"})
	assert.NoError(t, err)

	signed, expiresAt, err := svc.IssueToken(42)
	assert.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.WithinDuration(t, time.Now().Add(720*time.Hour), expiresAt, time.Minute)

	claims := &middleware.PortalClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("portal-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer("assistec-api"))
	assert.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, uint(42), claims.ClientID)
	assert.Equal(t, "client:42", claims.Subject)
}
