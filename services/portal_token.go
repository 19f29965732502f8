package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/assistec/assistec-api/config"
	"github.com/assistec/assistec-api/middleware"
)

// PortalTokenService issues signed self-service portal tokens. A token is
// scoped to one client and only grants read access to that client's tickets.
type PortalTokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewPortalTokenService creates a portal token service from configuration.
// PORTAL_TOKEN_TTL accepts Go duration syntax; the default keeps links valid
// for 30 days.
func NewPortalTokenService(cfg *config.Config) (*PortalTokenService, error) {
	if cfg.PortalTokenSecret == "" {
		return nil, fmt.Errorf("PORTAL_TOKEN_SECRET is required to issue portal tokens")
	}

	ttl, err := time.ParseDuration(cfg.PortalTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid PORTAL_TOKEN_TTL: %w", err)
	}

	return &PortalTokenService{
		secret: []byte(cfg.PortalTokenSecret),
		ttl:    ttl,
	}, nil
}

// IssueToken creates a signed HS256 token scoped to the given client
func (s *PortalTokenService) IssueToken(clientID uint) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := middleware.PortalClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "assistec-api",
			Subject:   fmt.Sprintf("client:%d", clientID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign portal token: %w", err)
	}

	return signed, expiresAt, nil
}
