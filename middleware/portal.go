package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/assistec/assistec-api/config"
)

// PortalClaims are the claims embedded in client self-service portal tokens.
// Portal tokens are issued by an admin for one client and grant read-only
// access to that client's tickets.
type PortalClaims struct {
	ClientID uint `json:"client_id"`
	jwt.RegisteredClaims
}

// EnsurePortalToken validates the HS256 portal token and stores the client
// scope in the Gin context. Portal requests never carry an Auth0 JWT.
func EnsurePortalToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := GetAccessToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_TOKEN",
					"message": "Portal token not provided",
				},
			})
			c.Abort()
			return
		}

		claims := &PortalClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.PortalTokenSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer("assistec-api"))

		if err != nil || !token.Valid || claims.ClientID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_PORTAL_TOKEN",
					"message": "Portal token is invalid or expired",
				},
			})
			c.Abort()
			return
		}

		c.Set("portal_client_id", claims.ClientID)
		c.Next()
	}
}

// GetPortalClientID extracts the client scope set by EnsurePortalToken
func GetPortalClientID(c *gin.Context) (uint, error) {
	clientID, exists := c.Get("portal_client_id")
	if !exists {
		return 0, &AuthError{Code: "MISSING_CLIENT_SCOPE", Message: "Portal client scope not found in context"}
	}

	id, ok := clientID.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_CLIENT_SCOPE", Message: "Portal client scope is not valid"}
	}

	return id, nil
}
