package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/danuarta/cafe-order-api/internal/auth"
	"github.com/danuarta/cafe-order-api/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthConfig holds the credentials the admin gate verifies against.
// Password is the shared admin secret; PasswordHash, when set, is a bcrypt
// hash checked instead of the plain comparison. Issuer verifies session
// tokens minted by the login endpoint.
type AdminAuthConfig struct {
	Password     string
	PasswordHash string
	Issuer       *auth.TokenIssuer
}

// AdminAuth gates admin-mutating routes behind a bearer token. The token is
// accepted when it matches the shared admin secret or verifies as an admin
// session JWT. Every failure yields the same uniform 401 envelope.
func AdminAuth(cfg AdminAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondUnauthorized(c, "Missing Authorization header. A valid Bearer token is required.")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondUnauthorized(c, "Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			respondUnauthorized(c, "Bearer token is empty")
			return
		}

		if cfg.matchesSecret(token) {
			c.Set("authType", "shared-secret")
			c.Next()
			return
		}

		if cfg.Issuer != nil && cfg.Issuer.VerifyAdminToken(token) == nil {
			c.Set("authType", "session-token")
			c.Next()
			return
		}

		respondUnauthorized(c, "Invalid admin credentials")
	}
}

// matchesSecret compares the presented token to the configured secret.
// With a bcrypt hash configured, that takes precedence; otherwise a
// constant-time comparison against the plain secret.
func (cfg AdminAuthConfig) matchesSecret(token string) bool {
	if cfg.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(cfg.PasswordHash), []byte(token)) == nil
	}
	if cfg.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cfg.Password), []byte(token)) == 1
}

func respondUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, models.ErrorResponse(message))
	c.Abort()
}
