// Package auth issues and verifies admin session tokens. The login endpoint
// exchanges the shared admin password for a short-lived JWT so dashboards do
// not have to hold the raw secret; the raw secret itself also remains valid
// as a bearer token.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an admin session token stays valid
const DefaultTokenTTL = 12 * time.Hour

// TokenIssuer mints and verifies HMAC-signed admin session tokens
type TokenIssuer struct {
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
	TTL          time.Duration
}

// NewTokenIssuer creates a token issuer with HS256 signing and the default TTL
func NewTokenIssuer(key []byte) *TokenIssuer {
	return &TokenIssuer{
		SignedKey:    key,
		SignedMethod: jwt.SigningMethodHS256,
		TTL:          DefaultTokenTTL,
	}
}

// IssueAdminToken generates a signed session token carrying the admin role
func (g *TokenIssuer) IssueAdminToken() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(g.TTL).Unix(),
	}
	token := jwt.NewWithClaims(g.SignedMethod, claims)
	return token.SignedString(g.SignedKey)
}

// VerifyAdminToken parses the token and checks signature, expiry and role
func (g *TokenIssuer) VerifyAdminToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Reject anything but HMAC to prevent algorithm confusion attacks
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.SignedKey, nil
	})
	if err != nil {
		return fmt.Errorf("token parsing failed: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("invalid token claims format")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp == nil || exp.Before(time.Now()) {
		return fmt.Errorf("token has expired")
	}

	role, ok := claims["role"].(string)
	if !ok || role != "admin" {
		return fmt.Errorf("token missing admin role")
	}
	return nil
}
