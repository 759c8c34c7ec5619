package service

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims carried by bearer credentials.
// UserID falls back to the subject when the issuer does not set it.
type Claims struct {
	UserID string `json:"userId,omitempty"`
	Type   string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// TokenService verifies bearer credentials issued for storefront users.
type TokenService interface {
	// GenerateToken creates an access token for the user.
	GenerateToken(userID string) (string, error)

	// ValidateToken checks the validity of a token string and returns its claims.
	ValidateToken(tokenString string) (*Claims, error)
}
