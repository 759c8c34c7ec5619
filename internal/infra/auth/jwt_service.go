// Package auth verifies bearer credentials and keeps per-session identities.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lsegpor/Forniture4U-sub000/config"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/service"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
)

const (
	tokenTypeAccess = "access"
	accessTTL       = 24 * time.Hour
)

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt access secret must be provided")
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey.Access),
		ttl:    accessTTL,
		now:    time.Now,
	}, nil
}

// GenerateToken creates an access token for the user.
func (s *jwtService) GenerateToken(userID string) (string, error) {
	if userID == "" {
		return "", errors.WithStack(domainerrors.ErrInvalidIdentity.WithDetails("user id is required"))
	}

	now := s.now()
	claims := &service.Claims{
		UserID: userID,
		Type:   tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// ValidateToken checks the signature and expiry of the token and returns its claims.
// Expired tokens map to ErrSessionExpired, anything else to ErrInvalidCredentials.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.WithStack(domainerrors.ErrSessionExpired.WithDetails("token expired"))
		}

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials.WithDetails(err.Error()))
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials.WithDetails("token has no user id"))
	}

	return claims, nil
}
