package middleware

import (
	"strings"

	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/response"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/service"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"

	"github.com/labstack/echo/v4"
)

const (
	keyIdentity   = "identity"
	keyCredential = "credential"
)

// AuthMiddleware verifies bearer credentials issued by the account service.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the Authorization header and stores the identity it names.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			return response.Unauthorized(c, "INVALID_TOKEN_FORMAT", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, domainerrors.ErrSessionExpired) {
				return response.Unauthorized(c, domainerrors.ErrSessionExpired.ErrorCode(), domainerrors.ErrSessionExpired.Message())
			}

			return response.Unauthorized(c, domainerrors.ErrInvalidCredentials.ErrorCode(), domainerrors.ErrInvalidCredentials.Message())
		}

		c.Set(keyIdentity, entity.Authenticated(claims.UserID))
		c.Set(keyCredential, tokenString)

		return next(c)
	}
}

// GetIdentity returns the identity stored by Authenticate.
func GetIdentity(c echo.Context) (entity.Identity, bool) {
	identity, ok := c.Get(keyIdentity).(entity.Identity)

	return identity, ok && !identity.IsAnonymous()
}

// GetCredential returns the bearer token stored by Authenticate.
func GetCredential(c echo.Context) string {
	credential, _ := c.Get(keyCredential).(string)

	return credential
}
