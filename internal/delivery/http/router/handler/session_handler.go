package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "github.com/lsegpor/Forniture4U-sub000/internal/delivery/context"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/middleware"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/response"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SessionHandlerParams holds dependencies for SessionHandler, injected by Fx.
type SessionHandlerParams struct {
	fx.In

	Logger *slog.Logger
}

// SessionHandler switches the client's cart between identities.
type SessionHandler struct {
	logger *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler
func NewSessionHandler(params SessionHandlerParams) *SessionHandler {
	return &SessionHandler{logger: params.Logger}
}

// Login binds the bearer credential to the session and merges the anonymous cart.
func (h *SessionHandler) Login(c echo.Context) error {
	return h.signIn(c, false)
}

// Register binds a newly created account and moves the anonymous cart to it.
func (h *SessionHandler) Register(c echo.Context) error {
	return h.signIn(c, true)
}

func (h *SessionHandler) signIn(c echo.Context, register bool) error {
	ctx := c.Request().Context()

	session, ok := middleware.GetCartSession(c)
	if !ok {
		return response.InternalServerError(c, "SESSION_MISSING", "Cart session not resolved")
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	previousIdentity, _ := session.Credentials.CurrentIdentity(ctx)
	previousCredential, _ := session.Credentials.Credential(ctx)
	session.Credentials.Bind(identity, middleware.GetCredential(c))

	var cart *entity.Cart
	var err error
	if register {
		cart, err = session.Cart.Register(ctx, identity)
	} else {
		cart, err = session.Cart.Login(ctx, identity)
	}
	if err != nil {
		session.Credentials.Bind(previousIdentity, previousCredential)

		return response.HandleAppError(c, err)
	}

	deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("Cart session signed in",
		slog.String("user_id", identity.UserID()),
		slog.Bool("register", register),
	)

	return response.Success(c, http.StatusOK, newCartResponse(cart), "Signed in")
}

// Logout keeps the user's cart and returns the session to its anonymous cart.
func (h *SessionHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	session, ok := middleware.GetCartSession(c)
	if !ok {
		return response.InternalServerError(c, "SESSION_MISSING", "Cart session not resolved")
	}

	cart, err := session.Cart.Logout(ctx)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	if err := session.Credentials.Revoke(ctx); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("Failed to revoke credential", slog.Any("error", err))
	}

	return response.Success(c, http.StatusOK, newCartResponse(cart), "Signed out")
}
