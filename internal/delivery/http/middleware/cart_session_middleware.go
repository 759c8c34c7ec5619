package middleware

import (
	"log/slog"

	"github.com/lsegpor/Forniture4U-sub000/config"
	deliverycontext "github.com/lsegpor/Forniture4U-sub000/internal/delivery/context"
	"github.com/lsegpor/Forniture4U-sub000/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CartSessionMiddleware binds each request to the cart store of its client.
type CartSessionMiddleware struct {
	header   string
	sessions usecase.CartSessionUsecase
	logger   *slog.Logger
}

// CartSessionMiddlewareParams holds dependencies for CartSessionMiddleware, injected by Fx.
type CartSessionMiddlewareParams struct {
	fx.In

	Config   *config.Config `optional:"true"`
	Sessions usecase.CartSessionUsecase
	Logger   *slog.Logger
}

// NewCartSessionMiddleware is the constructor for CartSessionMiddleware.
func NewCartSessionMiddleware(params CartSessionMiddlewareParams) *CartSessionMiddleware {
	return &CartSessionMiddleware{
		header:   SessionHeader(params.Config),
		sessions: params.Sessions,
		logger:   params.Logger,
	}
}

// SessionHeader is the configured cart session header, X-Cart-Session by default.
func SessionHeader(cfg *config.Config) string {
	if cfg == nil || cfg.Sessions == nil || cfg.Sessions.Header == "" {
		return deliverycontext.HeaderXCartSession
	}

	return cfg.Sessions.Header
}

// Resolve opens the session named by the session header, starting one when
// the header is missing, and echoes the session ID back.
func (m *CartSessionMiddleware) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		requested := c.Request().Header.Get(m.header)

		session, err := m.sessions.Open(ctx, requested)
		if err != nil {
			return err
		}
		if session.ID != requested {
			deliverycontext.GetLoggerOrDefault(ctx, m.logger).Debug("Started cart session",
				slog.String("cart_session", session.ID),
			)
		}

		c.Response().Header().Set(m.header, session.ID)
		deliverycontext.SetCartSession(c, session)

		reqLogger := deliverycontext.GetLoggerOrDefault(ctx, m.logger).With(slog.String("cart_session", session.ID))
		c.SetRequest(c.Request().WithContext(deliverycontext.WithLogger(ctx, reqLogger)))

		return next(c)
	}
}

// GetCartSession returns the session resolved for the request.
func GetCartSession(c echo.Context) (*usecase.CartSession, bool) {
	session, ok := deliverycontext.GetCartSession(c).(*usecase.CartSession)

	return session, ok
}
