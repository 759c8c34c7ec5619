// Package context carries per-request values between the echo middlewares and
// the layers below them: the request id, a logger bound to it and the client's
// cart session.
package context

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
)

// Headers exchanged with clients.
const (
	HeaderXRequestID   = "X-Request-Id"
	HeaderXCartSession = "X-Cart-Session"
)

type (
	requestIDKey struct{}
	loggerKey    struct{}
)

// echo.Context store keys.
const (
	echoKeyRequestID   = "request_id"
	echoKeyCartSession = "cart_session"
)

// WithRequestID returns ctx carrying the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestIDFromContext returns the request id, or "" outside a request.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)

	return id
}

// WithLogger returns ctx carrying a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLoggerOrDefault returns the request-scoped logger, or fallback when ctx has none.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

// SetRequestID records the request id on the echo context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(echoKeyRequestID, requestID)
}

// GetRequestID returns the id set by SetRequestID, falling back to the request context.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(echoKeyRequestID).(string); ok && id != "" {
		return id
	}

	return GetRequestIDFromContext(c.Request().Context())
}

// SetCartSession records the resolved cart session on the echo context.
func SetCartSession(c echo.Context, session any) {
	c.Set(echoKeyCartSession, session)
}

// GetCartSession returns the value stored by SetCartSession, or nil.
func GetCartSession(c echo.Context) any {
	return c.Get(echoKeyCartSession)
}
