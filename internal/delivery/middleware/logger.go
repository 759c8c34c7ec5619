package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lsegpor/Forniture4U-sub000/config"
	deliverycontext "github.com/lsegpor/Forniture4U-sub000/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// LoggerMiddleware writes an access line per request. It is silent unless env.debug is set.
type LoggerMiddleware struct {
	logger  *slog.Logger
	enabled bool
}

func NewLoggerMiddleware(logger *slog.Logger, cfg *config.Config) *LoggerMiddleware {
	return &LoggerMiddleware{
		logger:  logger,
		enabled: cfg != nil && cfg.Env.Debug,
	}
}

func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	if !m.enabled {
		return next
	}

	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		m.access(c, time.Since(start), err)

		return err
	}
}

func (m *LoggerMiddleware) access(c echo.Context, latency time.Duration, err error) {
	req := c.Request()
	status := c.Response().Status

	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("route", c.Path()),
		slog.String("uri", req.URL.RequestURI()),
		slog.Int("status", status),
		slog.Duration("latency", latency),
		slog.String("remote_ip", c.RealIP()),
	}
	if session := c.Response().Header().Get(deliverycontext.HeaderXCartSession); session != "" {
		attrs = append(attrs, slog.String("cart_session", session))
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}

	ctx := req.Context()
	deliverycontext.GetLoggerOrDefault(ctx, m.logger).LogAttrs(ctx, accessLevel(status), "Request served", attrs...)
}

func accessLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
