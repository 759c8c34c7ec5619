package middleware

import (
	"log/slog"

	deliverycontext "github.com/lsegpor/Forniture4U-sub000/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxRequestIDLength bounds ids accepted from clients before they reach logs and event attributes.
const maxRequestIDLength = 128

// RequestIDMiddleware tags each request with an id and a logger bound to it.
type RequestIDMiddleware struct {
	logger *slog.Logger
	newID  func() string
}

func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Process keeps a usable X-Request-Id from the client, otherwise mints one.
// The id is echoed back and stored on both the echo and the request context.
func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(deliverycontext.HeaderXRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = m.newID()
		}

		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)
		deliverycontext.SetRequestID(c, requestID)

		req := c.Request()
		ctx := deliverycontext.WithRequestID(req.Context(), requestID)
		ctx = deliverycontext.WithLogger(ctx, m.logger.With(slog.String("request_id", requestID)))
		c.SetRequest(req.WithContext(ctx))

		return next(c)
	}
}
