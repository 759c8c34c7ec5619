// Package middleware contains the echo middleware of the storefront API.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	deliverycontext "github.com/lsegpor/Forniture4U-sub000/internal/delivery/context"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/response"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"

	"github.com/labstack/echo/v4"
)

// Codes for errors raised by echo itself rather than by a handler.
var echoErrorCodes = map[int]string{
	http.StatusNotFound:              "ROUTE_NOT_FOUND",
	http.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	http.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	http.StatusUnsupportedMediaType:  "UNSUPPORTED_MEDIA_TYPE",
}

// ErrorMiddleware is the echo HTTPErrorHandler. Every error leaves as the
// response envelope; server-side failures are logged with their stack.
type ErrorMiddleware struct {
	logger *slog.Logger
}

func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			m.logFailure(c, err, appErr.ErrorCode())
		}
		_ = response.HandleAppError(c, err)

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code, ok := echoErrorCodes[httpErr.Code]
		if !ok {
			code = "HTTP_ERROR"
		}
		message, _ := httpErr.Message.(string)
		_ = response.Error(c, httpErr.Code, code, message, "")

		return
	}

	m.logFailure(c, err, "INTERNAL_ERROR")
	_ = response.InternalServerError(c, "INTERNAL_ERROR", "Internal server error, please try again later")
}

func (m *ErrorMiddleware) logFailure(c echo.Context, err error, code string) {
	req := c.Request()
	deliverycontext.GetLoggerOrDefault(req.Context(), m.logger).Error("Request failed",
		slog.String("error_code", code),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("error", fmt.Sprintf("%+v", err)),
	)
}
