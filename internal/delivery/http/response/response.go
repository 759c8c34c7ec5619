// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"net/http"

	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"

	"github.com/labstack/echo/v4"
)

// Response is the envelope: data on success, error on failure, never both.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// StockShortfall is the error data of STOCK_INSUFFICIENT, enough for the UI
// to name what ran short and offer the quantity that still fits.
type StockShortfall struct {
	ProductName string `json:"productName"`
	ComponentID string `json:"componentId,omitempty"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
	Shortfall   int    `json:"shortfall"`
}

func write(c echo.Context, status int, body Response) error {
	body.Code = status
	if body.Message == "" {
		body.Message = http.StatusText(status)
	}

	return c.JSON(status, body)
}

func Success(c echo.Context, status int, data any, message string) error {
	if message == "" {
		message = "Success"
	}

	return write(c, status, Response{Success: true, Message: message, Data: data})
}

// Error writes a failure. Details never leave the process on 5xx.
func Error(c echo.Context, status int, errorCode, message, details string) error {
	if status >= http.StatusInternalServerError {
		details = ""
	}

	return write(c, status, Response{
		Message: message,
		Error:   &ErrorInfo{Code: errorCode, Details: details},
	})
}

func StockInsufficient(c echo.Context, stockErr *domainerrors.StockInsufficientError) error {
	return write(c, stockErr.HTTPCode(), Response{
		Message: stockErr.Message(),
		Error: &ErrorInfo{
			Code:    stockErr.ErrorCode(),
			Details: stockErr.Details(),
			Data: StockShortfall{
				ProductName: stockErr.ProductName,
				ComponentID: stockErr.ComponentID,
				Requested:   stockErr.Requested,
				Available:   stockErr.Available,
				Shortfall:   stockErr.Shortfall(),
			},
		},
	})
}

func BadRequest(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, "")
}

func BadRequestWithDetails(c echo.Context, errorCode, message, details string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, details)
}

// BindingError reports a body or path that could not be decoded.
func BindingError(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, "")
}

func Unauthorized(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusUnauthorized, errorCode, message, "")
}

func InternalServerError(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, "")
}

// HandleAppError writes domain errors; anything else is returned for the error handler.
func HandleAppError(c echo.Context, err error) error {
	var stockErr *domainerrors.StockInsufficientError
	if errors.As(err, &stockErr) {
		return StockInsufficient(c, stockErr)
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
