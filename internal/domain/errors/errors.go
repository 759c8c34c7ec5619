package errors

import (
	"fmt"
	"net/http"

	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details == "" {
		return e.message
	}

	return e.message + ": " + e.details
}

// Is matches any BaseError carrying the same business code, so copies made by
// WithDetails still satisfy errors.Is against the predefined values.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode is the response status.
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

func (e *BaseError) Message() string {
	return e.message
}

func (e *BaseError) Details() string {
	return e.details
}

// WithDetails copies the error with new details.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

var (
	// Cart errors
	ErrEmptyCart = NewBaseError(
		http.StatusBadRequest,
		"CART_EMPTY",
		"The cart is empty",
		"",
	)

	ErrItemNotInCart = NewBaseError(
		http.StatusNotFound,
		"ITEM_NOT_IN_CART",
		"The product is not in the cart",
		"",
	)

	ErrInvalidProduct = NewBaseError(
		http.StatusBadRequest,
		"INVALID_PRODUCT",
		"Invalid product",
		"",
	)

	ErrInvalidQuantity = NewBaseError(
		http.StatusBadRequest,
		"INVALID_QUANTITY",
		"Invalid quantity",
		"",
	)

	// Identity errors
	ErrAuthenticationRequired = NewBaseError(
		http.StatusUnauthorized,
		"AUTHENTICATION_REQUIRED",
		"You must sign in to place an order",
		"",
	)

	ErrSessionExpired = NewBaseError(
		http.StatusUnauthorized,
		"SESSION_EXPIRED",
		"Your session has expired, please sign in again",
		"",
	)

	ErrInvalidIdentity = NewBaseError(
		http.StatusBadRequest,
		"INVALID_IDENTITY",
		"Invalid identity",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid or expired credentials",
		"",
	)

	// Remote service errors
	ErrFeatureUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"FEATURE_UNAVAILABLE",
		"Stock verification is not available for this product",
		"",
	)

	ErrStockCheckFailed = NewBaseError(
		http.StatusBadGateway,
		"STOCK_CHECK_FAILED",
		"Could not verify stock",
		"",
	)

	ErrOrderRejected = NewBaseError(
		http.StatusBadGateway,
		"ORDER_REJECTED",
		"The order could not be placed",
		"",
	)

	// Persistence errors
	ErrCartPersistFailed = NewBaseError(
		http.StatusInternalServerError,
		"CART_PERSIST_FAILED",
		"Could not save the cart",
		"",
	)

	// General errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)
)

// StockInsufficientError reports that a product, or one of the components it is
// built from, cannot cover the requested quantity.
type StockInsufficientError struct {
	ProductName string
	ComponentID string
	Requested   int
	Available   int
}

// NewStockInsufficientError creates a stock error for the named product or component
func NewStockInsufficientError(productName, componentID string, requested, available int) *StockInsufficientError {
	return &StockInsufficientError{
		ProductName: productName,
		ComponentID: componentID,
		Requested:   requested,
		Available:   available,
	}
}

// Shortfall is the number of missing units
func (e *StockInsufficientError) Shortfall() int {
	if e.Requested <= e.Available {
		return 0
	}

	return e.Requested - e.Available
}

func (e *StockInsufficientError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

func (e *StockInsufficientError) HTTPCode() int {
	return http.StatusConflict
}

func (e *StockInsufficientError) ErrorCode() string {
	return "STOCK_INSUFFICIENT"
}

func (e *StockInsufficientError) Message() string {
	return fmt.Sprintf("Not enough stock of %s", e.ProductName)
}

func (e *StockInsufficientError) Details() string {
	return fmt.Sprintf("requested %d, available %d, missing %d", e.Requested, e.Available, e.Shortfall())
}

// DatabaseExecuteError wraps a driver failure.
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

func (e *DatabaseExecuteError) Details() string {
	return e.details
}
