package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/response"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMiddleware_HandleHTTPError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantDetails string
	}{
		{
			name:        "app error keeps details",
			err:         errors.WithStack(domainerrors.ErrItemNotInCart.WithDetails("component:C1")),
			wantStatus:  http.StatusNotFound,
			wantCode:    "ITEM_NOT_IN_CART",
			wantDetails: "component:C1",
		},
		{
			name:       "server side app error hides details",
			err:        errors.WithStack(domainerrors.ErrCartPersistFailed.WithDetails("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "CART_PERSIST_FAILED",
		},
		{
			name:        "stock error",
			err:         errors.WithStack(domainerrors.NewStockInsufficientError("Oak leg", "X", 8, 5)),
			wantStatus:  http.StatusConflict,
			wantCode:    "STOCK_INSUFFICIENT",
			wantDetails: "requested 8, available 5, missing 3",
		},
		{
			name:       "echo error",
			err:        echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "METHOD_NOT_ALLOWED",
		},
		{
			name:       "body too large",
			err:        echo.ErrStatusRequestEntityTooLarge,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "PAYLOAD_TOO_LARGE",
		},
		{
			name:       "other echo error",
			err:        echo.NewHTTPError(http.StatusTooManyRequests),
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "HTTP_ERROR",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/cart", nil), rec)

			m.HandleHTTPError(tt.err, c)

			var body response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantStatus, body.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantDetails, body.Error.Details)
		})
	}
}
