package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lsegpor/Forniture4U-sub000/config"
	deliverycontext "github.com/lsegpor/Forniture4U-sub000/internal/delivery/context"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/middleware"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/router"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/router/handler"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/service"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/auth"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/metrics"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/persistence/memory"
	mockService "github.com/lsegpor/Forniture4U-sub000/internal/mocks/service"
	"github.com/lsegpor/Forniture4U-sub000/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Details string         `json:"details"`
		Data    map[string]any `json:"data"`
	} `json:"error"`
}

type testServer struct {
	echo    *echo.Echo
	carts   *memory.CartRepository
	stock   *mockService.MockStockService
	orders  *mockService.MockOrderService
	tokens  service.TokenService
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-secret"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	carts := memory.NewCartRepository()
	stock := mockService.NewMockStockService(t)
	orders := mockService.NewMockOrderService(t)
	sessions := impl.NewCartSessionRegistry(impl.CartSessionRegistryParams{
		Config:         cfg,
		Carts:          carts,
		TxManager:      memory.NewTransactionManager(carts),
		Stock:          stock,
		Orders:         orders,
		NewCredentials: auth.NewCredentialsFactory(),
		Logger:         logger,
	})

	m := metrics.New()
	e := NewEcho(cfg, logger, m)
	router.NewRouter(router.RouterParams{
		CartHandler:    handler.NewCartHandler(handler.CartHandlerParams{Logger: logger}),
		SessionHandler: handler.NewSessionHandler(handler.SessionHandlerParams{Logger: logger}),
		AuthMiddleware: middleware.NewAuthMiddleware(tokens),
		CartSessionMiddleware: middleware.NewCartSessionMiddleware(middleware.CartSessionMiddlewareParams{
			Sessions: sessions,
			Logger:   logger,
		}),
		Metrics: m,
	}).RegisterRoutes(e)

	return &testServer{echo: e, carts: carts, stock: stock, orders: orders, tokens: tokens, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path, session string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if session != "" {
		req.Header.Set(deliverycontext.HeaderXCartSession, session)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func (s *testServer) bearer(t *testing.T, userID string) []string {
	t.Helper()

	token, err := s.tokens.GenerateToken(userID)
	require.NoError(t, err)

	return []string{echo.HeaderAuthorization, "Bearer " + token}
}

func decodeCart(t *testing.T, env envelope) handler.CartResponse {
	t.Helper()

	var cart handler.CartResponse
	require.NoError(t, json.Unmarshal(env.Data, &cart))

	return cart
}

func hinge(stock *int) map[string]any {
	body := map[string]any{
		"productId":   "C1",
		"productType": "component",
		"name":        "Hinge",
		"unitPrice":   2.5,
	}
	if stock != nil {
		body["stock"] = *stock
	}

	return body
}

func TestCartAPI_StartsSessionWhenHeaderMissing(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/cart", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	sessionID := rec.Header().Get(deliverycontext.HeaderXCartSession)
	_, err := uuid.Parse(sessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))

	cart := decodeCart(t, env)
	assert.True(t, env.Success)
	assert.True(t, cart.Identity.Anonymous)
	assert.Equal(t, sessionID+":anon-cart", cart.StorageKey)
	assert.Empty(t, cart.Items)
}

func TestCartAPI_AddUpdateRemove(t *testing.T) {
	s := newTestServer(t)
	session := uuid.NewString()

	rec, env := s.do(t, http.MethodPost, "/cart/items", session, hinge(nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session, rec.Header().Get(deliverycontext.HeaderXCartSession))
	assert.Equal(t, 1, decodeCart(t, env).ItemCount)

	_, env = s.do(t, http.MethodPost, "/cart/items", session, hinge(nil))
	cart := decodeCart(t, env)
	assert.Equal(t, 2, cart.ItemCount)
	assert.InDelta(t, 5.0, cart.Total, 1e-9)

	_, env = s.do(t, http.MethodGet, "/cart/items/component/C1", session, nil)
	assert.JSONEq(t, `{"product":{"productId":"C1","productType":"component"},"inCart":true,"quantity":2}`, string(env.Data))

	_, env = s.do(t, http.MethodPatch, "/cart/items/component/C1", session, map[string]int{"quantity": 5})
	assert.Equal(t, 5, decodeCart(t, env).ItemCount)

	rec, env = s.do(t, http.MethodDelete, "/cart/items/component/C1", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decodeCart(t, env).ItemCount)

	rec, env = s.do(t, http.MethodDelete, "/cart/items/component/C1", session, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "removing a missing line is a no-op")
	assert.Zero(t, decodeCart(t, env).ItemCount)

	rec, env = s.do(t, http.MethodPatch, "/cart/items/component/C1", session, map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ITEM_NOT_IN_CART", env.Error.Code)
}

func TestCartAPI_RejectsInvalidInput(t *testing.T) {
	s := newTestServer(t)
	session := uuid.NewString()

	body := hinge(nil)
	body["productType"] = "sofa"
	rec, env := s.do(t, http.MethodPost, "/cart/items", session, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "productType")

	rec, env = s.do(t, http.MethodPatch, "/cart/items/sofa/C1", session, map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PRODUCT_TYPE", env.Error.Code)

	rec, env = s.do(t, http.MethodPatch, "/cart/items/component/C1", session, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestCartAPI_RejectsOversizedQuantity(t *testing.T) {
	s := newTestServer(t)
	session := uuid.NewString()
	s.stock.EXPECT().BillOfMaterials(mock.Anything, "F1").Return(&entity.BillOfMaterials{
		Furniture:  entity.FurnitureInfo{ID: "F1", Name: "Desk"},
		Components: []entity.BOMComponent{{ID: "X", Name: "Oak leg", UnitPrice: 4, PerUnitQuantity: 3, AvailableStock: 5}},
	}, nil).Once()

	rec, _ := s.do(t, http.MethodPost, "/cart/items", session, hinge(nil))
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/cart/items", session, map[string]any{
		"productId": "F1", "productType": "furniture", "name": "Desk", "unitPrice": 120,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		name     string
		path     string
		quantity int64
	}{
		{name: "component above the limit", path: "/cart/items/component/C1", quantity: entity.MaxLineQuantity + 1},
		{name: "furniture above the limit", path: "/cart/items/furniture/F1", quantity: entity.MaxLineQuantity + 1},
		{name: "furniture product wrapping int", path: "/cart/items/furniture/F1", quantity: math.MaxInt64/3 + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodPatch, tt.path, session, map[string]int64{"quantity": tt.quantity})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		})
	}

	body := hinge(nil)
	body["quantity"] = entity.MaxLineQuantity + 1
	rec, env := s.do(t, http.MethodPost, "/cart/items/validate", session, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	_, env = s.do(t, http.MethodGet, "/cart", session, nil)
	assert.Equal(t, 2, decodeCart(t, env).ItemCount)
}

func TestCartAPI_StockShortfall(t *testing.T) {
	s := newTestServer(t)
	session := uuid.NewString()
	stock := 1

	rec, _ := s.do(t, http.MethodPost, "/cart/items", session, hinge(&stock))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/cart/items/validate", session, hinge(&stock))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "STOCK_INSUFFICIENT", env.Error.Code)

	rec, env = s.do(t, http.MethodPost, "/cart/items", session, hinge(&stock))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "STOCK_INSUFFICIENT", env.Error.Code)
	assert.EqualValues(t, 2, env.Error.Data["requested"])
	assert.EqualValues(t, 1, env.Error.Data["available"])
	assert.EqualValues(t, 1, env.Error.Data["shortfall"])

	_, env = s.do(t, http.MethodGet, "/cart", session, nil)
	assert.Equal(t, 1, decodeCart(t, env).ItemCount)
}

func TestSessionAPI_LoginMergesAnonymousCart(t *testing.T) {
	s := newTestServer(t)
	session := uuid.NewString()

	_, _ = s.do(t, http.MethodPost, "/cart/items", session, hinge(nil))

	rec, env := s.do(t, http.MethodPost, "/session/login", session, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "MISSING_TOKEN", env.Error.Code)

	rec, env = s.do(t, http.MethodPost, "/session/login", session, nil, echo.HeaderAuthorization, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	rec, env = s.do(t, http.MethodPost, "/session/login", session, nil, s.bearer(t, "42")...)
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeCart(t, env)
	assert.False(t, cart.Identity.Anonymous)
	assert.Equal(t, "42", cart.Identity.UserID)
	assert.Equal(t, "cart-42", cart.StorageKey)
	assert.Equal(t, 1, cart.ItemCount)
	assert.ElementsMatch(t, []string{"cart-42"}, s.carts.Keys())

	rec, env = s.do(t, http.MethodPost, "/session/logout", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeCart(t, env).Identity.Anonymous)
	assert.Zero(t, decodeCart(t, env).ItemCount)
}

func TestCheckoutAPI(t *testing.T) {
	t.Run("anonymous cart requires sign in", func(t *testing.T) {
		s := newTestServer(t)
		session := uuid.NewString()
		_, _ = s.do(t, http.MethodPost, "/cart/items", session, hinge(nil))

		rec, env := s.do(t, http.MethodPost, "/checkout", session, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "AUTHENTICATION_REQUIRED", env.Error.Code)
	})

	t.Run("empty cart", func(t *testing.T) {
		s := newTestServer(t)

		rec, env := s.do(t, http.MethodPost, "/checkout", uuid.NewString(), nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "CART_EMPTY", env.Error.Code)
	})

	t.Run("signed in cart is ordered", func(t *testing.T) {
		s := newTestServer(t)
		session := uuid.NewString()
		auth := s.bearer(t, "7")

		_, _ = s.do(t, http.MethodPost, "/cart/items", session, hinge(nil))
		rec, _ := s.do(t, http.MethodPost, "/session/login", session, nil, auth...)
		require.Equal(t, http.StatusOK, rec.Code)

		s.orders.EXPECT().
			SubmitOrder(mock.Anything, auth[1][len("Bearer "):], mock.MatchedBy(func(req *entity.OrderRequest) bool {
				return req.IdentityID == "7" && len(req.Products) == 1
			})).
			Return(&entity.OrderConfirmation{OrderID: "ord-9", Message: "Pedido creado"}, nil).
			Once()

		rec, env := s.do(t, http.MethodPost, "/checkout", session, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Pedido creado", env.Message)

		var confirmation entity.OrderConfirmation
		require.NoError(t, json.Unmarshal(env.Data, &confirmation))
		assert.Equal(t, "ord-9", confirmation.OrderID)

		_, env = s.do(t, http.MethodGet, "/cart", session, nil)
		assert.Zero(t, decodeCart(t, env).ItemCount)
	})
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `storefront_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
