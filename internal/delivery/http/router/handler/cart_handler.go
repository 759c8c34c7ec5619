package handler

import (
	"log/slog"
	"net/http"

	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/middleware"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/response"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/validator"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CartHandlerParams holds dependencies for CartHandler, injected by Fx.
type CartHandlerParams struct {
	fx.In

	Logger *slog.Logger
}

// CartHandler exposes the cart operations of the client's session.
type CartHandler struct {
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler
func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{logger: params.Logger}
}

// ProductRequest describes the product being added, as shown to the shopper.
type ProductRequest struct {
	ProductID   string  `json:"productId" validate:"required"`
	ProductType string  `json:"productType" validate:"required,oneof=component furniture"`
	Name        string  `json:"name" validate:"required"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
}

// ValidateItemRequest asks whether a line could be set to Quantity.
// A zero Quantity checks adding one more unit.
type ValidateItemRequest struct {
	ProductRequest
	Quantity int `json:"quantity" validate:"gte=0,lte=9999"`
}

// UpdateQuantityRequest sets the absolute quantity of a line. Zero or less removes it.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,lte=9999"`
}

// CartResponse is the cart as returned to clients.
type CartResponse struct {
	Identity   IdentityResponse  `json:"identity"`
	StorageKey string            `json:"storageKey"`
	Items      []entity.CartItem `json:"items"`
	ItemCount  int               `json:"itemCount"`
	Total      float64           `json:"total"`
}

// IdentityResponse describes who owns the cart.
type IdentityResponse struct {
	Anonymous bool   `json:"anonymous"`
	UserID    string `json:"userId,omitempty"`
}

// ValidationResponse reports a mutation that passed the stock check.
type ValidationResponse struct {
	Valid           bool                    `json:"valid"`
	Product         entity.ItemKey          `json:"product"`
	Quantity        int                     `json:"quantity"`
	AvailableStock  *int                    `json:"availableStock,omitempty"`
	BillOfMaterials *entity.BillOfMaterials `json:"billOfMaterials,omitempty"`
}

func newCartResponse(cart *entity.Cart) *CartResponse {
	items := cart.Items
	if items == nil {
		items = []entity.CartItem{}
	}

	return &CartResponse{
		Identity: IdentityResponse{
			Anonymous: cart.Owner.IsAnonymous(),
			UserID:    cart.Owner.UserID(),
		},
		StorageKey: cart.Owner.StorageKey(),
		Items:      items,
		ItemCount:  cart.TotalItemCount(),
		Total:      cart.Total,
	}
}

func (r *ProductRequest) toProduct() entity.Product {
	productType, _ := entity.ParseProductType(r.ProductType)
	if productType == entity.ProductTypeFurniture {
		return &entity.FurnitureProduct{ID: r.ProductID, Name: r.Name, UnitPrice: r.UnitPrice}
	}

	return &entity.ComponentProduct{ID: r.ProductID, Name: r.Name, UnitPrice: r.UnitPrice, Stock: r.Stock}
}

// GetCart returns the active cart.
func (h *CartHandler) GetCart(c echo.Context) error {
	session, ok := middleware.GetCartSession(c)
	if !ok {
		return response.InternalServerError(c, "SESSION_MISSING", "Cart session not resolved")
	}

	return response.Success(c, http.StatusOK, newCartResponse(session.Cart.Cart()), "")
}

// GetComponentDemand returns the component units the cart needs.
func (h *CartHandler) GetComponentDemand(c echo.Context) error {
	session, ok := middleware.GetCartSession(c)
	if !ok {
		return response.InternalServerError(c, "SESSION_MISSING", "Cart session not resolved")
	}

	demand := session.Cart.ComponentDemandSummary()
	if demand == nil {
		demand = []entity.ComponentDemand{}
	}

	return response.Success(c, http.StatusOK, demand, "")
}

// HasItem reports whether the product is in the cart.
func (h *CartHandler) HasItem(c echo.Context) error {
	session, ok := middleware.GetCartSession(c)
	if !ok {
		return response.InternalServerError(c, "SESSION_MISSING", "Cart session not resolved")
	}

	key, ok := itemKeyParam(c)
	if !ok {
		return response.BadRequest(c, "INVALID_PRODUCT_TYPE", "Product type must be component or furniture")
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"product":  key,
		"inCart":   session.Cart.HasProduct(key),
		"quantity": lineQuantity(session.Cart, key),
	}, "")
}

// AddItem adds one unit of the product.
func (h *CartHandler) AddItem(c echo.Context) error {
	session, ok := middleware.GetCartSession(c)
	if !ok {
		return response.InternalServerError(c, "SESSION_MISSING", "Cart session not resolved")
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_ERROR", "Invalid product input", validator.Describe(err))
	}

	cart, err := session.Cart.AddItem(c.Request().Context(), req.toProduct())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newCartResponse(cart), "Product added to cart")
}

// ValidateItem runs the stock check of a mutation without applying it.
func (h *CartHandler) ValidateItem(c echo.Context) error {
	session, ok := middleware.GetCartSession(c)
	if !ok {
		return response.InternalServerError(c, "SESSION_MISSING", "Cart session not resolved")
	}

	var req ValidateItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_ERROR", "Invalid product input", validator.Describe(err))
	}

	product := req.toProduct()
	quantity := req.Quantity
	if quantity == 0 {
		quantity = lineQuantity(session.Cart, product.Key()) + 1
	}

	plan, err := session.Cart.ValidateMutation(c.Request().Context(), usecase.CartMutation{
		Key:      product.Key(),
		Quantity: quantity,
		Product:  product,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, &ValidationResponse{
		Valid:           true,
		Product:         plan.Mutation.Key,
		Quantity:        plan.Mutation.Quantity,
		AvailableStock:  plan.AvailableStock,
		BillOfMaterials: plan.BillOfMaterials,
	}, "")
}

// UpdateQuantity sets the quantity of a line.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	session, ok := middleware.GetCartSession(c)
	if !ok {
		return response.InternalServerError(c, "SESSION_MISSING", "Cart session not resolved")
	}

	key, ok := itemKeyParam(c)
	if !ok {
		return response.BadRequest(c, "INVALID_PRODUCT_TYPE", "Product type must be component or furniture")
	}

	var req UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid quantity input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_ERROR", "Invalid quantity input", validator.Describe(err))
	}

	cart, err := session.Cart.UpdateQuantity(c.Request().Context(), key, *req.Quantity)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newCartResponse(cart), "Quantity updated")
}

// RemoveItem deletes a line.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	session, ok := middleware.GetCartSession(c)
	if !ok {
		return response.InternalServerError(c, "SESSION_MISSING", "Cart session not resolved")
	}

	key, ok := itemKeyParam(c)
	if !ok {
		return response.BadRequest(c, "INVALID_PRODUCT_TYPE", "Product type must be component or furniture")
	}

	cart, err := session.Cart.RemoveItem(c.Request().Context(), key)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newCartResponse(cart), "Product removed from cart")
}

// ClearCart empties the cart.
func (h *CartHandler) ClearCart(c echo.Context) error {
	session, ok := middleware.GetCartSession(c)
	if !ok {
		return response.InternalServerError(c, "SESSION_MISSING", "Cart session not resolved")
	}

	cart, err := session.Cart.ClearCart(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newCartResponse(cart), "Cart cleared")
}

// Checkout submits the cart as an order.
func (h *CartHandler) Checkout(c echo.Context) error {
	session, ok := middleware.GetCartSession(c)
	if !ok {
		return response.InternalServerError(c, "SESSION_MISSING", "Cart session not resolved")
	}

	confirmation, err := session.Cart.SubmitOrder(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	message := confirmation.Message
	if message == "" {
		message = "Order placed"
	}

	return response.Success(c, http.StatusCreated, confirmation, message)
}

func itemKeyParam(c echo.Context) (entity.ItemKey, bool) {
	productType, ok := entity.ParseProductType(c.Param("type"))
	if !ok || c.Param("id") == "" {
		return entity.ItemKey{}, false
	}

	return entity.ItemKey{ProductID: c.Param("id"), Type: productType}, true
}

func lineQuantity(cart usecase.CartUsecase, key entity.ItemKey) int {
	item, ok := cart.Cart().Item(key)
	if !ok {
		return 0
	}

	return item.Quantity
}
