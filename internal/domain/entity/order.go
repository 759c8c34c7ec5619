package entity

import (
	"time"
)

// OrderLine is one product of an order request.
type OrderLine struct {
	ProductID          string              `json:"productId"`
	ProductType        ProductType         `json:"productType"`
	Quantity           int                 `json:"quantity"`
	RequiredComponents []RequiredComponent `json:"requiredComponents,omitempty"`
}

// OrderRequest is the payload sent to the order service.
type OrderRequest struct {
	IdentityID string      `json:"identityId"`
	Products   []OrderLine `json:"products"`
}

// NewOrderRequest builds the order for the cart's owner.
func NewOrderRequest(cart *Cart) *OrderRequest {
	lines := make([]OrderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		line := OrderLine{
			ProductID:   item.ProductID,
			ProductType: item.ProductType,
			Quantity:    item.Quantity,
		}
		if item.ProductType == ProductTypeFurniture {
			line.RequiredComponents = item.Clone().RequiredComponents
		}
		lines = append(lines, line)
	}

	return &OrderRequest{IdentityID: cart.Owner.UserID(), Products: lines}
}

// OrderConfirmation is what the order service answered.
type OrderConfirmation struct {
	OrderID   string         `json:"orderId"`
	Message   string         `json:"message,omitempty"`
	Total     float64        `json:"total"`
	CreatedAt time.Time      `json:"createdAt"`
	Raw       map[string]any `json:"raw,omitempty"`
}
