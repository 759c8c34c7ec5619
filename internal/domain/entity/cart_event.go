package entity

import (
	"time"
)

// CartEventType names a change observers can subscribe to.
type CartEventType string

const (
	CartEventItemAdded       CartEventType = "cart.item_added"
	CartEventItemRemoved     CartEventType = "cart.item_removed"
	CartEventQuantityUpdated CartEventType = "cart.quantity_updated"
	CartEventCleared         CartEventType = "cart.cleared"
	CartEventLogin           CartEventType = "session.login"
	CartEventRegister        CartEventType = "session.register"
	CartEventLogout          CartEventType = "session.logout"
	CartEventSessionExpired  CartEventType = "session.expired"
	CartEventOrderPlaced     CartEventType = "order.placed"
)

// CartEvent is the notification emitted after a successful cart or session change.
type CartEvent struct {
	Type       CartEventType `json:"type"`
	StorageKey string        `json:"storageKey"`
	IdentityID string        `json:"identityId,omitempty"`
	ProductKey *ItemKey      `json:"product,omitempty"`
	ItemCount  int           `json:"itemCount"`
	Total      float64       `json:"total"`
	OrderID    string        `json:"orderId,omitempty"`
	RequestID  string        `json:"requestId,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// NewCartEvent describes the cart state after a change of the given type.
func NewCartEvent(eventType CartEventType, cart *Cart, at time.Time) *CartEvent {
	return &CartEvent{
		Type:       eventType,
		StorageKey: cart.Owner.StorageKey(),
		IdentityID: cart.Owner.UserID(),
		ItemCount:  cart.TotalItemCount(),
		Total:      cart.Total,
		OccurredAt: at,
	}
}
