package service

import (
	"context"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
)

// CartEventPublisher is the notification bus observers of the cart subscribe to.
// It is injected into the cart store instead of being reachable globally.
type CartEventPublisher interface {
	// PublishCartEvent delivers the event to subscribers
	PublishCartEvent(ctx context.Context, event *entity.CartEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
