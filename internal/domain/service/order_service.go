package service

import (
	"context"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
)

// OrderService submits orders on behalf of an authenticated user.
type OrderService interface {
	// SubmitOrder sends the order with the user's bearer credential. A rejected
	// credential is reported as ErrSessionExpired.
	SubmitOrder(ctx context.Context, credential string, order *entity.OrderRequest) (*entity.OrderConfirmation, error)
}
