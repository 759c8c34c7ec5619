package impl

import (
	"context"
	"log/slog"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
)

// SubmitOrder places an order for the active cart.
//
// The cart must be non-empty and owned by a signed-in user with a credential.
// Furniture lines are re-checked against current stock before submission. When
// the order service rejects the credential the session is signed out and
// ErrSessionExpired is returned; any other failure leaves the cart untouched.
func (srv *cartService) SubmitOrder(ctx context.Context) (*entity.OrderConfirmation, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.initialize(ctx); err != nil {
		return nil, err
	}

	cart := srv.cart
	if cart.IsEmpty() {
		return nil, errors.WithStack(domainerrors.ErrEmptyCart)
	}
	if cart.Owner.IsAnonymous() {
		return nil, errors.WithStack(domainerrors.ErrAuthenticationRequired)
	}

	credential, err := srv.identity.Credential(ctx)
	if err != nil || credential == "" {
		srv.log(ctx).Warn("No credential for signed-in cart", slog.String("user_id", cart.Owner.UserID()), slog.Any("error", err))

		return nil, errors.WithStack(domainerrors.ErrAuthenticationRequired)
	}

	if err := srv.revalidate(ctx, cart); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Submitting order",
		slog.String("user_id", cart.Owner.UserID()),
		slog.Int("lines", len(cart.Items)),
		slog.Float64("total", cart.Total),
	)

	confirmation, err := srv.orders.SubmitOrder(ctx, credential, entity.NewOrderRequest(cart))
	if err != nil {
		if errors.Is(err, domainerrors.ErrSessionExpired) {
			srv.expireSession(ctx)

			return nil, errors.Wrap(err, "order rejected the credential")
		}

		srv.log(ctx).Error("Order submission failed", slog.String("user_id", cart.Owner.UserID()), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to submit order")
	}

	if confirmation == nil {
		confirmation = &entity.OrderConfirmation{}
	}
	if confirmation.Total == 0 {
		confirmation.Total = cart.Total
	}
	if confirmation.CreatedAt.IsZero() {
		confirmation.CreatedAt = srv.now()
	}

	next := entity.NewCart(cart.Owner)
	if err := srv.persist(ctx, next); err != nil {
		// The order exists; an unsaved empty cart only means the old lines reappear on reload.
		srv.log(ctx).Error("Order placed but the emptied cart was not saved", slog.String("order_id", confirmation.OrderID))
	}
	srv.cart = next

	srv.log(ctx).Info("Order placed", slog.String("order_id", confirmation.OrderID), slog.String("user_id", cart.Owner.UserID()))

	event := srv.event(entity.CartEventOrderPlaced, next, nil)
	event.OrderID = confirmation.OrderID
	event.Total = confirmation.Total
	srv.publish(ctx, event)

	return confirmation, nil
}

// expireSession forgets the rejected credential and signs the cart out.
func (srv *cartService) expireSession(ctx context.Context) {
	srv.log(ctx).Warn("Session expired during checkout", slog.String("user_id", srv.cart.Owner.UserID()))

	if err := srv.identity.Revoke(ctx); err != nil {
		srv.log(ctx).Warn("Failed to revoke credential", slog.Any("error", err))
	}

	srv.logout(ctx, entity.CartEventSessionExpired)
}
