package impl

import (
	"context"
	"log/slog"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
)

// Strategies applied when an anonymous cart meets a user's cart.
const (
	transitionSwitch   = "switch"
	transitionTransfer = "transfer"
	transitionMerge    = "merge"
)

// Login activates the user's cart. A non-empty anonymous cart is transferred to
// the user when the user's cart is empty and merged into it otherwise; the
// anonymous entry is removed in both cases.
func (srv *cartService) Login(ctx context.Context, identity entity.Identity) (*entity.Cart, error) {
	if identity.IsAnonymous() {
		return nil, errors.WithStack(domainerrors.ErrInvalidIdentity.WithDetails("login requires a user id"))
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.initialize(ctx); err != nil {
		return nil, err
	}

	current := srv.cart
	if current.Owner.Equal(identity) {
		return current.Clone(), nil
	}

	if !current.Owner.IsAnonymous() {
		if err := srv.persist(ctx, current); err != nil {
			return nil, err
		}
	}

	target, err := srv.loadCart(ctx, identity)
	if err != nil {
		srv.log(ctx).Error("Failed to load cart for login", slog.String("user_id", identity.UserID()), slog.Any("error", err))

		return nil, err
	}

	next, strategy := target, transitionSwitch
	if current.Owner.IsAnonymous() && !current.IsEmpty() {
		if target.IsEmpty() {
			next, strategy = current.WithOwner(identity), transitionTransfer
		} else {
			next, strategy = mergeCarts(target, current), transitionMerge
		}

		if err := srv.moveAnonymousCart(ctx, current.Owner, next); err != nil {
			return nil, err
		}
	}

	srv.cart = next

	srv.log(ctx).Info("Cart session signed in",
		slog.String("user_id", identity.UserID()),
		slog.String("strategy", strategy),
		slog.Int("items", len(next.Items)),
	)
	srv.publish(ctx, srv.event(entity.CartEventLogin, next, nil))

	return next.Clone(), nil
}

// Register hands the anonymous cart to a newly created user, overwriting
// whatever is stored for it.
func (srv *cartService) Register(ctx context.Context, identity entity.Identity) (*entity.Cart, error) {
	if identity.IsAnonymous() {
		return nil, errors.WithStack(domainerrors.ErrInvalidIdentity.WithDetails("register requires a user id"))
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.initialize(ctx); err != nil {
		return nil, err
	}

	current := srv.cart
	if !current.Owner.IsAnonymous() {
		if err := srv.persist(ctx, current); err != nil {
			return nil, err
		}
	}

	var next *entity.Cart
	if current.Owner.IsAnonymous() && !current.IsEmpty() {
		next = current.WithOwner(identity)
		if err := srv.moveAnonymousCart(ctx, current.Owner, next); err != nil {
			return nil, err
		}
	} else {
		loaded, err := srv.loadCart(ctx, identity)
		if err != nil {
			return nil, err
		}
		next = loaded
	}

	srv.cart = next

	srv.log(ctx).Info("Cart session registered", slog.String("user_id", identity.UserID()), slog.Int("items", len(next.Items)))
	srv.publish(ctx, srv.event(entity.CartEventRegister, next, nil))

	return next.Clone(), nil
}

// Logout stores the user's cart and switches back to the anonymous cart.
func (srv *cartService) Logout(ctx context.Context) (*entity.Cart, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.initialize(ctx); err != nil {
		return nil, err
	}

	return srv.logout(ctx, entity.CartEventLogout), nil
}

// logout never fails. The user's cart was persisted after its last change, so a
// failed re-save is only logged.
func (srv *cartService) logout(ctx context.Context, eventType entity.CartEventType) *entity.Cart {
	current := srv.cart
	if current.Owner.IsAnonymous() {
		return current.Clone()
	}

	if err := srv.persist(ctx, current); err != nil {
		srv.log(ctx).Warn("Could not re-save cart on logout", slog.String("user_id", current.Owner.UserID()))
	}

	next := srv.loadOrEmpty(ctx, srv.anonymous)
	srv.cart = next

	srv.log(ctx).Info("Cart session signed out",
		slog.String("user_id", current.Owner.UserID()),
		slog.String("reason", string(eventType)),
	)

	event := srv.event(eventType, next, nil)
	event.IdentityID = current.Owner.UserID()
	srv.publish(ctx, event)

	return next.Clone()
}

// moveAnonymousCart stores the cart under its new owner and drops the anonymous entry together.
func (srv *cartService) moveAnonymousCart(ctx context.Context, anonymous entity.Identity, next *entity.Cart) error {
	err := srv.txManager.Execute(ctx, func(carts repository.CartRepository) error {
		if err := carts.Save(ctx, next.Owner, next.Snapshot()); err != nil {
			return errors.Wrap(err, "failed to save cart for user")
		}
		if err := carts.Delete(ctx, anonymous); err != nil {
			return errors.Wrap(err, "failed to delete anonymous cart")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to move anonymous cart",
			slog.String("user_id", next.Owner.UserID()),
			slog.Any("error", err),
		)

		return errors.WithStack(domainerrors.ErrCartPersistFailed.WithDetails(err.Error()))
	}

	return nil
}

// mergeCarts adds the anonymous lines to the user's cart. Lines with the same key
// keep the user's name and price and sum their quantities.
func mergeCarts(userCart, anonymousCart *entity.Cart) *entity.Cart {
	merged := userCart.Clone()

	for _, item := range anonymousCart.Items {
		idx, ok := merged.Find(item.Key())
		if !ok {
			merged.Items = append(merged.Items, item.Clone())

			continue
		}

		line := &merged.Items[idx]
		line.Quantity = entity.AddUnits(line.Quantity, item.Quantity)
		if len(line.RequiredComponents) == 0 && len(item.RequiredComponents) > 0 {
			line.RequiredComponents = item.Clone().RequiredComponents
		}
		if line.AvailableStock == nil && item.AvailableStock != nil {
			stock := *item.AvailableStock
			line.AvailableStock = &stock
		}
	}
	merged.Recalculate()

	return merged
}
