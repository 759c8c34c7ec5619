// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	deliverycontext "github.com/lsegpor/Forniture4U-sub000/internal/delivery/context"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/service"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/usecase"
)

// CartServiceParams holds the collaborators of a cart store.
type CartServiceParams struct {
	Carts     repository.CartRepository
	TxManager repository.TransactionManager
	Stock     service.StockService
	Orders    service.OrderService
	Identity  service.IdentityProvider
	Publisher service.CartEventPublisher
	Logger    *slog.Logger

	// AnonymousScope keeps this client's anonymous cart apart from other clients
	// sharing the same storage. Empty means the plain "anon-cart" key.
	AnonymousScope string

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// cartService implements the CartUsecase interface for a single client.
// Public operations are serialized so that a check and its commit never
// interleave with another operation on the same cart.
type cartService struct {
	mu sync.Mutex

	carts     repository.CartRepository
	txManager repository.TransactionManager
	stock     service.StockService
	orders    service.OrderService
	identity  service.IdentityProvider
	publisher service.CartEventPublisher
	logger    *slog.Logger
	now       func() time.Time

	anonymous   entity.Identity
	cart        *entity.Cart
	initialized bool
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	anonymous := entity.Anonymous()
	if params.AnonymousScope != "" {
		anonymous = entity.AnonymousIn(params.AnonymousScope)
	}

	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}

	return &cartService{
		carts:     params.Carts,
		txManager: params.TxManager,
		stock:     params.Stock,
		orders:    params.Orders,
		identity:  params.Identity,
		publisher: params.Publisher,
		logger:    params.Logger,
		now:       clock,
		anonymous: anonymous,
		cart:      entity.NewCart(anonymous),
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Initialize resolves the current identity and activates its stored cart.
func (srv *cartService) Initialize(ctx context.Context) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.initialize(ctx)
}

func (srv *cartService) initialize(ctx context.Context) error {
	if srv.initialized {
		return nil
	}

	identity := srv.anonymous
	current, err := srv.identity.CurrentIdentity(ctx)
	switch {
	case err != nil:
		srv.log(ctx).Warn("Identity provider unavailable, starting anonymous", slog.Any("error", err))
	case !current.IsAnonymous():
		identity = current
	}

	srv.cart = srv.loadOrEmpty(ctx, identity)
	srv.initialized = true

	srv.log(ctx).Debug("Cart initialized",
		slog.String("storage_key", identity.StorageKey()),
		slog.Int("items", len(srv.cart.Items)),
	)

	return nil
}

// AddItem adds one unit of the product after checking its stock.
func (srv *cartService) AddItem(ctx context.Context, product entity.Product) (*entity.Cart, error) {
	if product == nil {
		return nil, errors.WithStack(domainerrors.ErrInvalidProduct.WithDetails("product is required"))
	}
	if err := product.Validate(); err != nil {
		return nil, errors.WithStack(domainerrors.ErrInvalidProduct.WithDetails(err.Error()))
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.initialize(ctx); err != nil {
		return nil, err
	}

	key := product.Key()
	srv.log(ctx).Info("Adding item to cart", slog.String("product", key.String()))

	quantity := 1
	if item, ok := srv.cart.Item(key); ok {
		quantity = item.Quantity + 1
	}

	plan, err := srv.validate(ctx, usecase.CartMutation{Key: key, Quantity: quantity, Product: product})
	if err != nil {
		srv.log(ctx).Warn("Item rejected", slog.String("product", key.String()), slog.Any("error", err))

		return nil, err
	}

	return srv.commit(ctx, plan, entity.CartEventItemAdded)
}

// RemoveItem removes the line with the key. Removing a missing line is a no-op.
func (srv *cartService) RemoveItem(ctx context.Context, key entity.ItemKey) (*entity.Cart, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.initialize(ctx); err != nil {
		return nil, err
	}

	return srv.removeItem(ctx, key)
}

func (srv *cartService) removeItem(ctx context.Context, key entity.ItemKey) (*entity.Cart, error) {
	if !srv.cart.Has(key) {
		return srv.cart.Clone(), nil
	}

	next := srv.cart.Clone()
	next.Remove(key)

	if err := srv.persist(ctx, next); err != nil {
		return nil, err
	}
	srv.cart = next

	srv.log(ctx).Info("Removed item from cart", slog.String("product", key.String()))
	srv.publish(ctx, srv.event(entity.CartEventItemRemoved, next, &key))

	return next.Clone(), nil
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line.
func (srv *cartService) UpdateQuantity(ctx context.Context, key entity.ItemKey, quantity int) (*entity.Cart, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.initialize(ctx); err != nil {
		return nil, err
	}

	if quantity <= 0 {
		return srv.removeItem(ctx, key)
	}

	if !srv.cart.Has(key) {
		return nil, errors.WithStack(domainerrors.ErrItemNotInCart.WithDetails(key.String()))
	}

	plan, err := srv.validate(ctx, usecase.CartMutation{Key: key, Quantity: quantity})
	if err != nil {
		srv.log(ctx).Warn("Quantity update rejected",
			slog.String("product", key.String()),
			slog.Int("quantity", quantity),
			slog.Any("error", err),
		)

		return nil, err
	}

	return srv.commit(ctx, plan, entity.CartEventQuantityUpdated)
}

// ClearCart empties the active cart and persists the empty snapshot.
func (srv *cartService) ClearCart(ctx context.Context) (*entity.Cart, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.initialize(ctx); err != nil {
		return nil, err
	}

	next := entity.NewCart(srv.cart.Owner)
	if err := srv.persist(ctx, next); err != nil {
		return nil, err
	}
	srv.cart = next

	srv.publish(ctx, srv.event(entity.CartEventCleared, next, nil))

	return next.Clone(), nil
}

// ValidateMutation runs the stock checks of a mutation without applying it.
func (srv *cartService) ValidateMutation(ctx context.Context, mutation usecase.CartMutation) (*usecase.StockPlan, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.initialize(ctx); err != nil {
		return nil, err
	}

	return srv.validate(ctx, mutation)
}

// CommitMutation applies a plan produced by ValidateMutation. The plan is checked
// again against the cart as it is now, using the stock it recorded.
func (srv *cartService) CommitMutation(ctx context.Context, plan *usecase.StockPlan) (*entity.Cart, error) {
	if plan == nil {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("stock plan is required"))
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.initialize(ctx); err != nil {
		return nil, err
	}

	if err := srv.recheck(plan); err != nil {
		srv.log(ctx).Warn("Stale stock plan rejected",
			slog.String("product", plan.Mutation.Key.String()),
			slog.Any("error", err),
		)

		return nil, err
	}

	eventType := entity.CartEventItemAdded
	if srv.cart.Has(plan.Mutation.Key) {
		eventType = entity.CartEventQuantityUpdated
	}

	return srv.commit(ctx, plan, eventType)
}

// commit builds the next cart on a copy and swaps it in once it is persisted.
func (srv *cartService) commit(ctx context.Context, plan *usecase.StockPlan, eventType entity.CartEventType) (*entity.Cart, error) {
	mutation := plan.Mutation
	next := srv.cart.Clone()

	item, exists := next.Item(mutation.Key)
	if !exists {
		if mutation.Product == nil {
			return nil, errors.WithStack(domainerrors.ErrItemNotInCart.WithDetails(mutation.Key.String()))
		}
		item = entity.NewCartItem(mutation.Product, mutation.Quantity)
	}
	item.Quantity = mutation.Quantity

	if plan.AvailableStock != nil && item.ProductType == entity.ProductTypeComponent {
		stock := *plan.AvailableStock
		item.AvailableStock = &stock
	}
	if plan.BillOfMaterials != nil && item.ProductType == entity.ProductTypeFurniture {
		item.RequiredComponents = plan.BillOfMaterials.RequiredComponents()
	}

	next.Upsert(item)

	if err := srv.persist(ctx, next); err != nil {
		return nil, err
	}
	srv.cart = next

	srv.log(ctx).Debug("Cart updated",
		slog.String("product", mutation.Key.String()),
		slog.Int("quantity", mutation.Quantity),
		slog.Float64("total", next.Total),
	)
	srv.publish(ctx, srv.event(eventType, next, &mutation.Key))

	return next.Clone(), nil
}

// Cart returns a copy of the active cart.
func (srv *cartService) Cart() *entity.Cart {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.cart.Clone()
}

// Identity returns the owner of the active cart.
func (srv *cartService) Identity() entity.Identity {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.cart.Owner
}

// TotalItemCount sums the quantities of the active cart.
func (srv *cartService) TotalItemCount() int {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.cart.TotalItemCount()
}

// HasProduct reports whether the active cart has a line with the key.
func (srv *cartService) HasProduct(key entity.ItemKey) bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.cart.Has(key)
}

// ComponentDemandSummary aggregates the component demand of the active cart.
func (srv *cartService) ComponentDemandSummary() []entity.ComponentDemand {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.cart.ComponentDemandSummary()
}

// loadCart restores the identity's cart. Missing and corrupt snapshots yield an empty cart.
func (srv *cartService) loadCart(ctx context.Context, identity entity.Identity) (*entity.Cart, error) {
	snapshot, err := srv.carts.Load(ctx, identity)
	switch {
	case err == nil:
		return entity.NewCartFromSnapshot(identity, snapshot), nil
	case errors.Is(err, repository.ErrCartNotFound):
		return entity.NewCart(identity), nil
	case errors.Is(err, repository.ErrCorruptCart):
		srv.log(ctx).Warn("Discarding unreadable cart snapshot",
			slog.String("storage_key", identity.StorageKey()),
			slog.Any("error", err),
		)

		return entity.NewCart(identity), nil
	default:
		return nil, errors.Wrapf(err, "failed to load cart %s", identity.StorageKey())
	}
}

// loadOrEmpty is loadCart for paths that must not fail, such as startup and logout.
func (srv *cartService) loadOrEmpty(ctx context.Context, identity entity.Identity) *entity.Cart {
	cart, err := srv.loadCart(ctx, identity)
	if err != nil {
		srv.log(ctx).Warn("Cart storage unavailable, using an empty cart",
			slog.String("storage_key", identity.StorageKey()),
			slog.Any("error", err),
		)

		return entity.NewCart(identity)
	}

	return cart
}

func (srv *cartService) persist(ctx context.Context, cart *entity.Cart) error {
	if err := srv.carts.Save(ctx, cart.Owner, cart.Snapshot()); err != nil {
		srv.log(ctx).Error("Failed to persist cart",
			slog.String("storage_key", cart.Owner.StorageKey()),
			slog.Any("error", err),
		)

		return errors.WithStack(domainerrors.ErrCartPersistFailed.WithDetails(err.Error()))
	}

	return nil
}

func (srv *cartService) event(eventType entity.CartEventType, cart *entity.Cart, key *entity.ItemKey) *entity.CartEvent {
	event := entity.NewCartEvent(eventType, cart, srv.now())
	if key != nil {
		k := *key
		event.ProductKey = &k
	}

	return event
}

// publish notifies subscribers. Delivery failures never fail the cart operation.
func (srv *cartService) publish(ctx context.Context, event *entity.CartEvent) {
	if srv.publisher == nil {
		return
	}

	event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	if err := srv.publisher.PublishCartEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish cart event",
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err),
		)
	}
}
