package impl

import (
	"context"
	"math"
	"testing"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
	mockRepo "github.com/lsegpor/Forniture4U-sub000/internal/mocks/repository"
	mockService "github.com/lsegpor/Forniture4U-sub000/internal/mocks/service"
	"github.com/lsegpor/Forniture4U-sub000/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddComponent_IncrementsAndPersists(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())

	_, err := f.svc.AddItem(f.ctx, component("C1", 2.5, intPtr(10)))
	require.NoError(t, err)
	cart, err := f.svc.AddItem(f.ctx, component("C1", 2.5, intPtr(10)))
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.InDelta(t, 5.0, cart.Total, 1e-9)
	assert.Equal(t, 10, *cart.Items[0].AvailableStock)

	stored := f.stored(t, entity.Anonymous())
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.InDelta(t, 5.0, stored.Total, 1e-9)
}

func TestCartService_AddComponent_RejectsBeyondStock(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())

	_, err := f.svc.AddItem(f.ctx, component("C1", 1, intPtr(1)))
	require.NoError(t, err)

	_, err = f.svc.AddItem(f.ctx, component("C1", 1, intPtr(1)))

	var stockErr *domainerrors.StockInsufficientError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 2, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 1, stockErr.Shortfall())
	assert.Equal(t, 1, f.svc.TotalItemCount())
	assert.Equal(t, 1, f.stored(t, entity.Anonymous()).Items[0].Quantity)
}

func TestCartService_AddComponent_FallsBackToStoredStock(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())

	_, err := f.svc.AddItem(f.ctx, component("C1", 1, intPtr(2)))
	require.NoError(t, err)
	_, err = f.svc.AddItem(f.ctx, component("C1", 1, nil))
	require.NoError(t, err)

	_, err = f.svc.AddItem(f.ctx, component("C1", 1, nil))
	assert.ErrorAs(t, err, new(*domainerrors.StockInsufficientError))
	assert.Equal(t, 2, f.svc.TotalItemCount())
}

func TestCartService_AddComponent_UnknownStockIsUnlimited(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())

	for range 50 {
		_, err := f.svc.AddItem(f.ctx, component("C1", 1, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 50, f.svc.TotalItemCount())
}

func TestCartService_AddItem_InvalidProduct(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())

	_, err := f.svc.AddItem(f.ctx, component("", 1, nil))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidProduct)

	_, err = f.svc.AddItem(f.ctx, furniture("F1", -3))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidProduct)

	_, err = f.svc.AddItem(f.ctx, nil)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidProduct)
}

func TestCartService_AddFurniture_DerivedStockCountsOtherLines(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())

	_, err := f.svc.AddItem(f.ctx, component("X", 4, nil))
	require.NoError(t, err)
	_, err = f.svc.AddItem(f.ctx, component("X", 4, nil))
	require.NoError(t, err)

	f.stock.EXPECT().BillOfMaterials(mock.Anything, "F1").Return(tableBOM("F1", 3, 5), nil).Times(2)

	// 3×1 needed + 2 reserved = 5 <= 5
	cart, err := f.svc.AddItem(f.ctx, furniture("F1", 100))
	require.NoError(t, err)

	line, ok := cart.Item(entity.FurnitureKey("F1"))
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, []entity.RequiredComponent{{ComponentID: "X", Name: "Oak leg", UnitPrice: 4, Quantity: 3}}, line.RequiredComponents)
	assert.InDelta(t, 108.0, cart.Total, 1e-9)

	// 3×2 needed + 2 reserved = 8 > 5
	_, err = f.svc.AddItem(f.ctx, furniture("F1", 100))

	var stockErr *domainerrors.StockInsufficientError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Oak leg", stockErr.ProductName)
	assert.Equal(t, "X", stockErr.ComponentID)
	assert.Equal(t, 8, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 3, stockErr.Shortfall())

	stored := f.stored(t, entity.Anonymous())
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, 3, f.svc.TotalItemCount())
}

func TestCartService_AddFurniture_CountsOtherFurnitureSnapshots(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())

	f.stock.EXPECT().BillOfMaterials(mock.Anything, "F1").Return(tableBOM("F1", 2, 5), nil).Once()
	f.stock.EXPECT().BillOfMaterials(mock.Anything, "F2").Return(tableBOM("F2", 4, 5), nil).Once()

	_, err := f.svc.AddItem(f.ctx, furniture("F1", 10))
	require.NoError(t, err)

	// F2 needs 4, F1 already claims 2: 6 > 5
	_, err = f.svc.AddItem(f.ctx, furniture("F2", 20))
	assert.ErrorAs(t, err, new(*domainerrors.StockInsufficientError))
	assert.False(t, f.svc.HasProduct(entity.FurnitureKey("F2")))
}

func TestCartService_AddFurniture_FeatureUnavailable(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())

	f.stock.EXPECT().BillOfMaterials(mock.Anything, "F1").
		Return(nil, errors.Wrap(domainerrors.ErrFeatureUnavailable.WithDetails("404"), "catalog"))

	_, err := f.svc.AddItem(f.ctx, furniture("F1", 10))

	assert.ErrorIs(t, err, domainerrors.ErrFeatureUnavailable)
	assert.True(t, f.svc.Cart().IsEmpty())
	_, loadErr := f.carts.Load(f.ctx, entity.Anonymous())
	assert.ErrorIs(t, loadErr, repository.ErrCartNotFound)
}

func TestCartService_AddFurniture_UnexpectedStockErrorBecomesStockCheckFailed(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())

	f.stock.EXPECT().BillOfMaterials(mock.Anything, "F1").Return(nil, errors.New("connection reset"))

	_, err := f.svc.AddItem(f.ctx, furniture("F1", 10))

	assert.ErrorIs(t, err, domainerrors.ErrStockCheckFailed)
	assert.True(t, f.svc.Cart().IsEmpty())
}

func TestCartService_UpdateQuantity(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())
	_, err := f.svc.AddItem(f.ctx, component("C1", 2, intPtr(5)))
	require.NoError(t, err)

	t.Run("sets absolute quantity", func(t *testing.T) {
		cart, err := f.svc.UpdateQuantity(f.ctx, entity.ComponentKey("C1"), 4)
		require.NoError(t, err)
		assert.Equal(t, 4, cart.TotalItemCount())
		assert.InDelta(t, 8.0, cart.Total, 1e-9)
	})

	t.Run("rejects above stock", func(t *testing.T) {
		_, err := f.svc.UpdateQuantity(f.ctx, entity.ComponentKey("C1"), 6)
		assert.ErrorAs(t, err, new(*domainerrors.StockInsufficientError))
		assert.Equal(t, 4, f.svc.TotalItemCount())
	})

	t.Run("absent line", func(t *testing.T) {
		_, err := f.svc.UpdateQuantity(f.ctx, entity.ComponentKey("nope"), 1)
		assert.ErrorIs(t, err, domainerrors.ErrItemNotInCart)
	})

	t.Run("zero removes", func(t *testing.T) {
		cart, err := f.svc.UpdateQuantity(f.ctx, entity.ComponentKey("C1"), 0)
		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())
		assert.Empty(t, f.stored(t, entity.Anonymous()).Items)
	})
}

func TestCartService_UpdateQuantity_FurnitureUsesTargetQuantity(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())

	f.stock.EXPECT().BillOfMaterials(mock.Anything, "F1").Return(tableBOM("F1", 2, 6), nil)

	_, err := f.svc.AddItem(f.ctx, furniture("F1", 50))
	require.NoError(t, err)

	cart, err := f.svc.UpdateQuantity(f.ctx, entity.FurnitureKey("F1"), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.TotalItemCount())

	_, err = f.svc.UpdateQuantity(f.ctx, entity.FurnitureKey("F1"), 4)
	var stockErr *domainerrors.StockInsufficientError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 8, stockErr.Requested)
	assert.Equal(t, 3, f.svc.TotalItemCount())
}

func TestCartService_UpdateQuantity_UpperBound(t *testing.T) {
	tests := []struct {
		name     string
		key      entity.ItemKey
		quantity int
		wantErr  error
	}{
		{name: "component at the limit", key: entity.ComponentKey("C1"), quantity: entity.MaxLineQuantity},
		{name: "component above the limit", key: entity.ComponentKey("C1"), quantity: entity.MaxLineQuantity + 1, wantErr: domainerrors.ErrInvalidQuantity},
		{name: "component near max int", key: entity.ComponentKey("C1"), quantity: math.MaxInt, wantErr: domainerrors.ErrInvalidQuantity},
		{name: "furniture above the limit", key: entity.FurnitureKey("F1"), quantity: entity.MaxLineQuantity + 1, wantErr: domainerrors.ErrInvalidQuantity},
		{name: "furniture product wrapping int", key: entity.FurnitureKey("F1"), quantity: math.MaxInt64/3 + 1, wantErr: domainerrors.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture(t, entity.Anonymous())
			f.stock.EXPECT().BillOfMaterials(mock.Anything, "F1").Return(tableBOM("F1", 3, 5), nil).Once()

			_, err := f.svc.AddItem(f.ctx, component("C1", 1, nil))
			require.NoError(t, err)
			_, err = f.svc.AddItem(f.ctx, furniture("F1", 10))
			require.NoError(t, err)

			cart, err := f.svc.UpdateQuantity(f.ctx, tt.key, tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				line, ok := f.svc.Cart().Item(tt.key)
				require.True(t, ok)
				assert.Equal(t, 1, line.Quantity)
				assert.Equal(t, 2, f.svc.TotalItemCount())

				return
			}

			require.NoError(t, err)
			line, ok := cart.Item(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.quantity, line.Quantity)
		})
	}
}

func TestCheckDerivedStock_SaturatesLargeDemand(t *testing.T) {
	bom := tableBOM("F1", 3, 5)

	t.Run("target quantity", func(t *testing.T) {
		err := checkDerivedStock(entity.NewCart(entity.Anonymous()), entity.FurnitureKey("F1"), math.MaxInt64/3+1, bom)

		var stockErr *domainerrors.StockInsufficientError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, math.MaxInt, stockErr.Requested)
		assert.Equal(t, 5, stockErr.Available)
	})

	t.Run("reserved by a stored line", func(t *testing.T) {
		cart := entity.NewCart(entity.Anonymous())
		cart.Upsert(furnitureLine("F2", 10, math.MaxInt/2, entity.RequiredComponent{ComponentID: "X", Quantity: 3}))

		err := checkDerivedStock(cart, entity.FurnitureKey("F1"), 1, bom)
		assert.ErrorAs(t, err, new(*domainerrors.StockInsufficientError))
	})
}

func TestCartService_CommitMutation_RejectsStalePlan(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())
	f.stock.EXPECT().BillOfMaterials(mock.Anything, "F1").Return(tableBOM("F1", 3, 5), nil).Once()

	// 3 of 5 units of X
	plan, err := f.svc.ValidateMutation(f.ctx, usecase.CartMutation{Key: entity.FurnitureKey("F1"), Quantity: 1, Product: furniture("F1", 30)})
	require.NoError(t, err)

	for range 3 {
		_, err = f.svc.AddItem(f.ctx, component("X", 4, nil))
		require.NoError(t, err)
	}

	_, err = f.svc.CommitMutation(f.ctx, plan)

	var stockErr *domainerrors.StockInsufficientError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 6, stockErr.Requested)
	assert.False(t, f.svc.HasProduct(entity.FurnitureKey("F1")))
	assert.Len(t, f.stored(t, entity.Anonymous()).Items, 1)
}

func TestCartService_CommitMutation_RejectsForgedPlan(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())
	_, err := f.svc.AddItem(f.ctx, component("C1", 1, intPtr(5)))
	require.NoError(t, err)

	_, err = f.svc.CommitMutation(f.ctx, &usecase.StockPlan{
		Mutation: usecase.CartMutation{Key: entity.ComponentKey("C1"), Quantity: math.MaxInt},
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidQuantity)

	_, err = f.svc.CommitMutation(f.ctx, &usecase.StockPlan{
		Mutation:       usecase.CartMutation{Key: entity.ComponentKey("C1"), Quantity: 6},
		AvailableStock: intPtr(5),
	})
	assert.ErrorAs(t, err, new(*domainerrors.StockInsufficientError))

	_, err = f.svc.CommitMutation(f.ctx, &usecase.StockPlan{
		Mutation: usecase.CartMutation{Key: entity.FurnitureKey("F1"), Quantity: 1, Product: furniture("F1", 1)},
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	assert.Equal(t, 1, f.svc.TotalItemCount())
}

func TestCartService_RemoveItem(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())
	_, err := f.svc.AddItem(f.ctx, component("C1", 2, nil))
	require.NoError(t, err)
	_, err = f.svc.AddItem(f.ctx, component("C2", 3, nil))
	require.NoError(t, err)

	cart, err := f.svc.RemoveItem(f.ctx, entity.ComponentKey("C1"))
	require.NoError(t, err)
	assert.InDelta(t, 3.0, cart.Total, 1e-9)

	cart, err = f.svc.RemoveItem(f.ctx, entity.FurnitureKey("C2"))
	require.NoError(t, err, "removing an absent line is a no-op")
	assert.Len(t, cart.Items, 1)
}

func TestCartService_ClearCart(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())
	_, err := f.svc.AddItem(f.ctx, component("C1", 2, nil))
	require.NoError(t, err)

	cart, err := f.svc.ClearCart(f.ctx)
	require.NoError(t, err)

	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.Total)
	stored := f.stored(t, entity.Anonymous())
	assert.Empty(t, stored.Items)
	assert.Zero(t, stored.Total)
}

func TestCartService_ValidateThenCommit(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())
	f.stock.EXPECT().BillOfMaterials(mock.Anything, "F1").Return(tableBOM("F1", 1, 10), nil).Once()

	mutation := usecase.CartMutation{Key: entity.FurnitureKey("F1"), Quantity: 2, Product: furniture("F1", 30)}
	plan, err := f.svc.ValidateMutation(f.ctx, mutation)
	require.NoError(t, err)
	assert.True(t, f.svc.Cart().IsEmpty(), "validation must not touch the cart")

	cart, err := f.svc.CommitMutation(f.ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.TotalItemCount())
	assert.InDelta(t, 60.0, cart.Total, 1e-9)

	_, err = f.svc.CommitMutation(f.ctx, nil)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCartService_ValidateMutation_RejectsMismatchedProduct(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())

	_, err := f.svc.ValidateMutation(f.ctx, usecase.CartMutation{
		Key:      entity.ComponentKey("C1"),
		Quantity: 1,
		Product:  furniture("C1", 1),
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidProduct)

	_, err = f.svc.ValidateMutation(f.ctx, usecase.CartMutation{Key: entity.ComponentKey("C1"), Quantity: 1})
	assert.ErrorIs(t, err, domainerrors.ErrItemNotInCart)
}

func TestCartService_PersistFailureLeavesCartUnchanged(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())
	carts := mockRepo.NewMockCartRepository(t)
	svc := f.newService(carts)

	carts.EXPECT().Load(mock.Anything, entity.Anonymous()).Return(nil, repository.ErrCartNotFound)
	carts.EXPECT().Save(mock.Anything, entity.Anonymous(), mock.Anything).Return(errors.New("disk full"))

	_, err := svc.AddItem(f.ctx, component("C1", 1, nil))

	assert.ErrorIs(t, err, domainerrors.ErrCartPersistFailed)
	assert.True(t, svc.Cart().IsEmpty())
}

func TestCartService_Initialize(t *testing.T) {
	t.Run("loads the signed-in user's cart once", func(t *testing.T) {
		user := entity.Authenticated("u1")
		f := newCartFixture(t, user)
		f.seed(t, user, componentLine("C1", 2, 3))

		require.NoError(t, f.svc.Initialize(f.ctx))
		f.seed(t, user)
		require.NoError(t, f.svc.Initialize(f.ctx))

		assert.True(t, f.svc.Identity().Equal(user))
		assert.Equal(t, 3, f.svc.TotalItemCount())
		assert.InDelta(t, 6.0, f.svc.Cart().Total, 1e-9)
	})

	t.Run("corrupt snapshot starts empty", func(t *testing.T) {
		f := newCartFixture(t, entity.Anonymous())
		carts := mockRepo.NewMockCartRepository(t)
		carts.EXPECT().Load(mock.Anything, entity.Anonymous()).Return(nil, errors.Wrap(repository.ErrCorruptCart, "bad json"))

		svc := f.newService(carts)

		require.NoError(t, svc.Initialize(f.ctx))
		assert.True(t, svc.Cart().IsEmpty())
	})

	t.Run("unreachable storage starts empty", func(t *testing.T) {
		f := newCartFixture(t, entity.Anonymous())
		carts := mockRepo.NewMockCartRepository(t)
		carts.EXPECT().Load(mock.Anything, entity.Anonymous()).Return(nil, errors.New("timeout"))

		svc := f.newService(carts)

		require.NoError(t, svc.Initialize(f.ctx))
		assert.True(t, svc.Cart().IsEmpty())
	})

	t.Run("identity provider failure starts anonymous", func(t *testing.T) {
		identity := mockService.NewMockIdentityProvider(t)
		identity.EXPECT().CurrentIdentity(mock.Anything).Return(entity.Identity{}, errors.New("token store locked"))

		svc := NewCartService(CartServiceParams{
			Carts:    newCartFixture(t, entity.Anonymous()).carts,
			Identity: identity,
			Logger:   newDiscardLogger(),
		})

		require.NoError(t, svc.Initialize(context.Background()))
		assert.True(t, svc.Identity().IsAnonymous())
	})
}

func TestCartService_PublishesEventsAndIgnoresBusFailures(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())
	publisher := mockService.NewMockCartEventPublisher(t)
	f.publisher = publisher
	svc := f.newService(f.carts)

	publisher.EXPECT().
		PublishCartEvent(mock.Anything, mock.MatchedBy(func(event *entity.CartEvent) bool {
			return event.Type == entity.CartEventItemAdded &&
				event.StorageKey == "anon-cart" &&
				event.ItemCount == 1 &&
				event.ProductKey != nil && *event.ProductKey == entity.ComponentKey("C1") &&
				event.OccurredAt.Equal(fixedNow)
		})).
		Return(errors.New("bus down")).
		Once()

	cart, err := svc.AddItem(f.ctx, component("C1", 1, nil))

	require.NoError(t, err)
	assert.Equal(t, 1, cart.TotalItemCount())
}

func TestCartService_Getters(t *testing.T) {
	f := newCartFixture(t, entity.Anonymous())
	f.stock.EXPECT().BillOfMaterials(mock.Anything, "F1").Return(tableBOM("F1", 2, 100), nil)

	_, err := f.svc.AddItem(f.ctx, component("X", 4, nil))
	require.NoError(t, err)
	_, err = f.svc.AddItem(f.ctx, furniture("F1", 10))
	require.NoError(t, err)
	_, err = f.svc.UpdateQuantity(f.ctx, entity.FurnitureKey("F1"), 3)
	require.NoError(t, err)

	assert.Equal(t, 4, f.svc.TotalItemCount())
	assert.True(t, f.svc.HasProduct(entity.ComponentKey("X")))
	assert.False(t, f.svc.HasProduct(entity.ComponentKey("F1")))
	assert.Equal(t, []entity.ComponentDemand{
		{ComponentID: "X", Name: "Component X", Quantity: 7, Source: entity.DemandSourceMixed},
	}, f.svc.ComponentDemandSummary())
}
