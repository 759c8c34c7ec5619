package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/persistence/memory"
	mockService "github.com/lsegpor/Forniture4U-sub000/internal/mocks/service"
	"github.com/lsegpor/Forniture4U-sub000/internal/usecase"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

type cartFixture struct {
	ctx       context.Context
	carts     *memory.CartRepository
	stock     *mockService.MockStockService
	orders    *mockService.MockOrderService
	identity  *mockService.MockIdentityProvider
	publisher *mockService.MockCartEventPublisher
	svc       usecase.CartUsecase
}

// newCartFixture builds a store over an in-memory repository; current is what
// the identity provider reports at initialization.
func newCartFixture(t *testing.T, current entity.Identity) *cartFixture {
	t.Helper()

	f := &cartFixture{
		ctx:       context.Background(),
		carts:     memory.NewCartRepository(),
		stock:     mockService.NewMockStockService(t),
		orders:    mockService.NewMockOrderService(t),
		identity:  mockService.NewMockIdentityProvider(t),
		publisher: mockService.NewMockCartEventPublisher(t),
	}
	f.identity.EXPECT().CurrentIdentity(mock.Anything).Return(current, nil).Maybe()
	f.publisher.EXPECT().PublishCartEvent(mock.Anything, mock.Anything).Return(nil).Maybe()

	f.svc = f.newService(f.carts)

	return f
}

func (f *cartFixture) newService(carts repository.CartRepository) usecase.CartUsecase {
	return NewCartService(CartServiceParams{
		Carts:     carts,
		TxManager: memory.NewTransactionManager(carts),
		Stock:     f.stock,
		Orders:    f.orders,
		Identity:  f.identity,
		Publisher: f.publisher,
		Logger:    newDiscardLogger(),
		Clock:     func() time.Time { return fixedNow },
	})
}

func (f *cartFixture) stored(t *testing.T, identity entity.Identity) *entity.CartSnapshot {
	t.Helper()

	snapshot, err := f.carts.Load(f.ctx, identity)
	require.NoError(t, err)

	return snapshot
}

func (f *cartFixture) seed(t *testing.T, identity entity.Identity, items ...entity.CartItem) {
	t.Helper()

	cart := entity.NewCart(identity)
	for _, item := range items {
		cart.Upsert(item)
	}
	require.NoError(t, f.carts.Save(f.ctx, identity, cart.Snapshot()))
}

func component(id string, price float64, stock *int) *entity.ComponentProduct {
	return &entity.ComponentProduct{ID: id, Name: "Component " + id, UnitPrice: price, Stock: stock}
}

func furniture(id string, price float64) *entity.FurnitureProduct {
	return &entity.FurnitureProduct{ID: id, Name: "Furniture " + id, UnitPrice: price}
}

func componentLine(id string, price float64, quantity int) entity.CartItem {
	return entity.CartItem{
		ProductID:   id,
		ProductType: entity.ProductTypeComponent,
		Name:        "Component " + id,
		UnitPrice:   price,
		Quantity:    quantity,
	}
}

func furnitureLine(id string, price float64, quantity int, required ...entity.RequiredComponent) entity.CartItem {
	return entity.CartItem{
		ProductID:          id,
		ProductType:        entity.ProductTypeFurniture,
		Name:               "Furniture " + id,
		UnitPrice:          price,
		Quantity:           quantity,
		RequiredComponents: required,
	}
}

// tableBOM needs perUnit units of component X per furniture unit.
func tableBOM(furnitureID string, perUnit, stock int) *entity.BillOfMaterials {
	return &entity.BillOfMaterials{
		Furniture: entity.FurnitureInfo{ID: furnitureID, Name: "Furniture " + furnitureID},
		Components: []entity.BOMComponent{
			{ID: "X", Name: "Oak leg", UnitPrice: 4, PerUnitQuantity: perUnit, AvailableStock: stock},
		},
	}
}
