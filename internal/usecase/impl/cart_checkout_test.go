package impl

import (
	"math"
	"testing"
	"time"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartService_SubmitOrder_Preconditions(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		f := newCartFixture(t, entity.Authenticated("1"))

		_, err := f.svc.SubmitOrder(f.ctx)
		assert.ErrorIs(t, err, domainerrors.ErrEmptyCart)
	})

	t.Run("anonymous cart", func(t *testing.T) {
		f := newCartFixture(t, entity.Anonymous())
		f.seed(t, entity.Anonymous(), componentLine("C1", 1, 1))

		_, err := f.svc.SubmitOrder(f.ctx)
		assert.ErrorIs(t, err, domainerrors.ErrAuthenticationRequired)
	})

	t.Run("missing credential", func(t *testing.T) {
		user := entity.Authenticated("1")
		f := newCartFixture(t, user)
		f.seed(t, user, componentLine("C1", 1, 1))
		f.identity.EXPECT().Credential(mock.Anything).Return("", nil)

		_, err := f.svc.SubmitOrder(f.ctx)
		assert.ErrorIs(t, err, domainerrors.ErrAuthenticationRequired)
		assert.Equal(t, 1, f.svc.TotalItemCount())
	})
}

func TestCartService_SubmitOrder_Success(t *testing.T) {
	user := entity.Authenticated("7")
	f := newCartFixture(t, user)
	f.seed(t, user,
		componentLine("C1", 2.5, 2),
		furnitureLine("F1", 100, 1, entity.RequiredComponent{ComponentID: "X", Quantity: 3}),
	)

	f.identity.EXPECT().Credential(mock.Anything).Return("token-7", nil)
	f.stock.EXPECT().BillOfMaterials(mock.Anything, "F1").Return(tableBOM("F1", 3, 10), nil).Once()
	f.orders.EXPECT().
		SubmitOrder(mock.Anything, "token-7", mock.MatchedBy(func(req *entity.OrderRequest) bool {
			return req.IdentityID == "7" && len(req.Products) == 2
		})).
		Return(&entity.OrderConfirmation{OrderID: "ord-1", Message: "Pedido creado"}, nil).
		Once()

	confirmation, err := f.svc.SubmitOrder(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, "ord-1", confirmation.OrderID)
	assert.InDelta(t, 105.0, confirmation.Total, 1e-9)
	assert.Equal(t, fixedNow, confirmation.CreatedAt)
	assert.True(t, f.svc.Cart().IsEmpty())
	assert.True(t, f.svc.Identity().Equal(user))
	assert.Empty(t, f.stored(t, user).Items)
}

func TestCartService_SubmitOrder_SessionExpiredSignsOut(t *testing.T) {
	user := entity.Authenticated("7")
	f := newCartFixture(t, user)
	f.seed(t, user, componentLine("C1", 2, 1))

	f.identity.EXPECT().Credential(mock.Anything).Return("stale", nil)
	f.identity.EXPECT().Revoke(mock.Anything).Return(nil).Once()
	f.orders.EXPECT().SubmitOrder(mock.Anything, "stale", mock.Anything).
		Return(nil, errors.WithStack(domainerrors.ErrSessionExpired))

	_, err := f.svc.SubmitOrder(f.ctx)

	assert.ErrorIs(t, err, domainerrors.ErrSessionExpired)
	assert.True(t, f.svc.Identity().IsAnonymous())
	assert.Len(t, f.stored(t, user).Items, 1, "the user's cart stays stored for the next login")
}

func TestCartService_SubmitOrder_FailureKeepsCart(t *testing.T) {
	user := entity.Authenticated("7")
	f := newCartFixture(t, user)
	f.seed(t, user, componentLine("C1", 2, 1))

	f.identity.EXPECT().Credential(mock.Anything).Return("token", nil)
	f.orders.EXPECT().SubmitOrder(mock.Anything, "token", mock.Anything).
		Return(nil, errors.WithStack(domainerrors.ErrOrderRejected.WithDetails("500")))

	_, err := f.svc.SubmitOrder(f.ctx)

	assert.ErrorIs(t, err, domainerrors.ErrOrderRejected)
	assert.True(t, f.svc.Identity().Equal(user))
	assert.Equal(t, 1, f.svc.TotalItemCount())
}

func TestCartService_SubmitOrder_StockChangedBlocksCheckout(t *testing.T) {
	user := entity.Authenticated("7")
	f := newCartFixture(t, user)
	f.seed(t, user, furnitureLine("F1", 100, 2, entity.RequiredComponent{ComponentID: "X", Quantity: 3}))

	f.identity.EXPECT().Credential(mock.Anything).Return("token", nil)
	f.stock.EXPECT().BillOfMaterials(mock.Anything, "F1").Return(tableBOM("F1", 3, 5), nil)

	_, err := f.svc.SubmitOrder(f.ctx)

	var stockErr *domainerrors.StockInsufficientError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 6, stockErr.Requested)
	f.orders.AssertNotCalled(t, "SubmitOrder", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 2, f.svc.TotalItemCount())
}

func TestCartService_SubmitOrder_KeepsServerTimestamp(t *testing.T) {
	user := entity.Authenticated("7")
	f := newCartFixture(t, user)
	f.seed(t, user, componentLine("C1", 2, 1))
	placed := time.Date(2024, 4, 30, 8, 0, 0, 0, time.UTC)

	f.identity.EXPECT().Credential(mock.Anything).Return("token", nil)
	f.orders.EXPECT().SubmitOrder(mock.Anything, "token", mock.Anything).
		Return(&entity.OrderConfirmation{OrderID: "ord-2", Total: 1.5, CreatedAt: placed}, nil)

	confirmation, err := f.svc.SubmitOrder(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, placed, confirmation.CreatedAt)
	assert.InDelta(t, 1.5, confirmation.Total, 1e-9)
}

func TestCartService_SubmitOrder_RejectsOversizedStoredLine(t *testing.T) {
	user := entity.Authenticated("7")
	f := newCartFixture(t, user)
	f.seed(t, user, furnitureLine("F1", 100, math.MaxInt64/3+1, entity.RequiredComponent{ComponentID: "X", Quantity: 3}))

	f.identity.EXPECT().Credential(mock.Anything).Return("token-7", nil)
	f.stock.EXPECT().BillOfMaterials(mock.Anything, "F1").Return(tableBOM("F1", 3, 5), nil).Once()

	_, err := f.svc.SubmitOrder(f.ctx)

	assert.ErrorAs(t, err, new(*domainerrors.StockInsufficientError))
	f.orders.AssertNotCalled(t, "SubmitOrder", mock.Anything, mock.Anything, mock.Anything)
	assert.Len(t, f.svc.Cart().Items, 1)
}
