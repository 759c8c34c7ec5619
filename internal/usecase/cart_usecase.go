// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
)

// CartMutation describes a change of one cart line to an absolute quantity.
// Product is required when the line does not exist yet.
type CartMutation struct {
	Key      entity.ItemKey
	Quantity int
	Product  entity.Product
}

// StockPlan is a mutation that passed stock validation and can be committed.
type StockPlan struct {
	Mutation CartMutation
	// AvailableStock is the leaf stock the component check used, if any.
	AvailableStock *int
	// BillOfMaterials is the composition fetched for furniture lines.
	BillOfMaterials *entity.BillOfMaterials
}

// CartUsecase is the cart/session store of a single client. It owns the active
// cart, persists it per identity and performs identity transitions and checkout.
type CartUsecase interface {
	// Initialize resolves the current identity and loads its cart. It is idempotent.
	Initialize(ctx context.Context) error

	AddItem(ctx context.Context, product entity.Product) (*entity.Cart, error)
	RemoveItem(ctx context.Context, key entity.ItemKey) (*entity.Cart, error)
	UpdateQuantity(ctx context.Context, key entity.ItemKey, quantity int) (*entity.Cart, error)
	ClearCart(ctx context.Context) (*entity.Cart, error)

	// ValidateMutation checks stock for the mutation without changing the cart.
	ValidateMutation(ctx context.Context, mutation CartMutation) (*StockPlan, error)
	// CommitMutation applies a validated plan and persists the cart. A plan whose
	// stock no longer covers the cart is rejected.
	CommitMutation(ctx context.Context, plan *StockPlan) (*entity.Cart, error)

	// Login switches to the user's cart, merging or transferring the anonymous cart.
	Login(ctx context.Context, identity entity.Identity) (*entity.Cart, error)
	// Register moves the anonymous cart to a freshly created user.
	Register(ctx context.Context, identity entity.Identity) (*entity.Cart, error)
	// Logout keeps the user's cart stored and switches back to the anonymous cart.
	Logout(ctx context.Context) (*entity.Cart, error)

	// SubmitOrder places an order for the active cart and empties it on success.
	SubmitOrder(ctx context.Context) (*entity.OrderConfirmation, error)

	Cart() *entity.Cart
	Identity() entity.Identity
	TotalItemCount() int
	HasProduct(key entity.ItemKey) bool
	ComponentDemandSummary() []entity.ComponentDemand
}
