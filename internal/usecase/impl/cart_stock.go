package impl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/usecase"
)

// validate checks that the cart can hold the mutation's absolute quantity.
func (srv *cartService) validate(ctx context.Context, mutation usecase.CartMutation) (*usecase.StockPlan, error) {
	if mutation.Quantity <= 0 {
		return nil, errors.WithStack(domainerrors.ErrInvalidQuantity.WithDetails("quantity must be positive"))
	}
	if mutation.Quantity > entity.MaxLineQuantity {
		return nil, errors.WithStack(domainerrors.ErrInvalidQuantity.WithDetails(
			fmt.Sprintf("quantity must not exceed %d", entity.MaxLineQuantity)))
	}
	if mutation.Product != nil {
		if err := mutation.Product.Validate(); err != nil {
			return nil, errors.WithStack(domainerrors.ErrInvalidProduct.WithDetails(err.Error()))
		}
		if mutation.Product.Key() != mutation.Key {
			return nil, errors.WithStack(domainerrors.ErrInvalidProduct.WithDetails("product does not match the cart line"))
		}
	}
	if mutation.Product == nil && !srv.cart.Has(mutation.Key) {
		return nil, errors.WithStack(domainerrors.ErrItemNotInCart.WithDetails(mutation.Key.String()))
	}

	switch mutation.Key.Type {
	case entity.ProductTypeComponent:
		return srv.validateComponent(mutation)
	case entity.ProductTypeFurniture:
		return srv.validateFurniture(ctx, mutation)
	default:
		return nil, errors.WithStack(domainerrors.ErrInvalidProduct.WithDetails("unknown product type " + mutation.Key.Type.String()))
	}
}

// validateComponent compares the target quantity with the leaf stock. The stock
// shown with the product wins over the one stored on the line; unknown stock
// is not limited.
func (srv *cartService) validateComponent(mutation usecase.CartMutation) (*usecase.StockPlan, error) {
	name := mutation.Key.ProductID
	var stock *int

	if item, ok := srv.cart.Item(mutation.Key); ok {
		name = item.Name
		stock = item.AvailableStock
	}
	if component, ok := mutation.Product.(*entity.ComponentProduct); ok {
		name = component.Name
		if component.Stock != nil {
			s := *component.Stock
			stock = &s
		}
	}

	if stock != nil && mutation.Quantity > *stock {
		return nil, errors.WithStack(domainerrors.NewStockInsufficientError(name, mutation.Key.ProductID, mutation.Quantity, *stock))
	}

	return &usecase.StockPlan{Mutation: mutation, AvailableStock: stock}, nil
}

// validateFurniture fetches the bill of materials and checks the derived stock.
func (srv *cartService) validateFurniture(ctx context.Context, mutation usecase.CartMutation) (*usecase.StockPlan, error) {
	bom, err := srv.billOfMaterials(ctx, mutation.Key.ProductID)
	if err != nil {
		return nil, err
	}

	if err := checkDerivedStock(srv.cart, mutation.Key, mutation.Quantity, bom); err != nil {
		return nil, err
	}

	return &usecase.StockPlan{Mutation: mutation, BillOfMaterials: bom}, nil
}

// recheck repeats the local part of a plan's stock check, so lines changed after
// validation cannot push the cart past the stock the plan saw.
func (srv *cartService) recheck(plan *usecase.StockPlan) error {
	mutation := plan.Mutation
	if mutation.Quantity <= 0 || mutation.Quantity > entity.MaxLineQuantity {
		return errors.WithStack(domainerrors.ErrInvalidQuantity.WithDetails(
			fmt.Sprintf("quantity must be between 1 and %d", entity.MaxLineQuantity)))
	}

	switch mutation.Key.Type {
	case entity.ProductTypeComponent:
		if plan.AvailableStock != nil && mutation.Quantity > *plan.AvailableStock {
			return errors.WithStack(domainerrors.NewStockInsufficientError(
				mutation.Key.ProductID, mutation.Key.ProductID, mutation.Quantity, *plan.AvailableStock))
		}

		return nil
	case entity.ProductTypeFurniture:
		if plan.BillOfMaterials == nil {
			return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("stock plan has no bill of materials"))
		}

		return checkDerivedStock(srv.cart, mutation.Key, mutation.Quantity, plan.BillOfMaterials)
	default:
		return errors.WithStack(domainerrors.ErrInvalidProduct.WithDetails("unknown product type " + mutation.Key.Type.String()))
	}
}

func (srv *cartService) billOfMaterials(ctx context.Context, furnitureID string) (*entity.BillOfMaterials, error) {
	bom, err := srv.stock.BillOfMaterials(ctx, furnitureID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrFeatureUnavailable) || errors.Is(err, domainerrors.ErrStockCheckFailed) {
			return nil, errors.Wrapf(err, "bill of materials for %s", furnitureID)
		}

		return nil, errors.WithStack(domainerrors.ErrStockCheckFailed.WithDetails(err.Error()))
	}
	if bom == nil {
		return nil, errors.WithStack(domainerrors.ErrStockCheckFailed.WithDetails("empty bill of materials for " + furnitureID))
	}

	return bom, nil
}

// checkDerivedStock verifies that every component of the furniture covers the
// demand of the target quantity plus what the rest of the cart already claims.
// The line under mutation is excluded from the claimed units and counted only
// through its target quantity.
func checkDerivedStock(cart *entity.Cart, key entity.ItemKey, quantity int, bom *entity.BillOfMaterials) error {
	reserved := cart.ReservedComponents(key)

	for _, component := range bom.Components {
		if component.PerUnitQuantity <= 0 {
			continue
		}

		required := entity.AddUnits(entity.ComponentUnits(component.PerUnitQuantity, quantity), reserved[component.ID])
		if component.AvailableStock < required {
			name := component.Name
			if name == "" {
				name = component.ID
			}

			return errors.WithStack(domainerrors.NewStockInsufficientError(name, component.ID, required, component.AvailableStock))
		}
	}

	return nil
}

// revalidate re-checks the derived stock of every furniture line before checkout.
func (srv *cartService) revalidate(ctx context.Context, cart *entity.Cart) error {
	for _, item := range cart.Items {
		if item.ProductType != entity.ProductTypeFurniture {
			continue
		}

		bom, err := srv.billOfMaterials(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if err := checkDerivedStock(cart, item.Key(), item.Quantity, bom); err != nil {
			srv.log(ctx).Warn("Stock changed since the item was added",
				slog.String("product", item.Key().String()),
				slog.Any("error", err),
			)

			return err
		}
	}

	return nil
}
