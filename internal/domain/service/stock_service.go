package service

import (
	"context"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
)

// StockService is the product/stock service that knows how furniture is assembled.
type StockService interface {
	// BillOfMaterials returns the components of the furniture with their current stock.
	// It fails with ErrFeatureUnavailable when the lookup is not supported for the
	// product and with ErrStockCheckFailed for any other failure.
	BillOfMaterials(ctx context.Context, furnitureID string) (*entity.BillOfMaterials, error)
}
