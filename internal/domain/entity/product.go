// Package entity contains the core business objects of the storefront.
package entity

import (
	"strings"

	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
)

// ProductType distinguishes leaf components from furniture assembled from components.
type ProductType string

const (
	// ProductTypeComponent is a sellable leaf part with its own stock.
	ProductTypeComponent ProductType = "component"
	// ProductTypeFurniture is built from components; its stock is derived.
	ProductTypeFurniture ProductType = "furniture"
)

// String returns the string representation of the ProductType.
func (p ProductType) String() string {
	return string(p)
}

// IsValid checks if the ProductType is a valid value.
func (p ProductType) IsValid() bool {
	switch p {
	case ProductTypeComponent, ProductTypeFurniture:
		return true
	default:
		return false
	}
}

// ParseProductType accepts the wire names, case-insensitively.
func ParseProductType(raw string) (ProductType, bool) {
	pt := ProductType(strings.ToLower(strings.TrimSpace(raw)))

	return pt, pt.IsValid()
}

// ItemKey identifies a cart line. A component and a furniture may share a ProductID.
type ItemKey struct {
	ProductID string      `json:"productId"`
	Type      ProductType `json:"productType"`
}

// ComponentKey builds the key of a component line.
func ComponentKey(id string) ItemKey {
	return ItemKey{ProductID: id, Type: ProductTypeComponent}
}

// FurnitureKey builds the key of a furniture line.
func FurnitureKey(id string) ItemKey {
	return ItemKey{ProductID: id, Type: ProductTypeFurniture}
}

func (k ItemKey) String() string {
	return string(k.Type) + ":" + k.ProductID
}

// Product is either a *ComponentProduct or a *FurnitureProduct.
type Product interface {
	Key() ItemKey
	DisplayName() string
	Price() float64
	Validate() error

	isProduct()
}

// ComponentProduct is a leaf product as presented by the catalog.
type ComponentProduct struct {
	ID        string
	Name      string
	UnitPrice float64
	// Stock is the availability the caller saw; nil means unknown.
	Stock *int
}

func (p *ComponentProduct) Key() ItemKey        { return ComponentKey(p.ID) }
func (p *ComponentProduct) DisplayName() string { return p.Name }
func (p *ComponentProduct) Price() float64      { return p.UnitPrice }
func (*ComponentProduct) isProduct()            {}

// Validate rejects products that cannot become a cart line.
func (p *ComponentProduct) Validate() error {
	if err := validateProduct(p.ID, p.UnitPrice); err != nil {
		return err
	}
	if p.Stock != nil && *p.Stock < 0 {
		return errors.New("stock must not be negative")
	}

	return nil
}

// FurnitureProduct is a composite product whose stock comes from its bill of materials.
type FurnitureProduct struct {
	ID        string
	Name      string
	UnitPrice float64
}

func (p *FurnitureProduct) Key() ItemKey        { return FurnitureKey(p.ID) }
func (p *FurnitureProduct) DisplayName() string { return p.Name }
func (p *FurnitureProduct) Price() float64      { return p.UnitPrice }
func (*FurnitureProduct) isProduct()            {}

// Validate rejects products that cannot become a cart line.
func (p *FurnitureProduct) Validate() error {
	return validateProduct(p.ID, p.UnitPrice)
}

func validateProduct(id string, price float64) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("product id is required")
	}
	if price < 0 {
		return errors.New("unit price must not be negative")
	}

	return nil
}
