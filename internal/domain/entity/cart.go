package entity

import (
	"slices"
)

// RequiredComponent is one line of the bill of materials captured on a furniture cart line.
type RequiredComponent struct {
	ComponentID string  `json:"componentId"`
	Name        string  `json:"name"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"` // per furniture unit
}

// CartItem is one line of the cart.
type CartItem struct {
	ProductID          string              `json:"productId"`
	ProductType        ProductType         `json:"productType"`
	Name               string              `json:"name"`
	UnitPrice          float64             `json:"unitPrice"`
	Quantity           int                 `json:"quantity"`
	AvailableStock     *int                `json:"availableStock,omitempty"`     // components only
	RequiredComponents []RequiredComponent `json:"requiredComponents,omitempty"` // furniture only
}

// Key returns the line identity.
func (i *CartItem) Key() ItemKey {
	return ItemKey{ProductID: i.ProductID, Type: i.ProductType}
}

// Subtotal is unit price times quantity.
func (i *CartItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Clone deep-copies the line.
func (i CartItem) Clone() CartItem {
	if i.AvailableStock != nil {
		stock := *i.AvailableStock
		i.AvailableStock = &stock
	}
	i.RequiredComponents = slices.Clone(i.RequiredComponents)

	return i
}

// NewCartItem builds a fresh line for the product with the given quantity.
func NewCartItem(product Product, quantity int) CartItem {
	key := product.Key()
	item := CartItem{
		ProductID:   key.ProductID,
		ProductType: key.Type,
		Name:        product.DisplayName(),
		UnitPrice:   product.Price(),
		Quantity:    quantity,
	}
	if component, ok := product.(*ComponentProduct); ok && component.Stock != nil {
		stock := *component.Stock
		item.AvailableStock = &stock
	}

	return item
}

// CartSnapshot is the persisted form of a cart.
type CartSnapshot struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// Cart is the active cart of one identity. Total is derived from the items and
// is refreshed by Recalculate after every change.
type Cart struct {
	Owner Identity
	Items []CartItem
	Total float64
}

// NewCart returns an empty cart for the owner.
func NewCart(owner Identity) *Cart {
	return &Cart{Owner: owner, Items: []CartItem{}}
}

// NewCartFromSnapshot restores a cart, dropping lines without a positive quantity.
// The stored total is ignored and recomputed.
func NewCartFromSnapshot(owner Identity, snapshot *CartSnapshot) *Cart {
	cart := NewCart(owner)
	if snapshot == nil {
		return cart
	}

	for _, item := range snapshot.Items {
		if item.Quantity <= 0 || item.ProductID == "" || !item.ProductType.IsValid() {
			continue
		}
		if idx, ok := cart.Find(item.Key()); ok {
			cart.Items[idx].Quantity = AddUnits(cart.Items[idx].Quantity, item.Quantity)

			continue
		}
		cart.Items = append(cart.Items, item.Clone())
	}
	cart.Recalculate()

	return cart
}

// Recalculate sets Total to the sum of line subtotals.
func (c *Cart) Recalculate() {
	var total float64
	for i := range c.Items {
		total += c.Items[i].Subtotal()
	}
	c.Total = total
}

// Find returns the index of the line with the key.
func (c *Cart) Find(key ItemKey) (int, bool) {
	idx := slices.IndexFunc(c.Items, func(item CartItem) bool {
		return item.Key() == key
	})

	return idx, idx >= 0
}

// Item returns a copy of the line with the key.
func (c *Cart) Item(key ItemKey) (CartItem, bool) {
	idx, ok := c.Find(key)
	if !ok {
		return CartItem{}, false
	}

	return c.Items[idx].Clone(), true
}

// Has reports whether a line with the key exists.
func (c *Cart) Has(key ItemKey) bool {
	_, ok := c.Find(key)

	return ok
}

// Upsert replaces the line with the same key or appends it.
func (c *Cart) Upsert(item CartItem) {
	if idx, ok := c.Find(item.Key()); ok {
		c.Items[idx] = item
	} else {
		c.Items = append(c.Items, item)
	}
	c.Recalculate()
}

// Remove deletes the line with the key; it reports whether a line was removed.
func (c *Cart) Remove(key ItemKey) bool {
	idx, ok := c.Find(key)
	if !ok {
		return false
	}
	c.Items = slices.Delete(c.Items, idx, idx+1)
	c.Recalculate()

	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.Total = 0
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItemCount sums the quantities of all lines.
func (c *Cart) TotalItemCount() int {
	count := 0
	for i := range c.Items {
		count += c.Items[i].Quantity
	}

	return count
}

// Clone deep-copies the cart.
func (c *Cart) Clone() *Cart {
	clone := &Cart{Owner: c.Owner, Total: c.Total, Items: make([]CartItem, 0, len(c.Items))}
	for _, item := range c.Items {
		clone.Items = append(clone.Items, item.Clone())
	}

	return clone
}

// WithOwner returns a copy of the cart bound to another identity.
func (c *Cart) WithOwner(owner Identity) *Cart {
	clone := c.Clone()
	clone.Owner = owner

	return clone
}

// Snapshot returns the persisted form.
func (c *Cart) Snapshot() *CartSnapshot {
	clone := c.Clone()

	return &CartSnapshot{Items: clone.Items, Total: clone.Total}
}
