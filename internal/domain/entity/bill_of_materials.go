package entity

// FurnitureInfo describes the furniture a bill of materials belongs to.
type FurnitureInfo struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
}

// BOMComponent is a component needed to assemble one unit of furniture, with its current stock.
type BOMComponent struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	UnitPrice       float64 `json:"unitPrice"`
	PerUnitQuantity int     `json:"perUnitQuantity"`
	AvailableStock  int     `json:"availableStock"`
}

// BillOfMaterials is the list of components a furniture is assembled from.
type BillOfMaterials struct {
	Furniture  FurnitureInfo  `json:"furniture"`
	Components []BOMComponent `json:"components"`
}

// RequiredComponents converts the bill of materials to the snapshot stored on a cart line.
func (b *BillOfMaterials) RequiredComponents() []RequiredComponent {
	if b == nil {
		return nil
	}

	required := make([]RequiredComponent, 0, len(b.Components))
	for _, c := range b.Components {
		required = append(required, RequiredComponent{
			ComponentID: c.ID,
			Name:        c.Name,
			UnitPrice:   c.UnitPrice,
			Quantity:    c.PerUnitQuantity,
		})
	}

	return required
}
