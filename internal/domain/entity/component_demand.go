package entity

import (
	"sort"
)

// DemandSource tells where the demand for a component comes from.
type DemandSource string

const (
	DemandSourceComponent DemandSource = "component"
	DemandSourceFurniture DemandSource = "furniture"
	DemandSourceMixed     DemandSource = "mixed"
)

// ComponentDemand is the total quantity of one component the cart needs.
type ComponentDemand struct {
	ComponentID string       `json:"componentId"`
	Name        string       `json:"name"`
	Quantity    int          `json:"quantity"`
	Source      DemandSource `json:"source"`
}

// ComponentDemandSummary aggregates the components needed by the cart: component
// lines count directly, furniture lines contribute perUnit × quantity from their
// bill-of-materials snapshot. The result is ordered by component id.
func (c *Cart) ComponentDemandSummary() []ComponentDemand {
	demand := make(map[string]*ComponentDemand)

	add := func(id, name string, quantity int, source DemandSource) {
		d, ok := demand[id]
		if !ok {
			demand[id] = &ComponentDemand{ComponentID: id, Name: name, Quantity: quantity, Source: source}

			return
		}
		d.Quantity = AddUnits(d.Quantity, quantity)
		if d.Name == "" {
			d.Name = name
		}
		if d.Source != source {
			d.Source = DemandSourceMixed
		}
	}

	for _, item := range c.Items {
		switch item.ProductType {
		case ProductTypeComponent:
			add(item.ProductID, item.Name, item.Quantity, DemandSourceComponent)
		case ProductTypeFurniture:
			for _, rc := range item.RequiredComponents {
				add(rc.ComponentID, rc.Name, ComponentUnits(rc.Quantity, item.Quantity), DemandSourceFurniture)
			}
		}
	}

	summary := make([]ComponentDemand, 0, len(demand))
	for _, d := range demand {
		summary = append(summary, *d)
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].ComponentID < summary[j].ComponentID
	})

	return summary
}

// ReservedComponents counts the component units already claimed by the cart,
// ignoring the line with the excluded key. Counts saturate instead of wrapping.
func (c *Cart) ReservedComponents(exclude ItemKey) map[string]int {
	reserved := make(map[string]int)
	for _, item := range c.Items {
		if item.Key() == exclude {
			continue
		}
		switch item.ProductType {
		case ProductTypeComponent:
			reserved[item.ProductID] = AddUnits(reserved[item.ProductID], item.Quantity)
		case ProductTypeFurniture:
			for _, rc := range item.RequiredComponents {
				reserved[rc.ComponentID] = AddUnits(reserved[rc.ComponentID], ComponentUnits(rc.Quantity, item.Quantity))
			}
		}
	}

	return reserved
}
