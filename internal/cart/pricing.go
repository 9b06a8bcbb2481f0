package cart

import "github.com/lumicafe/storefront/internal/catalog"

// SelectedAddOn couples an add-on snapshot with a repeat count.
type SelectedAddOn struct {
	catalog.AddOn
	Quantity int `json:"quantity"`
}

// UnitPrice computes the price of a single unit of a customised selection:
// the item's effective (possibly discounted) price, plus the variation delta,
// plus each add-on price multiplied by its repeat count. Pure; the same
// inputs always produce the same price.
func UnitPrice(item catalog.Item, variation *catalog.Variation, addOns []SelectedAddOn) float64 {
	price := item.Effective()
	if variation != nil {
		price += variation.PriceDelta
	}
	for _, addOn := range addOns {
		price += addOn.Price * float64(addOn.Quantity)
	}
	return price
}

// GroupAddOns collapses repeated add-on selections into one entry per id with
// a summed repeat count. Order of first occurrence is preserved.
func GroupAddOns(addOns []catalog.AddOn) []SelectedAddOn {
	if len(addOns) == 0 {
		return nil
	}
	grouped := make([]SelectedAddOn, 0, len(addOns))
	index := make(map[string]int, len(addOns))
	for _, addOn := range addOns {
		if i, ok := index[addOn.ID]; ok {
			grouped[i].Quantity++
			continue
		}
		index[addOn.ID] = len(grouped)
		grouped = append(grouped, SelectedAddOn{AddOn: addOn, Quantity: 1})
	}
	return grouped
}
