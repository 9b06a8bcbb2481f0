package catalog

import (
	"context"
	"errors"
)

// Variation is a named size option modifying the base price by a delta.
type Variation struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta"`
}

// AddOn is an optional extra with its own price, selectable with a repeat count.
type AddOn struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// Item is a purchasable menu entry. The record store owns the canonical copy;
// everything else in the service works against read snapshots of it.
type Item struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Category          string      `json:"category"`
	BasePrice         float64     `json:"base_price"`
	DiscountPrice     *float64    `json:"discount_price,omitempty"`
	EffectivePrice    *float64    `json:"effective_price,omitempty"`
	IsOnDiscount      bool        `json:"is_on_discount"`
	Popular           bool        `json:"popular"`
	Available         bool        `json:"available"`
	TrackInventory    bool        `json:"track_inventory"`
	StockQuantity     *int        `json:"stock_quantity,omitempty"`
	LowStockThreshold int         `json:"low_stock_threshold"`
	Variations        []Variation `json:"variations,omitempty"`
	AddOns            []AddOn     `json:"add_ons,omitempty"`
}

// Effective returns the price charged for the base item: the stored effective
// (discounted) price when present, otherwise the base price.
func (i Item) Effective() float64 {
	if i.EffectivePrice != nil {
		return *i.EffectivePrice
	}
	return i.BasePrice
}

// Variation looks up a variation by id.
func (i Item) Variation(id string) (Variation, bool) {
	for _, v := range i.Variations {
		if v.ID == id {
			return v, true
		}
	}
	return Variation{}, false
}

// AddOn looks up an add-on by id.
func (i Item) AddOn(id string) (AddOn, bool) {
	for _, a := range i.AddOns {
		if a.ID == id {
			return a, true
		}
	}
	return AddOn{}, false
}

// ItemPatch is a partial update against one item. Nil pointer fields are left
// untouched by the record store. ClearStock forces stock_quantity to NULL and
// wins over StockQuantity.
type ItemPatch struct {
	TrackInventory    *bool
	StockQuantity     *int
	ClearStock        bool
	LowStockThreshold *int
	BasePrice         *float64
	Available         *bool
}

// IsZero reports whether the patch carries no changes.
func (p ItemPatch) IsZero() bool {
	return p.TrackInventory == nil && p.StockQuantity == nil && !p.ClearStock &&
		p.LowStockThreshold == nil && p.BasePrice == nil && p.Available == nil
}

// ErrItemNotFound indicates the item id has no canonical record.
var ErrItemNotFound = errors.New("catalog: item not found")

// Store is the record-store contract the storefront core depends on.
// FetchCatalog returns a full-replace snapshot; UpdateItem applies a partial
// update to a single item.
type Store interface {
	FetchCatalog(ctx context.Context) ([]Item, error)
	UpdateItem(ctx context.Context, id string, patch ItemPatch) error
}
