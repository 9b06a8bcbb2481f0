package inventory

import (
	"github.com/lumicafe/storefront/internal/catalog"
)

// Overlay is the staging area for back-office inventory edits. Field
// overrides and goods in/out adjustments live here, keyed by item id, until
// they are committed to the record store or discarded. The overlay itself is
// not safe for concurrent use; Service serialises access to it.
type Overlay struct {
	patches     map[string]catalog.ItemPatch
	adjustments map[string]Adjustment
	order       []string
}

// NewOverlay returns an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{
		patches:     make(map[string]catalog.ItemPatch),
		adjustments: make(map[string]Adjustment),
	}
}

// touch records first-edit order so commits walk items in the order the
// operator touched them.
func (o *Overlay) touch(id string) {
	if _, ok := o.patches[id]; ok {
		return
	}
	if _, ok := o.adjustments[id]; ok {
		return
	}
	o.order = append(o.order, id)
}

// MergePatch layers incoming field overrides onto the staged patch for the
// item, later writes winning per field. Toggling tracking carries defaults:
// enabling seeds the stock and threshold overrides from the item's current
// effective values so the operator sees concrete numbers to edit, and
// disabling clears the stock and zeroes the threshold.
func (o *Overlay) MergePatch(item catalog.Item, incoming catalog.ItemPatch) {
	o.touch(item.ID)
	merged := o.patches[item.ID]

	if incoming.StockQuantity != nil {
		merged.StockQuantity = incoming.StockQuantity
		merged.ClearStock = false
	}
	if incoming.ClearStock {
		merged.StockQuantity = nil
		merged.ClearStock = true
	}
	if incoming.LowStockThreshold != nil {
		merged.LowStockThreshold = incoming.LowStockThreshold
	}
	if incoming.BasePrice != nil {
		merged.BasePrice = incoming.BasePrice
	}
	if incoming.Available != nil {
		merged.Available = incoming.Available
	}
	if incoming.TrackInventory != nil {
		merged.TrackInventory = incoming.TrackInventory
		if *incoming.TrackInventory {
			if merged.StockQuantity == nil && !merged.ClearStock {
				stock := 0
				if item.StockQuantity != nil {
					stock = *item.StockQuantity
				}
				merged.StockQuantity = &stock
			}
			if merged.LowStockThreshold == nil {
				threshold := item.LowStockThreshold
				merged.LowStockThreshold = &threshold
			}
		} else {
			merged.StockQuantity = nil
			merged.ClearStock = true
			zero := 0
			merged.LowStockThreshold = &zero
		}
	}

	o.patches[item.ID] = merged
}

// AdjustStock applies a relative delta to the item's effective stock and
// stages the result as an absolute override, clamped at zero. The edit only
// applies to tracked items and forces tracking on so the override survives
// the commit.
func (o *Overlay) AdjustStock(item catalog.Item, delta int) {
	if !o.effectiveTracking(item) {
		return
	}
	o.touch(item.ID)
	merged := o.patches[item.ID]

	next := o.effectiveStock(item) + delta
	if next < 0 {
		next = 0
	}
	merged.StockQuantity = &next
	merged.ClearStock = false
	tracked := true
	merged.TrackInventory = &tracked

	o.patches[item.ID] = merged
}

// SetAdjustment stages the absolute goods-in or goods-out quantity for the
// item. Negative quantities clamp to zero.
func (o *Overlay) SetAdjustment(id string, kind AdjustmentKind, quantity int) error {
	if quantity < 0 {
		quantity = 0
	}
	o.touch(id)
	adj := o.adjustments[id]
	switch kind {
	case AdjustmentIn:
		adj.GoodsIn = quantity
	case AdjustmentOut:
		adj.GoodsOut = quantity
	default:
		return ErrInvalidAdjustmentKind
	}
	o.adjustments[id] = adj
	return nil
}

// EffectiveItem returns the item with its staged field overrides applied.
// Goods in/out adjustments are not folded in; they only affect the committed
// result.
func (o *Overlay) EffectiveItem(item catalog.Item) catalog.Item {
	patch, ok := o.patches[item.ID]
	if !ok {
		return item
	}
	if patch.TrackInventory != nil {
		item.TrackInventory = *patch.TrackInventory
	}
	if patch.ClearStock {
		item.StockQuantity = nil
	} else if patch.StockQuantity != nil {
		stock := *patch.StockQuantity
		item.StockQuantity = &stock
	}
	if patch.LowStockThreshold != nil {
		item.LowStockThreshold = *patch.LowStockThreshold
	}
	if patch.BasePrice != nil {
		item.BasePrice = *patch.BasePrice
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}
	return item
}

// Patch returns the staged patch for an item, if any.
func (o *Overlay) Patch(id string) (catalog.ItemPatch, bool) {
	patch, ok := o.patches[id]
	return patch, ok
}

// AdjustmentFor returns the staged goods in/out quantities for an item.
func (o *Overlay) AdjustmentFor(id string) Adjustment {
	return o.adjustments[id]
}

// Modified reports whether the item has any staged edit.
func (o *Overlay) Modified(id string) bool {
	if patch, ok := o.patches[id]; ok && !patch.IsZero() {
		return true
	}
	return !o.adjustments[id].IsZero()
}

// ModifiedIDs returns the ids with staged edits in first-touch order.
func (o *Overlay) ModifiedIDs() []string {
	ids := make([]string, 0, len(o.order))
	for _, id := range o.order {
		if o.Modified(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// ModifiedCount returns the number of items with staged edits.
func (o *Overlay) ModifiedCount() int {
	return len(o.ModifiedIDs())
}

// HasPendingChanges reports whether anything is staged.
func (o *Overlay) HasPendingChanges() bool {
	return o.ModifiedCount() > 0
}

// Discard drops the staged edits for one item.
func (o *Overlay) Discard(id string) {
	delete(o.patches, id)
	delete(o.adjustments, id)
	for i, ordered := range o.order {
		if ordered == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// DiscardAll drops every staged edit.
func (o *Overlay) DiscardAll() {
	o.patches = make(map[string]catalog.ItemPatch)
	o.adjustments = make(map[string]Adjustment)
	o.order = nil
}

func (o *Overlay) effectiveTracking(item catalog.Item) bool {
	if patch, ok := o.patches[item.ID]; ok && patch.TrackInventory != nil {
		return *patch.TrackInventory
	}
	return item.TrackInventory
}

func (o *Overlay) effectiveStock(item catalog.Item) int {
	if patch, ok := o.patches[item.ID]; ok {
		if patch.ClearStock {
			return 0
		}
		if patch.StockQuantity != nil {
			return *patch.StockQuantity
		}
	}
	if item.StockQuantity != nil {
		return *item.StockQuantity
	}
	return 0
}
