package cart

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lumicafe/storefront/internal/catalog"
)

// ErrOutOfStock is returned when an add or update would push the combined
// quantity for a tracked item past its stock. The ledger is left unchanged.
var ErrOutOfStock = errors.New("cart: insufficient stock")

// ErrLineNotFound indicates an unknown cart line id.
var ErrLineNotFound = errors.New("cart: line not found")

// Line is one cart entry. UnitPrice is computed when the line is created and
// frozen until the line is replaced; TrackInventory and StockQuantity are a
// snapshot of the item's stock state at add time, used for admission checks.
type Line struct {
	ID                string             `json:"id"`
	MenuItemID        string             `json:"menu_item_id"`
	Name              string             `json:"name"`
	Quantity          int                `json:"quantity"`
	UnitPrice         float64            `json:"unit_price"`
	SelectedVariation *catalog.Variation `json:"selected_variation,omitempty"`
	SelectedAddOns    []SelectedAddOn    `json:"selected_add_ons,omitempty"`
	TrackInventory    bool               `json:"track_inventory"`
	StockQuantity     *int               `json:"stock_quantity,omitempty"`
}

// Ledger owns the list of cart lines for one cart.
type Ledger struct {
	Lines []Line `json:"lines"`
}

// Add admits a selection into the ledger. Stock is shared across all variants
// of the same catalog item, so the check sums every line referencing it. A
// selection matching an existing line's identity merges into that line without
// recomputing its price.
func (l *Ledger) Add(item catalog.Item, quantity int, variation *catalog.Variation, addOns []catalog.AddOn) (Line, error) {
	if quantity < 1 {
		return Line{}, fmt.Errorf("cart: quantity must be positive, got %d", quantity)
	}
	if item.TrackInventory && item.StockQuantity != nil {
		existing := l.quantityFor(item.ID, "")
		if existing+quantity > *item.StockQuantity {
			return Line{}, fmt.Errorf("%w: only %d units of %s available", ErrOutOfStock, *item.StockQuantity, item.Name)
		}
	}

	grouped := GroupAddOns(addOns)
	id := lineID(item.ID, variation, grouped)

	for i := range l.Lines {
		if l.Lines[i].ID == id {
			l.Lines[i].Quantity += quantity
			return l.Lines[i], nil
		}
	}

	line := Line{
		ID:                id,
		MenuItemID:        item.ID,
		Name:              item.Name,
		Quantity:          quantity,
		UnitPrice:         UnitPrice(item, variation, grouped),
		SelectedVariation: variation,
		SelectedAddOns:    grouped,
		TrackInventory:    item.TrackInventory,
		StockQuantity:     item.StockQuantity,
	}
	l.Lines = append(l.Lines, line)
	return line, nil
}

// UpdateQuantity replaces a line's quantity. Non-positive quantities remove
// the line. The stock check covers the other lines sharing the same catalog
// item plus the new quantity; the frozen price is untouched.
func (l *Ledger) UpdateQuantity(lineID string, quantity int) error {
	if quantity <= 0 {
		l.Remove(lineID)
		return nil
	}
	var target *Line
	for i := range l.Lines {
		if l.Lines[i].ID == lineID {
			target = &l.Lines[i]
			break
		}
	}
	if target == nil {
		return ErrLineNotFound
	}
	if target.TrackInventory && target.StockQuantity != nil {
		others := l.quantityFor(target.MenuItemID, lineID)
		if others+quantity > *target.StockQuantity {
			return fmt.Errorf("%w: only %d units of %s available", ErrOutOfStock, *target.StockQuantity, target.Name)
		}
	}
	target.Quantity = quantity
	return nil
}

// Remove drops the line unconditionally.
func (l *Ledger) Remove(lineID string) {
	kept := l.Lines[:0]
	for _, line := range l.Lines {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}
	l.Lines = kept
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.Lines = nil
}

// TotalPrice sums frozen unit price times quantity over all lines.
func (l *Ledger) TotalPrice() float64 {
	var total float64
	for _, line := range l.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// TotalItemCount sums quantities over all lines.
func (l *Ledger) TotalItemCount() int {
	var count int
	for _, line := range l.Lines {
		count += line.Quantity
	}
	return count
}

// quantityFor sums quantities of lines referencing the catalog item,
// excluding at most one line id.
func (l *Ledger) quantityFor(menuItemID, excludeLineID string) int {
	var sum int
	for _, line := range l.Lines {
		if line.MenuItemID == menuItemID && line.ID != excludeLineID {
			sum += line.Quantity
		}
	}
	return sum
}

// lineID derives the composite identity key deciding whether two selections
// are the same logical line: item id, variation id (or "default"), and the
// sorted add-on id/count tokens (or "none").
func lineID(itemID string, variation *catalog.Variation, addOns []SelectedAddOn) string {
	variationID := "default"
	if variation != nil {
		variationID = variation.ID
	}
	addOnKey := "none"
	if len(addOns) > 0 {
		tokens := make([]string, 0, len(addOns))
		for _, addOn := range addOns {
			tokens = append(tokens, fmt.Sprintf("%s-%d", addOn.ID, addOn.Quantity))
		}
		sort.Strings(tokens)
		addOnKey = strings.Join(tokens, ",")
	}
	return fmt.Sprintf("%s-%s-%s", itemID, variationID, addOnKey)
}
