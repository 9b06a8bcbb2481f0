package inventory

import "github.com/lumicafe/storefront/internal/catalog"

// Availability statuses shown on the edit view.
const (
	StatusNotTracking = "not tracking"
	StatusLowStock    = "low stock"
	StatusInStock     = "in stock"
)

// Availability summarises an item's stock position for display.
type Availability struct {
	Tracking  bool   `json:"tracking"`
	Stock     *int   `json:"stock,omitempty"`
	Threshold int    `json:"threshold"`
	Low       bool   `json:"low"`
	Status    string `json:"status"`
}

// ResolveAvailability derives the stock position from the item's tracking
// state. Stock at or below the threshold counts as low.
func ResolveAvailability(item catalog.Item) Availability {
	if !item.TrackInventory {
		return Availability{Status: StatusNotTracking}
	}
	stock := 0
	if item.StockQuantity != nil {
		stock = *item.StockQuantity
	}
	avail := Availability{
		Tracking:  true,
		Stock:     &stock,
		Threshold: item.LowStockThreshold,
		Low:       stock <= item.LowStockThreshold,
	}
	if avail.Low {
		avail.Status = StatusLowStock
	} else {
		avail.Status = StatusInStock
	}
	return avail
}
