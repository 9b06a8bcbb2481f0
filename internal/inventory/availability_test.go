package inventory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumicafe/storefront/internal/catalog"
)

func TestResolveAvailability(t *testing.T) {
	tests := []struct {
		name string
		item catalog.Item
		want Availability
	}{
		{
			name: "not tracking",
			item: catalog.Item{ID: "tea"},
			want: Availability{Status: StatusNotTracking},
		},
		{
			name: "in stock",
			item: trackedItem("latte", 10, 2),
			want: Availability{Tracking: true, Stock: intPtr(10), Threshold: 2, Low: false, Status: StatusInStock},
		},
		{
			name: "stock equal to threshold is low",
			item: trackedItem("latte", 5, 5),
			want: Availability{Tracking: true, Stock: intPtr(5), Threshold: 5, Low: true, Status: StatusLowStock},
		},
		{
			name: "stock below threshold is low",
			item: trackedItem("latte", 1, 3),
			want: Availability{Tracking: true, Stock: intPtr(1), Threshold: 3, Low: true, Status: StatusLowStock},
		},
		{
			name: "tracked without stock counts as zero",
			item: catalog.Item{ID: "latte", TrackInventory: true, LowStockThreshold: 0},
			want: Availability{Tracking: true, Stock: intPtr(0), Threshold: 0, Low: true, Status: StatusLowStock},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ResolveAvailability(tc.item))
		})
	}
}
