package inventory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumicafe/storefront/internal/catalog"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func f64Ptr(v float64) *float64 { return &v }

func trackedItem(id string, stock, threshold int) catalog.Item {
	return catalog.Item{
		ID:                id,
		Name:              id,
		BasePrice:         100,
		Available:         true,
		TrackInventory:    true,
		StockQuantity:     intPtr(stock),
		LowStockThreshold: threshold,
	}
}

func TestMergePatchLaterWins(t *testing.T) {
	overlay := NewOverlay()
	item := trackedItem("latte", 10, 2)

	overlay.MergePatch(item, catalog.ItemPatch{StockQuantity: intPtr(7)})
	overlay.MergePatch(item, catalog.ItemPatch{StockQuantity: intPtr(4), BasePrice: f64Ptr(110)})

	effective := overlay.EffectiveItem(item)
	require.Equal(t, 4, *effective.StockQuantity)
	require.Equal(t, 110.0, effective.BasePrice)
	require.Equal(t, 2, effective.LowStockThreshold)
}

func TestEnableTrackingSeedsDefaults(t *testing.T) {
	overlay := NewOverlay()
	item := catalog.Item{ID: "tea", StockQuantity: intPtr(8), LowStockThreshold: 3}

	overlay.MergePatch(item, catalog.ItemPatch{TrackInventory: boolPtr(true)})

	effective := overlay.EffectiveItem(item)
	require.True(t, effective.TrackInventory)
	require.Equal(t, 8, *effective.StockQuantity)
	require.Equal(t, 3, effective.LowStockThreshold)
}

func TestEnableTrackingWithoutStockDefaultsToZero(t *testing.T) {
	overlay := NewOverlay()
	item := catalog.Item{ID: "tea"}

	overlay.MergePatch(item, catalog.ItemPatch{TrackInventory: boolPtr(true)})

	effective := overlay.EffectiveItem(item)
	require.True(t, effective.TrackInventory)
	require.Equal(t, 0, *effective.StockQuantity)
}

func TestEnableTrackingKeepsExplicitStock(t *testing.T) {
	overlay := NewOverlay()
	item := catalog.Item{ID: "tea", StockQuantity: intPtr(8)}

	overlay.MergePatch(item, catalog.ItemPatch{StockQuantity: intPtr(20)})
	overlay.MergePatch(item, catalog.ItemPatch{TrackInventory: boolPtr(true)})

	effective := overlay.EffectiveItem(item)
	require.Equal(t, 20, *effective.StockQuantity)
}

func TestDisableTrackingClearsStock(t *testing.T) {
	overlay := NewOverlay()
	item := trackedItem("latte", 10, 2)

	overlay.MergePatch(item, catalog.ItemPatch{StockQuantity: intPtr(20)})
	overlay.MergePatch(item, catalog.ItemPatch{TrackInventory: boolPtr(false)})

	effective := overlay.EffectiveItem(item)
	require.False(t, effective.TrackInventory)
	require.Nil(t, effective.StockQuantity)
	require.Zero(t, effective.LowStockThreshold)
}

func TestAdjustStockStoresAbsoluteOverride(t *testing.T) {
	overlay := NewOverlay()
	item := trackedItem("latte", 10, 2)

	overlay.AdjustStock(item, -3)
	effective := overlay.EffectiveItem(item)
	require.Equal(t, 7, *effective.StockQuantity)

	// The second delta compounds on the staged value, not the stored one.
	overlay.AdjustStock(item, -10)
	effective = overlay.EffectiveItem(item)
	require.Equal(t, 0, *effective.StockQuantity)
}

func TestAdjustStockIgnoresUntrackedItems(t *testing.T) {
	overlay := NewOverlay()
	item := catalog.Item{ID: "tea"}

	overlay.AdjustStock(item, 5)
	require.False(t, overlay.HasPendingChanges())
}

func TestAdjustStockForcesTracking(t *testing.T) {
	overlay := NewOverlay()
	item := trackedItem("latte", 10, 2)

	overlay.MergePatch(item, catalog.ItemPatch{TrackInventory: boolPtr(false)})
	overlay.AdjustStock(item, 5)
	require.False(t, overlay.EffectiveItem(item).TrackInventory)

	overlay.MergePatch(item, catalog.ItemPatch{TrackInventory: boolPtr(true)})
	overlay.AdjustStock(item, 5)
	effective := overlay.EffectiveItem(item)
	require.True(t, effective.TrackInventory)
}

func TestSetAdjustment(t *testing.T) {
	overlay := NewOverlay()

	require.NoError(t, overlay.SetAdjustment("latte", AdjustmentIn, 10))
	require.NoError(t, overlay.SetAdjustment("latte", AdjustmentOut, 3))
	require.Equal(t, Adjustment{GoodsIn: 10, GoodsOut: 3}, overlay.AdjustmentFor("latte"))

	require.NoError(t, overlay.SetAdjustment("latte", AdjustmentIn, -5))
	require.Equal(t, Adjustment{GoodsIn: 0, GoodsOut: 3}, overlay.AdjustmentFor("latte"))

	require.ErrorIs(t, overlay.SetAdjustment("latte", "sideways", 1), ErrInvalidAdjustmentKind)
}

func TestModifiedIDsKeepFirstTouchOrder(t *testing.T) {
	overlay := NewOverlay()
	latte := trackedItem("latte", 10, 2)
	tea := trackedItem("tea", 5, 1)

	overlay.MergePatch(tea, catalog.ItemPatch{StockQuantity: intPtr(4)})
	require.NoError(t, overlay.SetAdjustment("latte", AdjustmentIn, 2))
	overlay.MergePatch(tea, catalog.ItemPatch{BasePrice: f64Ptr(90)})

	require.Equal(t, []string{"tea", "latte"}, overlay.ModifiedIDs())
	require.Equal(t, 2, overlay.ModifiedCount())

	overlay.Discard("tea")
	require.Equal(t, []string{"latte"}, overlay.ModifiedIDs())
	require.Equal(t, latte.ID, overlay.ModifiedIDs()[0])

	overlay.DiscardAll()
	require.False(t, overlay.HasPendingChanges())
}

func TestZeroAdjustmentIsNotModified(t *testing.T) {
	overlay := NewOverlay()
	require.NoError(t, overlay.SetAdjustment("latte", AdjustmentIn, 0))
	require.False(t, overlay.Modified("latte"))
	require.Zero(t, overlay.ModifiedCount())
}
