package inventory

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumicafe/storefront/internal/catalog"
)

type fakeCatalog struct {
	updater     *memoryUpdater
	invalidated int
}

func (f *fakeCatalog) Snapshot(ctx context.Context) ([]catalog.Item, error) {
	items := make([]catalog.Item, 0, len(f.updater.items))
	for _, id := range []string{"latte", "tea", "mango-shake"} {
		if item, ok := f.updater.items[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeCatalog) Get(ctx context.Context, id string) (catalog.Item, error) {
	return f.updater.GetItem(ctx, id)
}

func (f *fakeCatalog) Invalidate(ctx context.Context) {
	f.invalidated++
}

func newTestInventory(items ...catalog.Item) (*Service, *fakeCatalog, *memoryUpdater) {
	updater := newMemoryUpdater(items...)
	catalogPort := &fakeCatalog{updater: updater}
	committer := NewCommitter(updater, slog.Default())
	svc := NewService(catalogPort, committer, nil, nil, slog.Default())
	return svc, catalogPort, updater
}

func TestEditViewAppliesStagedEdits(t *testing.T) {
	svc, _, _ := newTestInventory(trackedItem("latte", 10, 2), trackedItem("tea", 5, 5))
	ctx := context.Background()

	require.NoError(t, svc.StageOverrides(ctx, "latte", catalog.ItemPatch{StockQuantity: intPtr(1)}))
	require.NoError(t, svc.SetAdjustment(ctx, "tea", AdjustmentIn, 4))

	view, err := svc.EditView(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 2, view.ModifiedCount)
	require.False(t, view.CommitInProgress)
	require.Len(t, view.Items, 2)

	latte := view.Items[0]
	require.Equal(t, 1, *latte.StockQuantity)
	require.True(t, latte.Modified)
	require.Equal(t, StatusLowStock, latte.Availability.Status)

	tea := view.Items[1]
	require.Equal(t, 5, *tea.StockQuantity)
	require.Equal(t, Adjustment{GoodsIn: 4}, tea.Adjustment)
	require.Equal(t, StatusLowStock, tea.Availability.Status)
}

func TestEditViewSearch(t *testing.T) {
	svc, _, _ := newTestInventory(trackedItem("latte", 10, 2), trackedItem("tea", 5, 1))

	view, err := svc.EditView(context.Background(), "LATTE")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, "latte", view.Items[0].ID)
}

func TestStageOverridesUnknownItem(t *testing.T) {
	svc, _, _ := newTestInventory()
	err := svc.StageOverrides(context.Background(), "ghost", catalog.ItemPatch{StockQuantity: intPtr(1)})
	require.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestCommitInvalidatesCatalogCache(t *testing.T) {
	svc, catalogPort, updater := newTestInventory(trackedItem("latte", 2, 0))
	ctx := context.Background()

	require.NoError(t, svc.SetAdjustment(ctx, "latte", AdjustmentIn, 3))

	report, err := svc.Commit(ctx, CommitInput{Actor: "barista"})
	require.NoError(t, err)
	require.Equal(t, 1, report.Succeeded)
	require.NotEmpty(t, report.BatchID)
	require.Equal(t, 1, catalogPort.invalidated)
	require.Equal(t, 5, *updater.items["latte"].StockQuantity)

	// Nothing staged, nothing invalidated.
	empty, err := svc.Commit(ctx, CommitInput{})
	require.NoError(t, err)
	require.Zero(t, empty.Succeeded)
	require.Equal(t, 1, catalogPort.invalidated)
}

func TestCommitRejectsConcurrentRuns(t *testing.T) {
	svc, _, _ := newTestInventory(trackedItem("latte", 2, 0))
	svc.committing.Store(true)

	_, err := svc.Commit(context.Background(), CommitInput{})
	require.ErrorIs(t, err, ErrCommitInProgress)
}

func TestDiscardChanges(t *testing.T) {
	svc, _, _ := newTestInventory(trackedItem("latte", 2, 0))
	ctx := context.Background()

	require.NoError(t, svc.AdjustStock(ctx, "latte", 5))
	view, err := svc.EditView(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 1, view.ModifiedCount)

	svc.DiscardChanges()
	view, err = svc.EditView(ctx, "")
	require.NoError(t, err)
	require.Zero(t, view.ModifiedCount)
	require.Equal(t, 2, *view.Items[0].StockQuantity)
}
