package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/lumicafe/storefront/internal/catalog"
)

type memoryCatalog struct {
	items map[string]catalog.Item
}

func (m *memoryCatalog) Get(ctx context.Context, id string) (catalog.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return catalog.Item{}, catalog.ErrItemNotFound
	}
	return item, nil
}

func newTestService(t *testing.T, items ...catalog.Item) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	byID := make(map[string]catalog.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return NewService(NewStore(client, time.Hour), &memoryCatalog{items: byID})
}

func TestServiceAddItemRoundTrip(t *testing.T) {
	item := trackedItem("latte", 10)
	svc := newTestService(t, item)
	ctx := context.Background()

	cartID, err := svc.Create(ctx)
	require.NoError(t, err)

	ledger, err := svc.AddItem(ctx, cartID, AddItemInput{ItemID: "latte", Quantity: 2, VariationID: "large"})
	require.NoError(t, err)
	require.Len(t, ledger.Lines, 1)
	require.Equal(t, 130.0, ledger.Lines[0].UnitPrice)

	reloaded, err := svc.Get(ctx, cartID)
	require.NoError(t, err)
	require.Equal(t, ledger.Lines, reloaded.Lines)
}

func TestServiceDefaultsQuantityToOne(t *testing.T) {
	svc := newTestService(t, trackedItem("latte", 10))
	ctx := context.Background()

	cartID, err := svc.Create(ctx)
	require.NoError(t, err)

	ledger, err := svc.AddItem(ctx, cartID, AddItemInput{ItemID: "latte"})
	require.NoError(t, err)
	require.Equal(t, 1, ledger.Lines[0].Quantity)
}

func TestServiceRejectsUnavailableItem(t *testing.T) {
	item := trackedItem("latte", 10)
	item.Available = false
	svc := newTestService(t, item)
	ctx := context.Background()

	cartID, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, cartID, AddItemInput{ItemID: "latte"})
	require.ErrorIs(t, err, ErrItemUnavailable)
}

func TestServiceRejectsUnknownSelections(t *testing.T) {
	svc := newTestService(t, trackedItem("latte", 10))
	ctx := context.Background()

	cartID, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, cartID, AddItemInput{ItemID: "latte", VariationID: "venti"})
	require.ErrorIs(t, err, ErrUnknownSelection)

	_, err = svc.AddItem(ctx, cartID, AddItemInput{ItemID: "latte", AddOnIDs: []string{"caramel"}})
	require.ErrorIs(t, err, ErrUnknownSelection)

	_, err = svc.AddItem(ctx, cartID, AddItemInput{ItemID: "missing"})
	require.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestServiceUnknownCart(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrCartNotFound)
}

func TestServiceLineLifecycle(t *testing.T) {
	svc := newTestService(t, trackedItem("latte", 10))
	ctx := context.Background()

	cartID, err := svc.Create(ctx)
	require.NoError(t, err)

	ledger, err := svc.AddItem(ctx, cartID, AddItemInput{ItemID: "latte", Quantity: 2})
	require.NoError(t, err)
	lineID := ledger.Lines[0].ID

	ledger, err = svc.UpdateLine(ctx, cartID, lineID, 4)
	require.NoError(t, err)
	require.Equal(t, 4, ledger.Lines[0].Quantity)

	ledger, err = svc.RemoveLine(ctx, cartID, lineID)
	require.NoError(t, err)
	require.Empty(t, ledger.Lines)

	_, err = svc.AddItem(ctx, cartID, AddItemInput{ItemID: "latte"})
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, cartID))

	reloaded, err := svc.Get(ctx, cartID)
	require.NoError(t, err)
	require.Empty(t, reloaded.Lines)
}
