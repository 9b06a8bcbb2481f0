package catalog

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	items   []Item
	fetches int
}

func (m *memoryStore) FetchCatalog(ctx context.Context) ([]Item, error) {
	m.fetches++
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memoryStore) UpdateItem(ctx context.Context, id string, patch ItemPatch) error {
	for i := range m.items {
		if m.items[i].ID == id {
			if patch.Available != nil {
				m.items[i].Available = *patch.Available
			}
			return nil
		}
	}
	return ErrItemNotFound
}

func newTestService(t *testing.T, store *memoryStore) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(store, NewCache(client, time.Minute), slog.Default())
}

func testItems() []Item {
	return []Item{
		{ID: "latte", Name: "Cafe Latte", Description: "espresso with steamed milk", Category: "coffee"},
		{ID: "americano", Name: "Americano", Description: "espresso with hot water", Category: "coffee"},
		{ID: "mango-shake", Name: "Mango Shake", Description: "fresh mango", Category: "drinks"},
	}
}

func TestSnapshotServedFromCache(t *testing.T) {
	store := &memoryStore{items: testItems()}
	svc := newTestService(t, store)
	ctx := context.Background()

	first, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)

	_, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, store.fetches)

	svc.Invalidate(ctx)
	_, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, store.fetches)
}

func TestListFilters(t *testing.T) {
	svc := newTestService(t, &memoryStore{items: testItems()})
	ctx := context.Background()

	coffee, err := svc.List(ctx, ListFilter{Category: "coffee"})
	require.NoError(t, err)
	require.Len(t, coffee, 2)

	byName, err := svc.List(ctx, ListFilter{Query: "MANGO"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	require.Equal(t, "mango-shake", byName[0].ID)

	byDescription, err := svc.List(ctx, ListFilter{Query: "steamed"})
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	require.Equal(t, "latte", byDescription[0].ID)

	none, err := svc.List(ctx, ListFilter{Category: "coffee", Query: "mango"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestGet(t *testing.T) {
	svc := newTestService(t, &memoryStore{items: testItems()})
	ctx := context.Background()

	item, err := svc.Get(ctx, "americano")
	require.NoError(t, err)
	require.Equal(t, "Americano", item.Name)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrItemNotFound)
}
