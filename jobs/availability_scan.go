package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/lumicafe/storefront/internal/catalog"
)

// AvailabilityScanner realigns each tracked item's stored availability flag
// with its stock position. Manual edits and direct database writes can leave
// the flag stale; the periodic scan walks the catalog and repairs drift.
type AvailabilityScanner struct {
	store      catalog.Store
	invalidate func(context.Context)
	logger     *slog.Logger
}

// NewAvailabilityScanner builds the scanner. invalidate may be nil when no
// cache sits in front of the store.
func NewAvailabilityScanner(store catalog.Store, invalidate func(context.Context), logger *slog.Logger) *AvailabilityScanner {
	return &AvailabilityScanner{store: store, invalidate: invalidate, logger: logger}
}

// Handle processes TaskAvailabilityScan tasks.
func (s *AvailabilityScanner) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	items, err := s.store.FetchCatalog(ctx)
	if err != nil {
		return err
	}
	repaired := 0
	for _, item := range items {
		if !item.TrackInventory {
			continue
		}
		stock := 0
		if item.StockQuantity != nil {
			stock = *item.StockQuantity
		}
		want := stock > item.LowStockThreshold
		if item.Available == want {
			continue
		}
		available := want
		if err := s.store.UpdateItem(ctx, item.ID, catalog.ItemPatch{Available: &available}); err != nil {
			s.logger.Warn("availability scan update", slog.String("item_id", item.ID), slog.Any("error", err))
			continue
		}
		repaired++
	}
	if repaired > 0 && s.invalidate != nil {
		s.invalidate(ctx)
	}
	s.logger.Info("availability scan done",
		slog.Int("items", len(items)),
		slog.Int("repaired", repaired),
	)
	return nil
}
