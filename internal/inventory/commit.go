package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lumicafe/storefront/internal/catalog"
)

// Updater is the record-store contract the committer writes through.
type Updater interface {
	GetItem(ctx context.Context, id string) (catalog.Item, error)
	UpdateItem(ctx context.Context, id string, patch catalog.ItemPatch) error
}

// CommitResult is the outcome for one item in a commit batch.
type CommitResult struct {
	ItemID         string `json:"item_id"`
	OK             bool   `json:"ok"`
	FinalStock     int    `json:"final_stock,omitempty"`
	FinalThreshold int    `json:"final_threshold,omitempty"`
	Available      bool   `json:"available,omitempty"`
	Error          string `json:"error,omitempty"`
}

// CommitReport aggregates per-item outcomes in the order they were applied.
type CommitReport struct {
	BatchID   string         `json:"batch_id"`
	Results   []CommitResult `json:"results"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
}

// Committer flushes staged overlay edits into the record store one item at a
// time. Items are processed sequentially in first-touch order; a failure on
// one item keeps its staged edits and moves on, so the operator can retry
// just the failed ones.
type Committer struct {
	updater Updater
	logger  *slog.Logger
}

// NewCommitter builds Committer.
func NewCommitter(updater Updater, logger *slog.Logger) *Committer {
	return &Committer{updater: updater, logger: logger}
}

// Commit applies every staged edit. Successfully applied items are removed
// from the overlay; failed items stay staged and are reported with the error.
func (c *Committer) Commit(ctx context.Context, overlay *Overlay, batchID string) (CommitReport, error) {
	report := CommitReport{BatchID: batchID}
	for _, id := range overlay.ModifiedIDs() {
		result := c.commitItem(ctx, overlay, id)
		if result.OK {
			overlay.Discard(id)
			report.Succeeded++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, result)
	}
	return report, nil
}

func (c *Committer) commitItem(ctx context.Context, overlay *Overlay, id string) CommitResult {
	item, err := c.updater.GetItem(ctx, id)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("commit fetch item", slog.String("item_id", id), slog.Any("error", err))
		}
		if errors.Is(err, catalog.ErrItemNotFound) {
			return CommitResult{ItemID: id, Error: fmt.Sprintf("item %s no longer exists", id)}
		}
		return CommitResult{ItemID: id, Error: err.Error()}
	}

	final, _ := overlay.Patch(id)
	adj := overlay.AdjustmentFor(id)

	if !adj.IsZero() {
		// The stock base is the staged override when present, otherwise the
		// stored value. A staged clear falls through to the stored value, so
		// a disable-then-adjust sequence still reconciles against real stock.
		base := 0
		switch {
		case !final.ClearStock && final.StockQuantity != nil:
			base = *final.StockQuantity
		case item.StockQuantity != nil:
			base = *item.StockQuantity
		}
		finalStock := base + adj.GoodsIn - adj.GoodsOut
		if finalStock < 0 {
			finalStock = 0
		}
		// Reconciling lands on a concrete stock figure, so the committed
		// record tracks inventory regardless of what the staged patch said.
		tracked := true
		final.TrackInventory = &tracked
		final.StockQuantity = &finalStock
		final.ClearStock = false
	}

	tracking := item.TrackInventory
	if final.TrackInventory != nil {
		tracking = *final.TrackInventory
	}

	result := CommitResult{ItemID: id, OK: true}
	if tracking {
		stock := 0
		switch {
		case !final.ClearStock && final.StockQuantity != nil:
			stock = *final.StockQuantity
		case !final.ClearStock && item.StockQuantity != nil:
			stock = *item.StockQuantity
		}
		threshold := item.LowStockThreshold
		if final.LowStockThreshold != nil {
			threshold = *final.LowStockThreshold
		}
		available := stock > threshold
		final.Available = &available
		result.FinalStock = stock
		result.FinalThreshold = threshold
		result.Available = available
	}

	if err := c.updater.UpdateItem(ctx, id, final); err != nil {
		if c.logger != nil {
			c.logger.Warn("commit update item", slog.String("item_id", id), slog.Any("error", err))
		}
		return CommitResult{ItemID: id, Error: err.Error()}
	}
	return result
}
