package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/lumicafe/storefront/internal/shared"
)

// idempotencyRetention bounds how long processed commit keys are kept.
const idempotencyRetention = 7 * 24 * time.Hour

// MaintenanceWorker handles housekeeping tasks.
type MaintenanceWorker struct {
	idem   *shared.IdempotencyStore
	logger *slog.Logger
}

// NewMaintenanceWorker builds the worker.
func NewMaintenanceWorker(idem *shared.IdempotencyStore, logger *slog.Logger) *MaintenanceWorker {
	return &MaintenanceWorker{idem: idem, logger: logger}
}

// HandleIdempotencyCleanup processes TaskIdempotencyCleanup tasks.
func (m *MaintenanceWorker) HandleIdempotencyCleanup(ctx context.Context, t *asynq.Task) error {
	var payload ScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if err := m.idem.Cleanup(ctx, idempotencyRetention); err != nil {
		return err
	}
	m.logger.Info("idempotency cleanup done")
	return nil
}
