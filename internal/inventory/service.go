package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/lumicafe/storefront/internal/catalog"
	"github.com/lumicafe/storefront/internal/shared"
)

// CatalogPort is the catalog read side the edit view works against.
type CatalogPort interface {
	Snapshot(ctx context.Context) ([]catalog.Item, error)
	Get(ctx context.Context, id string) (catalog.Item, error)
	Invalidate(ctx context.Context)
}

// EditItem is one row of the back-office edit view: the item with staged
// overrides applied, its derived stock position, and any staged goods in/out.
type EditItem struct {
	catalog.Item
	Availability Availability `json:"availability"`
	Adjustment   Adjustment   `json:"adjustment"`
	Modified     bool         `json:"modified"`
}

// EditView is the full back-office listing.
type EditView struct {
	Items            []EditItem `json:"items"`
	ModifiedCount    int        `json:"modified_count"`
	CommitInProgress bool       `json:"commit_in_progress"`
}

// CommitInput names the actor and optional idempotency key for a commit.
type CommitInput struct {
	Actor          string
	IdempotencyKey string
}

// CommitObserver receives per-batch commit outcome counts.
type CommitObserver interface {
	ObserveCommit(succeeded, failed int)
}

// Service owns the staging overlay and drives commits. All overlay access
// goes through its mutex; at most one commit runs at a time.
type Service struct {
	mu        sync.Mutex
	overlay   *Overlay
	committer *Committer
	catalog   CatalogPort
	audit     *shared.AuditLogger
	idem      *shared.IdempotencyStore
	logger    *slog.Logger
	observer  CommitObserver

	committing atomic.Bool
}

// NewService builds Service with an empty overlay.
func NewService(catalogPort CatalogPort, committer *Committer, audit *shared.AuditLogger, idem *shared.IdempotencyStore, logger *slog.Logger) *Service {
	return &Service{
		overlay:   NewOverlay(),
		committer: committer,
		catalog:   catalogPort,
		audit:     audit,
		idem:      idem,
		logger:    logger,
	}
}

// WithObserver attaches a commit outcome observer.
func (s *Service) WithObserver(observer CommitObserver) *Service {
	s.observer = observer
	return s
}

// EditView returns every catalog item with staged edits applied, optionally
// narrowed by a case-folded search over name, description and category.
func (s *Service) EditView(ctx context.Context, query string) (EditView, error) {
	items, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return EditView{}, fmt.Errorf("inventory: load catalog: %w", err)
	}
	term := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()

	view := EditView{
		Items:            make([]EditItem, 0, len(items)),
		ModifiedCount:    s.overlay.ModifiedCount(),
		CommitInProgress: s.committing.Load(),
	}
	for _, item := range items {
		if term != "" && !matchesTerm(item, term) {
			continue
		}
		effective := s.overlay.EffectiveItem(item)
		view.Items = append(view.Items, EditItem{
			Item:         effective,
			Availability: ResolveAvailability(effective),
			Adjustment:   s.overlay.AdjustmentFor(item.ID),
			Modified:     s.overlay.Modified(item.ID),
		})
	}
	return view, nil
}

func matchesTerm(item catalog.Item, term string) bool {
	return strings.Contains(strings.ToLower(item.Name), term) ||
		strings.Contains(strings.ToLower(item.Description), term) ||
		strings.Contains(strings.ToLower(item.Category), term)
}

// StageOverrides merges field overrides for one item into the overlay.
func (s *Service) StageOverrides(ctx context.Context, id string, patch catalog.ItemPatch) error {
	item, err := s.catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.MergePatch(item, patch)
	return nil
}

// AdjustStock applies a relative stock delta as a staged absolute override.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) error {
	item, err := s.catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.AdjustStock(item, delta)
	return nil
}

// SetAdjustment stages the goods in/out quantity for one item.
func (s *Service) SetAdjustment(ctx context.Context, id string, kind AdjustmentKind, quantity int) error {
	if _, err := s.catalog.Get(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.SetAdjustment(id, kind, quantity)
}

// DiscardChanges drops every staged edit.
func (s *Service) DiscardChanges() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.DiscardAll()
}

// Commit flushes staged edits to the record store. Only one commit may run at
// a time; concurrent calls get ErrCommitInProgress. The report carries a
// per-item outcome, failed items keep their staged edits.
func (s *Service) Commit(ctx context.Context, input CommitInput) (CommitReport, error) {
	if !s.committing.CompareAndSwap(false, true) {
		return CommitReport{}, ErrCommitInProgress
	}
	defer s.committing.Store(false)

	batchID := uuid.NewString()
	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.CheckAndInsert(ctx, input.IdempotencyKey, "inventory_commit"); err != nil {
			return CommitReport{}, err
		}
	}

	s.mu.Lock()
	report, err := s.committer.Commit(ctx, s.overlay, batchID)
	s.mu.Unlock()
	if err != nil {
		return CommitReport{}, err
	}

	if s.audit != nil {
		auditErr := s.audit.Record(ctx, shared.AuditLog{
			Actor:    input.Actor,
			Action:   "inventory.commit",
			Entity:   "inventory_batch",
			EntityID: batchID,
			Meta: map[string]any{
				"succeeded": report.Succeeded,
				"failed":    report.Failed,
			},
		})
		if auditErr != nil && s.logger != nil {
			s.logger.Warn("audit inventory commit", slog.Any("error", auditErr))
		}
	}
	if s.observer != nil {
		s.observer.ObserveCommit(report.Succeeded, report.Failed)
	}
	if report.Succeeded > 0 {
		s.catalog.Invalidate(ctx)
	}
	return report, nil
}
