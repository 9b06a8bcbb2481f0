package catalog

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"
)

// ListFilter narrows catalog listings.
type ListFilter struct {
	Category string
	Query    string
}

// Service serves catalog snapshots to the storefront, caching reads and
// collapsing concurrent refreshes.
type Service struct {
	store  Store
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group
}

// NewService builds Service.
func NewService(store Store, cache *Cache, logger *slog.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// Snapshot returns the current catalog, served from cache when warm.
func (s *Service) Snapshot(ctx context.Context) ([]Item, error) {
	if s.cache != nil {
		items, ok, err := s.cache.Get(ctx)
		if err != nil && s.logger != nil {
			s.logger.Warn("catalog cache read", slog.Any("error", err))
		}
		if ok {
			return items, nil
		}
	}
	result, err, _ := s.group.Do(snapshotKey, func() (any, error) {
		items, err := s.store.FetchCatalog(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, items); err != nil && s.logger != nil {
				s.logger.Warn("catalog cache write", slog.Any("error", err))
			}
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]Item), nil
}

// List returns the snapshot narrowed by category and a case-folded search over
// name, description and category.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Item, error) {
	items, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	category := strings.TrimSpace(filter.Category)
	term := strings.ToLower(strings.TrimSpace(filter.Query))
	if category == "" && term == "" {
		return items, nil
	}
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if category != "" && item.Category != category {
			continue
		}
		if term != "" && !matchesTerm(item, term) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

// Get returns one item from the snapshot.
func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	items, err := s.Snapshot(ctx)
	if err != nil {
		return Item{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return Item{}, ErrItemNotFound
}

// Invalidate drops the cached snapshot after back-office writes.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil && s.logger != nil {
		s.logger.Warn("catalog cache invalidate", slog.Any("error", err))
	}
}

func matchesTerm(item Item, term string) bool {
	return strings.Contains(strings.ToLower(item.Name), term) ||
		strings.Contains(strings.ToLower(item.Description), term) ||
		strings.Contains(strings.ToLower(item.Category), term)
}
