package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lumicafe/storefront/internal/catalog"
)

// ErrItemUnavailable is returned when the selection references an item the
// storefront is not currently selling.
var ErrItemUnavailable = errors.New("cart: item unavailable")

// ErrUnknownSelection is returned when a variation or add-on id does not
// belong to the item.
var ErrUnknownSelection = errors.New("cart: unknown variation or add-on")

// CatalogPort provides the catalog snapshot the cart validates against.
type CatalogPort interface {
	Get(ctx context.Context, id string) (catalog.Item, error)
}

// Service coordinates cart operations: it resolves selections against the
// last-fetched catalog snapshot, drives the ledger, and persists it per cart
// id. Stock admission works off that snapshot; the store performs its own
// authoritative check at checkout.
type Service struct {
	store   *Store
	catalog CatalogPort
}

// NewService builds Service.
func NewService(store *Store, catalogPort CatalogPort) *Service {
	return &Service{store: store, catalog: catalogPort}
}

// AddItemInput describes one add-to-cart request. AddOnIDs may repeat; each
// occurrence counts as one unit of that add-on.
type AddItemInput struct {
	ItemID      string
	Quantity    int
	VariationID string
	AddOnIDs    []string
}

// Create allocates a new empty cart and returns its id.
func (s *Service) Create(ctx context.Context) (string, error) {
	cartID := uuid.NewString()
	if err := s.store.Save(ctx, cartID, &Ledger{}); err != nil {
		return "", fmt.Errorf("create cart: %w", err)
	}
	return cartID, nil
}

// Get returns the ledger for a cart id.
func (s *Service) Get(ctx context.Context, cartID string) (*Ledger, error) {
	return s.store.Load(ctx, cartID)
}

// AddItem resolves the selection and admits it into the cart.
func (s *Service) AddItem(ctx context.Context, cartID string, input AddItemInput) (*Ledger, error) {
	ledger, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	item, err := s.catalog.Get(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, item.Name)
	}

	var variation *catalog.Variation
	if input.VariationID != "" {
		v, ok := item.Variation(input.VariationID)
		if !ok {
			return nil, fmt.Errorf("%w: variation %s", ErrUnknownSelection, input.VariationID)
		}
		variation = &v
	}

	addOns := make([]catalog.AddOn, 0, len(input.AddOnIDs))
	for _, addOnID := range input.AddOnIDs {
		addOn, ok := item.AddOn(addOnID)
		if !ok {
			return nil, fmt.Errorf("%w: add-on %s", ErrUnknownSelection, addOnID)
		}
		addOns = append(addOns, addOn)
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if _, err := ledger.Add(item, quantity, variation, addOns); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, cartID, ledger); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return ledger, nil
}

// UpdateLine replaces one line's quantity; non-positive quantities remove it.
func (s *Service) UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*Ledger, error) {
	ledger, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := ledger.UpdateQuantity(lineID, quantity); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, cartID, ledger); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return ledger, nil
}

// RemoveLine drops one line.
func (s *Service) RemoveLine(ctx context.Context, cartID, lineID string) (*Ledger, error) {
	ledger, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	ledger.Remove(lineID)
	if err := s.store.Save(ctx, cartID, ledger); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return ledger, nil
}

// Clear empties the cart but keeps the id alive.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	ledger, err := s.store.Load(ctx, cartID)
	if err != nil {
		return err
	}
	ledger.Clear()
	if err := s.store.Save(ctx, cartID, ledger); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
