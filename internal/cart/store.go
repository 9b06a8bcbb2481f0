package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCartNotFound indicates the cart id has no stored ledger (never created
// or expired).
var ErrCartNotFound = errors.New("cart: not found")

// Store persists one ledger per cart id in Redis. Carts expire after the
// configured TTL of inactivity.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore constructs the cart store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func cartKey(cartID string) string {
	return fmt.Sprintf("cart:%s", cartID)
}

// Load returns the ledger for a cart id.
func (s *Store) Load(ctx context.Context, cartID string) (*Ledger, error) {
	data, err := s.client.Get(ctx, cartKey(cartID)).Bytes()
	if err == redis.Nil {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	var ledger Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("cart: decode ledger %s: %w", cartID, err)
	}
	return &ledger, nil
}

// Save writes the ledger back and refreshes its TTL.
func (s *Store) Save(ctx context.Context, cartID string, ledger *Ledger) error {
	data, err := json.Marshal(ledger)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(cartID), data, s.ttl).Err()
}

// Delete removes the cart entirely.
func (s *Store) Delete(ctx context.Context, cartID string) error {
	return s.client.Del(ctx, cartKey(cartID)).Err()
}
