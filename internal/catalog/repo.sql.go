package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists catalog items in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const itemColumns = `id, name, description, category, base_price, discount_price, effective_price,
is_on_discount, popular, available, track_inventory, stock_quantity, low_stock_threshold, variations, add_ons`

// FetchCatalog returns the full canonical item list.
func (r *Repository) FetchCatalog(ctx context.Context) ([]Item, error) {
	if r == nil {
		return nil, errors.New("catalog repository not initialised")
	}
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem loads one item by id.
func (r *Repository) GetItem(ctx context.Context, id string) (Item, error) {
	if r == nil {
		return Item{}, errors.New("catalog repository not initialised")
	}
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM menu_items WHERE id=$1`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, err
	}
	return item, nil
}

// UpdateItem applies a partial update to one item. Only fields carried by the
// patch are touched.
func (r *Repository) UpdateItem(ctx context.Context, id string, patch ItemPatch) error {
	if r == nil {
		return errors.New("catalog repository not initialised")
	}
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if patch.TrackInventory != nil {
		add("track_inventory", *patch.TrackInventory)
	}
	if patch.ClearStock {
		sets = append(sets, "stock_quantity=NULL")
	} else if patch.StockQuantity != nil {
		add("stock_quantity", *patch.StockQuantity)
	}
	if patch.LowStockThreshold != nil {
		add("low_stock_threshold", *patch.LowStockThreshold)
	}
	if patch.BasePrice != nil {
		add("base_price", *patch.BasePrice)
	}
	if patch.Available != nil {
		add("available", *patch.Available)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE menu_items SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var (
		item           Item
		variationsJSON []byte
		addOnsJSON     []byte
	)
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Category,
		&item.BasePrice, &item.DiscountPrice, &item.EffectivePrice,
		&item.IsOnDiscount, &item.Popular, &item.Available,
		&item.TrackInventory, &item.StockQuantity, &item.LowStockThreshold,
		&variationsJSON, &addOnsJSON)
	if err != nil {
		return Item{}, err
	}
	if len(variationsJSON) > 0 {
		if err := json.Unmarshal(variationsJSON, &item.Variations); err != nil {
			return Item{}, fmt.Errorf("catalog: decode variations for %s: %w", item.ID, err)
		}
	}
	if len(addOnsJSON) > 0 {
		if err := json.Unmarshal(addOnsJSON, &item.AddOns); err != nil {
			return Item{}, fmt.Errorf("catalog: decode add-ons for %s: %w", item.ID, err)
		}
	}
	return item, nil
}
