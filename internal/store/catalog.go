package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"easyorder-core/internal/domain"
)

// PostgresMenuCatalog is the read-only menu source the cart assembler
// validates selections against.
type PostgresMenuCatalog struct {
	DB *sql.DB
}

func NewPostgresMenuCatalog(db *sql.DB) *PostgresMenuCatalog {
	return &PostgresMenuCatalog{DB: db}
}

func (c *PostgresMenuCatalog) Item(ctx context.Context, restaurantID, itemID string) (domain.MenuItem, error) {
	var item domain.MenuItem
	err := c.DB.QueryRowContext(ctx, `
		SELECT id, name, description, base_price, COALESCE(category_id, '')
		FROM menu_items WHERE id = $1 AND restaurant_id = $2`,
		itemID, restaurantID,
	).Scan(&item.ID, &item.Name, &item.Description, &item.BasePrice, &item.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MenuItem{}, fmt.Errorf("menu item %s: %w", itemID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("lookup menu item: %w", err)
	}

	variants, err := c.loadVariants(ctx, item.ID)
	if err != nil {
		return domain.MenuItem{}, err
	}
	item.Variants = variants
	return item, nil
}

// Menu returns every item of a restaurant with its variants and options.
func (c *PostgresMenuCatalog) Menu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT id, name, description, base_price, COALESCE(category_id, '')
		FROM menu_items WHERE restaurant_id = $1 ORDER BY name`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.BasePrice, &item.CategoryID); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range items {
		variants, err := c.loadVariants(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Variants = variants
	}
	return items, nil
}

func (c *PostgresMenuCatalog) loadVariants(ctx context.Context, itemID string) ([]domain.MenuVariant, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT id, name, type, is_required
		FROM menu_variants WHERE item_id = $1 ORDER BY position, id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	defer rows.Close()

	var variants []domain.MenuVariant
	for rows.Next() {
		var v domain.MenuVariant
		if err := rows.Scan(&v.ID, &v.Name, &v.Type, &v.IsRequired); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range variants {
		opts, err := c.loadOptions(ctx, variants[i].ID)
		if err != nil {
			return nil, err
		}
		variants[i].Options = opts
	}
	return variants, nil
}

func (c *PostgresMenuCatalog) loadOptions(ctx context.Context, variantID string) ([]domain.MenuOption, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT id, name, price, is_available
		FROM menu_options WHERE variant_id = $1 ORDER BY position, id`, variantID)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	defer rows.Close()

	var opts []domain.MenuOption
	for rows.Next() {
		var o domain.MenuOption
		if err := rows.Scan(&o.ID, &o.Name, &o.Price, &o.IsAvailable); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}
