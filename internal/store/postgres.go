package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"easyorder-core/internal/domain"
)

// PostgresOrderStore is the durable order store. Order items are denormalized
// at creation time (name, option names, unit price) so later menu edits never
// rewrite what was ordered.
type PostgresOrderStore struct {
	DB *sql.DB
}

func NewPostgresOrderStore(db *sql.DB) *PostgresOrderStore {
	return &PostgresOrderStore{DB: db}
}

// EnsureSchema creates the engine's tables when they are missing.
func (s *PostgresOrderStore) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			auto_accept BOOLEAN NOT NULL DEFAULT FALSE,
			delivery_time INT NOT NULL DEFAULT 30
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL REFERENCES restaurants(id),
			category_id TEXT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			base_price NUMERIC(10,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS menu_variants (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL REFERENCES menu_items(id),
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'SINGLE',
			is_required BOOLEAN NOT NULL DEFAULT FALSE,
			position INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS menu_options (
			id TEXT PRIMARY KEY,
			variant_id TEXT NOT NULL REFERENCES menu_variants(id),
			name TEXT NOT NULL,
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			position INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			restaurant_id TEXT NOT NULL REFERENCES restaurants(id),
			total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			order_type TEXT NOT NULL,
			payment_type TEXT NOT NULL,
			delivery_address TEXT,
			currency TEXT NOT NULL DEFAULT 'eur',
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id),
			menu_item_id TEXT NOT NULL,
			name TEXT NOT NULL,
			option_ids TEXT[] NOT NULL DEFAULT '{}',
			option_names TEXT[] NOT NULL DEFAULT '{}',
			quantity INT NOT NULL,
			price NUMERIC(10,2) NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// CreateOrder stores the normalized request as a priced, denormalized order.
// The initial status is PENDING, or CONFIRMED when the restaurant has
// auto-accept enabled; auto-accept is looked at only here, never again.
func (s *PostgresOrderStore) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var autoAccept bool
	err = tx.QueryRowContext(ctx,
		`SELECT auto_accept FROM restaurants WHERE id = $1`, req.RestaurantID,
	).Scan(&autoAccept)
	if err == sql.ErrNoRows {
		return domain.Order{}, fmt.Errorf("restaurant %s: %w", req.RestaurantID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("lookup restaurant: %w", err)
	}

	status := domain.StatusPending
	if autoAccept {
		status = domain.StatusConfirmed
	}

	order := domain.Order{
		RestaurantID: req.RestaurantID,
		Status:       status,
		Type:         req.Type,
		Payment:      req.Payment,
		DeliveryAddr: req.DeliveryAddr,
		Currency:     req.Currency,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (restaurant_id, status, order_type, payment_type, delivery_address, currency, notes)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''))
		RETURNING id, created_at`,
		req.RestaurantID, status, req.Type, req.Payment, req.DeliveryAddr, req.Currency, req.Notes,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	var total float64
	for _, it := range req.Items {
		var name string
		var basePrice float64
		err = tx.QueryRowContext(ctx,
			`SELECT name, base_price FROM menu_items WHERE id = $1 AND restaurant_id = $2`,
			it.MenuItemID, req.RestaurantID,
		).Scan(&name, &basePrice)
		if err == sql.ErrNoRows {
			return domain.Order{}, fmt.Errorf("menu item %s: %w", it.MenuItemID, domain.ErrNotFound)
		}
		if err != nil {
			return domain.Order{}, fmt.Errorf("lookup menu item: %w", err)
		}

		optionNames, optionsPrice, err := resolveOptions(ctx, tx, it.OptionIDs)
		if err != nil {
			return domain.Order{}, err
		}

		price := basePrice + optionsPrice
		total += price * float64(it.Quantity)

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, name, option_ids, option_names, quantity, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			order.ID, it.MenuItemID, name, pq.Array(it.OptionIDs), pq.Array(optionNames), it.Quantity, price,
		); err != nil {
			return domain.Order{}, fmt.Errorf("insert order item: %w", err)
		}

		order.Items = append(order.Items, domain.OrderItem{
			MenuItemID:  it.MenuItemID,
			Name:        name,
			OptionIDs:   it.OptionIDs,
			OptionNames: optionNames,
			Quantity:    it.Quantity,
			Price:       price,
		})
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET total_amount = $1 WHERE id = $2`, total, order.ID,
	); err != nil {
		return domain.Order{}, fmt.Errorf("set total: %w", err)
	}
	order.TotalAmount = total

	if err := tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit: %w", err)
	}
	return order, nil
}

func resolveOptions(ctx context.Context, tx *sql.Tx, optionIDs []string) ([]string, float64, error) {
	if len(optionIDs) == 0 {
		return nil, 0, nil
	}
	rows, err := tx.QueryContext(ctx,
		`SELECT name, price FROM menu_options WHERE id = ANY($1) ORDER BY position, id`,
		pq.Array(optionIDs),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("lookup options: %w", err)
	}
	defer rows.Close()

	var (
		names []string
		sum   float64
	)
	for rows.Next() {
		var name string
		var price float64
		if err := rows.Scan(&name, &price); err != nil {
			return nil, 0, fmt.Errorf("scan option: %w", err)
		}
		names = append(names, name)
		sum += price
	}
	if len(names) != len(optionIDs) {
		return nil, 0, fmt.Errorf("option set %v: %w", optionIDs, domain.ErrNotFound)
	}
	return names, sum, nil
}

func (s *PostgresOrderStore) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	order, err := scanOrder(s.DB.QueryRowContext(ctx, `
		SELECT id, restaurant_id, total_amount, status, order_type, payment_type,
		       COALESCE(delivery_address, ''), currency, created_at
		FROM orders WHERE id = $1`, id))
	if err != nil {
		return domain.Order{}, err
	}
	items, err := s.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items
	return order, nil
}

func (s *PostgresOrderStore) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	order, err := scanOrder(s.DB.QueryRowContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, restaurant_id, total_amount, status, order_type, payment_type,
		          COALESCE(delivery_address, ''), currency, created_at`,
		status, id))
	if err != nil {
		return domain.Order{}, err
	}
	items, err := s.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items
	return order, nil
}

// ListOrders returns a restaurant's orders oldest first, the order the kitchen
// works them in.
func (s *PostgresOrderStore) ListOrders(ctx context.Context, restaurantID string) ([]domain.Order, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, total_amount, status, order_type, payment_type,
		       COALESCE(delivery_address, ''), currency, created_at
		FROM orders WHERE restaurant_id = $1
		ORDER BY created_at ASC`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		items, err := s.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// RestaurantTarget returns the restaurant's target fulfillment duration in
// minutes for the escalation tracker.
func (s *PostgresOrderStore) RestaurantTarget(ctx context.Context, restaurantID string) (int, error) {
	var minutes int
	err := s.DB.QueryRowContext(ctx,
		`SELECT delivery_time FROM restaurants WHERE id = $1`, restaurantID,
	).Scan(&minutes)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("restaurant %s: %w", restaurantID, domain.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return minutes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.RestaurantID, &o.TotalAmount, &o.Status, &o.Type,
		&o.Payment, &o.DeliveryAddr, &o.Currency, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}
	return o, nil
}

func (s *PostgresOrderStore) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT menu_item_id, name, option_ids, option_names, quantity, price
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.MenuItemID, &it.Name,
			pq.Array(&it.OptionIDs), pq.Array(&it.OptionNames),
			&it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
