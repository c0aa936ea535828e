package checkout

import (
	"context"

	"easyorder-core/internal/domain"
)

// OrderStore is the external order store contract consumed by the builder.
// The store snapshots item names and prices at creation time and picks the
// initial status (PENDING, or CONFIRMED when the restaurant auto-accepts).
type OrderStore interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
}

// CartSource is the slice of the assembler the builder needs: read the cart,
// price it, and clear it once the order is durably created.
type CartSource interface {
	Cart() domain.Cart
	Totals() domain.Totals
	Clear(ctx context.Context) error
}
