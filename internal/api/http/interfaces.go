package httpapi

import (
	"context"

	"easyorder-core/internal/domain"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListOrders(ctx context.Context, restaurantID string) ([]domain.Order, error)
	RestaurantTarget(ctx context.Context, restaurantID string) (int, error)
}

type MenuCatalog interface {
	Item(ctx context.Context, restaurantID, itemID string) (domain.MenuItem, error)
	Menu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
}

// Lifecycle is the transition surface staff actions drive.
type Lifecycle interface {
	Transition(ctx context.Context, orderID string, to domain.OrderStatus, changedBy string) (domain.Order, error)
	Accept(ctx context.Context, orderID, changedBy string) (domain.Order, error)
	Reject(ctx context.Context, orderID, changedBy string) (domain.Order, error)
	AnnounceCreated(ctx context.Context, order domain.Order)
	Forget(orderID string)
}
