package domain

import "time"

type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusReady          OrderStatus = "READY"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusCompleted      OrderStatus = "COMPLETED"
	StatusCancelled      OrderStatus = "CANCELLED"
	StatusRejected       OrderStatus = "REJECTED"
	StatusPaymentFailed  OrderStatus = "PAYMENT_FAILED"
)

type OrderType string

const (
	OrderDelivery   OrderType = "DELIVERY"
	OrderCollection OrderType = "COLLECTION"
)

type PaymentType string

const (
	PaymentCash   PaymentType = "CASH"
	PaymentCard   PaymentType = "CARD"
	PaymentOnline PaymentType = "ONLINE"
)

// OrderItem is the denormalized snapshot of a cart line at submission time.
// Name, option names and price are copied so later menu edits never change
// what the customer actually ordered.
type OrderItem struct {
	MenuItemID  string   `json:"menu_item_id"`
	Name        string   `json:"name"`
	OptionIDs   []string `json:"option_ids,omitempty"`
	OptionNames []string `json:"option_names,omitempty"`
	Quantity    int      `json:"quantity"`
	Price       float64  `json:"price"` // unit price at time of order
}

type Order struct {
	ID           string      `json:"id"`
	RestaurantID string      `json:"restaurant_id"`
	Items        []OrderItem `json:"items"`
	TotalAmount  float64     `json:"total_amount"`
	Status       OrderStatus `json:"status"`
	Type         OrderType   `json:"order_type"`
	Payment      PaymentType `json:"payment_type"`
	DeliveryAddr string      `json:"delivery_address,omitempty"`
	Currency     string      `json:"currency"`
	CreatedAt    time.Time   `json:"created_at"`
}

// OrderRequest is the normalized, immutable payload the builder hands to the
// order store. Items reference canonical catalog ids only.
type OrderRequest struct {
	RestaurantID string             `json:"restaurant_id"`
	Items        []OrderRequestItem `json:"items"`
	Type         OrderType          `json:"order_type"`
	Payment      PaymentType        `json:"payment_type"`
	DeliveryAddr string             `json:"delivery_address,omitempty"`
	Currency     string             `json:"currency"`
	Notes        string             `json:"notes,omitempty"`
}

type OrderRequestItem struct {
	MenuItemID string   `json:"menu_item_id"`
	Quantity   int      `json:"quantity"`
	OptionIDs  []string `json:"option_ids,omitempty"`
}

// AcceptedStatuses is the customer-facing "restaurant took the order" set.
var AcceptedStatuses = map[OrderStatus]bool{
	StatusConfirmed: true,
	StatusPreparing: true,
	StatusReady:     true,
	StatusCompleted: true,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusCompleted, StatusCancelled,
		StatusRejected, StatusPaymentFailed:
		return true
	}
	return false
}
