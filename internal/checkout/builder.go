package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"easyorder-core/internal/domain"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrMalformedCartLine   = errors.New("cart line identity cannot be decomposed")
	ErrInvalidFulfillment  = errors.New("invalid fulfillment value")
	ErrMissingDeliveryAddr = errors.New("delivery address is required for delivery orders")
)

// Fulfillment is the delivery/payment metadata collected at checkout.
type Fulfillment struct {
	Type         domain.OrderType
	Payment      domain.PaymentType
	DeliveryAddr string
	Currency     string
	Notes        string
}

// Builder converts a cart into a normalized order-creation request and submits
// it to the order store. It is the only place, outside an explicit user action,
// where the cart gets cleared.
type Builder struct {
	store OrderStore
	cart  CartSource
}

func NewBuilder(store OrderStore, cart CartSource) *Builder {
	return &Builder{store: store, cart: cart}
}

// BuildOrderRequest reconstructs the canonical (menuItemId, optionIds) pairs
// from each line's identity and validates the fulfillment metadata. The line
// key carries the original ids structurally, so no lookup is needed; a line
// with an empty item id means the identity invariant was broken upstream.
func (b *Builder) BuildOrderRequest(c domain.Cart, f Fulfillment) (domain.OrderRequest, error) {
	if c.IsEmpty() {
		return domain.OrderRequest{}, ErrEmptyCart
	}
	if err := validateFulfillment(f); err != nil {
		return domain.OrderRequest{}, err
	}

	items := make([]domain.OrderRequestItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		if line.Key.MenuItemID == "" || line.Quantity < 1 {
			return domain.OrderRequest{}, fmt.Errorf("%w: %q", ErrMalformedCartLine, line.ID())
		}
		optionIDs := make([]string, len(line.Key.OptionIDs))
		copy(optionIDs, line.Key.OptionIDs)
		items = append(items, domain.OrderRequestItem{
			MenuItemID: line.Key.MenuItemID,
			Quantity:   line.Quantity,
			OptionIDs:  optionIDs,
		})
	}

	currency := f.Currency
	if currency == "" {
		currency = "eur"
	}

	return domain.OrderRequest{
		RestaurantID: c.RestaurantID,
		Items:        items,
		Type:         f.Type,
		Payment:      f.Payment,
		DeliveryAddr: f.DeliveryAddr,
		Currency:     currency,
		Notes:        f.Notes,
	}, nil
}

// Submit builds the request from the current cart and creates the order. The
// cart is cleared only after the store confirms creation; any failure leaves
// it intact so the customer can retry.
func (b *Builder) Submit(ctx context.Context, f Fulfillment) (domain.Order, error) {
	req, err := b.BuildOrderRequest(b.cart.Cart(), f)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := b.store.CreateOrder(ctx, req)
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	if err := b.cart.Clear(ctx); err != nil {
		// The order is already durable; a stale cart is recoverable but worth a trace.
		log.Printf("clear cart after order %s: %v", order.ID, err)
	}
	return order, nil
}

func validateFulfillment(f Fulfillment) error {
	switch f.Type {
	case domain.OrderDelivery, domain.OrderCollection:
	default:
		return fmt.Errorf("%w: order type %q", ErrInvalidFulfillment, f.Type)
	}
	switch f.Payment {
	case domain.PaymentCash, domain.PaymentCard, domain.PaymentOnline:
	default:
		return fmt.Errorf("%w: payment type %q", ErrInvalidFulfillment, f.Payment)
	}
	if f.Type == domain.OrderDelivery && f.DeliveryAddr == "" {
		return ErrMissingDeliveryAddr
	}
	return nil
}
