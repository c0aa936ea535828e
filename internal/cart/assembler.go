package cart

import (
	"context"
	"errors"
	"fmt"

	"easyorder-core/internal/domain"
)

var (
	ErrRequiredVariant   = errors.New("required variant has no selected option")
	ErrUnknownOption     = errors.New("option does not belong to this item")
	ErrOptionUnavailable = errors.New("option is not available")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)

// Assembler turns menu selections into priced cart lines for one session's cart.
// The cart has a single owner, so no locking happens here; persistence goes
// through the injected Store after every mutation.
type Assembler struct {
	store      Store
	taxRate    float64
	serviceFee float64
	cart       domain.Cart
}

func NewAssembler(sessionID, restaurantID string, store Store, taxRate, serviceFee float64) *Assembler {
	return &Assembler{
		store:      store,
		taxRate:    taxRate,
		serviceFee: serviceFee,
		cart: domain.Cart{
			SessionID:    sessionID,
			RestaurantID: restaurantID,
		},
	}
}

// RestoreSession rebuilds an assembler around whatever cart the session has
// persisted, keeping the saved restaurant binding.
func RestoreSession(ctx context.Context, sessionID string, store Store, taxRate, serviceFee float64) (*Assembler, error) {
	saved, err := store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	saved.SessionID = sessionID
	return &Assembler{
		store:      store,
		taxRate:    taxRate,
		serviceFee: serviceFee,
		cart:       saved,
	}, nil
}

// Restore loads a previously persisted cart for the session, if any.
func (a *Assembler) Restore(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	saved, err := a.store.Load(ctx, a.cart.SessionID)
	if err != nil {
		return err
	}
	if saved.RestaurantID == a.cart.RestaurantID && len(saved.Lines) > 0 {
		a.cart.Lines = saved.Lines
	}
	return nil
}

// AddSelection validates the picked options against the item's variants,
// computes the line identity and either merges into an existing line or
// appends a new one.
//
// Selection rules: within a single-select variant the last pick wins; within a
// multi-select variant picking an already-picked option toggles it off again.
func (a *Assembler) AddSelection(ctx context.Context, item domain.MenuItem, picked []string, qty int) (domain.CartLine, error) {
	if qty < 1 {
		return domain.CartLine{}, ErrInvalidQuantity
	}

	optionIDs, optionNames, optionsPrice, err := resolveSelection(item, picked)
	if err != nil {
		return domain.CartLine{}, err
	}

	key := domain.NewLineKey(item.ID, optionIDs)
	for i := range a.cart.Lines {
		if a.cart.Lines[i].Key.Equal(key) {
			a.cart.Lines[i].Quantity += qty
			if err := a.persist(ctx); err != nil {
				return domain.CartLine{}, err
			}
			return a.cart.Lines[i], nil
		}
	}

	line := domain.CartLine{
		Key:         key,
		Name:        item.Name,
		OptionNames: optionNames,
		UnitPrice:   item.BasePrice + optionsPrice,
		Quantity:    qty,
	}
	a.cart.Lines = append(a.cart.Lines, line)
	if err := a.persist(ctx); err != nil {
		return domain.CartLine{}, err
	}
	return line, nil
}

// UpdateQuantity replaces a line's quantity; anything below 1 removes the line.
// Updating a line that no longer exists is a no-op.
func (a *Assembler) UpdateQuantity(ctx context.Context, lineID string, qty int) error {
	if qty < 1 {
		return a.RemoveLine(ctx, lineID)
	}
	for i := range a.cart.Lines {
		if a.cart.Lines[i].ID() == lineID {
			a.cart.Lines[i].Quantity = qty
			return a.persist(ctx)
		}
	}
	return nil
}

// RemoveLine deletes a line; removing an absent line is not an error.
func (a *Assembler) RemoveLine(ctx context.Context, lineID string) error {
	for i := range a.cart.Lines {
		if a.cart.Lines[i].ID() == lineID {
			a.cart.Lines = append(a.cart.Lines[:i], a.cart.Lines[i+1:]...)
			return a.persist(ctx)
		}
	}
	return nil
}

// Clear empties the cart and drops the persisted copy. Called by the checkout
// builder after a successful submission, or by the user emptying the basket.
func (a *Assembler) Clear(ctx context.Context) error {
	a.cart.Lines = nil
	if a.store == nil {
		return nil
	}
	return a.store.Clear(ctx, a.cart.SessionID)
}

// Cart returns a copy of the current cart.
func (a *Assembler) Cart() domain.Cart {
	c := a.cart
	c.Lines = make([]domain.CartLine, len(a.cart.Lines))
	copy(c.Lines, a.cart.Lines)
	return c
}

// Totals recomputes subtotal/tax/total from the current lines.
func (a *Assembler) Totals() domain.Totals {
	return a.cart.Totals(a.taxRate, a.serviceFee)
}

func (a *Assembler) persist(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	return a.store.Save(ctx, a.cart)
}

// resolveSelection walks the item's variants in declared order and settles the
// picked option ids per variant. Returns the final option ids and names in
// variant order plus the summed price deltas.
func resolveSelection(item domain.MenuItem, picked []string) ([]string, []string, float64, error) {
	// Every pick must belong to the item.
	for _, id := range picked {
		if _, ok := item.Option(id); !ok {
			return nil, nil, 0, fmt.Errorf("%w: %s", ErrUnknownOption, id)
		}
	}

	var (
		ids   []string
		names []string
		price float64
	)
	for _, variant := range item.Variants {
		selected := settleVariant(variant, picked)
		if variant.IsRequired && len(selected) == 0 {
			return nil, nil, 0, fmt.Errorf("%w: %s", ErrRequiredVariant, variant.Name)
		}
		for _, opt := range selected {
			if !opt.IsAvailable {
				return nil, nil, 0, fmt.Errorf("%w: %s", ErrOptionUnavailable, opt.Name)
			}
			ids = append(ids, opt.ID)
			names = append(names, opt.Name)
			price += opt.Price
		}
	}
	return ids, names, price, nil
}

func settleVariant(variant domain.MenuVariant, picked []string) []domain.MenuOption {
	owns := make(map[string]domain.MenuOption, len(variant.Options))
	for _, o := range variant.Options {
		owns[o.ID] = o
	}

	if variant.Type == domain.VariantSingle {
		// Last pick for this variant replaces any earlier one.
		var last *domain.MenuOption
		for _, id := range picked {
			if o, ok := owns[id]; ok {
				o := o
				last = &o
			}
		}
		if last == nil {
			return nil
		}
		return []domain.MenuOption{*last}
	}

	// Multi-select: an even number of picks of the same option cancels out.
	counts := make(map[string]int)
	var order []string
	for _, id := range picked {
		if _, ok := owns[id]; !ok {
			continue
		}
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	var selected []domain.MenuOption
	for _, id := range order {
		if counts[id]%2 == 1 {
			selected = append(selected, owns[id])
		}
	}
	return selected
}
