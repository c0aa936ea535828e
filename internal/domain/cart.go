package domain

import (
	"sort"
	"strings"
)

// LineKey is the composite identity of a cart line: the source menu item plus the
// set of selected option ids. The option slice is kept sorted so that the same
// selection always produces the same key, and the original ids stay recoverable
// without parsing anything back apart.
type LineKey struct {
	MenuItemID string
	OptionIDs  []string // sorted, deduplicated
}

func NewLineKey(menuItemID string, optionIDs []string) LineKey {
	ids := make([]string, 0, len(optionIDs))
	seen := make(map[string]bool, len(optionIDs))
	for _, id := range optionIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return LineKey{MenuItemID: menuItemID, OptionIDs: ids}
}

// String renders the key in the "itemID-opt1-opt2" form the storefront uses as a
// cart line id. It is display/lookup only; decomposition always goes through the
// struct fields.
func (k LineKey) String() string {
	if len(k.OptionIDs) == 0 {
		return k.MenuItemID
	}
	return k.MenuItemID + "-" + strings.Join(k.OptionIDs, "-")
}

func (k LineKey) Equal(other LineKey) bool {
	if k.MenuItemID != other.MenuItemID || len(k.OptionIDs) != len(other.OptionIDs) {
		return false
	}
	for i := range k.OptionIDs {
		if k.OptionIDs[i] != other.OptionIDs[i] {
			return false
		}
	}
	return true
}

// CartLine is one not-yet-submitted order component. Name and UnitPrice are
// resolved at add time so the basket renders without another catalog lookup.
type CartLine struct {
	Key         LineKey  `json:"key"`
	Name        string   `json:"name"`
	OptionNames []string `json:"option_names,omitempty"`
	UnitPrice   float64  `json:"unit_price"`
	Quantity    int      `json:"quantity"`
}

func (l CartLine) ID() string { return l.Key.String() }

// Cart is an ordered collection of lines owned by a single browsing session.
type Cart struct {
	SessionID    string     `json:"session_id"`
	RestaurantID string     `json:"restaurant_id"`
	Lines        []CartLine `json:"lines"`
}

// Totals are derived from the current lines on every call, never stored.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	ServiceFee float64 `json:"service_fee"`
	Total      float64 `json:"total"`
}

func (c Cart) Totals(taxRate, serviceFee float64) Totals {
	var subtotal float64
	for _, l := range c.Lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}
	tax := subtotal * taxRate
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		ServiceFee: serviceFee,
		Total:      subtotal + tax + serviceFee,
	}
}

func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }
