package domain

// VariantType controls how options inside a variant are selected.
type VariantType string

const (
	VariantSingle      VariantType = "SINGLE"
	VariantMultiSelect VariantType = "MULTI_SELECT"
)

type MenuOption struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"` // delta added to the item base price
	IsAvailable bool    `json:"is_available"`
}

type MenuVariant struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Type       VariantType  `json:"type"`
	IsRequired bool         `json:"is_required"`
	Options    []MenuOption `json:"options"`
}

type MenuItem struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	BasePrice   float64       `json:"base_price"`
	CategoryID  string        `json:"category_id"`
	Variants    []MenuVariant `json:"variants"`
}

// Option looks up an option by id across all variants of the item.
func (m MenuItem) Option(optionID string) (MenuOption, bool) {
	for _, v := range m.Variants {
		for _, o := range v.Options {
			if o.ID == optionID {
				return o, true
			}
		}
	}
	return MenuOption{}, false
}

// VariantOf returns the variant that owns the given option id.
func (m MenuItem) VariantOf(optionID string) (MenuVariant, bool) {
	for _, v := range m.Variants {
		for _, o := range v.Options {
			if o.ID == optionID {
				return v, true
			}
		}
	}
	return MenuVariant{}, false
}
