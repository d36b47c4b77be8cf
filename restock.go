package pantry

import "strings"

// RestockTrigger selects when an item counts as low on stock.
type RestockTrigger string

const (
	RestockEmpty  RestockTrigger = "empty"
	RestockHalf   RestockTrigger = "half"
	RestockCustom RestockTrigger = "custom"
)

const (
	// DefaultRestockThreshold is the par level of an item that has none.
	DefaultRestockThreshold = 0.0
	// DefaultRestockQuantity is what AutoRestock buys of an item without a
	// par level.
	DefaultRestockQuantity = 1.0
)

func ParseRestockTrigger(s string) RestockTrigger {
	switch RestockTrigger(strings.ToLower(strings.TrimSpace(s))) {
	case RestockHalf:
		return RestockHalf
	case RestockCustom:
		return RestockCustom
	default:
		return RestockEmpty
	}
}

// IsBelowThreshold reports whether quantity calls for a restock. The par
// level always applies (quantity <= par); the trigger adds its own rule:
//
//	empty:  quantity <= 0
//	half:   quantity <= par/2
//	custom: quantity <= custom
//
// A nil par means DefaultRestockThreshold. Unknown triggers behave as empty.
func IsBelowThreshold(quantity float64, trigger RestockTrigger, custom, par *float64) bool {
	level := parLevel(par)
	if quantity <= level {
		return true
	}
	switch ParseRestockTrigger(string(trigger)) {
	case RestockHalf:
		return quantity <= level/2
	case RestockCustom:
		return custom != nil && quantity <= *custom
	default:
		return quantity <= 0
	}
}

func parLevel(par *float64) float64 {
	if par == nil {
		return DefaultRestockThreshold
	}
	return *par
}

func (it Item) NeedsRestock() bool {
	return IsBelowThreshold(it.Quantity, it.RestockTrigger, it.CustomThreshold, it.RestockThreshold)
}

// LowStock returns the items whose restock rule fires, in input order.
func LowStock(items []Item) []Item {
	var out []Item
	for _, it := range items {
		if it.NeedsRestock() {
			out = append(out, it)
		}
	}
	return out
}

// ShoppingItem is one line of a shopping list.
type ShoppingItem struct {
	Name     string  `yaml:"name"`
	Quantity float64 `yaml:"quantity"`
	Unit     Unit    `yaml:"unit,omitempty"`
}

// AutoRestock returns the lines to add to the restock shopping list: one per
// item at or below its par level, buying the par level (or
// DefaultRestockQuantity without one). Names already listed, or seen earlier
// in items, are skipped.
func AutoRestock(items []Item, listed []string) []ShoppingItem {
	seen := make(map[string]struct{}, len(listed))
	for _, name := range listed {
		seen[NormalizeName(name)] = struct{}{}
	}

	var out []ShoppingItem
	for _, it := range items {
		if it.Quantity > parLevel(it.RestockThreshold) {
			continue
		}
		key := NormalizeName(it.Name)
		if _, ok := seen[key]; ok || key == "" {
			continue
		}
		seen[key] = struct{}{}

		qty := DefaultRestockQuantity
		if it.RestockThreshold != nil {
			qty = *it.RestockThreshold
		}
		out = append(out, ShoppingItem{Name: it.Name, Quantity: qty, Unit: it.Unit})
	}
	return out
}
