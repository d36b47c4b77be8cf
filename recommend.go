package pantry

import (
	"sort"
	"time"
)

const (
	DefaultLowStock = 2.0
	DefaultExpDays  = 5
)

// RecommendSettings tune Recommend. The zero value is not useful; start from
// DefaultRecommendSettings.
type RecommendSettings struct {
	LowStock float64 // recommend when quantity <= LowStock
	ExpDays  int     // recommend when expiring within ExpDays of now
}

func DefaultRecommendSettings() RecommendSettings {
	return RecommendSettings{LowStock: DefaultLowStock, ExpDays: DefaultExpDays}
}

// Recommend picks items worth buying again: low on stock or expiring soon,
// and not already on a shopping list. Results are ordered by quantity,
// ascending.
func Recommend(items []Item, listed []string, s RecommendSettings, now time.Time) []Item {
	excluded := make(map[string]struct{}, len(listed))
	for _, name := range listed {
		excluded[NormalizeName(name)] = struct{}{}
	}
	soon := now.AddDate(0, 0, s.ExpDays)

	var out []Item
	for _, it := range items {
		if _, ok := excluded[NormalizeName(it.Name)]; ok {
			continue
		}
		expiring := it.Expiration != nil && !it.Expiration.After(soon)
		if it.Quantity <= s.LowStock || expiring {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity < out[j].Quantity
	})
	return out
}
