package pantry

import (
	"strconv"
	"strings"
)

// Ingredient is a recipe requirement. A nil Amount means any amount will do.
type Ingredient struct {
	Name   string   `yaml:"name"`
	Amount *float64 `yaml:"quantity,omitempty"`
	Unit   Unit     `yaml:"unit,omitempty"`
}

type MatchStatus int

const (
	StatusMissing MatchStatus = iota
	StatusInsufficient
	StatusSufficient
	StatusUnknown
)

func (s MatchStatus) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusInsufficient:
		return "insufficient"
	case StatusSufficient:
		return "sufficient"
	default:
		return "unknown"
	}
}

// MatchResult is the outcome of comparing pantry quantities against one
// ingredient.
type MatchResult struct {
	Ingredient     Ingredient
	Present        bool
	Sufficient     bool
	ConvertedTotal float64 // in Ingredient.Unit

	// Uncertain is set when some pantry quantity could not be converted and
	// was counted as is.
	Uncertain bool
	// Err is the incompatibility that left the ingredient unevaluated under
	// PolicyStrict.
	Err error
}

func (r MatchResult) Status() MatchStatus {
	switch {
	case r.Err != nil:
		return StatusUnknown
	case !r.Present:
		return StatusMissing
	case r.Sufficient:
		return StatusSufficient
	default:
		return StatusInsufficient
	}
}

// Matcher decides whether pantry quantities cover recipe ingredients.
type Matcher struct {
	conv *Converter
}

// NewMatcher returns a Matcher converting with conv, or with the lenient
// default converter when conv is nil.
func NewMatcher(conv *Converter) *Matcher {
	if conv == nil {
		conv = defaultConverter
	}
	return &Matcher{conv: conv}
}

// MatchIngredient sums entries converted into required.Unit and compares the
// total with required.Amount.
func (m *Matcher) MatchIngredient(entries []Quantity, required Ingredient) MatchResult {
	res := MatchResult{Ingredient: required, Present: len(entries) > 0}
	for _, e := range entries {
		v, ok := m.conv.convert(e.Amount, e.Unit, required.Unit)
		if !ok {
			if m.conv.policy == PolicyStrict {
				res.ConvertedTotal = 0
				res.Err = &IncompatibleUnitsError{From: e.Unit, To: required.Unit}
				return res
			}
			m.conv.warnIncompatible(e.Amount, e.Unit, required.Unit)
			res.Uncertain = true
		}
		res.ConvertedTotal += v
	}
	res.Sufficient = res.Present && (required.Amount == nil || res.ConvertedTotal >= *required.Amount)
	return res
}

// RecipeMatch holds one result per recipe ingredient, in recipe order.
type RecipeMatch struct {
	Results []MatchResult
}

// MatchRecipe evaluates every ingredient against p independently.
func (m *Matcher) MatchRecipe(p *Pantry, ingredients []Ingredient) RecipeMatch {
	rm := RecipeMatch{Results: make([]MatchResult, 0, len(ingredients))}
	for _, ing := range ingredients {
		rm.Results = append(rm.Results, m.MatchIngredient(p.Lookup(ing.Name), ing))
	}
	return rm
}

// CanMake reports whether every ingredient is sufficient.
func (rm RecipeMatch) CanMake() bool {
	for _, r := range rm.Results {
		if !r.Sufficient {
			return false
		}
	}
	return true
}

// Missing returns the ingredients that are not sufficient.
func (rm RecipeMatch) Missing() []Ingredient {
	var out []Ingredient
	for _, r := range rm.Results {
		if !r.Sufficient {
			out = append(out, r.Ingredient)
		}
	}
	return out
}

// ShoppingLabel renders an ingredient as "<quantity> <unit> <name>",
// leaving out whatever is unset.
func ShoppingLabel(ing Ingredient) string {
	parts := make([]string, 0, 3)
	if ing.Amount != nil {
		parts = append(parts, strconv.FormatFloat(*ing.Amount, 'f', -1, 64))
	}
	if ing.Unit != "" {
		parts = append(parts, string(ing.Unit))
	}
	parts = append(parts, strings.TrimSpace(ing.Name))
	return strings.Join(parts, " ")
}

var defaultMatcher = NewMatcher(nil)

// MatchIngredient matches with the lenient default converter.
func MatchIngredient(entries []Quantity, required Ingredient) MatchResult {
	return defaultMatcher.MatchIngredient(entries, required)
}
