package pantryrpc

import (
	"pantry"
)

// Wire mirrors of the pantry types.

type Quantity struct {
	Amount float64 `msgpack:"quantity"`
	Unit   string  `msgpack:"unit,omitempty"`
}

type Item struct {
	Name     string  `msgpack:"name"`
	Quantity float64 `msgpack:"quantity"`
	Unit     string  `msgpack:"unit,omitempty"`
}

type Ingredient struct {
	Name   string   `msgpack:"name"`
	Amount *float64 `msgpack:"quantity,omitempty"`
	Unit   string   `msgpack:"unit,omitempty"`
}

type UnitPair struct {
	From string `msgpack:"from"`
	To   string `msgpack:"to"`
}

type MatchResult struct {
	Ingredient     Ingredient `msgpack:"ingredient"`
	Present        bool       `msgpack:"present"`
	Sufficient     bool       `msgpack:"sufficient"`
	ConvertedTotal float64    `msgpack:"converted_total"`
	Uncertain      bool       `msgpack:"uncertain,omitempty"`
	Status         string     `msgpack:"status"`
	Incompatible   *UnitPair  `msgpack:"incompatible,omitempty"`
}

type ConvertRequest struct {
	Quantity float64 `msgpack:"quantity"`
	From     string  `msgpack:"from,omitempty"`
	To       string  `msgpack:"to,omitempty"`
}

type ConvertResponse struct {
	Quantity float64 `msgpack:"quantity"`
}

type MatchRequest struct {
	Pantry     []Quantity `msgpack:"pantry,omitempty"`
	Ingredient Ingredient `msgpack:"ingredient"`
}

type RecipeRequest struct {
	Pantry      []Item       `msgpack:"pantry,omitempty"`
	Ingredients []Ingredient `msgpack:"ingredients,omitempty"`
}

type RecipeResponse struct {
	CanMake bool          `msgpack:"can_make"`
	Results []MatchResult `msgpack:"results,omitempty"`
	Missing []string      `msgpack:"missing,omitempty"`
}

func NewQuantity(q pantry.Quantity) Quantity {
	return Quantity{Amount: q.Amount, Unit: string(q.Unit)}
}

func ToQuantity(q Quantity) pantry.Quantity {
	return pantry.Quantity{Amount: q.Amount, Unit: pantry.Unit(q.Unit)}
}

func NewItem(it pantry.Item) Item {
	return Item{Name: it.Name, Quantity: it.Quantity, Unit: string(it.Unit)}
}

func ToItem(it Item) pantry.Item {
	return pantry.Item{Name: it.Name, Quantity: it.Quantity, Unit: pantry.Unit(it.Unit)}
}

func NewIngredient(ing pantry.Ingredient) Ingredient {
	return Ingredient{Name: ing.Name, Amount: ing.Amount, Unit: string(ing.Unit)}
}

func ToIngredient(ing Ingredient) pantry.Ingredient {
	return pantry.Ingredient{Name: ing.Name, Amount: ing.Amount, Unit: pantry.Unit(ing.Unit)}
}

func NewMatchResult(r pantry.MatchResult) MatchResult {
	res := MatchResult{
		Ingredient:     NewIngredient(r.Ingredient),
		Present:        r.Present,
		Sufficient:     r.Sufficient,
		ConvertedTotal: r.ConvertedTotal,
		Uncertain:      r.Uncertain,
		Status:         r.Status().String(),
	}
	if e, ok := r.Err.(*pantry.IncompatibleUnitsError); ok {
		res.Incompatible = &UnitPair{From: string(e.From), To: string(e.To)}
	}
	return res
}

func ToMatchResult(r MatchResult) pantry.MatchResult {
	res := pantry.MatchResult{
		Ingredient:     ToIngredient(r.Ingredient),
		Present:        r.Present,
		Sufficient:     r.Sufficient,
		ConvertedTotal: r.ConvertedTotal,
		Uncertain:      r.Uncertain,
	}
	if r.Incompatible != nil {
		res.Err = &pantry.IncompatibleUnitsError{
			From: pantry.Unit(r.Incompatible.From),
			To:   pantry.Unit(r.Incompatible.To),
		}
	}
	return res
}
