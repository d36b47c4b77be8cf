package pantry

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Unit names a measurement unit as entered by a user or stored with a pantry
// row. The empty Unit means the unit is missing.
type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitPound      Unit = "lb"
	UnitOunce      Unit = "oz"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
	UnitCup        Unit = "cup"
	UnitTablespoon Unit = "tbsp"
	UnitTeaspoon   Unit = "tsp"
	UnitPiece      Unit = "pcs"
	UnitPieceAlt   Unit = "piece"
	UnitOther      Unit = "Other" // sentinel for free-form units
)

// Category partitions units into groups that convert into each other.
type Category int

const (
	CategoryNone Category = iota
	CategoryMass
	CategoryVolume
	CategoryCount
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategoryMass:
		return "mass"
	case CategoryVolume:
		return "volume"
	case CategoryCount:
		return "count"
	case CategoryOther:
		return "other"
	default:
		return "none"
	}
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mass":
		return CategoryMass, true
	case "volume":
		return CategoryVolume, true
	case "count":
		return CategoryCount, true
	case "other":
		return CategoryOther, true
	}
	return CategoryNone, false
}

type unitDef struct {
	unit     Unit
	category Category
	toBase   decimal.Decimal // unit * toBase = base unit of the category
}

// unitTable maps a normalized unit key to its definition. A table is never
// modified once built; extending one produces a copy.
type unitTable struct {
	defs  []unitDef
	index map[string]int
}

var baseUnits = []unitDef{
	{UnitKilogram, CategoryMass, decimal.RequireFromString("1000")},
	{UnitGram, CategoryMass, decimal.NewFromInt(1)},
	{UnitPound, CategoryMass, decimal.RequireFromString("453.59237")},
	{UnitOunce, CategoryMass, decimal.RequireFromString("28.349523125")},

	{UnitMilliliter, CategoryVolume, decimal.NewFromInt(1)},
	{UnitLiter, CategoryVolume, decimal.RequireFromString("1000")},
	// US customary
	{UnitCup, CategoryVolume, decimal.RequireFromString("236.5882365")},
	{UnitTablespoon, CategoryVolume, decimal.RequireFromString("14.78676478125")},
	{UnitTeaspoon, CategoryVolume, decimal.RequireFromString("4.92892159375")},

	{UnitPiece, CategoryCount, decimal.NewFromInt(1)},
	{UnitPieceAlt, CategoryCount, decimal.NewFromInt(1)},

	{UnitOther, CategoryOther, decimal.NewFromInt(1)},
}

var unitAliases = map[string]Unit{
	"kilogram":    UnitKilogram,
	"kilograms":   UnitKilogram,
	"kgs":         UnitKilogram,
	"gram":        UnitGram,
	"grams":       UnitGram,
	"pound":       UnitPound,
	"pounds":      UnitPound,
	"lbs":         UnitPound,
	"ounce":       UnitOunce,
	"ounces":      UnitOunce,
	"milliliter":  UnitMilliliter,
	"milliliters": UnitMilliliter,
	"millilitre":  UnitMilliliter,
	"liter":       UnitLiter,
	"liters":      UnitLiter,
	"litre":       UnitLiter,
	"litres":      UnitLiter,
	"cups":        UnitCup,
	"tablespoon":  UnitTablespoon,
	"tablespoons": UnitTablespoon,
	"teaspoon":    UnitTeaspoon,
	"teaspoons":   UnitTeaspoon,
	"pieces":      UnitPieceAlt,
	"pc":          UnitPiece,
}

var defaultUnits = newUnitTable(baseUnits)

func newUnitTable(defs []unitDef) unitTable {
	t := unitTable{
		defs:  make([]unitDef, 0, len(defs)),
		index: make(map[string]int, len(defs)+len(unitAliases)),
	}
	for _, d := range defs {
		t.add(d)
	}
	for alias, u := range unitAliases {
		if i, ok := t.index[unitKey(u)]; ok {
			if _, taken := t.index[alias]; !taken {
				t.index[alias] = i
			}
		}
	}
	return t
}

func (t *unitTable) add(d unitDef) {
	key := unitKey(d.unit)
	if i, ok := t.index[key]; ok {
		t.defs[i] = d
		return
	}
	t.defs = append(t.defs, d)
	t.index[key] = len(t.defs) - 1
}

// with returns a copy of t that also knows extra.
func (t unitTable) with(extra []unitDef) unitTable {
	defs := make([]unitDef, 0, len(t.defs)+len(extra))
	defs = append(defs, t.defs...)
	defs = append(defs, extra...)
	return newUnitTable(defs)
}

func (t unitTable) lookup(u Unit) (unitDef, bool) {
	i, ok := t.index[unitKey(u)]
	if !ok {
		return unitDef{}, false
	}
	return t.defs[i], true
}

func unitKey(u Unit) string {
	return strings.ToLower(strings.TrimSpace(string(u)))
}

// ParseUnit returns the canonical spelling of s and whether s names a
// recognized unit. Unrecognized text is returned trimmed, as a custom unit.
func ParseUnit(s string) (Unit, bool) {
	d, ok := defaultUnits.lookup(Unit(s))
	if !ok {
		return Unit(strings.TrimSpace(s)), false
	}
	return d.unit, true
}

// CategoryOf reports the category of u, or CategoryNone when u is not recognized.
func CategoryOf(u Unit) Category {
	d, ok := defaultUnits.lookup(u)
	if !ok {
		return CategoryNone
	}
	return d.category
}

// Units lists the recognized units in table order.
func Units() []Unit {
	units := make([]Unit, len(defaultUnits.defs))
	for i, d := range defaultUnits.defs {
		units[i] = d.unit
	}
	return units
}
