package pantry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBelowThreshold(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		trigger  RestockTrigger
		custom   *float64
		par      *float64
		want     bool
	}{
		{"empty at zero", 0, RestockEmpty, nil, nil, true},
		{"empty with stock", 0.5, RestockEmpty, nil, nil, false},
		{"default trigger is empty", 0, "", nil, nil, true},
		{"unknown trigger is empty", 1, "weekly", nil, nil, false},
		{"par applies to empty trigger", 2, RestockEmpty, nil, amount(3), true},
		{"at par", 3, "", nil, amount(3), true},
		{"above par", 3.5, RestockEmpty, nil, amount(3), false},
		{"half without par", 0.5, RestockHalf, nil, nil, false},
		{"half at zero", 0, RestockHalf, nil, nil, true},
		{"half of par", 5, RestockHalf, nil, amount(10), true},
		{"above par with half", 11, RestockHalf, nil, amount(10), false},
		{"custom", 3, RestockCustom, amount(3), nil, true},
		{"above custom", 3.1, RestockCustom, amount(3), nil, false},
		{"custom above par", 4, RestockCustom, amount(5), amount(2), true},
		{"custom unset uses par", 2, RestockCustom, nil, amount(2), true},
		{"custom unset above par", 3, RestockCustom, nil, amount(2), false},
		{"case insensitive", 2, "CUSTOM", amount(3), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBelowThreshold(tt.quantity, tt.trigger, tt.custom, tt.par))
		})
	}
}

func TestLowStock(t *testing.T) {
	items := []Item{
		{Name: "milk", Quantity: 0, Unit: UnitLiter},
		{Name: "rice", Quantity: 2, Unit: UnitKilogram, RestockTrigger: RestockHalf, RestockThreshold: amount(5)},
		{Name: "eggs", Quantity: 6, Unit: UnitPiece, RestockTrigger: RestockCustom, CustomThreshold: amount(6)},
		{Name: "oil", Quantity: 2, Unit: UnitLiter, RestockThreshold: amount(3)},
		{Name: "flour", Quantity: 1, Unit: UnitKilogram},
		{Name: "sugar", Quantity: 4, Unit: UnitKilogram, RestockThreshold: amount(3)},
	}
	got := LowStock(items)
	var names []string
	for _, it := range got {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"milk", "rice", "eggs", "oil"}, names)
	assert.Empty(t, LowStock(items[4:]))
}

func TestAutoRestock(t *testing.T) {
	items := []Item{
		{Name: "Oil", Quantity: 2, Unit: UnitLiter, RestockThreshold: amount(3)},
		{Name: "Milk", Quantity: 0, Unit: UnitLiter},
		{Name: "Sugar", Quantity: 4, Unit: UnitKilogram, RestockThreshold: amount(3)},
		{Name: "Eggs", Quantity: 0, Unit: UnitPiece, RestockThreshold: amount(12)},
		{Name: "oil ", Quantity: 0, Unit: UnitMilliliter},
		{Name: "Salt", Quantity: 0, Unit: UnitGram, RestockThreshold: amount(0)},
		// custom triggers do not feed the restock list
		{Name: "Rice", Quantity: 1, Unit: UnitKilogram, RestockTrigger: RestockCustom, CustomThreshold: amount(2)},
	}

	got := AutoRestock(items, []string{"EGGS"})
	assert.Equal(t, []ShoppingItem{
		{Name: "Oil", Quantity: 3, Unit: UnitLiter},
		{Name: "Milk", Quantity: 1, Unit: UnitLiter},
		{Name: "Salt", Quantity: 0, Unit: UnitGram},
	}, got)

	assert.Empty(t, AutoRestock(items[2:3], nil))
}
