package pantry

import (
	"sort"
	"strings"
	"time"
)

// Quantity is an amount in some unit.
type Quantity struct {
	Amount float64 `yaml:"quantity"`
	Unit   Unit    `yaml:"unit"`
}

// Item is one pantry row owned by a user.
type Item struct {
	Name       string     `yaml:"name"`
	Quantity   float64    `yaml:"quantity"`
	Unit       Unit       `yaml:"unit"`
	Expiration *time.Time `yaml:"expiration,omitempty"`

	RestockTrigger   RestockTrigger `yaml:"restock_trigger,omitempty"`
	CustomThreshold  *float64       `yaml:"custom_threshold,omitempty"`
	RestockThreshold *float64       `yaml:"restock_threshold,omitempty"`
}

func (it Item) Amount() Quantity {
	return Quantity{Amount: it.Quantity, Unit: it.Unit}
}

// NormalizeName is the key pantry items and ingredients are matched on.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Pantry is a read-only snapshot of a user's items indexed by normalized name.
type Pantry struct {
	items  []Item
	byName map[string][]int
}

func NewPantry(items []Item) *Pantry {
	p := &Pantry{
		items:  append([]Item(nil), items...),
		byName: make(map[string][]int),
	}
	for i, it := range p.items {
		key := NormalizeName(it.Name)
		if key == "" {
			continue
		}
		p.byName[key] = append(p.byName[key], i)
	}
	return p
}

func (p *Pantry) Len() int {
	return len(p.items)
}

// Items returns a copy of the snapshot.
func (p *Pantry) Items() []Item {
	return append([]Item(nil), p.items...)
}

// Has reports whether any item is named name.
func (p *Pantry) Has(name string) bool {
	return len(p.byName[NormalizeName(name)]) > 0
}

// Lookup returns the quantities of every item named name, in insertion order.
func (p *Pantry) Lookup(name string) []Quantity {
	idx := p.byName[NormalizeName(name)]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Quantity, 0, len(idx))
	for _, i := range idx {
		out = append(out, p.items[i].Amount())
	}
	return out
}

// Names returns the distinct normalized names, sorted.
func (p *Pantry) Names() []string {
	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
