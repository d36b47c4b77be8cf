package pantry

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrIncompatibleUnits is matched by every *IncompatibleUnitsError.
var ErrIncompatibleUnits = errors.New("incompatible units")

// IncompatibleUnitsError is returned under PolicyStrict when two units are in
// different categories or one of them is not recognized.
type IncompatibleUnitsError struct {
	From Unit
	To   Unit
}

func (e *IncompatibleUnitsError) Error() string {
	return fmt.Sprintf("incompatible units: %q -> %q", e.From, e.To)
}

func (e *IncompatibleUnitsError) Is(target error) bool {
	return target == ErrIncompatibleUnits
}

// Policy decides what Convert does with incompatible units.
type Policy int

const (
	// PolicyLenient logs a warning and returns the quantity unconverted.
	PolicyLenient Policy = iota
	// PolicyStrict returns an *IncompatibleUnitsError.
	PolicyStrict
)

func (p Policy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "lenient"
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return PolicyLenient, nil
	case "strict":
		return PolicyStrict, nil
	}
	return PolicyLenient, fmt.Errorf("unknown policy %q", s)
}

type Option func(*Converter)

func WithPolicy(p Policy) Option {
	return func(c *Converter) { c.policy = p }
}

// WithLogger sets the logger used for incompatibility warnings. The default
// is zap.L() at the time of the call.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithUnit teaches the converter an extra unit, e.g. 1 dozen = 12 pcs is
// WithUnit("dozen", CategoryCount, 12). Units with a non-positive factor or
// CategoryNone are ignored.
func WithUnit(name string, category Category, factorToBase float64) Option {
	return func(c *Converter) {
		c.extra = append(c.extra, customUnit{name, category, factorToBase})
	}
}

type customUnit struct {
	name     string
	category Category
	factor   float64
}

// Converter converts quantities between units of the same category. A
// Converter is immutable after NewConverter and safe for concurrent use.
type Converter struct {
	units  unitTable
	policy Policy
	logger *zap.Logger
	extra  []customUnit
}

func NewConverter(opts ...Option) *Converter {
	c := &Converter{units: defaultUnits}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.extra) > 0 {
		defs := make([]unitDef, 0, len(c.extra))
		for _, cu := range c.extra {
			name := strings.TrimSpace(cu.name)
			if name == "" || cu.category == CategoryNone || !(cu.factor > 0) || math.IsInf(cu.factor, 0) {
				c.log().Warn("ignoring custom unit",
					zap.String("unit", cu.name),
					zap.Stringer("category", cu.category),
					zap.Float64("factor", cu.factor))
				continue
			}
			defs = append(defs, unitDef{Unit(name), cu.category, decimal.NewFromFloat(cu.factor)})
		}
		c.units = c.units.with(defs)
		c.extra = nil
	}
	return c
}

func (c *Converter) Policy() Policy {
	return c.policy
}

// Category reports the category of u as this converter sees it.
func (c *Converter) Category(u Unit) Category {
	d, ok := c.units.lookup(u)
	if !ok {
		return CategoryNone
	}
	return d.category
}

// Compatible reports whether from and to convert without hitting the
// incompatibility policy.
func (c *Converter) Compatible(from, to Unit) bool {
	_, ok := c.convert(0, from, to)
	return ok
}

// Convert converts quantity from one unit to another.
//
// Equal units, including two missing or two unrecognized ones, return quantity
// unchanged. A missing unit on one side also returns quantity unchanged. Units
// of different categories, or an unrecognized unit, are handled by the
// converter's Policy.
func (c *Converter) Convert(quantity float64, from, to Unit) (float64, error) {
	v, ok := c.convert(quantity, from, to)
	if ok {
		return v, nil
	}
	if c.policy == PolicyStrict {
		return 0, &IncompatibleUnitsError{From: from, To: to}
	}
	c.warnIncompatible(quantity, from, to)
	return quantity, nil
}

func (c *Converter) convert(quantity float64, from, to Unit) (float64, bool) {
	if from == to || from == "" || to == "" {
		return quantity, true
	}
	fd, ok := c.units.lookup(from)
	if !ok {
		return quantity, false
	}
	td, ok := c.units.lookup(to)
	if !ok || fd.category != td.category {
		return quantity, false
	}
	if fd.toBase.Equal(td.toBase) {
		return quantity, true
	}
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return quantity * fd.toBase.InexactFloat64() / td.toBase.InexactFloat64(), true
	}
	return scale(decimal.NewFromFloat(quantity), fd.toBase, td.toBase).InexactFloat64(), true
}

// significantDigits is the precision kept by scale, a few digits beyond what
// a float64 can hold.
const significantDigits = 20

// scale returns q * from / to rounded to significantDigits significant
// digits, whatever the magnitude of q.
func scale(q, from, to decimal.Decimal) decimal.Decimal {
	n := q.Mul(from)
	if n.IsZero() {
		return n
	}
	places := significantDigits - (msd(n) - msd(to))
	return n.DivRound(to, int32(places))
}

// msd is the power of ten of the most significant digit of d.
func msd(d decimal.Decimal) int {
	return d.NumDigits() + int(d.Exponent()) - 1
}

func (c *Converter) warnIncompatible(quantity float64, from, to Unit) {
	c.log().Warn("incompatible units",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Float64("quantity", quantity))
}

func (c *Converter) log() *zap.Logger {
	if c.logger != nil {
		return c.logger
	}
	return zap.L()
}

var defaultConverter = NewConverter()

// Convert converts quantity with the lenient default converter, which logs
// through zap.L().
func Convert(quantity float64, from, to Unit) float64 {
	v, _ := defaultConverter.Convert(quantity, from, to)
	return v
}
