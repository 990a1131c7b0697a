// Package money implements exact fixed-point currency amounts.
//
// A Money value is stored as an integer number of minor units (cents), so sums,
// differences and comparisons are always exact. Rounding happens only where a
// caller asks for it (DivRound, Percent) and always rounds half away from zero,
// which is half-up for the positive amounts the ledger works with.
//
// Decimal parsing, formatting and percentage arithmetic go through
// github.com/shopspring/decimal; binary floating point is never involved.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by every Money value.
const Scale = 2

// MaxCents bounds the magnitude of any amount built from a decimal
// (1,000,000,000,000.00). Sums of up to about ninety thousand such amounts
// fit in int64.
const MaxCents int64 = 100_000_000_000_000

// ErrInvalidAmount is returned when a decimal cannot be represented in cents.
var ErrInvalidAmount = errors.New("invalid money amount")

// Money is an amount in minor units. The zero value is 0.00.
type Money struct {
	cents int64
}

var maxCents = decimal.NewFromInt(MaxCents)

// Zero is 0.00.
var Zero = Money{}

// FromCents builds a Money from a count of minor units.
func FromCents(cents int64) Money {
	return Money{cents: cents}
}

// FromDecimal converts d to Money. Values with more than two fractional
// digits, or whose magnitude exceeds MaxCents, are rejected rather than rounded.
func FromDecimal(d decimal.Decimal) (Money, error) {
	shifted := d.Shift(Scale)
	if !shifted.IsInteger() {
		return Zero, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, d, Scale)
	}
	if shifted.Abs().GreaterThan(maxCents) {
		return Zero, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, d)
	}
	return Money{cents: shifted.IntPart()}, nil
}

// Parse reads a decimal string such as "12.34" or "-5".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 { return m.cents }

// Decimal returns the amount as a decimal with two fractional digits.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.cents, -Scale)
}

func (m Money) Add(o Money) Money { return Money{cents: m.cents + o.cents} }
func (m Money) Sub(o Money) Money { return Money{cents: m.cents - o.cents} }
func (m Money) Neg() Money        { return Money{cents: -m.cents} }

// Abs returns |m|.
func (m Money) Abs() Money {
	if m.cents < 0 {
		return m.Neg()
	}
	return m
}

// Cmp returns -1, 0 or +1 as m is less than, equal to, or greater than o.
func (m Money) Cmp(o Money) int {
	switch {
	case m.cents < o.cents:
		return -1
	case m.cents > o.cents:
		return 1
	default:
		return 0
	}
}

func (m Money) Equal(o Money) bool { return m.cents == o.cents }
func (m Money) IsZero() bool       { return m.cents == 0 }
func (m Money) IsPositive() bool   { return m.cents > 0 }
func (m Money) IsNegative() bool   { return m.cents < 0 }

// Min returns the smaller of m and o.
func Min(m, o Money) Money {
	if o.cents < m.cents {
		return o
	}
	return m
}

// DivRound divides m into n parts, rounding the quotient to the cent
// (half away from zero). It panics if n is not positive.
func (m Money) DivRound(n int) Money {
	if n <= 0 {
		panic(fmt.Sprintf("money: DivRound by %d", n))
	}
	q := decimal.NewFromInt(m.cents).DivRound(decimal.NewFromInt(int64(n)), 0)
	return Money{cents: q.IntPart()}
}

// Percent returns pct percent of m rounded to the cent (half away from zero).
// The product is exact; rounding happens once.
func (m Money) Percent(pct decimal.Decimal) Money {
	v := decimal.NewFromInt(m.cents).Mul(pct).Shift(-2).Round(0)
	return Money{cents: v.IntPart()}
}

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// String formats the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(Scale)
}

// MarshalJSON encodes the amount as a decimal string, e.g. "33.34".
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted or bare decimal number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
