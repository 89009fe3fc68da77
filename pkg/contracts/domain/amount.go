package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a numeric cell value that may be missing. Cells that are empty or
// fail numeric coercion are carried as missing rather than as zero.
type Amount struct {
	value decimal.NullDecimal
}

// MissingAmount returns an Amount with no value.
func MissingAmount() Amount { return Amount{} }

// NewAmount wraps a decimal value.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{value: decimal.NewNullDecimal(d)}
}

// AmountFromFloat is a convenience for tests and literals.
func AmountFromFloat(f float64) Amount {
	return NewAmount(decimal.NewFromFloat(f))
}

// ParseAmount coerces a spreadsheet cell to an Amount. Thousands separators
// are stripped; anything that is still not a number becomes missing.
func ParseAmount(cell string) Amount {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return MissingAmount()
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return MissingAmount()
	}
	return NewAmount(d)
}

func (a Amount) Valid() bool              { return a.value.Valid }
func (a Amount) Decimal() decimal.Decimal { return a.value.Decimal }

// Sub returns a - b, missing when either operand is missing.
func (a Amount) Sub(b Amount) Amount {
	if !a.Valid() || !b.Valid() {
		return MissingAmount()
	}
	return NewAmount(a.value.Decimal.Sub(b.value.Decimal))
}

// Neg returns -a, missing stays missing.
func (a Amount) Neg() Amount {
	if !a.Valid() {
		return a
	}
	return NewAmount(a.value.Decimal.Neg())
}

// Float64 returns the value as a float and whether it was present.
func (a Amount) Float64() (float64, bool) {
	if !a.Valid() {
		return 0, false
	}
	return a.value.Decimal.InexactFloat64(), true
}

// Equal reports whether both amounts are missing or hold the same value.
func (a Amount) Equal(b Amount) bool {
	if a.Valid() != b.Valid() {
		return false
	}
	return !a.Valid() || a.value.Decimal.Equal(b.value.Decimal)
}

func (a Amount) String() string {
	if !a.Valid() {
		return ""
	}
	return a.value.Decimal.String()
}
