// Package money is the exact decimal amount used by every financial field.
//
// Amounts keep full precision through arithmetic; rounding to cents only
// happens when a caller asks for it (Round), which the allocation code does at
// its boundaries.
package money

import (
	"database/sql/driver"
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Places is the persisted scale of every amount.
const Places = 2

type Amount struct {
	value decimal.Decimal
}

var Zero = Amount{}

func New(d decimal.Decimal) Amount { return Amount{value: d} }

func FromInt(units int64) Amount { return Amount{value: decimal.NewFromInt(units)} }

// FromCents builds an amount from minor units.
func FromCents(cents int64) Amount { return Amount{value: decimal.New(cents, -Places)} }

func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Amount{value: d}, nil
}

// MustParse is for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Decimal() decimal.Decimal { return a.value }

func (a Amount) Add(b Amount) Amount { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount { return Amount{value: a.value.Sub(b.value)} }
func (a Amount) Neg() Amount         { return Amount{value: a.value.Neg()} }

// MulRatio multiplies without rounding.
func (a Amount) MulRatio(r decimal.Decimal) Amount { return Amount{value: a.value.Mul(r)} }

// Round rounds half-up (away from zero) to cents.
func (a Amount) Round() Amount { return Amount{value: a.value.Round(Places)} }

// HasCentPrecision reports whether a carries no digits below the cent.
func (a Amount) HasCentPrecision() bool { return a.value.Equal(a.value.Round(Places)) }

func (a Amount) Cmp(b Amount) int                 { return a.value.Cmp(b.value) }
func (a Amount) Equal(b Amount) bool              { return a.value.Equal(b.value) }
func (a Amount) LessThan(b Amount) bool           { return a.value.LessThan(b.value) }
func (a Amount) GreaterThan(b Amount) bool        { return a.value.GreaterThan(b.value) }
func (a Amount) GreaterThanOrEqual(b Amount) bool { return a.value.GreaterThanOrEqual(b.value) }
func (a Amount) IsZero() bool                     { return a.value.IsZero() }
func (a Amount) IsPositive() bool                 { return a.value.IsPositive() }
func (a Amount) IsNegative() bool                 { return a.value.IsNegative() }

func (a Amount) String() string { return a.value.StringFixed(Places) }

// Sum adds amounts left to right.
func Sum(amounts ...Amount) Amount {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Value stores the exact decimal; columns are declared decimal(19,2).
func (a Amount) Value() (driver.Value, error) { return a.value.String(), nil }

func (a *Amount) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("scan amount: %w", err)
	}
	a.value = d
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	a.value = d
	return nil
}

// ValidCurrency reports whether code is an ISO-4217 code known to go-money.
func ValidCurrency(code string) bool {
	return code != "" && gomoney.GetCurrency(code) != nil
}

// Format renders a with the currency's symbol and grouping, e.g. "$1,000.00".
func Format(a Amount, code string) string {
	if !ValidCurrency(code) {
		return a.String() + " " + code
	}
	cents := a.Round().value.Shift(Places).IntPart()
	return gomoney.New(cents, code).Display()
}
