package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is an exact decimal monetary amount.
//
// On input it accepts a JSON number (`10.5`) or a numeric string (`"10.5"`).
// It is written as a JSON number with at least one fractional digit (`10.0`, `10.5`),
// which is how existing clients compare amounts after a round trip.
type Amount struct {
	value decimal.Decimal
}

// Amounts wider than this are refused by validation. Parsing keeps the exponent separate from the
// digits, so "1e2000000000" is cheap to hold but not to print.
const (
	maxAmountIntegerDigits  = 20
	maxAmountFractionDigits = 18
)

// NewAmount parses s as a decimal amount.
func NewAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{value: d}, nil
}

// MustAmount is NewAmount for constants in tests and fixtures.
func MustAmount(s string) Amount {
	a, err := NewAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func AmountFromDecimal(d decimal.Decimal) Amount { return Amount{value: d} }

func (a Amount) Decimal() decimal.Decimal { return a.value }

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool { return a.value.IsPositive() }

// InRange reports whether the amount has at most maxAmountIntegerDigits digits before the point
// and maxAmountFractionDigits after it.
func (a Amount) InRange() bool {
	exp := int(a.value.Exponent())
	if exp < -maxAmountFractionDigits {
		return false
	}
	return a.value.NumDigits()+exp <= maxAmountIntegerDigits
}

func (a Amount) Equal(other Amount) bool { return a.value.Equal(other.value) }

func (a Amount) String() string {
	s := a.value.String()
	if !strings.Contains(s, ".") {
		s = a.value.StringFixed(1)
	}
	return s
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	a.value = d
	return nil
}
