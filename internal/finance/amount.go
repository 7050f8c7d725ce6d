package finance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Bounds of an amount: digits before the decimal point and digits after it.
const (
	MaxAmountDigits = 15
	MaxAmountScale  = 10
)

var ErrAmountOutOfRange = errors.New("amount out of range")

// ParseAmount reads a decimal amount. Values too large to store, or with more
// than MaxAmountScale significant decimals, fail with ErrAmountOutOfRange.
// Trailing zeros beyond the scale are dropped.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	exp := int(d.Exponent())

	// Checked on the exponent first so no rescale of a huge power of ten happens.
	if exp < -2*MaxAmountScale || exp > MaxAmountDigits {
		return decimal.Zero, fmt.Errorf("amount %q: %w", s, ErrAmountOutOfRange)
	}

	coef := d.Coefficient()
	if digits := len(coef.Abs(coef).String()); !d.IsZero() && digits+exp > MaxAmountDigits {
		return decimal.Zero, fmt.Errorf("amount %q: %w", s, ErrAmountOutOfRange)
	}

	if exp < -MaxAmountScale {
		t := d.Truncate(MaxAmountScale)
		if !t.Equal(d) {
			return decimal.Zero, fmt.Errorf("amount %q: %w", s, ErrAmountOutOfRange)
		}

		d = t
	}

	return d, nil
}
