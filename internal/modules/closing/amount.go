package closing

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// AmountScale is the number of decimals an amount may carry.
	AmountScale = 2
	// AmountIntegerDigits bounds the integer part, matching NUMERIC(14,2).
	AmountIntegerDigits = 12
)

// ParseAmount converts raw form input into an amount. Anything that is not a
// finite decimal number, or that cannot be stored (see Storable), becomes zero
// instead of being rejected. Negative values are kept so that validation can
// report them.
func ParseAmount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !Storable(d) {
		return decimal.Zero
	}
	return d
}

// Storable reports whether d fits the amount columns: at most AmountScale
// decimals and AmountIntegerDigits integer digits. It only looks at the
// coefficient and exponent, so it stays cheap for inputs such as 1e200000000
// where any arithmetic would not.
func Storable(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if d.IsZero() {
		// 0e-99999999 is still zero, but rescaling against it is not free.
		return exp > -AmountScale-AmountIntegerDigits && exp < AmountIntegerDigits
	}
	digits := int64(d.NumDigits())
	if digits+exp > AmountIntegerDigits {
		return false
	}
	if exp >= -AmountScale {
		return true
	}
	// Below the scale only trailing zeros are allowed, as in 1.500.
	if -AmountScale-exp >= digits {
		return false
	}
	return d.Equal(d.Truncate(AmountScale))
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
