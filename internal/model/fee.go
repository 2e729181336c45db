package model

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const (
	// amounts with more integer digits or finer fractions than this are not money
	maxAmountIntegerDigits = 12
	minAmountExponent      = -8
	amountScale            = 2
)

// CoerceAmount is the only place a registration fee is interpreted.
// Absent, empty, non-numeric or out of range values become zero, which makes the
// registration free. Valid amounts are rounded to kopecks.
func CoerceAmount(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return boundAmount(v)
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero
		}
		return boundAmount(*v)
	}

	s, err := cast.ToStringE(raw)
	if err != nil {
		return decimal.Zero
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return boundAmount(amount)
}

// boundAmount rejects values whose exponent would make String or Round
// materialize an unbounded integer, e.g. "1e30000000".
func boundAmount(amount decimal.Decimal) decimal.Decimal {
	if amount.IsZero() {
		return decimal.Zero
	}
	if amount.Exponent() < minAmountExponent {
		return decimal.Zero
	}
	if amount.NumDigits()+int(amount.Exponent()) > maxAmountIntegerDigits {
		return decimal.Zero
	}
	return amount.Round(amountScale)
}

// NeedsPayment reports whether a fee of amount must go through the gateway.
func NeedsPayment(amount decimal.Decimal) bool {
	return amount.IsPositive()
}
