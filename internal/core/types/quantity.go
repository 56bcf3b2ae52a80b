package types

import (
	"github.com/shopspring/decimal"
)

// Quantity represents an amount of goods in some unit of measure.
// Shares the decimal representation with Money so COGS math
// (price × quantity) needs no conversions.
type Quantity = decimal.Decimal

// NewQuantity creates an integral Quantity (count of pieces).
func NewQuantity(n int64) Quantity {
	return decimal.NewFromInt(n)
}

// NewQuantityFromString creates a Quantity from a string.
func NewQuantityFromString(s string) (Quantity, error) {
	return decimal.NewFromString(s)
}

// MustQuantity creates a Quantity from a string, panics on error.
// Use only for constants.
func MustQuantity(s string) Quantity {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// RoundQuantity rounds to 3 decimal places, the storage precision for
// quantities.
func RoundQuantity(q Quantity) Quantity {
	return q.Round(3)
}

// QuantityEqual reports whether two quantities are equal at storage
// precision.
func QuantityEqual(a, b Quantity) bool {
	return a.Round(3).Equal(b.Round(3))
}
