// Package pricing turns coin amounts into prices: display formatting, the custom
// package synthesizer and purchase planning over the catalog.
package pricing

import (
	"github.com/shopspring/decimal"
)

// FormatUSD renders d with two decimals, rounding half up, e.g. "$25.00".
func FormatUSD(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// cents converts a USD amount to integer minor units.
func cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
