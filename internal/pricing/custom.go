package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/xtding233/wayward-coins/internal/catalog"
)

// Custom amount bounds, in millions of coins.
const (
	MinAmount     = 100
	MaxAmount     = 999
	DefaultAmount = 500
)

// CustomName is the display name of every synthesized package.
const CustomName = "Custom Pack"

// Rate is the custom package price per million coins.
var Rate = decimal.RequireFromString("0.05")

// Presets are the slider shortcuts.
var Presets = []int{250, 500, 750}

var ErrAmountOutOfRange = errors.New("custom amount out of range")

// ClampAmount forces x into [MinAmount, MaxAmount]. NaN and infinities fall back to
// DefaultAmount.
func ClampAmount(x float64) float64 {
	switch {
	case math.IsNaN(x), math.IsInf(x, 0):
		return DefaultAmount
	case x < MinAmount:
		return MinAmount
	case x > MaxAmount:
		return MaxAmount
	default:
		return x
	}
}

// Descriptor is a synthesized custom package. Its id is always catalog.CustomID.
type Descriptor struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Amount        float64         `json:"amount"`
	AmountDisplay string          `json:"amountDisplay"`
	Price         decimal.Decimal `json:"price"`
	Tier          catalog.Tier    `json:"tier"`
}

// PriceFor is amount × Rate.
func PriceFor(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Mul(Rate)
}

// AmountDisplay renders an amount in millions, e.g. "500M".
func AmountDisplay(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64) + "M"
}

// Synthesize prices amount as a custom package. Callers clamp first; an unclamped
// amount is rejected.
func Synthesize(amount float64) (Descriptor, error) {
	if math.IsNaN(amount) || amount < MinAmount || amount > MaxAmount {
		return Descriptor{}, fmt.Errorf("%w: %v not in [%d, %d]", ErrAmountOutOfRange, amount, MinAmount, MaxAmount)
	}
	return Descriptor{
		ID:            catalog.CustomID,
		Name:          CustomName,
		Amount:        amount,
		AmountDisplay: AmountDisplay(amount),
		Price:         PriceFor(amount),
		Tier:          catalog.TierPremium,
	}, nil
}

// Quote is what the custom-amount panel shows for one slider position. Summary and
// button read the same formatted total.
type Quote struct {
	Amount        float64         `json:"amount"`
	AmountDisplay string          `json:"amountDisplay"`
	Rate          string          `json:"rate"`
	Total         decimal.Decimal `json:"total"`
	TotalDisplay  string          `json:"totalDisplay"`
	ButtonLabel   string          `json:"buttonLabel"`
	Presets       []int           `json:"presets"`
	Min           int             `json:"min"`
	Max           int             `json:"max"`
}

// QuoteFor clamps amount and prices it.
func QuoteFor(amount float64) Quote {
	amount = ClampAmount(amount)
	total := PriceFor(amount)
	display := FormatUSD(total)
	return Quote{
		Amount:        amount,
		AmountDisplay: AmountDisplay(amount),
		Rate:          FormatUSD(Rate),
		Total:         total,
		TotalDisplay:  display,
		ButtonLabel:   fmt.Sprintf("Add %s Coins to Cart - %s", AmountDisplay(amount), display),
		Presets:       append([]int(nil), Presets...),
		Min:           MinAmount,
		Max:           MaxAmount,
	}
}
