package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tier is the cosmetic classification of a package.
type Tier string

const (
	TierPremium   Tier = "premium"
	TierElite     Tier = "elite"
	TierLegendary Tier = "legendary"
)

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierPremium, TierElite, TierLegendary:
		return true
	default:
		return false
	}
}

// CustomID is reserved for the synthesized custom package and never used by catalog products.
const CustomID = "custom"

// Product models a purchasable coin package.
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`          // e.g., "Mogul Pack"
	Amount        int              `json:"amount"`        // coins, in millions
	AmountDisplay string           `json:"amountDisplay"` // e.g., "5B"
	Price         decimal.Decimal  `json:"price"`         // USD
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Bonus         int              `json:"bonus,omitempty"` // extra coins, in millions
	Savings       string           `json:"savings,omitempty"`
	Tier          Tier             `json:"tier"`
	Popular       bool             `json:"popular,omitempty"`
}

// PerMillion is the effective price of one million coins, rounded to 3 places.
func (p Product) PerMillion() decimal.Decimal {
	if p.Amount <= 0 {
		return decimal.Zero
	}
	return p.Price.Div(decimal.NewFromInt(int64(p.Amount))).Round(3)
}

// Section groups products shown under one page anchor.
type Section struct {
	ID       string    `json:"id"` // page anchor, e.g., "standard-packages"
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Products []Product `json:"products"`
}

// Config locates an optional catalog override file.
type Config struct {
	File string `conf:"file" yaml:"file" json:"file"`

	// ReloadInterval is how often the file is polled for changes; 0 disables hot reload.
	ReloadInterval time.Duration `conf:"reload_interval" yaml:"reload_interval" json:"reload_interval"`
}
