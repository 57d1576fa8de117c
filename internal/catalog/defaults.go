package catalog

import "github.com/shopspring/decimal"

// Section anchors owned by the catalog.
const (
	SectionStandard = "standard-packages"
	SectionPremium  = "premium-packages"
)

func usd(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func usdPtr(s string) *decimal.Decimal {
	d := usd(s)
	return &d
}

// DefaultSections returns a fresh copy of the built-in catalog.
func DefaultSections() []Section {
	return []Section{
		{
			ID:       SectionStandard,
			Title:    "Standard Packages",
			Subtitle: "Perfect for getting started (1B – 5B coins)",
			Products: []Product{
				{
					ID:            "1",
					Name:          "Billionaire Pack",
					Amount:        1000,
					AmountDisplay: "1B",
					Price:         usd("45.00"),
					OriginalPrice: usdPtr("50.00"),
					Bonus:         100,
					Savings:       "10% OFF",
					Tier:          TierPremium,
				},
				{
					ID:            "2",
					Name:          "Tycoon Pack",
					Amount:        2500,
					AmountDisplay: "2.5B",
					Price:         usd("106.25"),
					OriginalPrice: usdPtr("125.00"),
					Bonus:         300,
					Savings:       "15% OFF",
					Tier:          TierPremium,
				},
				{
					ID:            "3",
					Name:          "Mogul Pack",
					Amount:        5000,
					AmountDisplay: "5B",
					Price:         usd("200.00"),
					OriginalPrice: usdPtr("250.00"),
					Popular:       true,
					Bonus:         750,
					Savings:       "20% OFF",
					Tier:          TierElite,
				},
			},
		},
		{
			ID:       SectionPremium,
			Title:    "Premium Packages",
			Subtitle: "Elite options for serious players (10B – 50B coins)",
			Products: []Product{
				{
					ID:            "4",
					Name:          "Empire Pack",
					Amount:        10000,
					AmountDisplay: "10B",
					Price:         usd("380.00"),
					OriginalPrice: usdPtr("500.00"),
					Bonus:         2000,
					Savings:       "24% OFF",
					Tier:          TierElite,
				},
				{
					ID:            "5",
					Name:          "Dynasty Pack",
					Amount:        25000,
					AmountDisplay: "25B",
					Price:         usd("900.00"),
					OriginalPrice: usdPtr("1250.00"),
					Bonus:         6000,
					Savings:       "28% OFF",
					Tier:          TierLegendary,
				},
				{
					ID:            "6",
					Name:          "Infinite Pack",
					Amount:        50000,
					AmountDisplay: "50B",
					Price:         usd("1750.00"),
					OriginalPrice: usdPtr("2500.00"),
					Bonus:         15000,
					Savings:       "30% OFF",
					Tier:          TierLegendary,
				},
			},
		},
	}
}
