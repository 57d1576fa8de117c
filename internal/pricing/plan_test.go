package pricing

import (
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/wayward-coins/internal/catalog"
)

func qtyByID(p Plan) map[string]int {
	return lo.SliceToMap(p.Purchases, func(x Purchase) (string, int) { return x.ProductID, x.Qty })
}

func TestCheapestFor(t *testing.T) {
	products := catalog.Default().Products()

	tests := []struct {
		name      string
		target    int
		wantQty   map[string]int
		wantTotal string
		wantCoins int
	}{
		{
			name:      "single pack covers target",
			target:    1000,
			wantQty:   map[string]int{"1": 1},
			wantTotal: "45",
			wantCoins: 1100,
		},
		{
			name:      "mixed packs beat the popular pack",
			target:    5000,
			wantQty:   map[string]int{"1": 2, "2": 1},
			wantTotal: "196.25",
			wantCoins: 5000,
		},
		{
			name:      "bonus coins count toward target",
			target:    12000,
			wantQty:   map[string]int{"4": 1},
			wantTotal: "380",
			wantCoins: 12000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := CheapestFor(products, tt.target)
			require.NoError(t, err)
			require.Equal(t, tt.wantQty, qtyByID(plan))
			require.Equal(t, tt.wantTotal, plan.Subtotal.String())
			require.Equal(t, tt.wantCoins, plan.TotalCoins)
			require.GreaterOrEqual(t, plan.TotalCoins, tt.target)
		})
	}
}

func TestCheapestForEdgeCases(t *testing.T) {
	products := catalog.Default().Products()

	plan, err := CheapestFor(products, 0)
	require.NoError(t, err)
	require.Empty(t, plan.Purchases)
	require.True(t, plan.Subtotal.IsZero())

	plan, err = CheapestFor(nil, 1000)
	require.NoError(t, err)
	require.Empty(t, plan.Purchases)

	_, err = CheapestFor(products, MaxPlanCoins+1)
	require.ErrorIs(t, err, ErrPlanTooLarge)
}

func TestMostCoinsFor(t *testing.T) {
	products := catalog.Default().Products()

	plan, err := MostCoinsFor(products, decimal.NewFromInt(90))
	require.NoError(t, err)
	require.Equal(t, map[string]int{"1": 2}, qtyByID(plan))
	require.Equal(t, 2200, plan.TotalCoins)

	plan, err = MostCoinsFor(products, decimal.NewFromInt(300))
	require.NoError(t, err)
	require.Equal(t, map[string]int{"1": 2, "3": 1}, qtyByID(plan))
	require.Equal(t, 7950, plan.TotalCoins)
	require.Equal(t, "290", plan.Subtotal.String())

	// purchases follow catalog order
	require.Equal(t, []string{"1", "3"}, lo.Map(plan.Purchases, func(p Purchase, _ int) string { return p.ProductID }))
}

func TestMostCoinsForEdgeCases(t *testing.T) {
	products := catalog.Default().Products()

	plan, err := MostCoinsFor(products, decimal.NewFromInt(44))
	require.NoError(t, err)
	require.Empty(t, plan.Purchases)
	require.Zero(t, plan.TotalCoins)

	plan, err = MostCoinsFor(products, decimal.Zero)
	require.NoError(t, err)
	require.Empty(t, plan.Purchases)

	_, err = MostCoinsFor(products, decimal.NewFromInt(MaxPlanBudgetUSD+1))
	require.ErrorIs(t, err, ErrPlanTooLarge)
}
