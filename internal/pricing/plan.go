package pricing

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/xtding233/wayward-coins/internal/catalog"
)

// Planning limits keep the dynamic programming tables bounded.
const (
	MaxPlanCoins      = 1_000_000 // millions
	MaxPlanBudgetUSD  = 100_000
	maxPlanTableCells = 4_000_000
)

var ErrPlanTooLarge = errors.New("plan request exceeds limits")

// Plan is a combination of catalog packages.
type Plan struct {
	Purchases  []Purchase      `json:"purchases"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TotalCoins int             `json:"totalCoins"` // millions, bonus included
}

// Purchase is one line of a plan.
type Purchase struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UnitCoins int             `json:"unitCoins"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type option struct {
	product catalog.Product
	order   int
	coins   int   // scaled by coinUnit
	price   int64 // scaled by priceUnit
}

// options scales coins and prices down by their gcd so the tables stay small.
func options(products []catalog.Product) (opts []option, coinUnit int, priceUnit int64) {
	for i, p := range products {
		c := p.Amount + p.Bonus
		pc := cents(p.Price)
		if c <= 0 || pc <= 0 {
			continue
		}
		opts = append(opts, option{product: p, order: i, coins: c, price: pc})
		coinUnit = gcd(coinUnit, c)
		priceUnit = gcd64(priceUnit, pc)
	}
	for i := range opts {
		opts[i].coins /= coinUnit
		opts[i].price /= priceUnit
	}
	return opts, coinUnit, priceUnit
}

// CheapestFor finds the lowest-cost combination granting at least target million coins.
// Unbounded quantities are allowed.
func CheapestFor(products []catalog.Product, target int) (Plan, error) {
	if target <= 0 {
		return emptyPlan(), nil
	}
	if target > MaxPlanCoins {
		return Plan{}, ErrPlanTooLarge
	}
	opts, coinUnit, priceUnit := options(products)
	if len(opts) == 0 {
		return emptyPlan(), nil
	}

	maxCoins := 0
	for _, o := range opts {
		maxCoins = max(maxCoins, o.coins)
	}
	goal := (target + coinUnit - 1) / coinUnit
	limit := goal + maxCoins
	if limit > maxPlanTableCells {
		return Plan{}, ErrPlanTooLarge
	}

	const inf = int64(^uint64(0) >> 1)
	dp := make([]int64, limit+1) // min cost to reach exactly t
	pick := make([]int, limit+1) // chosen option index
	prev := make([]int, limit+1) // previous t
	for t := range dp {
		dp[t] = inf
		pick[t] = -1
		prev[t] = -1
	}
	dp[0] = 0

	for t := 0; t <= limit; t++ {
		if dp[t] == inf {
			continue
		}
		for i, o := range opts {
			nt := min(t+o.coins, limit)
			if cost := dp[t] + o.price; cost < dp[nt] {
				dp[nt] = cost
				pick[nt] = i
				prev[nt] = t
			}
		}
	}

	best := goal
	for t := goal; t <= limit; t++ {
		if dp[t] < dp[best] {
			best = t
		}
	}
	if dp[best] == inf {
		return emptyPlan(), nil
	}

	counts := make(map[int]int)
	for t := best; t > 0 && pick[t] != -1; t = prev[t] {
		counts[pick[t]]++
	}

	return buildPlan(opts, counts, priceUnit), nil
}

// MostCoinsFor finds the combination granting the most coins within budget.
func MostCoinsFor(products []catalog.Product, budget decimal.Decimal) (Plan, error) {
	if !budget.IsPositive() {
		return emptyPlan(), nil
	}
	if budget.GreaterThan(decimal.NewFromInt(MaxPlanBudgetUSD)) {
		return Plan{}, ErrPlanTooLarge
	}
	opts, _, priceUnit := options(products)
	if len(opts) == 0 {
		return emptyPlan(), nil
	}

	limit := int(cents(budget) / priceUnit)
	if limit > maxPlanTableCells {
		return Plan{}, ErrPlanTooLarge
	}

	// dp[c] = max coins with cost exactly c
	dp := make([]int, limit+1)
	reach := make([]bool, limit+1)
	pick := make([]int, limit+1)
	for c := range pick {
		pick[c] = -1
	}
	reach[0] = true

	for c := 0; c <= limit; c++ {
		if !reach[c] {
			continue
		}
		for i, o := range opts {
			nc := c + int(o.price)
			if nc > limit {
				continue
			}
			if v := dp[c] + o.coins; !reach[nc] || v > dp[nc] {
				dp[nc] = v
				reach[nc] = true
				pick[nc] = i
			}
		}
	}

	best := 0
	for c := 0; c <= limit; c++ {
		if reach[c] && dp[c] > dp[best] {
			best = c
		}
	}

	counts := make(map[int]int)
	for c := best; c > 0 && pick[c] >= 0; {
		i := pick[c]
		counts[i]++
		c -= int(opts[i].price)
	}

	return buildPlan(opts, counts, priceUnit), nil
}

func buildPlan(opts []option, counts map[int]int, priceUnit int64) Plan {
	plan := emptyPlan()
	idx := make([]int, 0, len(counts))
	for i := range counts {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool { return opts[idx[a]].order < opts[idx[b]].order })

	for _, i := range idx {
		p := opts[i].product
		qty := counts[i]
		unit := fromCents(opts[i].price * priceUnit)
		sub := unit.Mul(decimal.NewFromInt(int64(qty)))
		unitCoins := p.Amount + p.Bonus
		plan.Purchases = append(plan.Purchases, Purchase{
			ProductID: p.ID,
			Name:      p.Name,
			Qty:       qty,
			UnitPrice: unit,
			UnitCoins: unitCoins,
			Subtotal:  sub,
		})
		plan.Subtotal = plan.Subtotal.Add(sub)
		plan.TotalCoins += unitCoins * qty
	}
	return plan
}

func emptyPlan() Plan {
	return Plan{Purchases: []Purchase{}, Subtotal: decimal.Zero}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func gcd64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
