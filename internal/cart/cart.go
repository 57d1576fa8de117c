// Package cart holds per-session shopping carts: a mapping from product id to a
// positive quantity, plus the totals derived from it.
package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// Cart maps product ids to positive quantities. The zero value is not usable; call New.
type Cart struct {
	mu    sync.Mutex
	qty   map[string]int
	order []string // insertion order for stable rendering
}

func New() *Cart {
	return &Cart{qty: make(map[string]int)}
}

// Add increments id by one. It never fails and has no upper bound.
func (c *Cart) Add(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.qty[id]; !ok {
		c.order = append(c.order, id)
	}
	c.qty[id]++
}

// Remove decrements id by one and drops the entry when it would reach zero.
// Removing an absent id is a no-op.
func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.qty[id] > 1 {
		c.qty[id]--
		return
	}
	c.drop(id)
}

func (c *Cart) drop(id string) {
	if _, ok := c.qty[id]; !ok {
		return
	}
	delete(c.qty, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.qty = make(map[string]int)
	c.order = nil
}

// Quantity returns the quantity of id, 0 when absent.
func (c *Cart) Quantity(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.qty[id]
}

// Quantities returns a copy of the mapping.
func (c *Cart) Quantities() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.qty))
	for id, q := range c.qty {
		out[id] = q
	}
	return out
}

// ItemCount is the sum of all quantities.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, q := range c.qty {
		n += q
	}
	return n
}

// Entry is a resolved cart line with its quantity.
type Entry struct {
	Line     Line
	Quantity int
}

// Subtotal is quantity × unit price.
func (e Entry) Subtotal() decimal.Decimal {
	return e.Line.UnitPrice().Mul(decimal.NewFromInt(int64(e.Quantity)))
}

type item struct {
	id  string
	qty int
}

func (c *Cart) items() []item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]item, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, item{id: id, qty: c.qty[id]})
	}
	return out
}

// Entries resolves every entry in insertion order. Ids that do not resolve are left out
// and returned separately.
func (c *Cart) Entries(ctx context.Context, r Resolver) (entries []Entry, unresolved []string) {
	for _, it := range c.items() {
		l, err := r.Resolve(ctx, it.id)
		if err != nil {
			unresolved = append(unresolved, it.id)
			continue
		}
		entries = append(entries, Entry{Line: l, Quantity: it.qty})
	}
	return entries, unresolved
}

// TotalPrice sums quantity × unit price. Entries that do not resolve contribute zero.
func (c *Cart) TotalPrice(ctx context.Context, r Resolver) decimal.Decimal {
	entries, _ := c.Entries(ctx, r)
	return Sum(entries)
}

// Sum adds up the subtotals of entries.
func Sum(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Subtotal())
	}
	return total
}
