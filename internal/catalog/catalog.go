// Package catalog holds the immutable set of purchasable coin packages, its YAML
// override loader, validation and hot reload.
package catalog

import (
	"sync/atomic"

	"github.com/samber/lo"
)

// Catalog is an immutable, validated set of sections. Build one with New.
type Catalog struct {
	sections []Section
	byID     map[string]Product
}

// New validates the sections and indexes their products.
func New(sections []Section) (*Catalog, error) {
	if err := Validate(sections); err != nil {
		return nil, err
	}
	c := &Catalog{
		sections: cloneSections(sections),
		byID:     make(map[string]Product),
	}
	for _, s := range c.sections {
		for _, p := range s.Products {
			c.byID[p.ID] = p
		}
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultSections())
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup finds a product by id.
func (c *Catalog) Lookup(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Sections returns a copy of the sections in display order.
func (c *Catalog) Sections() []Section {
	return cloneSections(c.sections)
}

// Section returns the section with the given anchor id.
func (c *Catalog) Section(id string) (Section, bool) {
	s, ok := lo.Find(c.sections, func(s Section) bool { return s.ID == id })
	if !ok {
		return Section{}, false
	}
	return cloneSections([]Section{s})[0], true
}

// Products returns every product, in display order.
func (c *Catalog) Products() []Product {
	return lo.FlatMap(c.sections, func(s Section, _ int) []Product {
		return append([]Product(nil), s.Products...)
	})
}

func cloneSections(in []Section) []Section {
	out := make([]Section, len(in))
	for i, s := range in {
		out[i] = s
		out[i].Products = append([]Product(nil), s.Products...)
	}
	return out
}

// Live holds the catalog currently served. Reloads swap it atomically.
type Live struct {
	cur atomic.Pointer[Catalog]
}

// NewLive starts serving c.
func NewLive(c *Catalog) *Live {
	l := &Live{}
	l.cur.Store(c)
	return l
}

// Current returns the active catalog.
func (l *Live) Current() *Catalog {
	return l.cur.Load()
}

// Swap replaces the active catalog.
func (l *Live) Swap(c *Catalog) {
	l.cur.Store(c)
}

// Lookup resolves id against the active catalog.
func (l *Live) Lookup(id string) (Product, bool) {
	return l.Current().Lookup(id)
}
