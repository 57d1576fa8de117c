package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/xtding233/wayward-coins/internal/catalog"
	"github.com/xtding233/wayward-coins/internal/pricing"
)

var ErrUnknownProduct = errors.New("unknown product")

// Line is what a cart entry resolves to: a StaticLine for catalog products or a
// CustomLine for the synthesized package.
type Line interface {
	ProductID() string
	Name() string
	AmountDisplay() string
	UnitPrice() decimal.Decimal
	line()
}

// StaticLine references a catalog product.
type StaticLine struct {
	Product catalog.Product
}

func (l StaticLine) ProductID() string          { return l.Product.ID }
func (l StaticLine) Name() string               { return l.Product.Name }
func (l StaticLine) AmountDisplay() string      { return l.Product.AmountDisplay }
func (l StaticLine) UnitPrice() decimal.Decimal { return l.Product.Price }
func (StaticLine) line()                        {}

// CustomLine carries the session's stored custom descriptor. Every unit of the custom
// entry is priced by the last descriptor saved.
type CustomLine struct {
	Descriptor pricing.Descriptor
}

func (l CustomLine) ProductID() string          { return catalog.CustomID }
func (l CustomLine) Name() string               { return l.Descriptor.Name }
func (l CustomLine) AmountDisplay() string      { return l.Descriptor.AmountDisplay }
func (l CustomLine) UnitPrice() decimal.Decimal { return l.Descriptor.Price }
func (CustomLine) line()                        {}

// Resolver maps a cart entry id to its line, or ErrUnknownProduct.
type Resolver interface {
	Resolve(ctx context.Context, id string) (Line, error)
}

// ProductLookup is satisfied by *catalog.Catalog and *catalog.Live.
type ProductLookup interface {
	Lookup(id string) (catalog.Product, bool)
}

// DescriptorLoader is satisfied by *store.Descriptors.
type DescriptorLoader interface {
	Load(ctx context.Context, session string) (pricing.Descriptor, error)
}

// SessionResolver resolves ids for one session: catalog ids against the catalog and
// the custom id against the session's stored descriptor.
type SessionResolver struct {
	Products    ProductLookup
	Descriptors DescriptorLoader // nil: custom entries never resolve
	Session     string
}

func (r SessionResolver) Resolve(ctx context.Context, id string) (Line, error) {
	if id == catalog.CustomID {
		if r.Descriptors == nil {
			return nil, ErrUnknownProduct
		}
		d, err := r.Descriptors.Load(ctx, r.Session)
		if err != nil {
			return nil, errors.Join(ErrUnknownProduct, err)
		}
		return CustomLine{Descriptor: d}, nil
	}
	if p, ok := r.Products.Lookup(id); ok {
		return StaticLine{Product: p}, nil
	}
	return nil, ErrUnknownProduct
}
