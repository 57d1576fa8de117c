package shop

import (
	"github.com/shopspring/decimal"

	"github.com/xtding233/wayward-coins/internal/cart"
	"github.com/xtding233/wayward-coins/internal/catalog"
	"github.com/xtding233/wayward-coins/internal/pricing"
)

// CartView is the rendered state of one session's cart.
type CartView struct {
	Lines        []LineView      `json:"lines"`
	Quantities   map[string]int  `json:"quantities"`
	ItemCount    int             `json:"itemCount"`
	Total        decimal.Decimal `json:"total"`
	TotalDisplay string          `json:"totalDisplay"`
}

// Empty reports whether the cart has no entries.
func (v CartView) Empty() bool {
	return len(v.Quantities) == 0
}

type LineView struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	AmountDisplay string          `json:"amountDisplay"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	PriceDisplay  string          `json:"priceDisplay"`
	Quantity      int             `json:"quantity"`
	Custom        bool            `json:"custom"`
}

func lineView(e cart.Entry) LineView {
	_, custom := e.Line.(cart.CustomLine)
	return LineView{
		ID:            e.Line.ProductID(),
		Name:          e.Line.Name(),
		AmountDisplay: e.Line.AmountDisplay(),
		UnitPrice:     e.Line.UnitPrice(),
		PriceDisplay:  pricing.FormatUSD(e.Line.UnitPrice()),
		Quantity:      e.Quantity,
		Custom:        custom,
	}
}

// ProductView is a catalog product with its display strings.
type ProductView struct {
	catalog.Product
	PriceDisplay         string `json:"priceDisplay"`
	OriginalPriceDisplay string `json:"originalPriceDisplay,omitempty"`
	PerMillionDisplay    string `json:"perMillionDisplay"`
}

type SectionView struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Products []ProductView `json:"products"`
}

func productView(p catalog.Product) ProductView {
	v := ProductView{
		Product:           p,
		PriceDisplay:      pricing.FormatUSD(p.Price),
		PerMillionDisplay: "$" + p.PerMillion().StringFixed(3),
	}
	if p.OriginalPrice != nil {
		v.OriginalPriceDisplay = pricing.FormatUSD(*p.OriginalPrice)
	}
	return v
}

func sectionViews(c *catalog.Catalog) []SectionView {
	sections := c.Sections()
	out := make([]SectionView, 0, len(sections))
	for _, s := range sections {
		sv := SectionView{ID: s.ID, Title: s.Title, Subtitle: s.Subtitle}
		for _, p := range s.Products {
			sv.Products = append(sv.Products, productView(p))
		}
		out = append(out, sv)
	}
	return out
}
