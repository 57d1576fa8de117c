// Package shop is the storefront service: it binds the live catalog, per-session carts
// and the custom package store behind one API used by the HTTP and gRPC layers.
package shop

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xtding233/wayward-coins/internal/cart"
	"github.com/xtding233/wayward-coins/internal/catalog"
	"github.com/xtding233/wayward-coins/internal/pricing"
	"github.com/xtding233/wayward-coins/internal/store"
)

var ErrCheckoutNotImplemented = errors.New("checkout is not implemented")

type Service struct {
	catalog     *catalog.Live
	sessions    *cart.Sessions
	descriptors *store.Descriptors
	logger      *zap.Logger
}

func NewService(live *catalog.Live, sessions *cart.Sessions, descriptors *store.Descriptors, logger *zap.Logger) *Service {
	return &Service{
		catalog:     live,
		sessions:    sessions,
		descriptors: descriptors,
		logger:      logger,
	}
}

// NewSessions builds the session registry; ending a session drops its custom descriptor.
func NewSessions(cfg cart.SessionConfig, descriptors *store.Descriptors, logger *zap.Logger) *cart.Sessions {
	return cart.NewSessions(cfg, logger, func(id string) {
		if err := descriptors.Delete(context.Background(), id); err != nil {
			logger.Warn("drop custom package failed", zap.String("session", id), zap.Error(err))
		}
	})
}

// Sections returns the catalog with display strings.
func (s *Service) Sections() []SectionView {
	return sectionViews(s.catalog.Current())
}

// NewSession mints a session id.
func (s *Service) NewSession() string {
	return s.sessions.NewID()
}

// EndSession tears the session down.
func (s *Service) EndSession(session string) {
	s.sessions.End(session)
}

func (s *Service) resolver(session string) cart.SessionResolver {
	return cart.SessionResolver{
		Products:    s.catalog,
		Descriptors: s.descriptors,
		Session:     session,
	}
}

// Cart returns the session's cart view.
func (s *Service) Cart(ctx context.Context, session string) CartView {
	return s.view(ctx, session, s.sessions.Get(session))
}

// Add puts one more unit of id in the cart.
func (s *Service) Add(ctx context.Context, session, id string) CartView {
	c := s.sessions.Get(session)
	c.Add(id)
	s.logger.Debug("cart add", zap.String("session", session), zap.String("product_id", id))
	return s.view(ctx, session, c)
}

// Remove takes one unit of id out of the cart.
func (s *Service) Remove(ctx context.Context, session, id string) CartView {
	c := s.sessions.Get(session)
	c.Remove(id)
	s.logger.Debug("cart remove", zap.String("session", session), zap.String("product_id", id))
	return s.view(ctx, session, c)
}

// AddCustom clamps amount, stores the synthesized descriptor over any previous one and
// adds one custom unit.
func (s *Service) AddCustom(ctx context.Context, session string, amount float64) (CartView, pricing.Descriptor, error) {
	d, err := pricing.Synthesize(pricing.ClampAmount(amount))
	if err != nil {
		return CartView{}, pricing.Descriptor{}, err
	}
	if err := s.descriptors.Save(ctx, session, d); err != nil {
		return CartView{}, pricing.Descriptor{}, err
	}
	c := s.sessions.Get(session)
	c.Add(catalog.CustomID)
	s.logger.Info("custom package added",
		zap.String("session", session),
		zap.Float64("amount", d.Amount),
		zap.String("price", d.Price.StringFixed(2)),
	)
	return s.view(ctx, session, c), d, nil
}

// Quote prices a slider position.
func (s *Service) Quote(amount float64) pricing.Quote {
	return pricing.QuoteFor(amount)
}

// CheapestFor plans the cheapest set of catalog packages reaching target million coins.
func (s *Service) CheapestFor(target int) (pricing.Plan, error) {
	return pricing.CheapestFor(s.catalog.Current().Products(), target)
}

// MostCoinsFor plans the largest set of catalog packages within budget.
func (s *Service) MostCoinsFor(budget decimal.Decimal) (pricing.Plan, error) {
	return pricing.MostCoinsFor(s.catalog.Current().Products(), budget)
}

// Checkout has no defined behaviour yet.
func (s *Service) Checkout(ctx context.Context, session string) error {
	items := 0
	if c, ok := s.sessions.Peek(session); ok {
		items = c.ItemCount()
	}
	s.logger.Info("checkout requested", zap.String("session", session), zap.Int("items", items))
	return ErrCheckoutNotImplemented
}

func (s *Service) view(ctx context.Context, session string, c *cart.Cart) CartView {
	if c.Quantity(catalog.CustomID) > 0 {
		// the descriptor lives as long as the session keeps using it
		if err := s.descriptors.Touch(ctx, session); err != nil {
			s.logger.Warn("renew custom package failed", zap.String("session", session), zap.Error(err))
		}
	}
	r := s.resolver(session)
	entries, unresolved := c.Entries(ctx, r)
	for _, id := range unresolved {
		s.logger.Warn("cart entry does not resolve", zap.String("session", session), zap.String("product_id", id))
	}

	v := CartView{
		Lines:      make([]LineView, 0, len(entries)),
		Quantities: c.Quantities(),
		ItemCount:  c.ItemCount(),
		Total:      cart.Sum(entries),
	}
	for _, e := range entries {
		v.Lines = append(v.Lines, lineView(e))
	}
	v.TotalDisplay = pricing.FormatUSD(v.Total)
	return v
}
