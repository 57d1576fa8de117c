package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xtding233/wayward-coins/internal/cart"
	"github.com/xtding233/wayward-coins/internal/catalog"
	"github.com/xtding233/wayward-coins/internal/pricing"
	"github.com/xtding233/wayward-coins/internal/scrollspy"
	"github.com/xtding233/wayward-coins/internal/shop"
	"github.com/xtding233/wayward-coins/internal/store"
)

type client struct {
	t      *testing.T
	engine *gin.Engine
	cookie *http.Cookie
}

func newClient(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	descriptors := store.NewDescriptors(store.NewMemoryKV(time.Minute), 0)
	sessionCfg := cart.SessionConfig{TTL: time.Hour, CookieName: "wc_session"}
	sessions := shop.NewSessions(sessionCfg, descriptors, logger)
	t.Cleanup(sessions.Close)
	svc := shop.NewService(catalog.NewLive(catalog.Default()), sessions, descriptors, logger)

	engine, err := NewEngine(Config{Debug: true}, NewHandlers(svc, logger), sessionCfg, logger)
	require.NoError(t, err)
	return &client{t: t, engine: engine}
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "wc_session" {
			c.cookie = ck
		}
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	w := c.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, c.cookie)
}

func TestPage(t *testing.T) {
	c := newClient(t)
	w := c.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.cookie)
	require.True(t, cart.ValidID(c.cookie.Value))

	body := w.Body.String()
	require.Contains(t, body, "Billionaire Pack")
	require.Contains(t, body, "$0.045 per million")
	require.Contains(t, body, "Add 500M Coins to Cart - $25.00")
	require.Contains(t, body, "-40% 0px -55% 0px")
	require.Contains(t, body, `<a href="#standard-packages" data-section="standard-packages" class="active">`)

	var sections []string
	for _, m := range regexp.MustCompile(`<section id="([^"]+)" data-spy>`).FindAllStringSubmatch(body, -1) {
		sections = append(sections, m[1])
	}
	require.Equal(t, []string{"custom-amount", "standard-packages", "premium-packages", "faq", "support"}, sections)
	require.ElementsMatch(t, scrollspy.Anchors(), sections)

	require.Contains(t, body, "What’s your refund policy?")
	require.Contains(t, body, "Email support: support@waywardcoins.example")
	require.Contains(t, body, "All systems operational. No incidents reported.")
	require.Contains(t, body, "Proceed to Checkout")
	require.Contains(t, body, `<p id="cart-empty">Your cart is empty</p>`)
	require.Contains(t, body, `<div id="cart-contents" hidden>`)
}

func TestPageRendersCart(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/api/cart/items/3", "")

	body := c.do(http.MethodGet, "/", "").Body.String()
	require.Contains(t, body, `<p id="cart-empty" hidden>Your cart is empty</p>`)
	require.Contains(t, body, `<div id="cart-contents">`)
	require.Contains(t, body, `<span id="cart-total">$200.00</span>`)
	require.Contains(t, body, "Mogul Pack (5B coins) $200.00")
}

func TestPageKeepsSession(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodGet, "/", "")
	first := c.cookie.Value

	c.do(http.MethodGet, "/", "")
	require.Equal(t, first, c.cookie.Value)
}

func TestCartAPI(t *testing.T) {
	c := newClient(t)

	c.do(http.MethodPost, "/api/cart/items/1", "")
	c.do(http.MethodPost, "/api/cart/items/1", "")
	w := c.do(http.MethodPost, "/api/cart/items/4", "")
	require.Equal(t, http.StatusOK, w.Code)

	v := decode[shop.CartView](t, c.do(http.MethodGet, "/api/cart", ""))
	require.Equal(t, map[string]int{"1": 2, "4": 1}, v.Quantities)
	require.Equal(t, 3, v.ItemCount)
	require.Equal(t, "$470.00", v.TotalDisplay)

	v = decode[shop.CartView](t, c.do(http.MethodDelete, "/api/cart/items/1", ""))
	require.Equal(t, map[string]int{"1": 1, "4": 1}, v.Quantities)

	v = decode[shop.CartView](t, c.do(http.MethodDelete, "/api/cart/items/9", ""))
	require.Equal(t, map[string]int{"1": 1, "4": 1}, v.Quantities)

	v = decode[shop.CartView](t, c.do(http.MethodDelete, "/api/cart", ""))
	require.True(t, v.Empty())
}

func TestCartIsPerSession(t *testing.T) {
	a, b := newClient(t), newClient(t)
	b.engine = a.engine

	a.do(http.MethodPost, "/api/cart/items/3", "")
	v := decode[shop.CartView](t, b.do(http.MethodGet, "/api/cart", ""))
	require.True(t, v.Empty())
	require.NotEqual(t, a.cookie.Value, b.cookie.Value)
}

func TestSessionHeader(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/api/cart/items/3", "")
	id := c.cookie.Value

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(sessionHeader, id)
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	require.Equal(t, id, w.Header().Get(sessionHeader))
	v := decode[shop.CartView](t, w)
	require.Equal(t, "$200.00", v.TotalDisplay)
}

func TestCustomAPI(t *testing.T) {
	c := newClient(t)

	q := decode[pricing.Quote](t, c.do(http.MethodGet, "/api/custom/quote?amount=500", ""))
	require.Equal(t, "$25.00", q.TotalDisplay)

	w := c.do(http.MethodPost, "/api/custom", `{"amount":500}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[customResponse](t, w)
	require.Equal(t, q.TotalDisplay, pricing.FormatUSD(resp.Package.Price))
	require.Equal(t, "custom", resp.Package.ID)
	require.Equal(t, "500M", resp.Package.AmountDisplay)
	require.Equal(t, "$25.00", resp.Cart.TotalDisplay)
	require.Equal(t, 1, resp.Cart.Quantities["custom"])

	resp = decode[customResponse](t, c.do(http.MethodPost, "/api/custom", `{"amount":2000}`))
	require.Equal(t, float64(pricing.MaxAmount), resp.Package.Amount)
	require.Equal(t, 2, resp.Cart.Quantities["custom"])
	require.Equal(t, "$99.90", resp.Cart.TotalDisplay)
}

func TestCustomAPIRejectsBadBody(t *testing.T) {
	c := newClient(t)

	for _, body := range []string{`{}`, `{"amount":"lots"}`, `nope`} {
		w := c.do(http.MethodPost, "/api/custom", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
		e := decode[ErrorResponse](t, w)
		require.Equal(t, "Bad Request", e.Error.Type)
	}
}

func TestQuoteAPI(t *testing.T) {
	c := newClient(t)

	q := decode[pricing.Quote](t, c.do(http.MethodGet, "/api/custom/quote", ""))
	require.Equal(t, float64(pricing.DefaultAmount), q.Amount)

	q = decode[pricing.Quote](t, c.do(http.MethodGet, "/api/custom/quote?amount=20", ""))
	require.Equal(t, float64(pricing.MinAmount), q.Amount)
	require.Equal(t, "Add 100M Coins to Cart - $5.00", q.ButtonLabel)

	w := c.do(http.MethodGet, "/api/custom/quote?amount=abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogAndNav(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)
	cat := decode[struct {
		Sections []shop.SectionView `json:"sections"`
	}](t, w)
	require.Len(t, cat.Sections, 2)
	require.Len(t, cat.Sections[0].Products, 3)
	require.Equal(t, "$200.00", cat.Sections[0].Products[2].PriceDisplay)

	nav := decode[navResponse](t, c.do(http.MethodGet, "/api/nav", ""))
	require.Equal(t, scrollspy.Items(), nav.Items)
	require.Equal(t, scrollspy.DefaultActive, nav.Active)
}

func TestPlanAPI(t *testing.T) {
	c := newClient(t)

	plan := decode[pricing.Plan](t, c.do(http.MethodGet, "/api/plan?coins=12000", ""))
	require.Len(t, plan.Purchases, 1)
	require.Equal(t, "4", plan.Purchases[0].ProductID)

	plan = decode[pricing.Plan](t, c.do(http.MethodGet, "/api/plan?budget=90", ""))
	require.Equal(t, 2200, plan.TotalCoins)

	require.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/plan", "").Code)
	require.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/plan?coins=1&budget=1", "").Code)
	require.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/plan?coins=x", "").Code)
	require.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/plan?coins=99999999", "").Code)
}

func TestCheckout(t *testing.T) {
	c := newClient(t)
	w := c.do(http.MethodPost, "/api/checkout", "")
	require.Equal(t, http.StatusNotImplemented, w.Code)
	e := decode[ErrorResponse](t, w)
	require.Equal(t, "checkout is not implemented", e.Error.Message)
}
