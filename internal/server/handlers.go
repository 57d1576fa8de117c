package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xtding233/wayward-coins/internal/pricing"
	"github.com/xtding233/wayward-coins/internal/scrollspy"
	"github.com/xtding233/wayward-coins/internal/shop"
)

type Handlers struct {
	shop   *shop.Service
	logger *zap.Logger
}

func NewHandlers(svc *shop.Service, logger *zap.Logger) *Handlers {
	return &Handlers{shop: svc, logger: logger}
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sections": h.shop.Sections()})
}

type navResponse struct {
	Items      []scrollspy.Item `json:"items"`
	Active     string           `json:"active"`
	RootMargin string           `json:"rootMargin"`
}

func (h *Handlers) Nav(c *gin.Context) {
	c.JSON(http.StatusOK, navResponse{
		Items:      scrollspy.Items(),
		Active:     scrollspy.DefaultActive,
		RootMargin: scrollspy.RootMargin,
	})
}

func (h *Handlers) Cart(c *gin.Context) {
	c.JSON(http.StatusOK, h.shop.Cart(c.Request.Context(), sessionID(c)))
}

func (h *Handlers) AddItem(c *gin.Context) {
	c.JSON(http.StatusOK, h.shop.Add(c.Request.Context(), sessionID(c), c.Param("id")))
}

func (h *Handlers) RemoveItem(c *gin.Context) {
	c.JSON(http.StatusOK, h.shop.Remove(c.Request.Context(), sessionID(c), c.Param("id")))
}

// ClearCart ends the session, dropping its cart and custom package.
func (h *Handlers) ClearCart(c *gin.Context) {
	session := sessionID(c)
	h.shop.EndSession(session)
	c.JSON(http.StatusOK, h.shop.Cart(c.Request.Context(), session))
}

var errInvalidAmount = errors.New("amount must be a number")

func (h *Handlers) Quote(c *gin.Context) {
	amount := float64(pricing.DefaultAmount)
	if raw := c.Query("amount"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			JSONError(c, http.StatusBadRequest, errInvalidAmount)
			return
		}
		amount = v
	}
	c.JSON(http.StatusOK, h.shop.Quote(amount))
}

type customRequest struct {
	Amount *float64 `json:"amount" binding:"required"`
}

type customResponse struct {
	Cart    shop.CartView      `json:"cart"`
	Package pricing.Descriptor `json:"package"`
}

func (h *Handlers) AddCustom(c *gin.Context) {
	var req customRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errInvalidAmount)
		return
	}

	view, d, err := h.shop.AddCustom(c.Request.Context(), sessionID(c), *req.Amount)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, customResponse{Cart: view, Package: d})
}

var errPlanQuery = errors.New("exactly one of coins or budget is required")

// Plan suggests catalog packages: the cheapest reaching ?coins= million coins, or the
// most coins affordable within ?budget= USD.
func (h *Handlers) Plan(c *gin.Context) {
	coins, budget := c.Query("coins"), c.Query("budget")
	if (coins == "") == (budget == "") {
		JSONError(c, http.StatusBadRequest, errPlanQuery)
		return
	}

	var (
		plan pricing.Plan
		err  error
	)
	if coins != "" {
		target, perr := strconv.Atoi(coins)
		if perr != nil {
			JSONError(c, http.StatusBadRequest, errors.New("coins must be an integer"))
			return
		}
		plan, err = h.shop.CheapestFor(target)
	} else {
		amount, perr := decimal.NewFromString(budget)
		if perr != nil {
			JSONError(c, http.StatusBadRequest, errors.New("budget must be a decimal"))
			return
		}
		plan, err = h.shop.MostCoinsFor(amount)
	}
	if err != nil {
		JSONError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *Handlers) Checkout(c *gin.Context) {
	err := h.shop.Checkout(c.Request.Context(), sessionID(c))
	if errors.Is(err, shop.ErrCheckoutNotImplemented) {
		JSONError(c, http.StatusNotImplemented, err)
		return
	}
	if err != nil {
		JSONError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}
