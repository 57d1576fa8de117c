package server

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xtding233/wayward-coins/internal/pricing"
	"github.com/xtding233/wayward-coins/internal/scrollspy"
	"github.com/xtding233/wayward-coins/internal/shop"
)

//go:embed templates/*.html
var templates embed.FS

func pageTemplate() (*template.Template, error) {
	return template.New("").ParseFS(templates, "templates/*.html")
}

type pageData struct {
	Sections   []shop.SectionView
	Nav        []scrollspy.Item
	Active     string
	RootMargin string
	Quote      pricing.Quote
	Cart       shop.CartView
	Year       int
}

func (h *Handlers) Page(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{
		Sections:   h.shop.Sections(),
		Nav:        scrollspy.Items(),
		Active:     scrollspy.DefaultActive,
		RootMargin: scrollspy.RootMargin,
		Quote:      h.shop.Quote(pricing.DefaultAmount),
		Cart:       h.shop.Cart(c.Request.Context(), sessionID(c)),
		Year:       time.Now().Year(),
	})
}
