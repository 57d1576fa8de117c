// Package scrollspy models which page section the navigation highlights while the
// visitor scrolls.
package scrollspy

import (
	"strings"
	"sync"
)

// Observation band margins, as fractions of the viewport height. A section is active
// once it crosses the band between 40% and 45% from the top.
const (
	TopMargin    = 0.40
	BottomMargin = 0.55
)

// RootMargin is the same band in IntersectionObserver syntax.
const RootMargin = "-40% 0px -55% 0px"

// Item is one navigation entry.
type Item struct {
	Href  string `json:"href"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// ID returns the section anchor without the leading '#'.
func (i Item) ID() string {
	return strings.TrimPrefix(i.Href, "#")
}

// Items returns the navigation entries in observation order.
func Items() []Item {
	return []Item{
		{Href: "#standard-packages", Label: "Standard", Icon: "/logos/coins.png"},
		{Href: "#premium-packages", Label: "Premium", Icon: "/logos/premium.png"},
		{Href: "#custom-amount", Label: "Custom", Icon: "/logos/custom.png"},
		{Href: "#faq", Label: "FAQ", Icon: "/logos/faq.png"},
		{Href: "#support", Label: "Support", Icon: "/logos/support.png"},
	}
}

// Anchors lists the observed section ids.
func Anchors() []string {
	items := Items()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID()
	}
	return out
}

// DefaultActive is highlighted before any section has been observed.
const DefaultActive = "#standard-packages"

// Rect is a section's vertical extent relative to the viewport top, in pixels.
type Rect struct {
	Top    float64
	Bottom float64
}

// Band returns the observation band for a viewport height.
func Band(viewport float64) (top, bottom float64) {
	return viewport * TopMargin, viewport - viewport*BottomMargin
}

// Intersects reports whether r touches the band. Edge contact counts, matching an
// observer with a zero threshold.
func Intersects(r Rect, viewport float64) bool {
	top, bottom := Band(viewport)
	return r.Top <= bottom && r.Bottom >= top
}

// Observation is a section's position at one scroll offset.
type Observation struct {
	ID   string
	Rect Rect
}

// Tracker holds the active navigation entry.
type Tracker struct {
	mu     sync.Mutex
	active string
	known  map[string]bool
}

func NewTracker() *Tracker {
	known := make(map[string]bool)
	for _, it := range Items() {
		known[it.Href] = true
	}
	return &Tracker{active: DefaultActive, known: known}
}

// Active returns the highlighted href.
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Observe applies one scroll position. Among observed sections crossing the band the
// last one wins; when none crosses it the active entry is kept.
func (t *Tracker) Observe(viewport float64, obs []Observation) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, o := range obs {
		href := "#" + o.ID
		if !t.known[href] {
			continue
		}
		if Intersects(o.Rect, viewport) {
			t.active = href
		}
	}
	return t.active
}

// Select activates href immediately, as a click on the entry does. Unknown hrefs are
// ignored.
func (t *Tracker) Select(href string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.known[href] {
		t.active = href
	}
	return t.active
}
