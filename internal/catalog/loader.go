package catalog

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Loader reads the override file and merges it onto the built-in catalog.
type Loader struct {
	path string

	mu     sync.RWMutex
	cached *Catalog
}

// NewLoader creates a loader for the given override file. An empty path means the
// built-in catalog only.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the override file path.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the merged and validated catalog, reading the file only when the cache
// is empty.
func (l *Loader) Load() (*Catalog, error) {
	l.mu.RLock()
	if l.cached != nil {
		c := l.cached
		l.mu.RUnlock()
		return c, nil
	}
	l.mu.RUnlock()

	f, err := readFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", l.path, err)
	}
	sections, err := Merge(DefaultSections(), f)
	if err != nil {
		return nil, fmt.Errorf("merge catalog %s: %w", l.path, err)
	}
	c, err := New(sections)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cached = c
	l.mu.Unlock()

	return c, nil
}

// Invalidate clears the cache. Call after the watcher detects a change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

// readFile decodes the override file. A missing file yields an empty document.
func readFile(path string) (File, error) {
	var f File
	if path == "" {
		return f, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return File{}, nil
		}
		return File{}, err
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// Merge applies f onto base: sections and products are matched by id, set fields
// override, unknown ids are appended, and products marked remove are dropped.
func Merge(base []Section, f File) ([]Section, error) {
	out := cloneSections(base)

	for _, sf := range f.Sections {
		idx := -1
		for i := range out {
			if out[i].ID == sf.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			out = append(out, Section{ID: sf.ID})
			idx = len(out) - 1
		}
		s := &out[idx]
		if sf.Title != nil {
			s.Title = *sf.Title
		}
		if sf.Subtitle != nil {
			s.Subtitle = *sf.Subtitle
		}

		for _, pf := range sf.Products {
			pos := -1
			for i := range s.Products {
				if s.Products[i].ID == pf.ID {
					pos = i
					break
				}
			}
			if pf.Remove {
				if pos >= 0 {
					s.Products = append(s.Products[:pos], s.Products[pos+1:]...)
				}
				continue
			}

			var p Product
			if pos >= 0 {
				p = s.Products[pos]
			} else {
				p = Product{ID: pf.ID}
			}
			if err := applyProduct(&p, pf); err != nil {
				return nil, fmt.Errorf("section %s product %s: %w", sf.ID, pf.ID, err)
			}
			if pos >= 0 {
				s.Products[pos] = p
			} else {
				s.Products = append(s.Products, p)
			}
		}
	}

	return out, nil
}

func applyProduct(p *Product, pf ProductFile) error {
	if pf.Name != nil {
		p.Name = *pf.Name
	}
	if pf.Amount != nil {
		p.Amount = *pf.Amount
	}
	if pf.AmountDisplay != nil {
		p.AmountDisplay = *pf.AmountDisplay
	}
	if pf.Price != nil {
		d, err := decimal.NewFromString(*pf.Price)
		if err != nil {
			return fmt.Errorf("price: %w", err)
		}
		p.Price = d
	}
	if pf.OriginalPrice != nil {
		if *pf.OriginalPrice == "" {
			p.OriginalPrice = nil
		} else {
			d, err := decimal.NewFromString(*pf.OriginalPrice)
			if err != nil {
				return fmt.Errorf("original_price: %w", err)
			}
			p.OriginalPrice = &d
		}
	}
	if pf.Bonus != nil {
		p.Bonus = *pf.Bonus
	}
	if pf.Savings != nil {
		p.Savings = *pf.Savings
	}
	if pf.Tier != nil {
		p.Tier = Tier(*pf.Tier)
	}
	if pf.Popular != nil {
		p.Popular = *pf.Popular
	}
	return nil
}
