package catalog

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Validate checks the semantic constraints of a set of sections and reports every
// violation found, not only the first one.
func Validate(sections []Section) error {
	var errs *multierror.Error

	if len(sections) == 0 {
		errs = multierror.Append(errs, errors.New("catalog has no sections"))
	}

	seenSection := make(map[string]bool)
	seenProduct := make(map[string]string) // product id -> section id
	popular := 0

	for i, s := range sections {
		if s.ID == "" {
			errs = multierror.Append(errs, fmt.Errorf("sections[%d].id is required", i))
		} else if seenSection[s.ID] {
			errs = multierror.Append(errs, fmt.Errorf("section %q is defined twice", s.ID))
		}
		seenSection[s.ID] = true

		for j, p := range s.Products {
			where := fmt.Sprintf("%s.products[%d]", s.ID, j)

			switch {
			case p.ID == "":
				errs = multierror.Append(errs, fmt.Errorf("%s.id is required", where))
			case p.ID == CustomID:
				errs = multierror.Append(errs, fmt.Errorf("%s.id %q is reserved for custom packages", where, CustomID))
			default:
				if other, dup := seenProduct[p.ID]; dup {
					errs = multierror.Append(errs, fmt.Errorf("%s.id %q already used in %s", where, p.ID, other))
				}
				seenProduct[p.ID] = s.ID
			}

			if p.Name == "" {
				errs = multierror.Append(errs, fmt.Errorf("%s.name is required", where))
			}
			if p.Amount <= 0 {
				errs = multierror.Append(errs, fmt.Errorf("%s.amount must be > 0", where))
			}
			if p.Bonus < 0 {
				errs = multierror.Append(errs, fmt.Errorf("%s.bonus must be >= 0", where))
			}
			if !p.Price.IsPositive() {
				errs = multierror.Append(errs, fmt.Errorf("%s.price must be > 0", where))
			}
			if p.OriginalPrice != nil && p.Price.GreaterThan(*p.OriginalPrice) {
				errs = multierror.Append(errs, fmt.Errorf("%s.price %s exceeds original_price %s", where, p.Price, p.OriginalPrice))
			}
			if !p.Tier.Valid() {
				errs = multierror.Append(errs, fmt.Errorf("%s.tier must be one of: premium, elite, legendary", where))
			}
			if p.Popular {
				popular++
			}
		}
	}

	if popular > 1 {
		errs = multierror.Append(errs, fmt.Errorf("at most one product may be popular, found %d", popular))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return nil
}
