package filter

import (
	"errors"
	"strings"

	"goodstore/app/catalog"
	"goodstore/app/model"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/oops"
)

type Field string

const (
	FieldSearchText Field = "searchText"
	FieldCategory   Field = "categoryCode"
	FieldRegion     Field = "regionCode"
	FieldPriceRange Field = "priceRange"
)

var ErrUnknownField = errors.New("unknown filter field")

// State is replaced wholesale on every edit.
type State struct {
	SearchText   string `json:"searchText"`
	CategoryCode string `json:"categoryCode"`
	RegionCode   string `json:"regionCode"`
	PriceRange   string `json:"priceRange"`
}

func DefaultState() State {
	return State{
		CategoryCode: catalog.Wildcard,
		RegionCode:   catalog.Wildcard,
		PriceRange:   catalog.Wildcard,
	}
}

// With returns a copy of s with one field replaced. Codes are not checked
// against the catalogs: an unknown code simply matches nothing downstream.
func (s State) With(field Field, value string) (State, error) {
	switch field {
	case FieldSearchText:
		s.SearchText = value
	case FieldCategory:
		s.CategoryCode = normalizeCode(value)
	case FieldRegion:
		s.RegionCode = normalizeCode(value)
	case FieldPriceRange:
		s.PriceRange = normalizePriceRange(value)
	default:
		return s, oops.
			Code("unknown_field").
			With("field", field).
			Wrapf(ErrUnknownField, "field %q", field)
	}

	return s, nil
}

func normalizeCode(code string) string {
	if catalog.IsWildcard(code) {
		return catalog.Wildcard
	}

	return strings.TrimSpace(code)
}

// normalizePriceRange stores the tier name for both "cheap" and "저렴함".
// Unknown text is kept as is and matches nothing.
func normalizePriceRange(value string) string {
	if catalog.IsWildcard(value) {
		return catalog.Wildcard
	}

	if tier := model.ParsePriceTier(value); tier != "" {
		return string(tier)
	}

	return strings.TrimSpace(value)
}

// DeriveVisible keeps the venues matching every active predicate, in input order.
func DeriveVisible(venues []model.Venue, s State) []model.Venue {
	category := newCodeMatcher(catalog.KindCategory, s.CategoryCode)
	region := newCodeMatcher(catalog.KindRegion, s.RegionCode)
	price := newPriceMatcher(s.PriceRange)
	needle := strings.ToLower(s.SearchText)

	if category == nil && region == nil && price == nil && needle == "" {
		return venues
	}

	return pie.Filter(venues, func(v model.Venue) bool {
		if category != nil && !category(v.Category) {
			return false
		}

		if region != nil && !region(v.Region) {
			return false
		}

		if price != nil && !price(v.PriceTier) {
			return false
		}

		if needle != "" &&
			!strings.Contains(strings.ToLower(v.Name), needle) &&
			!strings.Contains(strings.ToLower(v.Description), needle) {
			return false
		}

		return true
	})
}

// newCodeMatcher returns nil for the wildcard. Unresolved codes are compared
// verbatim so label-valued filters keep working.
func newCodeMatcher(kind catalog.Kind, code string) func(label string) bool {
	if catalog.IsWildcard(code) {
		return nil
	}

	want := catalog.ResolveLabel(kind, code)
	if want == catalog.Unresolved {
		want = code
	}

	return func(label string) bool {
		return label == want
	}
}

func newPriceMatcher(priceRange string) func(tier model.PriceTier) bool {
	if catalog.IsWildcard(priceRange) {
		return nil
	}

	want := model.ParsePriceTier(priceRange)

	return func(tier model.PriceTier) bool {
		return want != "" && tier == want
	}
}
