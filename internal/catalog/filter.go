package catalog

import (
	"sort"
	"strings"

	"github.com/maplewick/storefront/internal/commerce"
)

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// Filter is a storefront listing filter. Zero values mean "no constraint".
type Filter struct {
	Category    string
	Material    string
	PriceMin    float64
	PriceMax    float64
	InStockOnly bool
	Sort        string
}

// Apply returns the products matching the filter, sorted as requested. The
// input slice is never mutated.
func (f Filter) Apply(products []commerce.Product) []commerce.Product {
	filtered := make([]commerce.Product, 0, len(products))
	for _, p := range products {
		if !f.matches(p) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case SortPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	case SortName:
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Name) < strings.ToLower(filtered[j].Name)
		})
	}

	return filtered
}

func (f Filter) matches(p commerce.Product) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, p.Category) {
		return false
	}
	if f.Material != "" && !strings.EqualFold(f.Material, p.Material) {
		return false
	}
	if f.PriceMin > 0 && p.Price < f.PriceMin {
		return false
	}
	if f.PriceMax > 0 && p.Price > f.PriceMax {
		return false
	}
	if f.InStockOnly && !p.InStock {
		return false
	}
	return true
}
