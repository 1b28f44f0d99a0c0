// Package catalog holds the pure views computed over a product list and
// the built-in catalog used when no other source is available.
package catalog

import (
	"sort"
	"strconv"
	"strings"

	"go-storefront/models"
)

// Matches reports whether p passes every predicate of f
func Matches(p models.Product, f models.FilterState) bool {
	q := strings.ToLower(f.Query)
	if q != "" &&
		!strings.Contains(strings.ToLower(p.Title), q) &&
		!strings.Contains(strings.ToLower(p.Description), q) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return p.Price >= f.MinPrice && p.Price <= f.MaxPrice
}

// Filter returns the products that satisfy f, in their original order
func Filter(products []models.Product, f models.FilterState) []models.Product {
	res := make([]models.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, f) {
			res = append(res, p)
		}
	}
	return res
}

// Sort orders products in place by opt. The sort is stable, so equal keys
// keep their relative order. Unknown options leave the slice untouched.
func Sort(products []models.Product, opt models.SortOption) {
	var less func(a, b models.Product) bool
	switch opt {
	case models.SortPriceAsc:
		less = func(a, b models.Product) bool { return a.Price < b.Price }
	case models.SortPriceDesc:
		less = func(a, b models.Product) bool { return a.Price > b.Price }
	case models.SortRating:
		less = func(a, b models.Product) bool { return a.Rating > b.Rating }
	case models.SortNewest:
		less = func(a, b models.Product) bool { return NewerID(a.ID, b.ID) }
	default:
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}

// Apply filters then sorts, returning a new slice; the input is not modified
func Apply(products []models.Product, f models.FilterState, opt models.SortOption) []models.Product {
	res := Filter(products, f)
	Sort(res, opt)
	return res
}

// NewerID reports whether identifier a was issued after b. Identifiers are
// time-ordered integers, so numeric ids compare by value; anything else
// falls back to length then lexical order.
func NewerID(a, b string) bool {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	if errA == nil && errB == nil {
		return na > nb
	}
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}
