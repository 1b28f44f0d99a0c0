package models

// SortOption selects the ordering of the rendered product list
type SortOption string

const (
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortRating    SortOption = "rating"
	SortNewest    SortOption = "newest"
)

// FilterState is the shopper's current search and narrowing selection.
// An empty Category means every category.
type FilterState struct {
	Query    string   `json:"query"`
	Category Category `json:"category"`
	MinPrice float64  `json:"minPrice"`
	MaxPrice float64  `json:"maxPrice"`
}

// DefaultFilter matches the storefront's initial filter panel
func DefaultFilter() FilterState {
	return FilterState{MinPrice: 0, MaxPrice: 1000}
}
