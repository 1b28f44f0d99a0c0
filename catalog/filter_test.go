package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/models"
)

func sample() []models.Product {
	return []models.Product{
		{ID: "1", Title: "Product A", Description: "plain", Price: 10, Category: models.CategoryElectronics, Rating: 4.0},
		{ID: "2", Title: "Product B", Description: "cozy", Price: 20, Category: models.CategoryHome, Rating: 4.5},
	}
}

func ids(products []models.Product) []string {
	res := make([]string, len(products))
	for i, p := range products {
		res[i] = p.ID
	}
	return res
}

func TestApply_CategoryFilter(t *testing.T) {
	f := models.DefaultFilter()
	f.Category = models.CategoryHome

	assert.Equal(t, []string{"2"}, ids(Apply(sample(), f, "")))
}

func TestApply_PriceDescWithoutFilter(t *testing.T) {
	assert.Equal(t, []string{"2", "1"}, ids(Apply(sample(), models.DefaultFilter(), models.SortPriceDesc)))
}

func TestMatches(t *testing.T) {
	p := models.Product{ID: "7", Title: "Ceramic Coffee Mug Set", Description: "Handcrafted mugs", Price: 35, Category: models.CategoryHome}

	tests := []struct {
		name   string
		filter models.FilterState
		want   bool
	}{
		{name: "default", filter: models.DefaultFilter(), want: true},
		{name: "title case-insensitive", filter: models.FilterState{Query: "COFFEE", MaxPrice: 100}, want: true},
		{name: "description match", filter: models.FilterState{Query: "handcrafted", MaxPrice: 100}, want: true},
		{name: "no text match", filter: models.FilterState{Query: "keyboard", MaxPrice: 100}, want: false},
		{name: "other category", filter: models.FilterState{Category: models.CategoryBooks, MaxPrice: 100}, want: false},
		{name: "min bound inclusive", filter: models.FilterState{MinPrice: 35, MaxPrice: 100}, want: true},
		{name: "max bound inclusive", filter: models.FilterState{MinPrice: 0, MaxPrice: 35}, want: true},
		{name: "below min", filter: models.FilterState{MinPrice: 36, MaxPrice: 100}, want: false},
		{name: "above max", filter: models.FilterState{MinPrice: 0, MaxPrice: 34.99}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(p, tt.filter))
		})
	}
}

func TestApply_EveryResultSatisfiesFilter(t *testing.T) {
	filters := []models.FilterState{
		models.DefaultFilter(),
		{Query: "smart", MaxPrice: 1000},
		{Category: models.CategoryBooks, MinPrice: 40, MaxPrice: 90},
		{Query: "e", Category: models.CategoryElectronics, MinPrice: 50, MaxPrice: 250},
		{MinPrice: 500, MaxPrice: 1000},
	}

	for _, f := range filters {
		res := Apply(Seed(), f, models.SortRating)
		for _, p := range res {
			assert.True(t, Matches(p, f), "product %s does not satisfy %+v", p.ID, f)
		}
	}
}

func TestSort_StableAndIdempotent(t *testing.T) {
	options := []models.SortOption{models.SortPriceAsc, models.SortPriceDesc, models.SortRating, models.SortNewest, "", "bogus"}

	for _, opt := range options {
		t.Run(string(opt), func(t *testing.T) {
			once := Apply(Seed(), models.DefaultFilter(), opt)
			twice := make([]models.Product, len(once))
			copy(twice, once)
			Sort(twice, opt)

			assert.Equal(t, ids(once), ids(twice))
		})
	}
}

func TestSort_StableOnEqualKeys(t *testing.T) {
	products := []models.Product{
		{ID: "a", Price: 45},
		{ID: "b", Price: 10},
		{ID: "c", Price: 45},
	}

	Sort(products, models.SortPriceDesc)

	assert.Equal(t, []string{"a", "c", "b"}, ids(products))
}

func TestSort_Newest(t *testing.T) {
	products := []models.Product{{ID: "2"}, {ID: "10"}, {ID: "1730000000000"}, {ID: "9"}}

	Sort(products, models.SortNewest)

	assert.Equal(t, []string{"1730000000000", "10", "9", "2"}, ids(products))
}

func TestSort_UnknownOptionKeepsOrder(t *testing.T) {
	products := sample()
	products[0], products[1] = products[1], products[0]

	Sort(products, "bogus")

	assert.Equal(t, []string{"2", "1"}, ids(products))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := Seed()
	before := ids(in)

	_ = Apply(in, models.DefaultFilter(), models.SortPriceAsc)

	assert.Equal(t, before, ids(in))
}

func TestSeed(t *testing.T) {
	seed := Seed()
	require.Len(t, seed, 20)

	seen := map[string]bool{}
	for _, p := range seed {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.NoError(t, models.Validate(p))
	}

	seed[0].Title = "changed"
	assert.NotEqual(t, "changed", Seed()[0].Title)
}
