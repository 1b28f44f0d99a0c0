package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Product(t *testing.T) {
	valid := Product{ID: "1", Title: "Lamp", Price: 10, Category: CategoryHome, Stock: 1, Rating: 4}

	tests := []struct {
		name   string
		mutate func(p *Product)
		field  string
	}{
		{name: "valid", mutate: func(p *Product) {}},
		{name: "missing title", mutate: func(p *Product) { p.Title = "" }, field: "title"},
		{name: "negative price", mutate: func(p *Product) { p.Price = -1 }, field: "price"},
		{name: "unknown category", mutate: func(p *Product) { p.Category = "Toys" }, field: "category"},
		{name: "negative stock", mutate: func(p *Product) { p.Stock = -3 }, field: "stock"},
		{name: "rating above five", mutate: func(p *Product) { p.Rating = 5.5 }, field: "rating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)

			err := Validate(p)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestValidate_RegisterRequest(t *testing.T) {
	err := Validate(RegisterRequest{Email: "not-an-email", Password: "secret1", Name: "Jo"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email must be a valid email address", verr.Message)
}

func TestValidate_CheckoutRequestDivesIntoLines(t *testing.T) {
	req := CheckoutRequest{
		Lines:         []OrderLine{{ProductID: "1", Quantity: 0}},
		Shipping:      Shipping{Name: "Jo", Email: "jo@example.com", Address: "1 Road"},
		PaymentMethod: PaymentCard,
	}

	var verr *ValidationError
	require.True(t, errors.As(Validate(req), &verr))
	assert.Equal(t, "quantity", verr.Field)
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("").Valid())
	assert.False(t, Category("electronics").Valid())
}
