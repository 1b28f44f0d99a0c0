package models

import "time"

// CartLine is a product snapshot together with the quantity selected
type CartLine struct {
	Product  `bson:",inline"`
	Quantity int `bson:"quantity" json:"quantity"`
}

// Subtotal returns price × quantity for the line
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Cart represents a user's saved cart on the backend
type Cart struct {
	UserID    string     `bson:"user_id" json:"user_id" gorm:"primaryKey;size:64"`
	Lines     []CartLine `bson:"lines" json:"lines" gorm:"serializer:json"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Cart model.
func (Cart) TableName() string {
	return "carts"
}

// AddItemRequest is the body of POST /api/cart/items
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// SetQuantityRequest is the body of PUT /api/cart/items/{id}
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}
