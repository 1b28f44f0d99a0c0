package models

import (
	"time"
)

// PaymentMethod is how an order is paid
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentCrypto PaymentMethod = "crypto"
)

// PaymentStatus tracks whether an order's payment has cleared
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// TaxRate is applied on top of the cart subtotal at checkout
const TaxRate = 0.08

// Shipping holds the delivery details captured at checkout
type Shipping struct {
	Name    string `bson:"name" json:"name" validate:"required"`
	Email   string `bson:"email" json:"email" validate:"required,email"`
	Address string `bson:"address" json:"address" validate:"required"`
}

// Order represents a placed order
type Order struct {
	ID            string        `bson:"id" json:"id" gorm:"primaryKey;size:36"`
	UserID        string        `bson:"user_id" json:"user_id" gorm:"index;size:64"`
	Lines         []CartLine    `bson:"lines" json:"lines" gorm:"serializer:json"`
	Subtotal      float64       `bson:"subtotal" json:"subtotal"`
	Tax           float64       `bson:"tax" json:"tax"`
	Total         float64       `bson:"total" json:"total"`
	Shipping      Shipping      `bson:"shipping" json:"shipping" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod PaymentMethod `bson:"payment_method" json:"payment_method" gorm:"size:16"`
	PaymentStatus PaymentStatus `bson:"payment_status" json:"payment_status" gorm:"size:16"`
	CardLast4     string        `bson:"card_last4,omitempty" json:"card_last4,omitempty" gorm:"size:4"`
	TxHash        string        `bson:"tx_hash,omitempty" json:"tx_hash,omitempty" gorm:"size:80"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	DeliveryDate  string        `bson:"delivery_date" json:"delivery_date"`
}

// TableName returns the table name for Order model.
func (Order) TableName() string {
	return "orders"
}

// OrderLine is one requested product and quantity at checkout
type OrderLine struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// CheckoutRequest is the body of POST /api/orders
type CheckoutRequest struct {
	Lines         []OrderLine   `json:"lines" validate:"required,min=1,dive"`
	Shipping      Shipping      `json:"shipping"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=card crypto"`
	CardNumber    string        `json:"card_number,omitempty"`
	TxHash        string        `json:"tx_hash,omitempty"`
}

// PaymentUpdateRequest is the body of PUT /api/orders/{id}/payment
type PaymentUpdateRequest struct {
	PaymentStatus PaymentStatus `json:"payment_status" validate:"required,oneof=completed failed"`
}
