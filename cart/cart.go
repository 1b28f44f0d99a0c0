// Package cart implements the shopping cart line arithmetic shared by the
// storefront engine and the backend's saved carts.
package cart

import (
	"math"

	"go-storefront/models"
)

// Cart is an ordered set of lines keyed by product id.
// The zero value is an empty cart ready to use.
type Cart struct {
	lines []models.CartLine
}

// New returns a cart holding copies of lines. Lines with a non-positive
// quantity are dropped and duplicate products are merged.
func New(lines []models.CartLine) *Cart {
	c := &Cart{}
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := c.index(l.ID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

func (c *Cart) index(id string) int {
	for i := range c.lines {
		if c.lines[i].ID == id {
			return i
		}
	}
	return -1
}

// AddItem increments the line for p, creating it with quantity 1
func (c *Cart) AddItem(p models.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, models.CartLine{Product: p, Quantity: 1})
}

// RemoveItem deletes the line for id regardless of its quantity
func (c *Cart) RemoveItem(id string) {
	if i := c.index(id); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// SetQuantity sets the quantity of the line for id. A quantity of zero
// or less removes the line. Unknown ids are ignored.
func (c *Cart) SetQuantity(id string, q int) {
	if q <= 0 {
		c.RemoveItem(id)
		return
	}
	if i := c.index(id); i >= 0 {
		c.lines[i].Quantity = q
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the current lines in insertion order
func (c *Cart) Lines() []models.CartLine {
	res := make([]models.CartLine, len(c.lines))
	copy(res, c.lines)
	return res
}

// Line returns the line for id
func (c *Cart) Line(id string) (models.CartLine, bool) {
	if i := c.index(id); i >= 0 {
		return c.lines[i], true
	}
	return models.CartLine{}, false
}

// Len returns the number of distinct lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// ItemCount returns the sum of quantities across lines
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total returns the sum of price × quantity, recomputed on every call
func (c *Cart) Total() float64 {
	total := 0.0
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Quote is the price breakdown shown at checkout
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Quote prices the cart with models.TaxRate applied
func (c *Cart) Quote() Quote {
	return QuoteFor(c.Total())
}

// QuoteFor prices a subtotal with models.TaxRate applied, rounded to cents
func QuoteFor(subtotal float64) Quote {
	subtotal = RoundCents(subtotal)
	tax := RoundCents(subtotal * models.TaxRate)
	return Quote{Subtotal: subtotal, Tax: tax, Total: RoundCents(subtotal + tax)}
}

// RoundCents rounds v to two decimal places
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
