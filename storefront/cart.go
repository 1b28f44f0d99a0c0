package storefront

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"go-storefront/cart"
	"go-storefront/mirror"
	"go-storefront/models"
)

// CartStore is the shopper's cart. When built with a mirror every change
// is written through to it and the cart survives a restart.
type CartStore struct {
	mirror mirror.Mirror

	mu   sync.Mutex
	cart *cart.Cart
}

// NewCartStore returns a cart restored from m. A nil m keeps the cart in memory only.
func NewCartStore(ctx context.Context, m mirror.Mirror) *CartStore {
	s := &CartStore{mirror: m, cart: cart.New(nil)}
	if m == nil {
		return s
	}
	var lines []models.CartLine
	found, err := m.Get(ctx, mirror.KeyCart, &lines)
	if err != nil {
		zap.L().Warn("failed to restore cart", zap.Error(err))
		return s
	}
	if found {
		s.cart = cart.New(lines)
	}
	return s
}

func (s *CartStore) AddItem(ctx context.Context, p models.Product) {
	s.update(ctx, func(c *cart.Cart) { c.AddItem(p) })
}

func (s *CartStore) RemoveItem(ctx context.Context, id string) {
	s.update(ctx, func(c *cart.Cart) { c.RemoveItem(id) })
}

// SetQuantity sets the quantity for id; zero or less removes the line
func (s *CartStore) SetQuantity(ctx context.Context, id string, q int) {
	s.update(ctx, func(c *cart.Cart) { c.SetQuantity(id, q) })
}

func (s *CartStore) Clear(ctx context.Context) {
	s.update(ctx, func(c *cart.Cart) { c.Clear() })
}

func (s *CartStore) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

func (s *CartStore) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// ItemCount is the number of units across all lines
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

func (s *CartStore) Quote() cart.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Quote()
}

func (s *CartStore) update(ctx context.Context, fn func(*cart.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cart)
	if s.mirror == nil {
		return
	}
	var err error
	if s.cart.Len() == 0 {
		err = s.mirror.Delete(ctx, mirror.KeyCart)
	} else {
		err = s.mirror.Put(ctx, mirror.KeyCart, s.cart.Lines())
	}
	if err != nil {
		zap.L().Warn("failed to write cart mirror", zap.Error(err))
	}
}
