// Package storefront is the client-side engine of the shop: the catalog,
// cart and session stores, kept usable offline through a local mirror.
package storefront

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"go-storefront/mirror"
	"go-storefront/models"
)

// Options configures a Storefront
type Options struct {
	// DemoMode enables the insecure offline login shortcuts of SessionStore
	DemoMode bool
	// PersistCart writes the cart through to the mirror
	PersistCart bool
	Retry       RetryPolicy
}

// Storefront wires one remote and one mirror into the three stores
type Storefront struct {
	Catalog *CatalogStore
	Cart    *CartStore
	Session *SessionStore

	remote Remote
	mirror mirror.Mirror
}

type tokenAware interface {
	SetTokenSource(func() string)
}

// New builds the stores over remote and m. When remote is a *Client it is
// set up to send the session token.
func New(ctx context.Context, remote Remote, m mirror.Mirror, opts Options) *Storefront {
	if opts.Retry == (RetryPolicy{}) {
		opts.Retry = DefaultRetryPolicy
	}
	var cartMirror mirror.Mirror
	if opts.PersistCart {
		cartMirror = m
	}

	s := &Storefront{
		Catalog: NewCatalogStore(ctx, remote, m, WithRetryPolicy(opts.Retry)),
		Cart:    NewCartStore(ctx, cartMirror),
		Session: NewSessionStore(ctx, remote, m, opts.DemoMode),
		remote:  remote,
		mirror:  m,
	}
	if ta, ok := remote.(tokenAware); ok {
		ta.SetTokenSource(s.Session.Token)
	}
	return s
}

// Dial is New with an HTTP Client for the backend at apiURL
func Dial(ctx context.Context, apiURL string, httpClient *http.Client, m mirror.Mirror, opts Options) *Storefront {
	return New(ctx, NewClient(apiURL, httpClient), m, opts)
}

// CheckoutDetails is what the shopper enters on the checkout page
type CheckoutDetails struct {
	Shipping      models.Shipping
	PaymentMethod models.PaymentMethod
	CardNumber    string
	TxHash        string
}

// Checkout places an order for the cart contents and empties the cart once
// the backend accepts it. It needs a signed-in session and the backend.
func (s *Storefront) Checkout(ctx context.Context, d CheckoutDetails) (*models.Order, error) {
	if !s.Session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	lines := s.Cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	req := models.CheckoutRequest{
		Lines:         make([]models.OrderLine, 0, len(lines)),
		Shipping:      d.Shipping,
		PaymentMethod: d.PaymentMethod,
		CardNumber:    d.CardNumber,
		TxHash:        d.TxHash,
	}
	for _, l := range lines {
		req.Lines = append(req.Lines, models.OrderLine{ProductID: l.ID, Quantity: l.Quantity})
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	order, err := s.remote.PlaceOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	s.Cart.Clear(ctx)
	zap.L().Info("order placed", zap.String("order", order.ID), zap.Float64("total", order.Total))
	return order, nil
}

// Close releases the mirror
func (s *Storefront) Close() error {
	return s.mirror.Close()
}
