package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-storefront/cart"
	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/store"
	"go-storefront/utils"
)

// CartController handles cart-related requests
type CartController struct {
	Carts    store.CartRepository
	Products store.ProductRepository
}

// NewCartController creates a new CartController
func NewCartController(s store.Store) *CartController {
	return &CartController{
		Carts:    s.Carts(),
		Products: s.Products(),
	}
}

// CartResponse is the cart as returned by every cart endpoint
type CartResponse struct {
	Lines     []models.CartLine `json:"lines"`
	ItemCount int               `json:"item_count"`
	Subtotal  float64           `json:"subtotal"`
	Tax       float64           `json:"tax"`
	Total     float64           `json:"total"`
}

func newCartResponse(c *cart.Cart) CartResponse {
	q := c.Quote()
	return CartResponse{
		Lines:     c.Lines(),
		ItemCount: c.ItemCount(),
		Subtotal:  q.Subtotal,
		Tax:       q.Tax,
		Total:     q.Total,
	}
}

// ReplaceCartRequest is the body of PUT /api/cart
type ReplaceCartRequest struct {
	Lines []models.OrderLine `json:"lines" validate:"dive"`
}

// GetCart retrieves the authenticated user's cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	cc.withCart(w, r, false, func(ctx context.Context, c *cart.Cart) (int, string) {
		return 0, ""
	})
}

// AddToCart adds one unit of a product to the cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req models.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := models.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	cc.withCart(w, r, true, func(ctx context.Context, c *cart.Cart) (int, string) {
		product, err := cc.Products.Get(ctx, req.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			return http.StatusNotFound, "Product not found"
		}
		if err != nil {
			zap.L().Error("get product", zap.String("id", req.ProductID), zap.Error(err))
			return http.StatusInternalServerError, "Error fetching product"
		}
		c.AddItem(*product)
		return 0, ""
	})
}

// UpdateCartItem sets the quantity of a line; zero or less removes it
func (cc *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cc.withCart(w, r, true, func(ctx context.Context, c *cart.Cart) (int, string) {
		if _, ok := c.Line(id); !ok {
			return http.StatusNotFound, "Item not in cart"
		}
		c.SetQuantity(id, req.Quantity)
		return 0, ""
	})
}

// RemoveFromCart removes a line from the cart regardless of its quantity
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	cc.withCart(w, r, true, func(ctx context.Context, c *cart.Cart) (int, string) {
		c.RemoveItem(id)
		return 0, ""
	})
}

// ReplaceCart overwrites the cart with the given product quantities,
// refreshing each product snapshot from the catalog
func (cc *CartController) ReplaceCart(w http.ResponseWriter, r *http.Request) {
	var req ReplaceCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := models.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	cc.withCart(w, r, true, func(ctx context.Context, c *cart.Cart) (int, string) {
		c.Clear()
		for _, line := range req.Lines {
			product, err := cc.Products.Get(ctx, line.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				return http.StatusNotFound, "Product not found: " + line.ProductID
			}
			if err != nil {
				return http.StatusInternalServerError, "Error fetching product"
			}
			c.AddItem(*product)
			c.SetQuantity(product.ID, line.Quantity)
		}
		return 0, ""
	})
}

// ClearCart empties the cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := cc.Carts.Delete(ctx, claims.UserID); err != nil {
		zap.L().Error("clear cart", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, newCartResponse(cart.New(nil)))
}

// withCart loads the caller's cart, runs fn against it and, when save is set,
// persists the result. fn returns a non-zero status to abort with an error.
func (cc *CartController) withCart(w http.ResponseWriter, r *http.Request, save bool, fn func(context.Context, *cart.Cart) (int, string)) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stored, err := cc.Carts.Get(ctx, claims.UserID)
	if err != nil {
		zap.L().Error("get cart", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Error fetching cart")
		return
	}
	c := cart.New(stored.Lines)

	if status, msg := fn(ctx, c); status != 0 {
		utils.WriteError(w, status, msg)
		return
	}

	if save {
		stored.Lines = c.Lines()
		if err := cc.Carts.Save(ctx, stored); err != nil {
			zap.L().Error("save cart", zap.Error(err))
			utils.WriteError(w, http.StatusInternalServerError, "Failed to update cart")
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, newCartResponse(c))
}
