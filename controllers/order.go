// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-storefront/cart"
	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/store"
	"go-storefront/utils"
)

// deliveryDays approximates 7 working days
const deliveryDays = 10

// OrderController handles order-related requests
type OrderController struct {
	Orders       store.OrderRepository
	Carts        store.CartRepository
	Products     store.ProductRepository
	Users        store.UserRepository
	EmailService *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(s store.Store, emailService *utils.EmailService) *OrderController {
	return &OrderController{
		Orders:       s.Orders(),
		Carts:        s.Carts(),
		Products:     s.Products(),
		Users:        s.Users(),
		EmailService: emailService,
	}
}

// stockReservation records decremented stock so it can be returned on failure
type stockReservation struct {
	products store.ProductRepository
	taken    []models.OrderLine
}

func (s *stockReservation) take(ctx context.Context, line models.OrderLine) error {
	if err := s.products.AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
		return err
	}
	s.taken = append(s.taken, line)
	return nil
}

func (s *stockReservation) release(ctx context.Context) {
	for _, line := range s.taken {
		if err := s.products.AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
			zap.L().Error("failed to return stock", zap.String("product", line.ProductID), zap.Error(err))
		}
	}
	s.taken = nil
}

// CreateOrder places an order for the requested lines
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	// Extract JWT claims from the request context
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.PaymentMethod = models.PaymentMethod(strings.ToLower(string(req.PaymentMethod)))
	if err := models.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	order := models.Order{
		ID:            utils.NewOrderID(),
		UserID:        claims.UserID,
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     time.Now().UTC(),
	}
	order.DeliveryDate = order.CreatedAt.AddDate(0, 0, deliveryDays).Format("2006-01-02")

	switch req.PaymentMethod {
	case models.PaymentCard:
		digits := strings.ReplaceAll(req.CardNumber, " ", "")
		if !isCardNumber(digits) {
			utils.WriteError(w, http.StatusBadRequest, "Invalid card number")
			return
		}
		// Card payments are simulated and always succeed
		order.CardLast4 = digits[len(digits)-4:]
		order.PaymentStatus = models.PaymentCompleted
	case models.PaymentCrypto:
		if strings.TrimSpace(req.TxHash) == "" {
			utils.WriteError(w, http.StatusBadRequest, "Transaction hash is required for crypto payments")
			return
		}
		order.TxHash = req.TxHash
		order.PaymentStatus = models.PaymentPending
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// Reserve stock and snapshot each product at its current price
	reservation := &stockReservation{products: oc.Products}
	c := cart.New(nil)
	for _, line := range req.Lines {
		product, err := oc.Products.Get(ctx, line.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			reservation.release(ctx)
			utils.WriteError(w, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", line.ProductID))
			return
		}
		if err != nil {
			reservation.release(ctx)
			zap.L().Error("get product", zap.String("id", line.ProductID), zap.Error(err))
			utils.WriteError(w, http.StatusInternalServerError, "Error fetching product")
			return
		}
		err = reservation.take(ctx, line)
		if errors.Is(err, store.ErrInsufficientStock) {
			reservation.release(ctx)
			utils.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Insufficient stock for product: %s", product.Title))
			return
		}
		if err != nil {
			reservation.release(ctx)
			zap.L().Error("reserve stock", zap.String("id", line.ProductID), zap.Error(err))
			utils.WriteError(w, http.StatusInternalServerError, "Failed to update product stock")
			return
		}
		prev, _ := c.Line(product.ID)
		c.AddItem(*product)
		c.SetQuantity(product.ID, prev.Quantity+line.Quantity)
	}

	quote := c.Quote()
	order.Lines = c.Lines()
	order.Subtotal = quote.Subtotal
	order.Tax = quote.Tax
	order.Total = quote.Total

	// Insert the order into the database
	if err := oc.Orders.Create(ctx, &order); err != nil {
		reservation.release(ctx)
		zap.L().Error("create order", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	// Clear the user's saved cart
	if err := oc.Carts.Delete(ctx, claims.UserID); err != nil {
		zap.L().Warn("failed to clear cart after checkout", zap.String("user", claims.UserID), zap.Error(err))
	}

	// Send confirmation email to user
	go func(email string, o models.Order) {
		if err := oc.EmailService.SendOrderConfirmationEmail(email, o); err != nil {
			zap.L().Warn("failed to send order confirmation", zap.String("to", email), zap.Error(err))
		}
	}(order.Shipping.Email, order)

	zap.L().Info("order placed",
		zap.String("order", order.ID),
		zap.String("user", order.UserID),
		zap.Float64("total", order.Total),
		zap.String("payment", string(order.PaymentMethod)),
	)
	utils.WriteJSON(w, http.StatusCreated, order)
}

func isCardNumber(digits string) bool {
	if len(digits) != 16 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// GetOrders retrieves all orders for the authenticated user
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	// Extract JWT claims from the request context
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := oc.Orders.ListByUser(ctx, claims.UserID)
	if err != nil {
		zap.L().Error("list orders", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	utils.WriteJSON(w, http.StatusOK, orders)
}

// UpdateOrderPaymentStatus allows admin to update payment status
func (oc *OrderController) UpdateOrderPaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	// Parse the request body for new payment status
	var paymentUpdate models.PaymentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&paymentUpdate); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := models.Validate(paymentUpdate); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid payment status")
		return
	}

	// Update the payment status in the order
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	err := oc.Orders.UpdatePaymentStatus(ctx, orderID, paymentUpdate.PaymentStatus)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		zap.L().Error("update payment status", zap.String("order", orderID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update payment status")
		return
	}

	// Notify the customer about the payment status update
	order, err := oc.Orders.Get(ctx, orderID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to retrieve updated order")
		return
	}
	email := order.Shipping.Email
	if user, err := oc.Users.FindByID(ctx, order.UserID); err == nil {
		email = user.Email
	}
	if email != "" {
		if err := oc.EmailService.SendPaymentStatusEmail(email, *order); err != nil {
			zap.L().Warn("failed to send payment status email", zap.String("to", email), zap.Error(err))
		}
	}

	// Respond with success message
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Payment status updated successfully"})
}
