// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-storefront/controllers"
	"go-storefront/middleware"
	"go-storefront/store"
	"go-storefront/utils"
)

// NewRouter builds the full API handler over s
func NewRouter(s store.Store, emailService *utils.EmailService, google utils.GoogleVerifier, demoMode bool) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)
	RegisterRoutes(router,
		controllers.NewUserController(s, emailService, google, demoMode),
		controllers.NewProductController(s),
		controllers.NewCartController(s),
		controllers.NewOrderController(s, emailService),
	)
	// CORS wraps the router so preflight requests never reach route matching
	return middleware.CORS(router)
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, productController *controllers.ProductController, cartController *controllers.CartController, orderController *controllers.OrderController) {
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", userController.Register).Methods("POST")
	api.HandleFunc("/auth/login", userController.Login).Methods("POST")
	api.HandleFunc("/auth/google", userController.GoogleLogin).Methods("POST")

	// Product routes
	api.HandleFunc("/products", productController.GetProducts).Methods("GET")
	api.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")

	// Admin routes
	admin := api.PathPrefix("/products").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("", productController.CreateProduct).Methods("POST")
	admin.HandleFunc("/{id}", productController.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/{id}", productController.DeleteProduct).Methods("DELETE")

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", userController.GetProfile).Methods("GET")

	// Cart Routes
	protected.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/cart", cartController.ReplaceCart).Methods("PUT")
	protected.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")
	protected.HandleFunc("/cart/items", cartController.AddToCart).Methods("POST")
	protected.HandleFunc("/cart/items/{id}", cartController.UpdateCartItem).Methods("PUT")
	protected.HandleFunc("/cart/items/{id}", cartController.RemoveFromCart).Methods("DELETE")

	// Order Routes
	protected.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
	protected.HandleFunc("/orders", orderController.CreateOrder).Methods("POST")

	adminOrders := api.PathPrefix("/orders").Subrouter()
	adminOrders.Use(middleware.AuthMiddleware)
	adminOrders.Use(middleware.AdminMiddleware)
	adminOrders.HandleFunc("/{id}/payment", orderController.UpdateOrderPaymentStatus).Methods("PUT")
}
