package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"go-storefront/catalog"
	"go-storefront/models"
	"go-storefront/store"
	"go-storefront/utils"
)

// ProductController handles product-related requests
type ProductController struct {
	Products store.ProductRepository
}

// NewProductController creates a new ProductController
func NewProductController(s store.Store) *ProductController {
	return &ProductController{
		Products: s.Products(),
	}
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	// Decode the request body into product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if product.ID == "" {
		product.ID = utils.NewID()
	}
	if err := models.Validate(product); err != nil {
		writeValidationError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	err := pc.Products.Create(ctx, &product)
	if errors.Is(err, store.ErrDuplicate) {
		utils.WriteError(w, http.StatusBadRequest, "Product already exists")
		return
	}
	if err != nil {
		zap.L().Error("create product", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Error creating product")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "Product created",
		"id":      product.ID,
	})
}

// GetProducts retrieves all products, narrowed by the optional
// q, category, min_price, max_price and sort query parameters
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	products, err := pc.Products.List(ctx)
	if err != nil {
		zap.L().Error("list products", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Error fetching products")
		return
	}

	query := r.URL.Query()
	if len(query) > 0 {
		filter := models.FilterState{
			Query:    query.Get("q"),
			Category: models.Category(query.Get("category")),
			MinPrice: 0,
			MaxPrice: -1,
		}
		if v := query.Get("min_price"); v != "" {
			filter.MinPrice = cast.ToFloat64(v)
		}
		if v := query.Get("max_price"); v != "" {
			filter.MaxPrice = cast.ToFloat64(v)
		}
		if filter.MaxPrice < 0 {
			filter.MaxPrice = maxListedPrice(products)
		}
		products = catalog.Apply(products, filter, models.SortOption(query.Get("sort")))
	}

	utils.WriteJSON(w, http.StatusOK, products)
}

func maxListedPrice(products []models.Product) float64 {
	highest := 0.0
	for _, p := range products {
		if p.Price > highest {
			highest = p.Price
		}
	}
	return highest
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.Products.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		zap.L().Error("get product", zap.String("id", id), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Error fetching product")
		return
	}

	utils.WriteJSON(w, http.StatusOK, product)
}

// UpdateProduct handles replacing a product (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	// The path is authoritative for the identifier
	product.ID = id
	if err := models.Validate(product); err != nil {
		writeValidationError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := pc.Products.Update(ctx, &product)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		zap.L().Error("update product", zap.String("id", id), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Error updating product")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Product updated"})
}

// DeleteProduct handles deleting a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := pc.Products.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		zap.L().Error("delete product", zap.String("id", id), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Error deleting product")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		utils.WriteError(w, http.StatusBadRequest, verr.Message)
		return
	}
	utils.WriteError(w, http.StatusBadRequest, "Invalid input")
}
