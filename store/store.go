// Package store persists the backend's products, users, carts and orders in
// MongoDB or SQLite behind one set of repository interfaces.
package store

import (
	"context"
	"errors"
	"fmt"

	"go-storefront/config"
	"go-storefront/models"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken
	ErrDuplicate = errors.New("record already exists")
	// ErrInsufficientStock is returned when a stock reservation cannot be met
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository stores catalog products keyed by their string id
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, products []models.Product) error
	// AdjustStock adds delta to the product's stock. A negative delta that
	// would take stock below zero fails with ErrInsufficientStock.
	AdjustStock(ctx context.Context, id string, delta int) error
}

// UserRepository stores accounts; email is unique
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// CartRepository stores one saved cart per user
type CartRepository interface {
	// Get returns the user's cart, or an empty cart when none is saved
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, c *models.Cart) error
	Delete(ctx context.Context, userID string) error
}

// OrderRepository stores placed orders
type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error
}

// Store groups the repositories of one backend database
type Store interface {
	Products() ProductRepository
	Users() UserRepository
	Carts() CartRepository
	Orders() OrderRepository
	Close(ctx context.Context) error
}

// Open connects to the database selected by cfg.DBDriver
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		s, err := OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverSQLite:
		s, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}
