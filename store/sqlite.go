package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-storefront/models"
)

// SQLite is a Store backed by gorm over a SQLite file
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens the database at path (":memory:" for a throwaway one)
// and migrates the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; an in-memory database also lives on a single connection
	sqlDB.SetMaxOpenConns(1)
	return NewSQLite(db)
}

// NewSQLite wraps an existing gorm handle and migrates the schema
func NewSQLite(db *gorm.DB) (*SQLite, error) {
	if err := db.AutoMigrate(&models.Product{}, &models.User{}, &models.Cart{}, &models.Order{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Products() ProductRepository { return &sqliteProducts{db: s.db} }
func (s *SQLite) Users() UserRepository       { return &sqliteUsers{db: s.db} }
func (s *SQLite) Carts() CartRepository       { return &sqliteCarts{db: s.db} }
func (s *SQLite) Orders() OrderRepository     { return &sqliteOrders{db: s.db} }

func (s *SQLite) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

type sqliteProducts struct {
	db *gorm.DB
}

func (r *sqliteProducts) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("rowid").Find(&products).Error; err != nil {
		return nil, translate(err, "list products")
	}
	return products, nil
}

func (r *sqliteProducts) Get(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find product")
	}
	return &p, nil
}

func (r *sqliteProducts) Create(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, "create product")
}

func (r *sqliteProducts) Update(ctx context.Context, p *models.Product) error {
	// Select("*") so zero values such as stock 0 are written too
	result := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", p.ID).Select("*").Updates(p)
	if err := result.Error; err != nil {
		return translate(err, "update product")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteProducts) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if err := result.Error; err != nil {
		return translate(err, "delete product")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteProducts) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, translate(err, "count products")
	}
	return n, nil
}

func (r *sqliteProducts) InsertMany(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&products).Error, "insert products")
}

func (r *sqliteProducts) AdjustStock(ctx context.Context, id string, delta int) error {
	q := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where("stock >= ?", -delta)
	}
	result := q.UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if err := result.Error; err != nil {
		return translate(err, "adjust stock")
	}
	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

type sqliteUsers struct {
	db *gorm.DB
}

func (r *sqliteUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &u, nil
}

func (r *sqliteUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &u, nil
}

func (r *sqliteUsers) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error, "create user")
}

type sqliteCarts struct {
	db *gorm.DB
}

func (r *sqliteCarts) Get(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	err := r.db.WithContext(ctx).First(&c, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Cart{UserID: userID, Lines: []models.CartLine{}}, nil
	}
	if err != nil {
		return nil, translate(err, "find cart")
	}
	return &c, nil
}

func (r *sqliteCarts) Save(ctx context.Context, c *models.Cart) error {
	c.UpdatedAt = time.Now()
	return translate(r.db.WithContext(ctx).Save(c).Error, "save cart")
}

func (r *sqliteCarts) Delete(ctx context.Context, userID string) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Cart{}, "user_id = ?", userID).Error, "delete cart")
}

type sqliteOrders struct {
	db *gorm.DB
}

func (r *sqliteOrders) Create(ctx context.Context, o *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(o).Error, "create order")
}

func (r *sqliteOrders) Get(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find order")
	}
	return &o, nil
}

func (r *sqliteOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error
	if err != nil {
		return nil, translate(err, "list orders")
	}
	return orders, nil
}

func (r *sqliteOrders) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("payment_status", status)
	if err := result.Error; err != nil {
		return translate(err, "update payment status")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
