package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-storefront/catalog"
	"go-storefront/models"
)

// AdminEmail is the account created on first start
const AdminEmail = "admin@jojos.com"

// Seed fills an empty product table with the built-in catalog and makes
// sure the admin account exists.
func Seed(ctx context.Context, s Store, adminPassword string) error {
	n, err := s.Products().Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		zap.L().Info("Seeding database with initial products...")
		if err := s.Products().InsertMany(ctx, catalog.Seed()); err != nil {
			return err
		}
		zap.L().Info("Database seeded with products")
	}

	_, err = s.Users().FindByEmail(ctx, AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	err = s.Users().Create(ctx, &models.User{
		ID:       "admin-user-id",
		Name:     "Jojo Admin",
		Email:    AdminEmail,
		Password: string(hashed),
		IsAdmin:  true,
	})
	if err != nil && !errors.Is(err, ErrDuplicate) {
		return err
	}
	zap.L().Info("Admin user seeded", zap.String("email", AdminEmail))
	return nil
}
