package services_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hostelease/hostelease/app/models"
	"github.com/hostelease/hostelease/app/repositories"
	"github.com/hostelease/hostelease/app/services"
	"github.com/hostelease/hostelease/pkg/database"
)

// newTestDB opens a per-test in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func newOrderService(t *testing.T, db *gorm.DB) *services.OrderService {
	t.Helper()
	return services.NewOrderService(
		repositories.NewOrderRepository(db),
		repositories.NewProductRepository(db),
	)
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Test Student",
		Email:    email,
		Password: "irrelevant-hash",
		Phone:    "9876543210",
		Role:     "Student",
		Address:  "Hostel B, Room 214",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:  name,
		Price: price,
		Image: "http://localhost:8080/storage/products/" + name + ".jpg",
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
