package migrations

import (
	"github.com/hostelease/hostelease/app/models"
	"github.com/hostelease/hostelease/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20250601000000_create_users_table", &CreateUsersTable{})
	migration.Register("20250601000001_create_products_table", &CreateProductsTable{})
	migration.Register("20250601000002_create_orders_tables", &CreateOrdersTables{})
}

// CreateUsersTable sets up the accounts table.
type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// CreateProductsTable sets up the catalog.
type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// CreateOrdersTables sets up orders and their line items.
type CreateOrdersTables struct{}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items", "orders")
}
