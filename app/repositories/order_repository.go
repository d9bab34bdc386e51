package repositories

import (
	"github.com/hostelease/hostelease/app/models"
	"gorm.io/gorm"
)

// OrderRepository handles database operations for Order and its line items.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists a new order together with its line items.
func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// FindByID loads an order with its line items.
func (r *OrderRepository) FindByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByPaymentRef loads the order holding the given external payment
// reference, if any. The empty string never matches.
func (r *OrderRepository) FindByPaymentRef(ref string) (*models.Order, error) {
	if ref == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var order models.Order
	err := r.db.Preload("Items").Where("payment_ref = ?", ref).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ByUser returns all orders owned by a user, newest first.
func (r *OrderRepository) ByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// All returns every order across all users, newest first, with the owner
// loaded for the admin view.
func (r *OrderRepository) All() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Preload("User").
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// PendingPaymentsWithRef returns orders that hold an external payment
// reference but are still payment-Pending. The reconciliation sweep
// re-verifies these against the provider.
func (r *OrderRepository) PendingPaymentsWithRef(limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("payment_status = ? AND payment_ref <> ''", models.PaymentPending).
		Order("created_at asc").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// Save persists changes to an existing order.
func (r *OrderRepository) Save(order *models.Order) error {
	return r.db.Save(order).Error
}
