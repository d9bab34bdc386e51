package repositories

import (
	"github.com/hostelease/hostelease/app/models"
	"gorm.io/gorm"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// All returns the full catalog, newest first.
func (r *ProductRepository) All() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("created_at desc").Find(&products).Error
	return products, err
}

// FindByID looks a product up by primary key.
func (r *ProductRepository) FindByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs resolves a set of product ids in one query.
func (r *ProductRepository) FindByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("id IN ?", ids).Find(&products).Error
	return products, err
}

// Create persists a new product.
func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete removes a product by id.
func (r *ProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}
