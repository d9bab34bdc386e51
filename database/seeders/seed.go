package seeders

import (
	"errors"

	"github.com/hostelease/hostelease/app/models"
	"github.com/hostelease/hostelease/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("admin", SeedAdmin)
	Register("products", SeedProducts)
}

// SeedAdmin creates the default admin account if it does not exist yet.
// The password is meant for local development only.
func SeedAdmin(db *gorm.DB) error {
	var existing models.User
	err := db.Where("email = ?", "admin@hostelease.local").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword("admin12345")
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Name:     "Hostel Admin",
		Email:    "admin@hostelease.local",
		Password: hash,
		Phone:    "9999999999",
		Role:     auth.RoleAdmin,
		Address:  "Admin Office, Main Gate",
	}).Error
}

// SeedProducts fills the catalog with a starter set when it is empty.
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{Name: "Maggi Noodles", Price: 15, Image: "/storage/seed/maggi.jpg", ImagePath: "seed/maggi.jpg"},
		{Name: "Dairy Milk Chocolate", Price: 45, Image: "/storage/seed/dairy-milk.jpg", ImagePath: "seed/dairy-milk.jpg"},
		{Name: "Lays Chips", Price: 20, Image: "/storage/seed/lays.jpg", ImagePath: "seed/lays.jpg"},
		{Name: "Notebook (200 pages)", Price: 60, Image: "/storage/seed/notebook.jpg", ImagePath: "seed/notebook.jpg"},
		{Name: "Mineral Water 1L", Price: 22, Image: "/storage/seed/water.jpg", ImagePath: "seed/water.jpg"},
	}
	return db.Create(&products).Error
}
