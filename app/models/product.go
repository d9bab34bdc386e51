package models

import "gorm.io/gorm"

// Product is a catalog entry students can order. The image binary lives on
// the storage disk; Image holds the public URL and ImagePath the disk key
// used when the product is deleted.
type Product struct {
	gorm.Model
	Name      string  `gorm:"size:255;not null;index" json:"name"`
	Price     float64 `gorm:"not null;default:0" json:"price"`
	Image     string  `gorm:"size:1024;not null" json:"image"`
	ImagePath string  `gorm:"size:1024" json:"-"`
}
