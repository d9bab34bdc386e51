package models

import (
	"github.com/hostelease/hostelease/pkg/auth"
	"gorm.io/gorm"
)

// User is a registered account, either a hostel student or an admin.
type User struct {
	gorm.Model
	Name     string    `gorm:"size:255;not null" json:"name" validate:"required,min=3"`
	Email    string    `gorm:"uniqueIndex;size:255;not null" json:"email" validate:"required,email"`
	Password string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Phone    string    `gorm:"size:20;not null" json:"phone" validate:"required,digits=10"`
	Role     auth.Role `gorm:"size:50;not null;default:Student" json:"role"`
	Address  string    `gorm:"size:500;not null" json:"address" validate:"required"`
}
