package models

import (
	"time"
)

// User roles. An admin account only comes from seeding or operations,
// never from registration.
const (
	RoleCustomer = "customer"
	RoleSupplier = "supplier"
	RoleAdmin    = "admin"
)

func ValidRegistrationRole(role string) bool {
	return role == RoleCustomer || role == RoleSupplier
}

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Username string `gorm:"unique;not null;size:50" json:"username"`
	Email    string `gorm:"unique;not null;size:100" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Role string `gorm:"default:'customer';size:20" json:"role"` // customer, supplier, admin

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
