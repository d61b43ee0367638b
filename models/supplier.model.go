package models

import (
	"time"
)

// Supplier is the company profile behind a user with role=supplier.
type Supplier struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	CompanyName string `gorm:"size:255;not null" json:"company_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}
