package models

import (
	"time"
)

// Cart is the per-user staging area before checkout. One per user,
// created lazily on first access and never deleted.
type Cart struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

// CartItem rows are never merged: adding the same product twice leaves
// two line items in the cart.
type CartItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CartID    uint `gorm:"index;not null" json:"cart_id"`
	ProductID uint `gorm:"not null" json:"product_id"`
	Quantity  uint `gorm:"not null;default:1" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}
