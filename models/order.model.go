package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Membership in this set is the only constraint on the
// status field: any status may follow any other, including backwards.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
)

var orderStatuses = map[string]struct{}{
	StatusPending:   {},
	StatusConfirmed: {},
	StatusShipped:   {},
	StatusDelivered: {},
}

func ValidOrderStatus(status string) bool {
	_, ok := orderStatuses[status]
	return ok
}

type Order struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	CustomerID      uint   `gorm:"index;not null" json:"customer_id"`
	Status          string `gorm:"default:'pending';size:20;index" json:"status"`
	DeliveryAddress string `gorm:"size:255;not null" json:"delivery_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Customer User        `gorm:"foreignKey:CustomerID" json:"customer"`
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem carries a unit price copied from the product at checkout, so
// later catalog price changes do not rewrite order history.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	Quantity  uint            `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}
