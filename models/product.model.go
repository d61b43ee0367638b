package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Product struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	SupplierID  uint              `gorm:"index;not null" json:"supplier_id"`
	Name        string            `gorm:"size:255;not null" json:"name"`
	Description string            `gorm:"type:text" json:"description"`
	Price       decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"price"`
	Attributes  datatypes.JSONMap `json:"attributes"` // open-ended key/value map, e.g. category

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Supplier Supplier `gorm:"foreignKey:SupplierID" json:"supplier"`
}

// Category reads the conventional "category" attribute, empty when unset.
func (p *Product) Category() string {
	if p.Attributes == nil {
		return ""
	}
	if v, ok := p.Attributes["category"].(string); ok {
		return v
	}
	return ""
}
