// Package csvsync moves the product catalog between the database and
// delimited files for offline exchange with suppliers.
package csvsync

import (
	"encoding/csv"
	"os"

	"procurement_backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var csvHeader = []string{"supplier_username", "supplier_name", "name", "description", "price", "category"}

// ExportProducts writes every product to path, one row per product with
// its supplier's username and company name. The destination is truncated
// unconditionally.
func ExportProducts(db *gorm.DB, path string, logger *zap.Logger) error {
	var products []models.Product
	if err := db.Preload("Supplier.User").Order("id").Find(&products).Error; err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, product := range products {
		row := []string{
			product.Supplier.User.Username,
			product.Supplier.CompanyName,
			product.Name,
			product.Description,
			product.Price.StringFixed(2),
			product.Category(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	logger.Info("product export finished",
		zap.String("path", path),
		zap.Int("products", len(products)))
	return nil
}
