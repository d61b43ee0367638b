package csvsync

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"procurement_backend/models"
	"procurement_backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImportProducts reads the file written by ExportProducts and recreates
// its rows. Users and suppliers are created only when absent; products
// are always created, so importing the same file twice doubles the
// catalog. That matches the export/import contract: the tool synchronizes
// rows, it does not merge them.
func ImportProducts(db *gorm.DB, path string, logger *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	for _, name := range csvHeader {
		if _, ok := col[name]; !ok {
			return fmt.Errorf("missing column %q", name)
		}
	}

	imported := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		price, err := decimal.NewFromString(row[col["price"]])
		if err != nil {
			return fmt.Errorf("row %d: bad price %q", imported+2, row[col["price"]])
		}

		supplier, err := getOrCreateSupplier(db, row[col["supplier_username"]], row[col["supplier_name"]])
		if err != nil {
			return err
		}

		product := models.Product{
			SupplierID:  supplier.ID,
			Name:        row[col["name"]],
			Description: row[col["description"]],
			Price:       price,
			Attributes:  datatypes.JSONMap{"category": row[col["category"]]},
		}
		if err := db.Create(&product).Error; err != nil {
			return err
		}
		imported++
	}

	logger.Info("product import finished",
		zap.String("path", path),
		zap.Int("products", imported))
	return nil
}

func getOrCreateSupplier(db *gorm.DB, username, companyName string) (*models.Supplier, error) {
	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		// Imported accounts cannot log in: the password is an unguessable
		// throwaway until an operator resets it.
		password, herr := utils.HashPassword(uuid.NewString())
		if herr != nil {
			return nil, herr
		}
		user = models.User{
			Username: username,
			Email:    username + "@import.invalid",
			Password: password,
			Role:     models.RoleSupplier,
		}
		if cerr := db.Create(&user).Error; cerr != nil {
			return nil, cerr
		}
	} else if err != nil {
		return nil, err
	}

	if companyName == "" {
		companyName = "Unknown"
	}

	var supplier models.Supplier
	err = db.Where(models.Supplier{UserID: user.ID}).
		Attrs(models.Supplier{CompanyName: companyName}).
		FirstOrCreate(&supplier).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}
