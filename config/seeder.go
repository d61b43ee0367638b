package config

import (
	"log"

	"procurement_backend/models"
	"procurement_backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedUsers(db *gorm.DB) {
	log.Println("Seeding users...")

	password, _ := utils.HashPassword("password123")

	users := []models.User{
		{
			Username: "customer1",
			Email:    "customer1@example.com",
			Password: password,
			Role:     models.RoleCustomer,
		},
		{
			Username: "supplier1",
			Email:    "supplier1@example.com",
			Password: password,
			Role:     models.RoleSupplier,
		},
		{
			Username: "admin",
			Email:    "admin@procurement.local",
			Password: password,
			Role:     models.RoleAdmin,
		},
	}

	for _, user := range users {
		var existing models.User
		if err := db.Where("username = ?", user.Username).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&user).Error; err != nil {
					log.Printf("Failed to seed user %s: %v", user.Username, err)
					continue
				}
				log.Printf("User seeded: %s (ID: %d)", user.Username, user.ID)
				if user.Role == models.RoleSupplier {
					supplier := models.Supplier{UserID: user.ID, CompanyName: "Demo Supplies Ltd"}
					if err := db.Create(&supplier).Error; err != nil {
						log.Printf("Failed to seed supplier profile for %s: %v", user.Username, err)
					}
				}
			}
		} else {
			log.Printf("User already exists: %s", user.Username)
		}
	}

	log.Println("Seeding complete.")
}

func SeedProducts(db *gorm.DB) {
	log.Println("Seeding products...")

	var supplier models.Supplier
	if err := db.First(&supplier).Error; err != nil {
		log.Println("No supplier found, skipping product seeding")
		return
	}

	products := []models.Product{
		{
			SupplierID:  supplier.ID,
			Name:        "Copy paper A4",
			Description: "500 sheets, 80g/m2",
			Price:       decimal.NewFromFloat(4.99),
			Attributes:  datatypes.JSONMap{"category": "office"},
		},
		{
			SupplierID:  supplier.ID,
			Name:        "Ballpoint pen",
			Description: "Blue ink, box of 50",
			Price:       decimal.NewFromFloat(12.50),
			Attributes:  datatypes.JSONMap{"category": "office"},
		},
	}

	for _, product := range products {
		var existing models.Product
		err := db.Where("name = ? AND supplier_id = ?", product.Name, product.SupplierID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&product).Error; err != nil {
				log.Printf("Failed to seed product %s: %v", product.Name, err)
			}
		}
	}

	log.Println("Seeding complete.")
}
