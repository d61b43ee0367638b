package handlers

import (
	"strconv"

	"procurement_backend/models"
	"procurement_backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{DB: db}
}

// CreateProductRequest
type CreateProductRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Price       decimal.Decimal        `json:"price"`
	Attributes  map[string]interface{} `json:"attributes"`
}

// GetAllProducts - GET /products
func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := h.DB.Model(&models.Product{}).Preload("Supplier", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, user_id, company_name")
	})

	// Search by Name
	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch products"})
	}

	var products []models.Product
	err := query.Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch products"})
	}

	return c.JSON(fiber.Map{
		"data": products,
		"meta": models.NewPaginationMeta(page, limit, total),
	})
}

// GetProduct - GET /products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	var product models.Product

	if err := h.DB.Preload("Supplier").First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	return c.JSON(fiber.Map{"data": product})
}

// CreateProduct - POST /products (suppliers only)
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	if utils.CallerRole(c) != models.RoleSupplier {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only suppliers can create products"})
	}

	var supplier models.Supplier
	if err := h.DB.Where("user_id = ?", utils.CallerID(c)).First(&supplier).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No supplier profile"})
	}

	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	if req.Price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must not be negative"})
	}

	product := models.Product{
		SupplierID:  supplier.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Attributes:  datatypes.JSONMap(req.Attributes),
	}

	if err := h.DB.Create(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create product"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": product})
}
