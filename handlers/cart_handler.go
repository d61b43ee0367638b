package handlers

import (
	"procurement_backend/models"
	"procurement_backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CartHandler struct {
	DB *gorm.DB
}

func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{DB: db}
}

// AddItemRequest defines the payload for adding a product to the cart
type AddItemRequest struct {
	Product  uint `json:"product"`
	Quantity uint `json:"quantity"`
}

// RemoveItemRequest defines the payload for removing a product from the cart
type RemoveItemRequest struct {
	ProductID uint `json:"product_id"`
}

// getOrCreateCart returns the caller's cart, creating it on first access.
func (h *CartHandler) getOrCreateCart(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := h.DB.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCart - GET /cart
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	cart, err := h.getOrCreateCart(utils.CallerID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch cart"})
	}

	if err := h.DB.Preload("Items.Product").First(cart, cart.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch cart"})
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}

	return c.JSON(fiber.Map{"data": cart})
}

// AddItem - POST /cart
//
// A product already in the cart is NOT merged: a second add leaves two
// line items.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if req.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quantity must be at least 1"})
	}

	var product models.Product
	if err := h.DB.First(&product, req.Product).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Product does not exist"})
	}

	cart, err := h.getOrCreateCart(utils.CallerID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch cart"})
	}

	item := models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  req.Quantity,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not add item"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": item})
}

// RemoveItem - DELETE /cart
//
// Deletes every line item referencing the product. Removing a product
// that is not in the cart is a successful no-op.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	var req RemoveItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if req.ProductID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "product_id is required"})
	}

	cart, err := h.getOrCreateCart(utils.CallerID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch cart"})
	}

	err = h.DB.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).
		Delete(&models.CartItem{}).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not remove item"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
