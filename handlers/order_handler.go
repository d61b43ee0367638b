package handlers

import (
	"errors"
	"strconv"

	"procurement_backend/internal/orders"
	"procurement_backend/models"
	"procurement_backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB      *gorm.DB
	Service *orders.Service
}

func NewOrderHandler(db *gorm.DB, service *orders.Service) *OrderHandler {
	return &OrderHandler{DB: db, Service: service}
}

// CreateOrderRequest defines the checkout payload
type CreateOrderRequest struct {
	DeliveryAddress string             `json:"delivery_address"`
	Items           []orders.ItemInput `json:"items"`
}

// UpdateStatusRequest defines the status-change payload
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateOrder - POST /orders/create
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	order, err := h.Service.Create(c.Context(), utils.CallerID(c), req.DeliveryAddress, req.Items)
	if err != nil {
		if errors.Is(err, orders.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create order"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": order})
}

// GetOrders - GET /orders
//
// Customers see their own orders; suppliers see orders containing at
// least one of their products, de-duplicated; admins see everything.
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	userID := utils.CallerID(c)
	role := utils.CallerRole(c)

	var result []models.Order
	query := h.DB.Preload("Items.Product")

	switch role {
	case models.RoleCustomer:
		query = query.Where("customer_id = ?", userID)
	case models.RoleSupplier:
		query = query.
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Joins("JOIN suppliers ON suppliers.id = products.supplier_id").
			Where("suppliers.user_id = ?", userID).
			Distinct("orders.*")
	case models.RoleAdmin:
		// unrestricted
	default:
		return c.JSON(fiber.Map{"data": []models.Order{}})
	}

	if err := query.Order("orders.id").Find(&result).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch orders"})
	}

	return c.JSON(fiber.Map{"data": result})
}

// GetOrder - GET /orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var order models.Order
	if err := h.DB.Preload("Items.Product").First(&order, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}

	if !h.canAccess(c, &order) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	return c.JSON(fiber.Map{"data": order})
}

// UpdateStatus - PATCH /orders/:id/status
//
// The new status only has to be a member of the fixed set; backward
// transitions are allowed.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}

	role := utils.CallerRole(c)
	if role != models.RoleAdmin && !(role == models.RoleSupplier && h.supplierInOrder(utils.CallerID(c), order.ID)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	updated, err := h.Service.SetStatus(c.Context(), uint(id), req.Status)
	if err != nil {
		if errors.Is(err, orders.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, orders.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update order"})
	}

	return c.JSON(fiber.Map{"data": updated})
}

// canAccess allows the order's customer, a supplier with an item in the
// order, or an admin.
func (h *OrderHandler) canAccess(c *fiber.Ctx, order *models.Order) bool {
	userID := utils.CallerID(c)
	switch utils.CallerRole(c) {
	case models.RoleAdmin:
		return true
	case models.RoleCustomer:
		return order.CustomerID == userID
	case models.RoleSupplier:
		return h.supplierInOrder(userID, order.ID)
	}
	return false
}

func (h *OrderHandler) supplierInOrder(userID, orderID uint) bool {
	var count int64
	h.DB.Model(&models.OrderItem{}).
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN suppliers ON suppliers.id = products.supplier_id").
		Where("order_items.order_id = ? AND suppliers.user_id = ?", orderID, userID).
		Count(&count)
	return count > 0
}
