package orders

import (
	"context"
	"errors"
	"fmt"

	"procurement_backend/internal/notify"
	"procurement_backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrValidation covers malformed checkout payloads and out-of-domain
	// status values.
	ErrValidation = errors.New("validation error")
	// ErrNotFound is returned for unknown order identifiers.
	ErrNotFound = errors.New("order not found")
)

// ItemInput is one requested line item at checkout.
type ItemInput struct {
	Product  uint `json:"product"`
	Quantity uint `json:"quantity"`
}

// Service owns order creation and status changes. Both the HTTP layer and
// the operator CLI go through it, so notifications are enqueued on every
// path that mutates an order.
type Service struct {
	db        *gorm.DB
	publisher notify.Publisher
	logger    *zap.Logger
}

func NewService(db *gorm.DB, publisher notify.Publisher, logger *zap.Logger) *Service {
	return &Service{db: db, publisher: publisher, logger: logger}
}

// Create persists the order and its items in one transaction. The unit
// price is copied from the product row inside the transaction, so later
// catalog edits leave the order untouched.
func (s *Service) Create(ctx context.Context, customerID uint, deliveryAddress string, items []ItemInput) (*models.Order, error) {
	if deliveryAddress == "" {
		return nil, fmt.Errorf("%w: delivery_address is required", ErrValidation)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items must not be empty", ErrValidation)
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
	}

	order := models.Order{
		CustomerID:      customerID,
		Status:          models.StatusPending,
		DeliveryAddress: deliveryAddress,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, item.Product).Error; err != nil {
				return fmt.Errorf("%w: product %d does not exist", ErrValidation, item.Product)
			}
			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Items.Product").First(&order, order.ID).Error; err != nil {
		return nil, err
	}

	s.enqueue(ctx, notify.Message{Kind: notify.KindOrderCreated, OrderID: order.ID})
	s.enqueue(ctx, notify.Message{Kind: notify.KindOrderCreatedAdmin, OrderID: order.ID})

	return &order, nil
}

// SetStatus overwrites the status unconditionally. There is no transition
// legality check: confirmed may follow delivered, pending may follow
// confirmed, and so on.
func (s *Service) SetStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return nil, ErrNotFound
	}

	order.Status = status
	if err := s.db.WithContext(ctx).Model(&order).Update("status", status).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Items.Product").First(&order, order.ID).Error; err != nil {
		return nil, err
	}

	s.enqueue(ctx, notify.Message{Kind: notify.KindStatusChanged, OrderID: order.ID, Status: status})

	return &order, nil
}

// enqueue is fire and forget: a broker hiccup must not fail the mutation
// that already committed.
func (s *Service) enqueue(ctx context.Context, msg notify.Message) {
	if err := s.publisher.Enqueue(ctx, msg); err != nil {
		s.logger.Warn("failed to enqueue notification",
			zap.String("kind", msg.Kind),
			zap.Uint("order_id", msg.OrderID),
			zap.Error(err))
	}
}
