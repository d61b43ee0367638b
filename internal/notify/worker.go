package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"procurement_backend/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// errDropped marks a message that must be acked and forgotten: the order
// it references no longer resolves, so there is nobody to mail.
var errDropped = errors.New("notification dropped")

// Worker consumes the notification queue and sends mail. Delivery is
// best effort: every message is attempted exactly once, failures are
// logged and the message is acked regardless.
type Worker struct {
	db         *gorm.DB
	conn       *amqp.Connection
	queue      string
	sender     Sender
	adminEmail string
	workers    int
	logger     *zap.Logger
}

func NewWorker(db *gorm.DB, conn *amqp.Connection, queue string, sender Sender, adminEmail string, workers int, logger *zap.Logger) *Worker {
	if workers < 1 {
		workers = 1
	}
	return &Worker{
		db:         db,
		conn:       conn,
		queue:      queue,
		sender:     sender,
		adminEmail: adminEmail,
		workers:    workers,
		logger:     logger,
	}
}

// Run blocks until the connection closes. Callers stop the worker by
// closing the AMQP connection.
func (w *Worker) Run() {
	var wg sync.WaitGroup
	wg.Add(w.workers)
	for i := 0; i < w.workers; i++ {
		go w.consume(i, &wg)
	}
	wg.Wait()
}

func (w *Worker) consume(id int, wg *sync.WaitGroup) {
	defer wg.Done()

	ch, err := w.conn.Channel()
	if err != nil {
		w.logger.Error("notify worker channel error", zap.Int("worker", id), zap.Error(err))
		return
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(w.queue, true, false, false, false, nil); err != nil {
		w.logger.Error("notify worker queue declare error", zap.Int("worker", id), zap.Error(err))
		return
	}

	if err := ch.Qos(10, 0, false); err != nil {
		w.logger.Error("notify worker qos error", zap.Int("worker", id), zap.Error(err))
		return
	}

	msgs, err := ch.Consume(w.queue, "", false, false, false, false, nil)
	if err != nil {
		w.logger.Error("notify worker consume error", zap.Int("worker", id), zap.Error(err))
		return
	}

	w.logger.Info("notify worker started", zap.Int("worker", id))

	for d := range msgs {
		var msg Message
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			w.logger.Warn("notify worker dropping malformed message", zap.Error(err))
			d.Ack(false)
			continue
		}

		if err := w.Handle(msg); err != nil && !errors.Is(err, errDropped) {
			// No retry: a failed send is swallowed, same as a dropped one.
			w.logger.Warn("notification send failed",
				zap.String("kind", msg.Kind),
				zap.Uint("order_id", msg.OrderID),
				zap.Error(err))
		}
		d.Ack(false)
	}
}

// Handle resolves the message against the database and sends one email.
func (w *Worker) Handle(msg Message) error {
	to, subject, body, err := w.compose(msg)
	if err != nil {
		return err
	}
	return w.sender.Send(to, subject, body)
}

func (w *Worker) compose(msg Message) (to, subject, body string, err error) {
	var order models.Order
	if err := w.db.Preload("Customer").First(&order, msg.OrderID).Error; err != nil {
		// Order vanished between enqueue and delivery: drop silently.
		return "", "", "", errDropped
	}

	switch msg.Kind {
	case KindOrderCreated:
		return order.Customer.Email,
			"Order confirmation",
			fmt.Sprintf("Your order #%d has been received. Thank you for your purchase!", order.ID),
			nil
	case KindOrderCreatedAdmin:
		return w.adminEmail,
			"New order",
			fmt.Sprintf("Order #%d from %s", order.ID, order.Customer.Username),
			nil
	case KindStatusChanged:
		status := msg.Status
		if status == "" {
			status = order.Status
		}
		return order.Customer.Email,
			"Order status updated",
			fmt.Sprintf("Your order #%d now has status: %s.", order.ID, status),
			nil
	default:
		return "", "", "", errDropped
	}
}
