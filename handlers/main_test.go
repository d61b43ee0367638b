package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"procurement_backend/config"
	"procurement_backend/internal/notify"
	"procurement_backend/internal/orders"
	"procurement_backend/middleware"
	"procurement_backend/models"
	"procurement_backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// fakePublisher records enqueued notifications instead of touching a broker.
type fakePublisher struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (f *fakePublisher) Enqueue(_ context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakePublisher) Messages() []notify.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Message, len(f.messages))
	copy(out, f.messages)
	return out
}

type testEnv struct {
	app       *fiber.App
	db        *gorm.DB
	publisher *fakePublisher
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

// newTestEnv wires the full route table against an in-memory database.
func newTestEnv(t *testing.T, policy middleware.RatePolicy) *testEnv {
	t.Helper()

	db := newTestDB(t)
	publisher := &fakePublisher{}
	service := orders.NewService(db, publisher, zap.NewNop())

	authHandler := NewAuthHandler(db, testSecret, time.Hour)
	productHandler := NewProductHandler(db)
	cartHandler := NewCartHandler(db)
	orderHandler := NewOrderHandler(db, service)

	app := fiber.New()
	auth := utils.AuthMiddleware(testSecret)

	app.Post("/register", authHandler.Register)
	app.Post("/login", authHandler.Login)

	catalog := app.Group("/products", middleware.CatalogLimiter(policy))
	catalog.Get("/", middleware.CatalogCache(900), productHandler.GetAllProducts)
	catalog.Get("/:id", productHandler.GetProduct)
	catalog.Post("/", auth, productHandler.CreateProduct)

	cart := app.Group("/cart", auth)
	cart.Get("/", cartHandler.GetCart)
	cart.Post("/", cartHandler.AddItem)
	cart.Delete("/", cartHandler.RemoveItem)

	ordersGroup := app.Group("/orders", auth)
	ordersGroup.Post("/create", orderHandler.CreateOrder)
	ordersGroup.Get("/", orderHandler.GetOrders)
	ordersGroup.Get("/:id", orderHandler.GetOrder)
	ordersGroup.Patch("/:id/status", orderHandler.UpdateStatus)

	return &testEnv{app: app, db: db, publisher: publisher}
}

func defaultPolicy() middleware.RatePolicy {
	return middleware.RatePolicy{WindowSeconds: 60, MaxRequests: 10000}
}

// request performs an HTTP round trip against the test app and decodes
// the JSON body into a map.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

// createUser inserts a user directly and returns it with a valid token.
func (e *testEnv) createUser(t *testing.T, username, role string) (models.User, string) {
	t.Helper()

	hashed, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hashed,
		Role:     role,
	}
	require.NoError(t, e.db.Create(&user).Error)

	if role == models.RoleSupplier {
		require.NoError(t, e.db.Create(&models.Supplier{
			UserID:      user.ID,
			CompanyName: username + " Ltd",
		}).Error)
	}

	token, err := utils.GenerateToken(testSecret, user.ID, user.Role, time.Hour)
	require.NoError(t, err)
	return user, token
}

// createProduct inserts a product owned by the given supplier user.
func (e *testEnv) createProduct(t *testing.T, supplierUser models.User, name string, price float64) models.Product {
	t.Helper()

	var supplier models.Supplier
	require.NoError(t, e.db.Where("user_id = ?", supplierUser.ID).First(&supplier).Error)

	product := models.Product{
		SupplierID:  supplier.ID,
		Name:        name,
		Description: "test product",
		Price:       decimal.NewFromFloat(price),
		Attributes:  datatypes.JSONMap{"category": "test"},
	}
	require.NoError(t, e.db.Create(&product).Error)
	return product
}
