package handlers

import (
	"fmt"
	"testing"

	"procurement_backend/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAllProducts(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	supplier, _ := env.createUser(t, "supplier1", "supplier")
	env.createProduct(t, supplier, "Product 1", 10.00)
	env.createProduct(t, supplier, "Product 2", 20.00)

	code, body := env.request(t, fiber.MethodGet, "/products", "", nil)
	require.Equal(t, fiber.StatusOK, code)

	data, ok := body["data"].([]interface{})
	require.True(t, ok)

	names := map[string]bool{}
	for _, raw := range data {
		product := raw.(map[string]interface{})
		names[product["name"].(string)] = true
	}
	assert.True(t, names["Product 1"])
	assert.True(t, names["Product 2"])

	meta := body["meta"].(map[string]interface{})
	assert.EqualValues(t, 2, meta["total"])
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	supplier, _ := env.createUser(t, "supplier1", "supplier")
	product := env.createProduct(t, supplier, "Widget", 3.50)

	code, body := env.request(t, fiber.MethodGet, fmt.Sprintf("/products/%d", product.ID), "", nil)
	require.Equal(t, fiber.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Widget", data["name"])
	assert.Equal(t, "3.5", data["price"])
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())

	code, _ := env.request(t, fiber.MethodGet, "/products/99999", "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestCreateProductSupplierOnly(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	_, supplierToken := env.createUser(t, "supplier1", "supplier")
	_, customerToken := env.createUser(t, "customer1", "customer")

	payload := fiber.Map{
		"name":        "Stapler",
		"description": "Heavy duty",
		"price":       "7.25",
		"attributes":  fiber.Map{"category": "office"},
	}

	code, body := env.request(t, fiber.MethodPost, "/products", supplierToken, payload)
	require.Equal(t, fiber.StatusCreated, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Stapler", data["name"])

	code, _ = env.request(t, fiber.MethodPost, "/products", customerToken, payload)
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	_, token := env.createUser(t, "supplier1", "supplier")

	code, _ := env.request(t, fiber.MethodPost, "/products", token, fiber.Map{
		"name":  "",
		"price": "5.00",
	})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = env.request(t, fiber.MethodPost, "/products", token, fiber.Map{
		"name":  "Bad price",
		"price": "-1.00",
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

// Listing pages are cached per full URL: asking for page 2 right after
// page 1 must return page 2's rows, not the cached page-1 body.
func TestGetAllProductsPaginationNotCrossCached(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	supplier, _ := env.createUser(t, "supplier1", "supplier")
	env.createProduct(t, supplier, "Product 1", 1.00)
	env.createProduct(t, supplier, "Product 2", 2.00)
	env.createProduct(t, supplier, "Product 3", 3.00)

	code, body := env.request(t, fiber.MethodGet, "/products?limit=2&page=1", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	page1 := body["data"].([]interface{})
	require.Len(t, page1, 2)

	code, body = env.request(t, fiber.MethodGet, "/products?limit=2&page=2", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	page2 := body["data"].([]interface{})
	require.Len(t, page2, 1)
	assert.Equal(t, "Product 3", page2[0].(map[string]interface{})["name"])

	// The repeat of page 1 stays page 1.
	code, body = env.request(t, fiber.MethodGet, "/products?limit=2&page=1", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body["data"].([]interface{}), 2)

	meta := body["meta"].(map[string]interface{})
	assert.EqualValues(t, 1, meta["current_page"])
}

func TestProductRateLimit(t *testing.T) {
	env := newTestEnv(t, middleware.RatePolicy{WindowSeconds: 60, MaxRequests: 100})

	for i := 0; i < 100; i++ {
		code, _ := env.request(t, fiber.MethodGet, "/products", "", nil)
		require.Equal(t, fiber.StatusOK, code, "request %d should pass", i+1)
	}

	code, _ := env.request(t, fiber.MethodGet, "/products", "", nil)
	assert.Equal(t, fiber.StatusTooManyRequests, code)
}
