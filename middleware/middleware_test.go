package middleware

import (
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCachedEchoApp serves the page query through CatalogCache and counts
// how often the handler itself runs.
func newCachedEchoApp(seconds int) (*fiber.App, *int64) {
	var hits int64
	app := fiber.New()
	app.Get("/products", CatalogCache(seconds), func(c *fiber.Ctx) error {
		atomic.AddInt64(&hits, 1)
		return c.SendString("page=" + c.Query("page", "1"))
	})
	return app, &hits
}

func get(t *testing.T, app *fiber.App, url string) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, url, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// Different query strings must never share a cache entry: page 2 asked
// for right after page 1 has to be page 2, not a replay of page 1.
func TestCatalogCacheKeysIncludeQuery(t *testing.T) {
	app, _ := newCachedEchoApp(900)

	assert.Equal(t, "page=1", get(t, app, "/products?page=1"))
	assert.Equal(t, "page=2", get(t, app, "/products?page=2"))
}

func TestCatalogCacheServesRepeatsFromCache(t *testing.T) {
	app, hits := newCachedEchoApp(900)

	assert.Equal(t, "page=1", get(t, app, "/products?page=1"))
	assert.Equal(t, "page=1", get(t, app, "/products?page=1"))
	assert.EqualValues(t, 1, atomic.LoadInt64(hits), "repeat within the window must be served cached")

	// A different query is a miss, not a replay.
	assert.Equal(t, "page=3", get(t, app, "/products?page=3"))
	assert.EqualValues(t, 2, atomic.LoadInt64(hits))
}
