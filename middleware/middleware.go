package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RatePolicy is the request budget applied to the catalog endpoints.
type RatePolicy struct {
	WindowSeconds int
	MaxRequests   int
}

// SetupMiddleware configures all application middleware
func SetupMiddleware(app *fiber.App) {
	// Request ID middleware - adds unique ID to each request
	app.Use(requestid.New())

	// Logger middleware - logs all requests
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${method} ${path} - ${ip} - ${latency}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	// Recover middleware - recovers from panics
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Security middleware
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: false,
		ExposeHeaders:    "X-Request-ID",
		MaxAge:           86400, // 24 hours
	}))
}

// CatalogLimiter throttles catalog reads per caller identity. Counters
// live in the limiter's storage (in-memory unless one is plugged in),
// keyed by bearer token when present and client IP otherwise.
func CatalogLimiter(policy RatePolicy) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        policy.MaxRequests,
		Expiration: time.Duration(policy.WindowSeconds) * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if auth := c.Get("Authorization"); auth != "" {
				return auth
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Request limit exceeded, try again later",
			})
		},
	})
}

// CatalogCache caches product listing responses for a bounded window.
// Purely an optimization; staleness within the window is acceptable.
func CatalogCache(seconds int) fiber.Handler {
	return cache.New(cache.Config{
		Expiration:   time.Duration(seconds) * time.Second,
		CacheControl: true,
		// Key on the full URL: pagination and search queries must not
		// share a cache entry.
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.OriginalURL()
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Method() != fiber.MethodGet
		},
	})
}
