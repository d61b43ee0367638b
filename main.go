package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"procurement_backend/config"
	"procurement_backend/handlers"
	"procurement_backend/internal/notify"
	"procurement_backend/internal/orders"
	"procurement_backend/middleware"
	"procurement_backend/utils"

	"github.com/gofiber/fiber/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := config.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Notification pipeline: publisher on the request path, consumer
	// worker on its own connection.
	publisher, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.NotifyQueue, logger)
	if err != nil {
		logger.Fatal("Failed to create notification publisher", zap.Error(err))
	}
	defer publisher.Close()

	workerConn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		logger.Fatal("Failed to connect notification worker", zap.Error(err))
	}
	defer workerConn.Close()

	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	worker := notify.NewWorker(db, workerConn, cfg.NotifyQueue, mailer, cfg.AdminEmail, 4, logger)
	go worker.Run()

	orderService := orders.NewService(db, publisher, logger)

	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	productHandler := handlers.NewProductHandler(db)
	cartHandler := handlers.NewCartHandler(db)
	orderHandler := handlers.NewOrderHandler(db, orderService)

	app := fiber.New(fiber.Config{
		AppName:      "Procurement Backend",
		ServerHeader: "Procurement Backend Server/1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default 500 statuscode
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			// Retrieve the custom statuscode if it's a *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": msg,
			})
		},
	})

	middleware.SetupMiddleware(app)

	auth := utils.AuthMiddleware(cfg.JWTSecret)

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "API is healthy",
		})
	})

	// Proves the recover/500 path end to end.
	app.Get("/error-test", func(c *fiber.Ctx) error {
		panic("deliberate test failure")
	})

	app.Post("/register", authHandler.Register)
	app.Post("/login", authHandler.Login)

	catalog := app.Group("/products", middleware.CatalogLimiter(middleware.RatePolicy{
		WindowSeconds: cfg.RateLimitWindow,
		MaxRequests:   cfg.RateLimitMax,
	}))
	catalog.Get("/", middleware.CatalogCache(cfg.ProductCacheSecs), productHandler.GetAllProducts)
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

	go func() {
		logger.Info("Server starting",
			zap.String("host", cfg.Host),
			zap.String("port", cfg.AppPort))
		if err := app.Listen(cfg.Host + ":" + cfg.AppPort); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
