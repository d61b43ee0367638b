// procurectl is the operator tool: bulk catalog import/export and the
// order status changes the storefront UI does not expose.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"procurement_backend/config"
	"procurement_backend/internal/csvsync"
	"procurement_backend/internal/notify"
	"procurement_backend/internal/orders"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  procurectl export -file <path>
  procurectl import -file <path>
  procurectl set-status -order <id> -status <pending|confirmed|shipped|delivered>`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

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

	switch os.Args[1] {
	case "export":
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		file := fs.String("file", "", "destination CSV file")
		fs.Parse(os.Args[2:])
		if *file == "" {
			usage()
		}
		if err := csvsync.ExportProducts(db, *file, logger); err != nil {
			logger.Fatal("Export failed", zap.Error(err))
		}

	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		file := fs.String("file", "", "source CSV file")
		fs.Parse(os.Args[2:])
		if *file == "" {
			usage()
		}
		if err := csvsync.ImportProducts(db, *file, logger); err != nil {
			logger.Fatal("Import failed", zap.Error(err))
		}

	case "set-status":
		fs := flag.NewFlagSet("set-status", flag.ExitOnError)
		orderID := fs.Uint("order", 0, "order id")
		status := fs.String("status", "", "new status")
		fs.Parse(os.Args[2:])
		if *orderID == 0 || *status == "" {
			usage()
		}

		publisher, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.NotifyQueue, logger)
		if err != nil {
			logger.Fatal("Failed to create notification publisher", zap.Error(err))
		}
		defer publisher.Close()

		service := orders.NewService(db, publisher, logger)
		order, err := service.SetStatus(context.Background(), *orderID, *status)
		if err != nil {
			logger.Fatal("Status update failed", zap.Error(err))
		}
		fmt.Printf("order #%d status set to %s\n", order.ID, order.Status)

	default:
		usage()
	}
}
