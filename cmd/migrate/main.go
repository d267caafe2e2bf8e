package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pyme/backend/internal/infrastructure/config"
	"github.com/pyme/backend/internal/infrastructure/logger"
	"github.com/pyme/backend/internal/infrastructure/persistence"
	"github.com/pyme/backend/internal/infrastructure/persistence/models"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(logLevel))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	switch command {
	case "up":
		if err := db.DB.AutoMigrate(models.LedgerModels()...); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		log.Info("Schema migrated")
	case "seed":
		if err := db.DB.AutoMigrate(models.LedgerModels()...); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		if err := seed(db); err != nil {
			log.Fatal("Seed failed", zap.Error(err))
		}
		log.Info("Demo data seeded")
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: migrate [flags] <command>

Commands:
  up      Create or update the database schema
  seed    Migrate and load a small demo ledger

Flags:
  -log-level   Log level (default: info)`)
}

// seed loads a small but representative ledger: paid and pending documents,
// an operating expense and a low-stock product, enough for every dashboard
// report to produce non-trivial output.
func seed(db *persistence.Database) error {
	now := time.Now()
	day := func(offset int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}
	dec := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	client := models.ClientModel{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      "Bodega El Sol",
		Email:     "ventas@elsol.example",
		Phone:     "+51 999 111 222",
	}
	backpack := models.ProductModel{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      "Mochila escolar",
		Category:  "accesorios",
		Stock:     dec("12"),
		Cost:      dec("35"),
		Price:     dec("60"),
		Status:    "ACTIVE",
	}
	notebook := models.ProductModel{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      "Cuaderno A4",
		Category:  "papeleria",
		Stock:     dec("3"),
		Cost:      dec("4"),
		Price:     dec("8"),
		Status:    "ACTIVE",
	}

	paidDate := day(-20)
	pendingDue := day(10)
	sales := []models.SaleModel{
		{
			BaseModel:  models.BaseModel{ID: uuid.New()},
			Date:       paidDate,
			ClientID:   &client.ID,
			ClientName: client.Name,
			Status:     "PAID",
			Subtotal:   dec("120"),
			IGV:        dec("21.6"),
			Total:      dec("141.6"),
			Items: []models.SaleItemModel{
				{
					BaseModel:   models.BaseModel{ID: uuid.New()},
					ProductID:   &backpack.ID,
					ProductName: backpack.Name,
					Quantity:    dec("2"),
					UnitPrice:   dec("60"),
					UnitCost:    dec("35"),
					Subtotal:    dec("120"),
				},
			},
		},
		{
			BaseModel:  models.BaseModel{ID: uuid.New()},
			Date:       day(-5),
			DueDate:    &pendingDue,
			ClientID:   &client.ID,
			ClientName: client.Name,
			Status:     "PENDING",
			Subtotal:   dec("40"),
			IGV:        dec("7.2"),
			Total:      dec("47.2"),
			Items: []models.SaleItemModel{
				{
					BaseModel:   models.BaseModel{ID: uuid.New()},
					ProductID:   &notebook.ID,
					ProductName: notebook.Name,
					Quantity:    dec("5"),
					UnitPrice:   dec("8"),
					UnitCost:    dec("4"),
					Subtotal:    dec("40"),
				},
			},
		},
	}

	purchaseDue := day(5)
	purchase := models.PurchaseModel{
		BaseModel:    models.BaseModel{ID: uuid.New()},
		Date:         day(-10),
		DueDate:      &purchaseDue,
		SupplierName: "Distribuidora Andina SAC",
		Status:       "PENDING",
		Subtotal:     dec("175"),
		IGV:          dec("31.5"),
		Total:        dec("206.5"),
		Items: []models.PurchaseItemModel{
			{
				BaseModel:   models.BaseModel{ID: uuid.New()},
				ProductID:   &backpack.ID,
				ProductName: backpack.Name,
				Quantity:    dec("5"),
				UnitCost:    dec("35"),
			},
		},
	}

	expense := models.ExpenseModel{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		Date:        day(-15),
		Amount:      dec("80"),
		Category:    "alquiler",
		Description: "Alquiler del local",
	}

	for _, record := range []any{&client, &backpack, &notebook, &purchase, &expense} {
		if err := db.DB.Create(record).Error; err != nil {
			return err
		}
	}
	for i := range sales {
		if err := db.DB.Create(&sales[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
