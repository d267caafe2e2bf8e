package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pyme/backend/internal/domain/ledger"
	"github.com/pyme/backend/internal/infrastructure/persistence/models"
)

// GormSnapshotRepository implements ledger.SnapshotRepository using GORM.
// Load reads the five collections inside one read transaction so the
// snapshot is internally consistent even while writes are in flight.
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// AutoMigrate creates or updates the ledger tables.
func (r *GormSnapshotRepository) AutoMigrate() error {
	return r.db.AutoMigrate(models.LedgerModels()...)
}

// Load materializes all five record collections.
func (r *GormSnapshotRepository) Load(ctx context.Context) (*ledger.Snapshot, error) {
	snapshot := &ledger.Snapshot{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var saleModels []models.SaleModel
		if err := tx.Preload("Items").Order("date").Find(&saleModels).Error; err != nil {
			return fmt.Errorf("loading sales: %w", err)
		}
		snapshot.Sales = make([]ledger.Sale, 0, len(saleModels))
		for i := range saleModels {
			snapshot.Sales = append(snapshot.Sales, saleModels[i].ToDomain())
		}

		var purchaseModels []models.PurchaseModel
		if err := tx.Preload("Items").Order("date").Find(&purchaseModels).Error; err != nil {
			return fmt.Errorf("loading purchases: %w", err)
		}
		snapshot.Purchases = make([]ledger.Purchase, 0, len(purchaseModels))
		for i := range purchaseModels {
			snapshot.Purchases = append(snapshot.Purchases, purchaseModels[i].ToDomain())
		}

		var expenseModels []models.ExpenseModel
		if err := tx.Order("date").Find(&expenseModels).Error; err != nil {
			return fmt.Errorf("loading expenses: %w", err)
		}
		snapshot.Expenses = make([]ledger.Expense, 0, len(expenseModels))
		for i := range expenseModels {
			snapshot.Expenses = append(snapshot.Expenses, expenseModels[i].ToDomain())
		}

		var productModels []models.ProductModel
		if err := tx.Find(&productModels).Error; err != nil {
			return fmt.Errorf("loading products: %w", err)
		}
		snapshot.Products = make([]ledger.Product, 0, len(productModels))
		for i := range productModels {
			snapshot.Products = append(snapshot.Products, productModels[i].ToDomain())
		}

		var clientModels []models.ClientModel
		if err := tx.Find(&clientModels).Error; err != nil {
			return fmt.Errorf("loading clients: %w", err)
		}
		snapshot.Clients = make([]ledger.Client, 0, len(clientModels))
		for i := range clientModels {
			snapshot.Clients = append(snapshot.Clients, clientModels[i].ToDomain())
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}
