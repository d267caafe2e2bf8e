package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pyme/backend/internal/domain/ledger"
)

// SaleModel is the persistence model for sales documents.
type SaleModel struct {
	BaseModel
	Date       time.Time       `gorm:"not null;index"`
	DueDate    *time.Time      `gorm:"index"`
	ClientID   *uuid.UUID      `gorm:"type:uuid;index"`
	ClientName string          `gorm:"size:255"`
	Status     string          `gorm:"size:16;not null;index"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IGV        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Items      []SaleItemModel `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for SaleModel
func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel is the persistence model for sale line items.
type SaleItemModel struct {
	BaseModel
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index"`
	ProductName string          `gorm:"size:255;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName specifies the table name for SaleItemModel
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain Sale record.
func (m *SaleModel) ToDomain() ledger.Sale {
	items := make([]ledger.SaleItem, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, m.Items[i].ToDomain())
	}
	return ledger.Sale{
		ID:         m.ID,
		Date:       m.Date,
		DueDate:    m.DueDate,
		ClientID:   uuidOrNil(m.ClientID),
		ClientName: m.ClientName,
		Status:     ledger.SaleStatus(m.Status),
		Items:      items,
		Subtotal:   m.Subtotal,
		IGV:        m.IGV,
		Total:      m.Total,
	}
}

// ToDomain converts the persistence model to a domain SaleItem.
func (m *SaleItemModel) ToDomain() ledger.SaleItem {
	return ledger.SaleItem{
		ProductID:   uuidOrNil(m.ProductID),
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		UnitCost:    m.UnitCost,
		Subtotal:    m.Subtotal,
	}
}

// PurchaseModel is the persistence model for supplier purchase documents.
type PurchaseModel struct {
	BaseModel
	Date         time.Time           `gorm:"not null;index"`
	DueDate      *time.Time          `gorm:"index"`
	PaymentDate  *time.Time          `gorm:"index"`
	SupplierID   *uuid.UUID          `gorm:"type:uuid;index"`
	SupplierName string              `gorm:"size:255"`
	Status       string              `gorm:"size:16;not null;index"`
	Subtotal     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	IGV          decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Total        decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Items        []PurchaseItemModel `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for PurchaseModel
func (PurchaseModel) TableName() string {
	return "purchases"
}

// PurchaseItemModel is the persistence model for purchase line items.
type PurchaseItemModel struct {
	BaseModel
	PurchaseID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index"`
	ProductName string          `gorm:"size:255;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName specifies the table name for PurchaseItemModel
func (PurchaseItemModel) TableName() string {
	return "purchase_items"
}

// ToDomain converts the persistence model to a domain Purchase record.
func (m *PurchaseModel) ToDomain() ledger.Purchase {
	items := make([]ledger.PurchaseItem, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, ledger.PurchaseItem{
			ProductID:   uuidOrNil(m.Items[i].ProductID),
			ProductName: m.Items[i].ProductName,
			Quantity:    m.Items[i].Quantity,
			UnitCost:    m.Items[i].UnitCost,
		})
	}
	return ledger.Purchase{
		ID:           m.ID,
		Date:         m.Date,
		DueDate:      m.DueDate,
		PaymentDate:  m.PaymentDate,
		SupplierID:   uuidOrNil(m.SupplierID),
		SupplierName: m.SupplierName,
		Status:       ledger.PurchaseStatus(m.Status),
		Items:        items,
		Subtotal:     m.Subtotal,
		IGV:          m.IGV,
		Total:        m.Total,
	}
}

// ExpenseModel is the persistence model for operating expenses.
type ExpenseModel struct {
	BaseModel
	Date        time.Time       `gorm:"not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Category    string          `gorm:"size:100;index"`
	Description string          `gorm:"size:500"`
}

// TableName specifies the table name for ExpenseModel
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense record.
func (m *ExpenseModel) ToDomain() ledger.Expense {
	return ledger.Expense{
		ID:          m.ID,
		Date:        m.Date,
		Amount:      m.Amount,
		Category:    m.Category,
		Description: m.Description,
	}
}

// ProductModel is the persistence model for catalog products.
type ProductModel struct {
	BaseModel
	Name     string          `gorm:"size:255;not null"`
	Category string          `gorm:"size:100;index"`
	Stock    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Cost     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Price    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status   string          `gorm:"size:16;not null;index"`
}

// TableName specifies the table name for ProductModel
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product record.
func (m *ProductModel) ToDomain() ledger.Product {
	return ledger.Product{
		ID:       m.ID,
		Name:     m.Name,
		Category: m.Category,
		Stock:    m.Stock,
		Cost:     m.Cost,
		Price:    m.Price,
		Status:   ledger.ProductStatus(m.Status),
	}
}

// ClientModel is the persistence model for customer master records.
type ClientModel struct {
	BaseModel
	Name  string `gorm:"size:255;not null"`
	Email string `gorm:"size:255"`
	Phone string `gorm:"size:50"`
}

// TableName specifies the table name for ClientModel
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client record.
func (m *ClientModel) ToDomain() ledger.Client {
	return ledger.Client{
		ID:    m.ID,
		Name:  m.Name,
		Email: m.Email,
		Phone: m.Phone,
	}
}

// uuidOrNil maps a nullable foreign key to the domain convention of uuid.Nil
// for "not tracked".
func uuidOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

// LedgerModels lists every model participating in auto-migration.
func LedgerModels() []any {
	return []any{
		&SaleModel{},
		&SaleItemModel{},
		&PurchaseModel{},
		&PurchaseItemModel{},
		&ExpenseModel{},
		&ProductModel{},
		&ClientModel{},
	}
}
