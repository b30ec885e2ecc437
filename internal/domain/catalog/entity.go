// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus represents the lifecycle status of a catalog item
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
)

// Item represents a stock-keeping item in the catalog
type Item struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Name          string          `gorm:"not null;size:200" json:"name"`
	EnName        string          `gorm:"size:200" json:"en_name"`
	Category      string          `gorm:"size:100;index" json:"category"`
	Unit          string          `gorm:"size:20;default:'pcs'" json:"unit"`
	Description   string          `gorm:"type:text" json:"description"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"purchase_price"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"sale_price"`
	MinStock      int             `gorm:"default:0" json:"min_stock"`
	MaxStock      int             `gorm:"default:0" json:"max_stock"`
	Status        ItemStatus      `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Supplier represents a purchasing counterparty
type Supplier struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Name          string    `gorm:"not null;size:200" json:"name"`
	ContactPerson string    `gorm:"size:100" json:"contact_person"`
	Phone         string    `gorm:"size:20" json:"phone"`
	Email         string    `gorm:"size:100" json:"email"`
	Address       string    `gorm:"type:text" json:"address"`
	TaxNumber     string    `gorm:"size:50" json:"tax_number"`
	PaymentTerms  string    `gorm:"size:50;default:'net_30'" json:"payment_terms"`
	SupplierType  string    `gorm:"size:20;default:'manufacturer'" json:"supplier_type"`
	Status        string    `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Customer represents a sales counterparty
type Customer struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Name          string          `gorm:"not null;size:200" json:"name"`
	ContactPerson string          `gorm:"size:100" json:"contact_person"`
	Phone         string          `gorm:"size:20" json:"phone"`
	Email         string          `gorm:"size:100" json:"email"`
	Address       string          `gorm:"type:text" json:"address"`
	TaxNumber     string          `gorm:"size:50" json:"tax_number"`
	CustomerType  string          `gorm:"size:20;default:'retail'" json:"customer_type"`
	CreditLimit   decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"credit_limit"`
	PaymentTerms  string          `gorm:"size:50;default:'cash'" json:"payment_terms"`
	Status        string          `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName overrides
func (Item) TableName() string     { return "items" }
func (Supplier) TableName() string { return "suppliers" }
func (Customer) TableName() string { return "customers" }
