// internal/domain/inventory/entity.go
package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a stock movement
type TransactionType string

const (
	TransactionTypeIn  TransactionType = "IN"
	TransactionTypeOut TransactionType = "OUT"
)

// ReferenceType represents the originating document of a stock movement
type ReferenceType string

const (
	ReferencePurchase ReferenceType = "PURCHASE"
	ReferenceSales    ReferenceType = "SALES"
	ReferenceTransfer ReferenceType = "TRANSFER"
	ReferenceAdjust   ReferenceType = "ADJUST"
)

// AlertType categorizes a stock alert row
type AlertType string

const (
	AlertOutOfStock AlertType = "out_of_stock"
	AlertLowStock   AlertType = "low_stock"
	AlertOverstock  AlertType = "overstock"
)

// Warehouse represents a storage location
type Warehouse struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Name      string    `gorm:"not null;size:200" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Manager   string    `gorm:"size:100" json:"manager"`
	Status    string    `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stock represents on-hand quantities for an item in a warehouse.
// quantity = available_quantity + reserved_quantity after every mutation.
type Stock struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	ItemID            uint            `gorm:"not null;uniqueIndex:idx_stock_item_warehouse" json:"item_id"`
	WarehouseID       uint            `gorm:"not null;uniqueIndex:idx_stock_item_warehouse" json:"warehouse_id"`
	Quantity          int             `gorm:"default:0" json:"quantity"`
	AvailableQuantity int             `gorm:"default:0" json:"available_quantity"`
	ReservedQuantity  int             `gorm:"default:0" json:"reserved_quantity"`
	AvgCost           decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"avg_cost"`
	LastUpdated       time.Time       `gorm:"autoUpdateTime" json:"last_updated"`
}

// Transaction is an immutable record of a single stock movement.
// OUT movements carry negative quantities, so the signed sum of all
// transactions for an (item, warehouse) pair equals the stock quantity.
type Transaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ItemID          uint            `gorm:"not null;index" json:"item_id"`
	WarehouseID     uint            `gorm:"not null;index" json:"warehouse_id"`
	Type            TransactionType `gorm:"column:transaction_type;size:20;not null" json:"transaction_type"`
	ReferenceNo     string          `gorm:"size:50" json:"reference_no"`
	ReferenceType   ReferenceType   `gorm:"size:20" json:"reference_type"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_cost"`
	TransactionDate time.Time       `gorm:"autoCreateTime" json:"transaction_date"`
	Remarks         string          `gorm:"type:text" json:"remarks"`
}

// TableName overrides
func (Warehouse) TableName() string   { return "warehouses" }
func (Stock) TableName() string       { return "inventory" }
func (Transaction) TableName() string { return "inventory_transactions" }

// IsOutOfStock reports whether the row has no stock on hand
func (s *Stock) IsOutOfStock() bool {
	return s.Quantity <= 0
}

// CanFulfill reports whether enough stock is available for the quantity
func (s *Stock) CanFulfill(quantity int) bool {
	return s.AvailableQuantity >= quantity
}
