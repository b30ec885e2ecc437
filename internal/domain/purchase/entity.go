// internal/domain/purchase/entity.go
package purchase

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents purchase order fulfillment state
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPartial   OrderStatus = "partial"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order represents a purchase order against a supplier
type Order struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderNo      string          `gorm:"uniqueIndex;not null;size:50" json:"order_no"`
	SupplierID   uint            `gorm:"not null;index" json:"supplier_id"`
	WarehouseID  uint            `gorm:"not null;index" json:"warehouse_id"`
	OrderDate    time.Time       `gorm:"not null" json:"order_date"`
	ExpectedDate *time.Time      `json:"expected_date"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_amount"`
	Status       OrderStatus     `gorm:"size:20;default:'pending'" json:"status"`
	Remarks      string          `gorm:"type:text" json:"remarks"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// OrderItem represents a purchase order line
type OrderItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	OrderID          uint            `gorm:"not null;index" json:"order_id"`
	ItemID           uint            `gorm:"not null;index" json:"item_id"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	ReceivedQuantity int             `gorm:"default:0" json:"received_quantity"`
	CreatedAt        time.Time       `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "purchase_orders" }
func (OrderItem) TableName() string { return "purchase_order_items" }

// IsFullyReceived reports whether every line has been received in full
func (o *Order) IsFullyReceived() bool {
	for _, item := range o.Items {
		if item.ReceivedQuantity < item.Quantity {
			return false
		}
	}
	return len(o.Items) > 0
}
