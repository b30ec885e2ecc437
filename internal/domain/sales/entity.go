// internal/domain/sales/entity.go
package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents sales order fulfillment state
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPartial   OrderStatus = "partial"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus represents how much of the order has been paid
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentType distinguishes one-off payment from installment plans
type PaymentType string

const (
	PaymentTypeFull        PaymentType = "full"
	PaymentTypeInstallment PaymentType = "installment"
)

// Order represents a sales order with its financial summary
type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrderNo        string          `gorm:"uniqueIndex;not null;size:50" json:"order_no"`
	CustomerID     uint            `gorm:"not null;index" json:"customer_id"`
	WarehouseID    uint            `gorm:"not null;index" json:"warehouse_id"`
	OrderDate      time.Time       `gorm:"not null" json:"order_date"`
	DeliveryDate   *time.Time      `json:"delivery_date"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount_amount"`
	RoundAmount    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"round_amount"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"final_amount"`
	TotalCost      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_cost"`
	GrossProfit    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"gross_profit"`
	ProfitMargin   decimal.Decimal `gorm:"type:decimal(8,2);default:0" json:"profit_margin"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"paid_amount"`
	PaymentStatus  PaymentStatus   `gorm:"size:20;default:'unpaid'" json:"payment_status"`
	PaymentType    PaymentType     `gorm:"size:20;default:'full'" json:"payment_type"`
	Status         OrderStatus     `gorm:"size:20;default:'pending'" json:"status"`
	Remarks        string          `gorm:"type:text" json:"remarks"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// OrderItem represents a sales order line. UnitCost is snapshotted from the
// item's purchase price at order creation so later price changes do not
// rewrite historical profit.
type OrderItem struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	OrderID           uint            `gorm:"not null;index" json:"order_id"`
	ItemID            uint            `gorm:"not null;index" json:"item_id"`
	Quantity          int             `gorm:"not null" json:"quantity"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"unit_cost"`
	TotalPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	TotalCost         decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_cost"`
	DeliveredQuantity int             `gorm:"default:0" json:"delivered_quantity"`
	CreatedAt         time.Time       `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "sales_orders" }
func (OrderItem) TableName() string { return "sales_order_items" }

// Outstanding returns the unpaid remainder of the final amount
func (o *Order) Outstanding() decimal.Decimal {
	return o.FinalAmount.Sub(o.PaidAmount)
}
