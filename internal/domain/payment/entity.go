// internal/domain/payment/entity.go
package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus represents the state of a single installment
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPartial InstallmentStatus = "partial"
	InstallmentStatusPaid    InstallmentStatus = "paid"
	InstallmentStatusOverdue InstallmentStatus = "overdue"
)

// Record represents a received payment against a sales order
type Record struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrderID        uint            `gorm:"not null;index" json:"order_id"`
	OrderType      string          `gorm:"size:20;default:'sales'" json:"order_type"`
	PaymentMethod  string          `gorm:"size:50;not null" json:"payment_method"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	ReceivedAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"received_amount"`
	ChangeAmount   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"change_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount_amount"`
	RoundAmount    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"round_amount"`
	PaymentDate    time.Time       `gorm:"autoCreateTime" json:"payment_date"`
	Remarks        string          `gorm:"type:text" json:"remarks"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Installment represents one scheduled payment of an installment plan
type Installment struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	OrderID           uint              `gorm:"not null;index" json:"order_id"`
	InstallmentNo     int               `gorm:"not null" json:"installment_no"`
	TotalInstallments int               `gorm:"not null" json:"total_installments"`
	DueDate           time.Time         `gorm:"not null" json:"due_date"`
	Amount            decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaidAmount        decimal.Decimal   `gorm:"type:decimal(12,2);default:0" json:"paid_amount"`
	Status            InstallmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	PaidDate          *time.Time        `json:"paid_date"`
	PaymentMethod     string            `gorm:"size:50" json:"payment_method"`
	Remarks           string            `gorm:"type:text" json:"remarks"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// TableName overrides
func (Record) TableName() string      { return "payment_records" }
func (Installment) TableName() string { return "installment_payments" }

// Outstanding returns the unpaid remainder of this installment
func (i *Installment) Outstanding() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}
