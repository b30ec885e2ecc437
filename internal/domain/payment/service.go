// internal/domain/payment/service.go
package payment

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/your-org/warehouse-backend/internal/pkg/apperrors"
)

// Service handles payment records and installment plans. It updates the sales
// order payment summary through the sales_orders table directly so the ledger
// stays usable from both the HTTP layer and the sales service.
type Service struct {
	db *gorm.DB
}

// NewService creates a new payment service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RecordPaymentRequest registers a payment against an order
type RecordPaymentRequest struct {
	OrderID        uint            `json:"order_id" binding:"required"`
	OrderType      string          `json:"order_type"`
	PaymentMethod  string          `json:"payment_method" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	ChangeAmount   decimal.Decimal `json:"change_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	RoundAmount    decimal.Decimal `json:"round_amount"`
	Remarks        string          `json:"remarks"`
}

// CreatePlanRequest creates an installment plan for an order
type CreatePlanRequest struct {
	OrderID      uint            `json:"order_id" binding:"required"`
	TotalAmount  decimal.Decimal `json:"total_amount" binding:"required"`
	Installments int             `json:"installments" binding:"required"`
	FirstPayment decimal.Decimal `json:"first_payment"`
}

// PayInstallmentRequest pays toward a single installment
type PayInstallmentRequest struct {
	PaymentMethod string          `json:"payment_method" binding:"required"`
	PaidAmount    decimal.Decimal `json:"paid_amount" binding:"required"`
	Remarks       string          `json:"remarks"`
}

// PendingInstallment is an unpaid installment with order context
type PendingInstallment struct {
	Installment
	OrderNo      string `json:"order_no"`
	CustomerName string `json:"customer_name"`
}

type orderPaymentState struct {
	PaidAmount  decimal.Decimal
	FinalAmount decimal.Decimal
}

// RecordPayment inserts a payment record and rolls the received amount into
// the order's paid total, flipping the payment status when fully covered.
func (s *Service) RecordPayment(req *RecordPaymentRequest) (*Record, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.Validation("payment amount must be positive")
	}

	orderType := req.OrderType
	if orderType == "" {
		orderType = "sales"
	}
	received := req.ReceivedAmount
	if received.IsZero() {
		received = req.Amount
	}

	record := &Record{
		OrderID:        req.OrderID,
		OrderType:      orderType,
		PaymentMethod:  req.PaymentMethod,
		Amount:         req.Amount,
		ReceivedAmount: received,
		ChangeAmount:   req.ChangeAmount,
		DiscountAmount: req.DiscountAmount,
		RoundAmount:    req.RoundAmount,
		Remarks:        req.Remarks,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The increment is a single SQL expression so two concurrent
		// payments cannot overwrite each other's accumulation.
		result := tx.Table("sales_orders").Where("id = ?", req.OrderID).
			Update("paid_amount", gorm.Expr("paid_amount + ?", received))
		if result.Error != nil {
			return apperrors.Persistence("failed to update order paid amount", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("sales order %d not found", req.OrderID)
		}

		if err := tx.Create(record).Error; err != nil {
			return apperrors.Persistence("failed to create payment record", err)
		}

		// Re-read the incremented row; the status derives from the stored
		// total, never from a pre-increment snapshot.
		var state orderPaymentState
		if err := tx.Table("sales_orders").
			Select("paid_amount, final_amount").
			Where("id = ?", req.OrderID).
			Take(&state).Error; err != nil {
			return apperrors.Persistence("failed to load order", err)
		}

		status := "partial"
		if state.PaidAmount.GreaterThanOrEqual(state.FinalAmount) {
			status = "paid"
		}
		if err := tx.Table("sales_orders").Where("id = ?", req.OrderID).
			Update("payment_status", status).Error; err != nil {
			return apperrors.Persistence("failed to update order payment status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// CreatePlan splits the outstanding amount into equal installments, rounding
// each to 2 decimals with the final installment absorbing the remainder so
// the sum always equals the outstanding amount exactly.
func (s *Service) CreatePlan(req *CreatePlanRequest) ([]Installment, error) {
	if req.Installments < 2 {
		return nil, apperrors.Validation("installment count must be at least 2")
	}
	if !req.TotalAmount.IsPositive() {
		return nil, apperrors.Validation("total amount must be positive")
	}
	if req.FirstPayment.IsNegative() || req.FirstPayment.GreaterThan(req.TotalAmount) {
		return nil, apperrors.Validation("first payment must be between 0 and the total amount")
	}

	remaining := req.TotalAmount.Sub(req.FirstPayment)
	count := decimal.NewFromInt(int64(req.Installments))
	perInstallment := remaining.Div(count).Round(2)
	lastInstallment := remaining.Sub(perInstallment.Mul(decimal.NewFromInt(int64(req.Installments - 1))))

	var plan []Installment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		status := "unpaid"
		if req.FirstPayment.IsPositive() {
			status = "partial"
		}
		result := tx.Table("sales_orders").Where("id = ?", req.OrderID).
			Updates(map[string]interface{}{
				"payment_type":   "installment",
				"payment_status": status,
				"paid_amount":    req.FirstPayment,
			})
		if result.Error != nil {
			return apperrors.Persistence("failed to update order payment type", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("sales order %d not found", req.OrderID)
		}

		now := time.Now()
		for i := 1; i <= req.Installments; i++ {
			amount := perInstallment
			if i == req.Installments {
				amount = lastInstallment
			}
			installment := Installment{
				OrderID:           req.OrderID,
				InstallmentNo:     i,
				TotalInstallments: req.Installments,
				Amount:            amount,
				DueDate:           now.AddDate(0, i, 0),
				Status:            InstallmentStatusPending,
			}
			if err := tx.Create(&installment).Error; err != nil {
				return apperrors.Persistence("failed to create installment", err)
			}
			plan = append(plan, installment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// PayInstallment applies a payment to one installment and propagates the
// amount to the order. The order flips to paid only when every installment
// of the plan is paid.
func (s *Service) PayInstallment(installmentID uint, req *PayInstallmentRequest) (*Installment, error) {
	if !req.PaidAmount.IsPositive() {
		return nil, apperrors.Validation("paid amount must be positive")
	}

	var installment Installment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Accumulate in SQL so a concurrent payment against the same
		// installment cannot be lost to a stale read.
		result := tx.Model(&Installment{}).Where("id = ?", installmentID).
			Updates(map[string]interface{}{
				"paid_amount":    gorm.Expr("paid_amount + ?", req.PaidAmount),
				"payment_method": req.PaymentMethod,
				"remarks":        req.Remarks,
			})
		if result.Error != nil {
			return apperrors.Persistence("failed to update installment", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("installment %d not found", installmentID)
		}

		if err := tx.First(&installment, installmentID).Error; err != nil {
			return apperrors.Persistence("failed to load installment", err)
		}

		status := InstallmentStatusPartial
		updates := map[string]interface{}{"status": status}
		if installment.PaidAmount.GreaterThanOrEqual(installment.Amount) {
			status = InstallmentStatusPaid
			now := time.Now()
			updates["status"] = status
			updates["paid_date"] = &now
			installment.PaidDate = &now
		}
		if err := tx.Model(&Installment{}).Where("id = ?", installment.ID).
			Updates(updates).Error; err != nil {
			return apperrors.Persistence("failed to update installment", err)
		}
		installment.Status = status

		if err := tx.Table("sales_orders").Where("id = ?", installment.OrderID).
			Update("paid_amount", gorm.Expr("paid_amount + ?", req.PaidAmount)).Error; err != nil {
			return apperrors.Persistence("failed to update order paid amount", err)
		}

		var unpaid int64
		if err := tx.Model(&Installment{}).
			Where("order_id = ? AND status != ?", installment.OrderID, InstallmentStatusPaid).
			Count(&unpaid).Error; err != nil {
			return apperrors.Persistence("failed to count unpaid installments", err)
		}
		paymentStatus := "partial"
		if unpaid == 0 {
			paymentStatus = "paid"
		}
		if err := tx.Table("sales_orders").Where("id = ?", installment.OrderID).
			Update("payment_status", paymentStatus).Error; err != nil {
			return apperrors.Persistence("failed to update order payment status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &installment, nil
}

// ListByOrder returns all payment records for an order, newest first
func (s *Service) ListByOrder(orderID uint) ([]Record, error) {
	var records []Record
	if err := s.db.Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, apperrors.Persistence("failed to list payment records", err)
	}
	return records, nil
}

// ListInstallments returns an order's installment plan in installment order
func (s *Service) ListInstallments(orderID uint) ([]Installment, error) {
	var installments []Installment
	if err := s.db.Where("order_id = ?", orderID).
		Order("installment_no ASC").
		Find(&installments).Error; err != nil {
		return nil, apperrors.Persistence("failed to list installments", err)
	}
	return installments, nil
}

// PendingInstallments returns unpaid installments across all orders, soonest
// due first
func (s *Service) PendingInstallments() ([]PendingInstallment, error) {
	var pending []PendingInstallment
	err := s.db.Table("installment_payments ip").
		Select("ip.*, so.order_no, c.name AS customer_name").
		Joins("LEFT JOIN sales_orders so ON so.id = ip.order_id").
		Joins("LEFT JOIN customers c ON c.id = so.customer_id").
		Where("ip.status != ?", InstallmentStatusPaid).
		Order("ip.due_date ASC").
		Scan(&pending).Error
	if err != nil {
		return nil, apperrors.Persistence("failed to list pending installments", err)
	}
	return pending, nil
}
