// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/warehouse-backend/internal/config"
	"github.com/your-org/warehouse-backend/internal/domain/payment"
)

// PaymentHandler handles payment record and installment endpoints
type PaymentHandler struct {
	paymentService *payment.Service
	config         *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		paymentService: payment.NewService(db),
		config:         cfg,
	}
}

// RecordPayment handles POST /payments
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req payment.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := h.paymentService.RecordPayment(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment recorded successfully",
		"data":    record,
	})
}

// ListByOrder handles GET /payments/order/:orderId
func (h *PaymentHandler) ListByOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	records, err := h.paymentService.ListByOrder(orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}

// CreatePlan handles POST /payments/installment
func (h *PaymentHandler) CreatePlan(c *gin.Context) {
	var req payment.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	plan, err := h.paymentService.CreatePlan(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Installment plan created successfully",
		"data":    plan,
	})
}

// PayInstallment handles POST /payments/installment/:id/pay
func (h *PaymentHandler) PayInstallment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req payment.PayInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	installment, err := h.paymentService.PayInstallment(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Installment paid successfully",
		"data":    installment,
	})
}

// ListInstallments handles GET /payments/installment/order/:orderId
func (h *PaymentHandler) ListInstallments(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	installments, err := h.paymentService.ListInstallments(orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": installments})
}

// PendingInstallments handles GET /payments/installment/pending
func (h *PaymentHandler) PendingInstallments(c *gin.Context) {
	pending, err := h.paymentService.PendingInstallments()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": pending})
}
