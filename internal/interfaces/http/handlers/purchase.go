// internal/interfaces/http/handlers/purchase.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/warehouse-backend/internal/config"
	"github.com/your-org/warehouse-backend/internal/domain/inventory"
	"github.com/your-org/warehouse-backend/internal/domain/purchase"
)

// PurchaseHandler handles purchase order endpoints
type PurchaseHandler struct {
	purchaseService *purchase.Service
	config          *config.Config
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(db *gorm.DB, cfg *config.Config) *PurchaseHandler {
	inventorySvc := inventory.NewService(db, cfg)
	return &PurchaseHandler{
		purchaseService: purchase.NewService(db, inventorySvc),
		config:          cfg,
	}
}

// CreateOrder handles POST /purchases
func (h *PurchaseHandler) CreateOrder(c *gin.Context) {
	var req purchase.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := h.purchaseService.CreateOrder(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Purchase order created successfully",
		"data":    order,
	})
}

// ReceiveOrder handles POST /purchases/:id/receive
func (h *PurchaseHandler) ReceiveOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req purchase.ReceiveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := h.purchaseService.ReceiveOrder(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Goods received successfully",
		"data":    order,
	})
}

// GetOrder handles GET /purchases/:id
func (h *PurchaseHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, items, err := h.purchaseService.GetOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  order,
		"items": items,
	})
}

// ListOrders handles GET /purchases
func (h *PurchaseHandler) ListOrders(c *gin.Context) {
	var req purchase.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	orders, total, err := h.purchaseService.ListOrders(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  orders,
		"total": total,
	})
}
