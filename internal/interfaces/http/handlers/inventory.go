// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/warehouse-backend/internal/config"
	"github.com/your-org/warehouse-backend/internal/domain/inventory"
)

// InventoryHandler handles warehouse, stock and ledger endpoints
type InventoryHandler struct {
	inventoryService *inventory.Service
	config           *config.Config
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(db *gorm.DB, cfg *config.Config) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventory.NewService(db, cfg),
		config:           cfg,
	}
}

// WAREHOUSE ENDPOINTS

// CreateWarehouse handles POST /warehouses
func (h *InventoryHandler) CreateWarehouse(c *gin.Context) {
	var req inventory.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	warehouse, err := h.inventoryService.CreateWarehouse(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Warehouse created successfully",
		"data":    warehouse,
	})
}

// GetWarehouse handles GET /warehouses/:id
func (h *InventoryHandler) GetWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	warehouse, err := h.inventoryService.GetWarehouse(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": warehouse})
}

// ListWarehouses handles GET /warehouses
func (h *InventoryHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.inventoryService.ListWarehouses()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": warehouses})
}

// UpdateWarehouse handles PUT /warehouses/:id
func (h *InventoryHandler) UpdateWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	warehouse, err := h.inventoryService.UpdateWarehouse(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouse updated successfully",
		"data":    warehouse,
	})
}

// DeleteWarehouse handles DELETE /warehouses/:id
func (h *InventoryHandler) DeleteWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteWarehouse(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouse deleted successfully",
	})
}

// STOCK ENDPOINTS

// ListStock handles GET /inventory
func (h *InventoryHandler) ListStock(c *gin.Context) {
	var req inventory.StockListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	stock, err := h.inventoryService.ListStock(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stock})
}

// Adjust handles POST /inventory/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req inventory.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	transaction, err := h.inventoryService.Adjust(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock adjusted successfully",
		"data":    transaction,
	})
}

// Transfer handles POST /inventory/transfer
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req inventory.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	referenceNo, err := h.inventoryService.Transfer(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Stock transferred successfully",
		"reference_no": referenceNo,
	})
}

// ListTransactions handles GET /inventory/transactions
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	var req inventory.TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	result, err := h.inventoryService.ListTransactions(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Alerts handles GET /inventory/alerts
func (h *InventoryHandler) Alerts(c *gin.Context) {
	alerts, err := h.inventoryService.Alerts()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": alerts})
}
