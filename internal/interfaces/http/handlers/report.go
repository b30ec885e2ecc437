// internal/interfaces/http/handlers/report.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/warehouse-backend/internal/config"
	"github.com/your-org/warehouse-backend/internal/domain/report"
	"github.com/your-org/warehouse-backend/internal/infrastructure/database/redis"
)

// ReportHandler handles reporting and export endpoints
type ReportHandler struct {
	reportService *report.Service
	config        *config.Config
}

// NewReportHandler creates a new report handler
func NewReportHandler(db *gorm.DB, cache *redis.Client, cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		reportService: report.NewService(db, cache, cfg.Report.DashboardCacheTTL, cfg.Report.TrendDefaultDays),
		config:        cfg,
	}
}

// Dashboard handles GET /reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// SalesTrend handles GET /reports/sales-trend
func (h *ReportHandler) SalesTrend(c *gin.Context) {
	var dateRange report.DateRange
	if err := c.ShouldBindQuery(&dateRange); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	trend, err := h.reportService.SalesTrend(&dateRange)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": trend})
}

// TopSellingItems handles GET /reports/top-selling-items
func (h *ReportHandler) TopSellingItems(c *gin.Context) {
	var dateRange report.DateRange
	if err := c.ShouldBindQuery(&dateRange); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, err := h.reportService.TopSellingItems(&dateRange, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// TopCustomers handles GET /reports/top-customers
func (h *ReportHandler) TopCustomers(c *gin.Context) {
	var dateRange report.DateRange
	if err := c.ShouldBindQuery(&dateRange); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	customers, err := h.reportService.TopCustomers(&dateRange, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": customers})
}

// ProfitAnalysis handles GET /reports/profit-analysis
func (h *ReportHandler) ProfitAnalysis(c *gin.Context) {
	var dateRange report.DateRange
	if err := c.ShouldBindQuery(&dateRange); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	analysis, err := h.reportService.ProfitAnalysis(&dateRange)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": analysis})
}

// ExportInventory handles GET /reports/inventory/export
func (h *ReportHandler) ExportInventory(c *gin.Context) {
	warehouseID, _ := strconv.ParseUint(c.Query("warehouse_id"), 10, 32)

	file, err := h.reportService.ExportInventory(uint(warehouseID))
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
