// internal/domain/report/service.go
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/your-org/warehouse-backend/internal/infrastructure/database/redis"
	"github.com/your-org/warehouse-backend/internal/pkg/apperrors"
)

const dashboardCacheKey = "report:dashboard"

// Service builds aggregated reports over the inventory and order tables.
// Dashboard results are cached in Redis since they join several tables on
// every call.
type Service struct {
	db          *gorm.DB
	cache       *redis.Client
	cacheTTL    time.Duration
	defaultDays int
}

// NewService creates a new report service. cache may be nil, in which case
// every call recomputes.
func NewService(db *gorm.DB, cache *redis.Client, cacheTTL time.Duration, defaultTrendDays int) *Service {
	if defaultTrendDays <= 0 {
		defaultTrendDays = 30
	}
	return &Service{
		db:          db,
		cache:       cache,
		cacheTTL:    cacheTTL,
		defaultDays: defaultTrendDays,
	}
}

// Dashboard is the operational overview shown on the landing page
type Dashboard struct {
	InventoryValue        decimal.Decimal `json:"inventory_value"`
	TodaySales            decimal.Decimal `json:"today_sales"`
	TodayProfit           decimal.Decimal `json:"today_profit"`
	MonthSales            decimal.Decimal `json:"month_sales"`
	MonthProfit           decimal.Decimal `json:"month_profit"`
	AvgMargin             decimal.Decimal `json:"avg_margin"`
	PendingPurchaseOrders int64           `json:"pending_purchase_orders"`
	PendingSalesOrders    int64           `json:"pending_sales_orders"`
	InventoryAlerts       int64           `json:"inventory_alerts"`
}

// TrendPoint is one day of sales activity
type TrendPoint struct {
	Date         string          `json:"date"`
	SalesAmount  decimal.Decimal `json:"sales_amount"`
	ProfitAmount decimal.Decimal `json:"profit_amount"`
	OrderCount   int64           `json:"order_count"`
}

// TopItem is one row of the item sales ranking
type TopItem struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
}

// TopCustomer is one row of the customer sales ranking
type TopCustomer struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	OrderCount  int64           `json:"order_count"`
	AvgMargin   decimal.Decimal `json:"avg_margin"`
}

// CategoryProfit is one row of the per-category profit breakdown
type CategoryProfit struct {
	Category     string          `json:"category"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

// DateRange bounds a report query. Zero values fall back to the service
// default window.
type DateRange struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// GetDashboard returns the dashboard, serving from cache when fresh
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey); err == nil && cached != "" {
			var dashboard Dashboard
			if json.Unmarshal([]byte(cached), &dashboard) == nil {
				return &dashboard, nil
			}
		}
	}

	dashboard, err := s.computeDashboard()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(dashboard); err == nil {
			// best effort, a cache write failure never fails the request
			_ = s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL)
		}
	}
	return dashboard, nil
}

func (s *Service) computeDashboard() (*Dashboard, error) {
	var dashboard Dashboard

	var inventoryValue struct {
		Total decimal.Decimal
	}
	err := s.db.Table("inventory i").
		Select("COALESCE(SUM(i.quantity * it.purchase_price), 0) AS total").
		Joins("LEFT JOIN items it ON it.id = i.item_id").
		Take(&inventoryValue).Error
	if err != nil {
		return nil, apperrors.Persistence("failed to compute inventory value", err)
	}
	dashboard.InventoryValue = inventoryValue.Total

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var today struct {
		Sales  decimal.Decimal
		Profit decimal.Decimal
	}
	err = s.db.Table("sales_orders").
		Select("COALESCE(SUM(total_amount), 0) AS sales, COALESCE(SUM(gross_profit), 0) AS profit").
		Where("created_at >= ?", dayStart).
		Take(&today).Error
	if err != nil {
		return nil, apperrors.Persistence("failed to compute today sales", err)
	}
	dashboard.TodaySales = today.Sales
	dashboard.TodayProfit = today.Profit

	var month struct {
		Sales  decimal.Decimal
		Profit decimal.Decimal
		Margin decimal.Decimal
	}
	err = s.db.Table("sales_orders").
		Select("COALESCE(SUM(total_amount), 0) AS sales, COALESCE(SUM(gross_profit), 0) AS profit, COALESCE(AVG(profit_margin), 0) AS margin").
		Where("created_at >= ?", monthStart).
		Take(&month).Error
	if err != nil {
		return nil, apperrors.Persistence("failed to compute month sales", err)
	}
	dashboard.MonthSales = month.Sales
	dashboard.MonthProfit = month.Profit
	dashboard.AvgMargin = month.Margin

	err = s.db.Table("purchase_orders").
		Where("status = ?", "pending").
		Count(&dashboard.PendingPurchaseOrders).Error
	if err != nil {
		return nil, apperrors.Persistence("failed to count pending purchase orders", err)
	}

	err = s.db.Table("sales_orders").
		Where("status = ?", "pending").
		Count(&dashboard.PendingSalesOrders).Error
	if err != nil {
		return nil, apperrors.Persistence("failed to count pending sales orders", err)
	}

	err = s.db.Table("inventory i").
		Joins("LEFT JOIN items it ON it.id = i.item_id").
		Where("i.quantity <= it.min_stock OR i.quantity <= 0").
		Count(&dashboard.InventoryAlerts).Error
	if err != nil {
		return nil, apperrors.Persistence("failed to count inventory alerts", err)
	}

	return &dashboard, nil
}

// SalesTrend returns per-day sales totals over the requested range
func (s *Service) SalesTrend(dateRange *DateRange) ([]TrendPoint, error) {
	start, end, err := s.resolveRange(dateRange)
	if err != nil {
		return nil, err
	}

	query := s.db.Table("sales_orders").
		Select("DATE(created_at) AS date, COALESCE(SUM(total_amount), 0) AS sales_amount, COALESCE(SUM(gross_profit), 0) AS profit_amount, COUNT(*) AS order_count").
		Where("created_at >= ?", start).
		Group("DATE(created_at)").
		Order("date ASC")
	if !end.IsZero() {
		query = query.Where("created_at < ?", end)
	}

	var points []TrendPoint
	if err := query.Scan(&points).Error; err != nil {
		return nil, apperrors.Persistence("failed to query sales trend", err)
	}
	return points, nil
}

// TopSellingItems ranks items by sales revenue over the requested range
func (s *Service) TopSellingItems(dateRange *DateRange, limit int) ([]TopItem, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	start, end, err := s.resolveRange(dateRange)
	if err != nil {
		return nil, err
	}

	query := s.db.Table("sales_order_items soi").
		Select("i.code, i.name, i.unit, SUM(soi.quantity) AS total_quantity, "+
			"COALESCE(SUM(soi.total_price), 0) AS total_sales, "+
			"COALESCE(SUM(soi.total_cost), 0) AS total_cost, "+
			"COALESCE(SUM(soi.total_price - soi.total_cost), 0) AS total_profit").
		Joins("INNER JOIN items i ON i.id = soi.item_id").
		Joins("INNER JOIN sales_orders so ON so.id = soi.order_id").
		Where("so.created_at >= ? AND soi.quantity > 0", start).
		Group("soi.item_id, i.code, i.name, i.unit").
		Order("total_sales DESC").
		Limit(limit)
	if !end.IsZero() {
		query = query.Where("so.created_at < ?", end)
	}

	var items []TopItem
	if err := query.Scan(&items).Error; err != nil {
		return nil, apperrors.Persistence("failed to query top selling items", err)
	}
	return items, nil
}

// TopCustomers ranks customers by sales revenue over the requested range
func (s *Service) TopCustomers(dateRange *DateRange, limit int) ([]TopCustomer, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	start, end, err := s.resolveRange(dateRange)
	if err != nil {
		return nil, err
	}

	query := s.db.Table("sales_orders so").
		Select("c.code, c.name, COALESCE(SUM(so.total_amount), 0) AS total_sales, "+
			"COALESCE(SUM(so.gross_profit), 0) AS total_profit, COUNT(so.id) AS order_count, "+
			"COALESCE(AVG(so.profit_margin), 0) AS avg_margin").
		Joins("LEFT JOIN customers c ON c.id = so.customer_id").
		Where("so.created_at >= ?", start).
		Group("so.customer_id, c.code, c.name").
		Order("total_sales DESC").
		Limit(limit)
	if !end.IsZero() {
		query = query.Where("so.created_at < ?", end)
	}

	var customers []TopCustomer
	if err := query.Scan(&customers).Error; err != nil {
		return nil, apperrors.Persistence("failed to query top customers", err)
	}
	return customers, nil
}

// ProfitAnalysis breaks sales revenue, cost and profit down by item
// category over the requested range
func (s *Service) ProfitAnalysis(dateRange *DateRange) ([]CategoryProfit, error) {
	start, end, err := s.resolveRange(dateRange)
	if err != nil {
		return nil, err
	}

	query := s.db.Table("sales_order_items soi").
		Select("i.category, COALESCE(SUM(soi.total_price), 0) AS total_sales, "+
			"COALESCE(SUM(soi.total_cost), 0) AS total_cost, "+
			"COALESCE(SUM(soi.total_price - soi.total_cost), 0) AS total_profit").
		Joins("INNER JOIN items i ON i.id = soi.item_id").
		Joins("INNER JOIN sales_orders so ON so.id = soi.order_id").
		Where("so.created_at >= ?", start).
		Group("i.category").
		Order("total_profit DESC")
	if !end.IsZero() {
		query = query.Where("so.created_at < ?", end)
	}

	var rows []CategoryProfit
	if err := query.Scan(&rows).Error; err != nil {
		return nil, apperrors.Persistence("failed to query profit analysis", err)
	}
	for i := range rows {
		if rows[i].TotalSales.IsPositive() {
			rows[i].ProfitMargin = rows[i].TotalProfit.
				Div(rows[i].TotalSales).
				Mul(decimal.NewFromInt(100)).
				Round(2)
		}
	}
	return rows, nil
}

// resolveRange parses the optional start/end dates. The end bound is
// exclusive (start of the day after end_date) so a same-day range still
// covers the whole day.
func (s *Service) resolveRange(dateRange *DateRange) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -s.defaultDays)
	var end time.Time

	if dateRange != nil && dateRange.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", dateRange.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.Validation("invalid start_date: %s", dateRange.StartDate)
		}
		start = parsed
	}
	if dateRange != nil && dateRange.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", dateRange.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.Validation("invalid end_date: %s", dateRange.EndDate)
		}
		end = parsed.AddDate(0, 0, 1)
	}
	return start, end, nil
}

type exportRow struct {
	ItemCode          string
	ItemName          string
	Unit              string
	WarehouseName     string
	Quantity          int
	AvailableQuantity int
	AvgCost           decimal.Decimal
	MinStock          int
	MaxStock          int
}

// ExportInventory renders the current stock listing as an xlsx workbook
func (s *Service) ExportInventory(warehouseID uint) (*excelize.File, error) {
	query := s.db.Table("inventory inv").
		Select("it.code AS item_code, it.name AS item_name, it.unit, w.name AS warehouse_name, " +
			"inv.quantity, inv.available_quantity, inv.avg_cost, it.min_stock, it.max_stock").
		Joins("LEFT JOIN items it ON it.id = inv.item_id").
		Joins("LEFT JOIN warehouses w ON w.id = inv.warehouse_id").
		Order("it.code ASC, w.name ASC")
	if warehouseID != 0 {
		query = query.Where("inv.warehouse_id = ?", warehouseID)
	}

	var rows []exportRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, apperrors.Persistence("failed to load inventory for export", err)
	}

	file := excelize.NewFile()
	const sheet = "Inventory"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, apperrors.Persistence("failed to create sheet", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, apperrors.Persistence("failed to drop default sheet", err)
	}

	headers := []string{"Item Code", "Item Name", "Unit", "Warehouse", "Quantity", "Available", "Avg Cost", "Min Stock", "Max Stock"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, apperrors.Persistence("failed to write header", err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.ItemCode, row.ItemName, row.Unit, row.WarehouseName,
			row.Quantity, row.AvailableQuantity, row.AvgCost.InexactFloat64(),
			row.MinStock, row.MaxStock,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, apperrors.Persistence(fmt.Sprintf("failed to write row %d", i+2), err)
			}
		}
	}

	return file, nil
}
