// internal/domain/report/service_test.go
package report_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/your-org/warehouse-backend/internal/domain/catalog"
	"github.com/your-org/warehouse-backend/internal/domain/inventory"
	"github.com/your-org/warehouse-backend/internal/domain/purchase"
	"github.com/your-org/warehouse-backend/internal/domain/report"
	"github.com/your-org/warehouse-backend/internal/domain/sales"
	"github.com/your-org/warehouse-backend/internal/pkg/apperrors"
)

func newTestService(t *testing.T) (*report.Service, *gorm.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Item{},
		&catalog.Customer{},
		&inventory.Warehouse{},
		&inventory.Stock{},
		&purchase.Order{},
		&sales.Order{},
		&sales.OrderItem{},
	))
	// No cache in tests; every call recomputes.
	return report.NewService(db, nil, time.Minute, 30), db
}

func seedReportData(t *testing.T, db *gorm.DB) {
	t.Helper()

	item := &catalog.Item{
		Code:          "ITEM001",
		Name:          "Widget",
		Category:      "家电",
		Unit:          "pcs",
		PurchasePrice: decimal.NewFromInt(30),
		SalePrice:     decimal.NewFromInt(50),
		MinStock:      20,
		MaxStock:      100,
		Status:        catalog.ItemStatusActive,
	}
	require.NoError(t, db.Create(item).Error)

	customer := &catalog.Customer{Code: "CUS001", Name: "Retail Customer", Status: "active"}
	require.NoError(t, db.Create(customer).Error)

	warehouse := &inventory.Warehouse{Code: "WH1", Name: "Main", Status: "active"}
	require.NoError(t, db.Create(warehouse).Error)

	require.NoError(t, db.Create(&inventory.Stock{
		ItemID:            item.ID,
		WarehouseID:       warehouse.ID,
		Quantity:          10,
		AvailableQuantity: 10,
		AvgCost:           decimal.NewFromInt(30),
	}).Error)

	require.NoError(t, db.Create(&purchase.Order{
		OrderNo:     "PO1",
		SupplierID:  1,
		WarehouseID: warehouse.ID,
		OrderDate:   time.Now(),
		TotalAmount: decimal.NewFromInt(300),
		Status:      purchase.OrderStatusPending,
	}).Error)

	order := &sales.Order{
		OrderNo:       "SO1",
		CustomerID:    customer.ID,
		WarehouseID:   warehouse.ID,
		OrderDate:     time.Now(),
		TotalAmount:   decimal.NewFromInt(100),
		FinalAmount:   decimal.NewFromInt(100),
		TotalCost:     decimal.NewFromInt(60),
		GrossProfit:   decimal.NewFromInt(40),
		ProfitMargin:  decimal.NewFromInt(40),
		Status:        sales.OrderStatusPending,
		PaymentStatus: sales.PaymentStatusUnpaid,
		PaymentType:   sales.PaymentTypeFull,
	}
	require.NoError(t, db.Create(order).Error)

	require.NoError(t, db.Create(&sales.OrderItem{
		OrderID:    order.ID,
		ItemID:     item.ID,
		Quantity:   2,
		UnitPrice:  decimal.NewFromInt(50),
		UnitCost:   decimal.NewFromInt(30),
		TotalPrice: decimal.NewFromInt(100),
		TotalCost:  decimal.NewFromInt(60),
	}).Error)
}

func TestDashboardAggregates(t *testing.T) {
	svc, db := newTestService(t)
	seedReportData(t, db)

	dashboard, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	// 10 on hand at a 30 purchase price.
	assert.True(t, dashboard.InventoryValue.Equal(decimal.NewFromInt(300)), "inventory value %s", dashboard.InventoryValue)
	assert.True(t, dashboard.TodaySales.Equal(decimal.NewFromInt(100)), "today sales %s", dashboard.TodaySales)
	assert.True(t, dashboard.TodayProfit.Equal(decimal.NewFromInt(40)))
	assert.True(t, dashboard.MonthSales.Equal(decimal.NewFromInt(100)))
	assert.EqualValues(t, 1, dashboard.PendingPurchaseOrders)
	assert.EqualValues(t, 1, dashboard.PendingSalesOrders)
	// Quantity 10 is under the item's min stock of 20.
	assert.EqualValues(t, 1, dashboard.InventoryAlerts)
}

func TestSalesTrendGroupsByDay(t *testing.T) {
	svc, db := newTestService(t)
	seedReportData(t, db)

	points, err := svc.SalesTrend(&report.DateRange{})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.True(t, points[0].SalesAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, points[0].ProfitAmount.Equal(decimal.NewFromInt(40)))
	assert.EqualValues(t, 1, points[0].OrderCount)
}

func TestSalesTrendRejectsBadDates(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SalesTrend(&report.DateRange{StartDate: "not-a-date"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestSalesTrendHonorsEndBound(t *testing.T) {
	svc, db := newTestService(t)
	seedReportData(t, db)

	// A range that ends yesterday excludes today's order.
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	points, err := svc.SalesTrend(&report.DateRange{EndDate: yesterday})
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestTopSellingItems(t *testing.T) {
	svc, db := newTestService(t)
	seedReportData(t, db)

	items, err := svc.TopSellingItems(nil, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ITEM001", items[0].Code)
	assert.EqualValues(t, 2, items[0].TotalQuantity)
	assert.True(t, items[0].TotalSales.Equal(decimal.NewFromInt(100)))
	assert.True(t, items[0].TotalCost.Equal(decimal.NewFromInt(60)))
	assert.True(t, items[0].TotalProfit.Equal(decimal.NewFromInt(40)))
}

func TestTopCustomers(t *testing.T) {
	svc, db := newTestService(t)
	seedReportData(t, db)

	customers, err := svc.TopCustomers(nil, 10)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "CUS001", customers[0].Code)
	assert.True(t, customers[0].TotalSales.Equal(decimal.NewFromInt(100)))
	assert.EqualValues(t, 1, customers[0].OrderCount)
}

func TestProfitAnalysisByCategory(t *testing.T) {
	svc, db := newTestService(t)
	seedReportData(t, db)

	rows, err := svc.ProfitAnalysis(nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "家电", rows[0].Category)
	assert.True(t, rows[0].TotalSales.Equal(decimal.NewFromInt(100)))
	assert.True(t, rows[0].TotalCost.Equal(decimal.NewFromInt(60)))
	assert.True(t, rows[0].TotalProfit.Equal(decimal.NewFromInt(40)))
	assert.True(t, rows[0].ProfitMargin.Equal(decimal.NewFromInt(40)))
}

func TestExportInventoryWorkbook(t *testing.T) {
	svc, db := newTestService(t)
	seedReportData(t, db)

	file, err := svc.ExportInventory(0)
	require.NoError(t, err)

	const sheet = "Inventory"
	header, err := file.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Item Code", header)

	code, err := file.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "ITEM001", code)

	qty, err := file.GetCellValue(sheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "10", qty)
}
