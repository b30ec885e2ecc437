// internal/domain/sales/service_test.go
package sales_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/your-org/warehouse-backend/internal/config"
	"github.com/your-org/warehouse-backend/internal/domain/catalog"
	"github.com/your-org/warehouse-backend/internal/domain/inventory"
	"github.com/your-org/warehouse-backend/internal/domain/payment"
	"github.com/your-org/warehouse-backend/internal/domain/purchase"
	"github.com/your-org/warehouse-backend/internal/domain/sales"
	"github.com/your-org/warehouse-backend/internal/pkg/apperrors"
)

type fixture struct {
	db        *gorm.DB
	svc       *sales.Service
	purchase  *purchase.Service
	inventory *inventory.Service
	customer  *catalog.Customer
	supplier  *catalog.Supplier
	warehouse *inventory.Warehouse
	item      *catalog.Item
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Item{},
		&catalog.Supplier{},
		&catalog.Customer{},
		&inventory.Warehouse{},
		&inventory.Stock{},
		&inventory.Transaction{},
		&purchase.Order{},
		&purchase.OrderItem{},
		&sales.Order{},
		&sales.OrderItem{},
		&payment.Record{},
	))

	customer := &catalog.Customer{Code: "CUS001", Name: "Retail Customer", Status: "active"}
	require.NoError(t, db.Create(customer).Error)

	supplier := &catalog.Supplier{Code: "SUP001", Name: "Acme Supply", Status: "active"}
	require.NoError(t, db.Create(supplier).Error)

	warehouse := &inventory.Warehouse{Code: "WH1", Name: "Main", Status: "active"}
	require.NoError(t, db.Create(warehouse).Error)

	item := &catalog.Item{
		Code:          "ITEM001",
		Name:          "Widget",
		Unit:          "pcs",
		PurchasePrice: decimal.NewFromInt(30),
		SalePrice:     decimal.NewFromInt(50),
		Status:        catalog.ItemStatusActive,
	}
	require.NoError(t, db.Create(item).Error)

	inventorySvc := inventory.NewService(db, &config.Config{})
	return &fixture{
		db:        db,
		svc:       sales.NewService(db, inventorySvc),
		purchase:  purchase.NewService(db, inventorySvc),
		inventory: inventorySvc,
		customer:  customer,
		supplier:  supplier,
		warehouse: warehouse,
		item:      item,
	}
}

// stockUp receives a purchase order so the warehouse has sellable stock.
func (f *fixture) stockUp(t *testing.T, quantity int) {
	t.Helper()
	time.Sleep(2 * time.Millisecond)
	order, err := f.purchase.CreateOrder(&purchase.CreateOrderRequest{
		SupplierID:  f.supplier.ID,
		WarehouseID: f.warehouse.ID,
		Items: []purchase.CreateOrderItemRequest{
			{ItemID: f.item.ID, Quantity: quantity, UnitPrice: f.item.PurchasePrice},
		},
	})
	require.NoError(t, err)
	_, err = f.purchase.ReceiveOrder(order.ID, &purchase.ReceiveOrderRequest{
		Items: []purchase.ReceiveOrderItemRequest{
			{ItemID: f.item.ID, ReceivedQuantity: quantity},
		},
	})
	require.NoError(t, err)
}

func (f *fixture) createOrder(t *testing.T, req *sales.CreateOrderRequest) *sales.Order {
	t.Helper()
	time.Sleep(2 * time.Millisecond)
	order, err := f.svc.CreateOrder(req)
	require.NoError(t, err)
	return order
}

func TestCreateOrderComputesProfit(t *testing.T) {
	f := newFixture(t)

	order := f.createOrder(t, &sales.CreateOrderRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.warehouse.ID,
		Items: []sales.CreateOrderItemRequest{
			{ItemID: f.item.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		},
	})

	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(100)), "total %s", order.TotalAmount)
	assert.True(t, order.TotalCost.Equal(decimal.NewFromInt(60)), "cost %s", order.TotalCost)
	assert.True(t, order.GrossProfit.Equal(decimal.NewFromInt(40)), "profit %s", order.GrossProfit)
	assert.True(t, order.ProfitMargin.Equal(decimal.NewFromInt(40)), "margin %s", order.ProfitMargin)
	assert.True(t, order.FinalAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, sales.PaymentStatusUnpaid, order.PaymentStatus)

	// Line carries the cost snapshot taken at creation time.
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].UnitCost.Equal(decimal.NewFromInt(30)))
	assert.True(t, order.Items[0].TotalCost.Equal(decimal.NewFromInt(60)))
}

func TestCreateOrderAppliesDiscountAndRounding(t *testing.T) {
	f := newFixture(t)

	order := f.createOrder(t, &sales.CreateOrderRequest{
		CustomerID:     f.customer.ID,
		WarehouseID:    f.warehouse.ID,
		DiscountAmount: decimal.RequireFromString("5.50"),
		RoundAmount:    decimal.RequireFromString("0.50"),
		Items: []sales.CreateOrderItemRequest{
			{ItemID: f.item.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		},
	})

	// final = total - discount + round
	assert.True(t, order.FinalAmount.Equal(decimal.NewFromInt(95)), "final %s", order.FinalAmount)
}

func TestCreateOrderZeroTotalHasZeroMargin(t *testing.T) {
	f := newFixture(t)

	order := f.createOrder(t, &sales.CreateOrderRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.warehouse.ID,
		Items: []sales.CreateOrderItemRequest{
			{ItemID: f.item.ID, Quantity: 1, UnitPrice: decimal.Zero},
		},
	})

	assert.True(t, order.ProfitMargin.IsZero())
}

func TestCreateOrderWithImmediatePayment(t *testing.T) {
	f := newFixture(t)

	order := f.createOrder(t, &sales.CreateOrderRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.warehouse.ID,
		Items: []sales.CreateOrderItemRequest{
			{ItemID: f.item.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		},
		PaymentInfo: &sales.PaymentInfo{PaymentMethod: "cash"},
	})

	assert.Equal(t, sales.PaymentStatusPaid, order.PaymentStatus)
	assert.True(t, order.PaidAmount.Equal(order.FinalAmount))

	var records []payment.Record
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, "cash", records[0].PaymentMethod)
	assert.True(t, records[0].ReceivedAmount.Equal(order.FinalAmount))
}

func TestDeliverOrderUpdatesStockAndStatus(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 10)

	order := f.createOrder(t, &sales.CreateOrderRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.warehouse.ID,
		Items: []sales.CreateOrderItemRequest{
			{ItemID: f.item.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(50)},
		},
	})

	delivered, err := f.svc.DeliverOrder(order.ID, &sales.DeliverOrderRequest{
		Items: []sales.DeliverOrderItemRequest{
			{ItemID: f.item.ID, DeliveredQuantity: 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, sales.OrderStatusPartial, delivered.Status)

	stock, err := f.inventory.GetStock(f.item.ID, f.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stock.Quantity)

	delivered, err = f.svc.DeliverOrder(order.ID, &sales.DeliverOrderRequest{
		Items: []sales.DeliverOrderItemRequest{
			{ItemID: f.item.ID, DeliveredQuantity: 6},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, sales.OrderStatusCompleted, delivered.Status)

	stock, err = f.inventory.GetStock(f.item.ID, f.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock.Quantity)
	assert.Equal(t, 0, stock.AvailableQuantity)
}

func TestDeliverOrderInsufficientStockRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 3)

	order := f.createOrder(t, &sales.CreateOrderRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.warehouse.ID,
		Items: []sales.CreateOrderItemRequest{
			{ItemID: f.item.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(50)},
		},
	})

	_, err := f.svc.DeliverOrder(order.ID, &sales.DeliverOrderRequest{
		Items: []sales.DeliverOrderItemRequest{
			{ItemID: f.item.ID, DeliveredQuantity: 5},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInsufficientStock))

	// Delivered quantity, stock and status are all untouched.
	var line sales.OrderItem
	require.NoError(t, f.db.Where("order_id = ?", order.ID).First(&line).Error)
	assert.Equal(t, 0, line.DeliveredQuantity)

	stock, err := f.inventory.GetStock(f.item.ID, f.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stock.Quantity)

	var reloaded sales.Order
	require.NoError(t, f.db.First(&reloaded, order.ID).Error)
	assert.Equal(t, sales.OrderStatusPending, reloaded.Status)
}

func TestDeliverOrderRejectsForeignItem(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 5)

	other := &catalog.Item{Code: "ITEM002", Name: "Gadget", Unit: "pcs", Status: catalog.ItemStatusActive}
	require.NoError(t, f.db.Create(other).Error)

	order := f.createOrder(t, &sales.CreateOrderRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.warehouse.ID,
		Items: []sales.CreateOrderItemRequest{
			{ItemID: f.item.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		},
	})

	_, err := f.svc.DeliverOrder(order.ID, &sales.DeliverOrderRequest{
		Items: []sales.DeliverOrderItemRequest{
			{ItemID: other.ID, DeliveredQuantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestPurchaseThroughSaleConservesLedger(t *testing.T) {
	f := newFixture(t)
	f.stockUp(t, 10)

	order := f.createOrder(t, &sales.CreateOrderRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.warehouse.ID,
		Items: []sales.CreateOrderItemRequest{
			{ItemID: f.item.ID, Quantity: 6, UnitPrice: decimal.NewFromInt(50)},
		},
	})

	_, err := f.svc.DeliverOrder(order.ID, &sales.DeliverOrderRequest{
		Items: []sales.DeliverOrderItemRequest{
			{ItemID: f.item.ID, DeliveredQuantity: 6},
		},
	})
	require.NoError(t, err)

	stock, err := f.inventory.GetStock(f.item.ID, f.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stock.Quantity)

	// The signed transaction sum reconciles with the remaining stock.
	var sum struct{ Total int }
	require.NoError(t, f.db.Model(&inventory.Transaction{}).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Where("item_id = ? AND warehouse_id = ?", f.item.ID, f.warehouse.ID).
		Scan(&sum).Error)
	assert.Equal(t, 4, sum.Total)

	// One IN from the receipt, one OUT from the delivery.
	var types []string
	require.NoError(t, f.db.Model(&inventory.Transaction{}).
		Order("id ASC").Pluck("transaction_type", &types).Error)
	assert.Equal(t, []string{"IN", "OUT"}, types)
}

func TestGetOrderResolvesNames(t *testing.T) {
	f := newFixture(t)

	order := f.createOrder(t, &sales.CreateOrderRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.warehouse.ID,
		Items: []sales.CreateOrderItemRequest{
			{ItemID: f.item.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		},
	})

	detail, items, err := f.svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, f.customer.Name, detail.CustomerName)
	assert.Equal(t, f.warehouse.Name, detail.WarehouseName)
	require.Len(t, items, 1)
	assert.Equal(t, f.item.Code, items[0].ItemCode)
}
