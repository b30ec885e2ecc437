// internal/domain/purchase/service_test.go
package purchase_test

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
	"github.com/your-org/warehouse-backend/internal/domain/purchase"
	"github.com/your-org/warehouse-backend/internal/pkg/apperrors"
)

type fixture struct {
	db        *gorm.DB
	svc       *purchase.Service
	inventory *inventory.Service
	supplier  *catalog.Supplier
	warehouse *inventory.Warehouse
	itemA     *catalog.Item
	itemB     *catalog.Item
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
		&inventory.Warehouse{},
		&inventory.Stock{},
		&inventory.Transaction{},
		&purchase.Order{},
		&purchase.OrderItem{},
	))

	supplier := &catalog.Supplier{Code: "SUP001", Name: "Acme Supply", Status: "active"}
	require.NoError(t, db.Create(supplier).Error)

	warehouse := &inventory.Warehouse{Code: "WH1", Name: "Main", Status: "active"}
	require.NoError(t, db.Create(warehouse).Error)

	itemA := &catalog.Item{Code: "ITEM001", Name: "Widget", Unit: "pcs", Status: catalog.ItemStatusActive}
	itemB := &catalog.Item{Code: "ITEM002", Name: "Gadget", Unit: "pcs", Status: catalog.ItemStatusActive}
	require.NoError(t, db.Create(itemA).Error)
	require.NoError(t, db.Create(itemB).Error)

	inventorySvc := inventory.NewService(db, &config.Config{})
	return &fixture{
		db:        db,
		svc:       purchase.NewService(db, inventorySvc),
		inventory: inventorySvc,
		supplier:  supplier,
		warehouse: warehouse,
		itemA:     itemA,
		itemB:     itemB,
	}
}

func (f *fixture) createOrder(t *testing.T, items []purchase.CreateOrderItemRequest) *purchase.Order {
	t.Helper()
	// Order numbers derive from the creation millisecond and are unique.
	time.Sleep(2 * time.Millisecond)
	order, err := f.svc.CreateOrder(&purchase.CreateOrderRequest{
		SupplierID:  f.supplier.ID,
		WarehouseID: f.warehouse.ID,
		Items:       items,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrderComputesTotals(t *testing.T) {
	f := newFixture(t)

	order := f.createOrder(t, []purchase.CreateOrderItemRequest{
		{ItemID: f.itemA.ID, Quantity: 10, UnitPrice: decimal.RequireFromString("30.50")},
		{ItemID: f.itemB.ID, Quantity: 4, UnitPrice: decimal.RequireFromString("12.25")},
	})

	assert.NotEmpty(t, order.OrderNo)
	assert.Equal(t, purchase.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].TotalPrice.Equal(decimal.RequireFromString("305")))
	assert.True(t, order.Items[1].TotalPrice.Equal(decimal.RequireFromString("49")))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("354")), "got %s", order.TotalAmount)
}

func TestCreateOrderRequiresItems(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateOrder(&purchase.CreateOrderRequest{
		SupplierID:  f.supplier.ID,
		WarehouseID: f.warehouse.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreateOrderRejectsUnknownSupplier(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateOrder(&purchase.CreateOrderRequest{
		SupplierID:  9999,
		WarehouseID: f.warehouse.ID,
		Items: []purchase.CreateOrderItemRequest{
			{ItemID: f.itemA.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestReceiveOrderPartialThenComplete(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t, []purchase.CreateOrderItemRequest{
		{ItemID: f.itemA.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(30)},
	})

	received, err := f.svc.ReceiveOrder(order.ID, &purchase.ReceiveOrderRequest{
		Items: []purchase.ReceiveOrderItemRequest{
			{ItemID: f.itemA.ID, ReceivedQuantity: 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, purchase.OrderStatusPartial, received.Status)
	require.Len(t, received.Items, 1)
	assert.Equal(t, 4, received.Items[0].ReceivedQuantity)

	stock, err := f.inventory.GetStock(f.itemA.ID, f.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stock.Quantity)
	assert.True(t, stock.AvgCost.Equal(decimal.NewFromInt(30)))

	received, err = f.svc.ReceiveOrder(order.ID, &purchase.ReceiveOrderRequest{
		Items: []purchase.ReceiveOrderItemRequest{
			{ItemID: f.itemA.ID, ReceivedQuantity: 6},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, purchase.OrderStatusCompleted, received.Status)
	assert.Equal(t, 10, received.Items[0].ReceivedQuantity)

	stock, err = f.inventory.GetStock(f.itemA.ID, f.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stock.Quantity)
}

func TestReceiveOrderLedgerReferencesOrder(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t, []purchase.CreateOrderItemRequest{
		{ItemID: f.itemA.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(20)},
	})

	_, err := f.svc.ReceiveOrder(order.ID, &purchase.ReceiveOrderRequest{
		Items: []purchase.ReceiveOrderItemRequest{
			{ItemID: f.itemA.ID, ReceivedQuantity: 5},
		},
	})
	require.NoError(t, err)

	var movements []inventory.Transaction
	require.NoError(t, f.db.Where("item_id = ?", f.itemA.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, inventory.TransactionTypeIn, movements[0].Type)
	assert.Equal(t, inventory.ReferencePurchase, movements[0].ReferenceType)
	assert.Contains(t, movements[0].ReferenceNo, "PO-")
	assert.Equal(t, 5, movements[0].Quantity)
	assert.True(t, movements[0].UnitCost.Equal(decimal.NewFromInt(20)))
}

func TestReceiveOrderRejectsForeignItem(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t, []purchase.CreateOrderItemRequest{
		{ItemID: f.itemA.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(20)},
	})

	_, err := f.svc.ReceiveOrder(order.ID, &purchase.ReceiveOrderRequest{
		Items: []purchase.ReceiveOrderItemRequest{
			{ItemID: f.itemB.ID, ReceivedQuantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	// The rejected receive must not leak a ledger entry.
	var count int64
	require.NoError(t, f.db.Model(&inventory.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReceiveOrderMissingOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ReceiveOrder(4242, &purchase.ReceiveOrderRequest{
		Items: []purchase.ReceiveOrderItemRequest{
			{ItemID: f.itemA.ID, ReceivedQuantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestReceiveOrderStatusStableOnOverReceive(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t, []purchase.CreateOrderItemRequest{
		{ItemID: f.itemA.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(10)},
	})

	received, err := f.svc.ReceiveOrder(order.ID, &purchase.ReceiveOrderRequest{
		Items: []purchase.ReceiveOrderItemRequest{
			{ItemID: f.itemA.ID, ReceivedQuantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, purchase.OrderStatusCompleted, received.Status)

	// Quantities are uncapped; a further receive keeps the order completed.
	received, err = f.svc.ReceiveOrder(order.ID, &purchase.ReceiveOrderRequest{
		Items: []purchase.ReceiveOrderItemRequest{
			{ItemID: f.itemA.ID, ReceivedQuantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, purchase.OrderStatusCompleted, received.Status)
	assert.Equal(t, 5, received.Items[0].ReceivedQuantity)
}

func TestListOrdersFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	first := f.createOrder(t, []purchase.CreateOrderItemRequest{
		{ItemID: f.itemA.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
	})
	f.createOrder(t, []purchase.CreateOrderItemRequest{
		{ItemID: f.itemB.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(15)},
	})

	_, err := f.svc.ReceiveOrder(first.ID, &purchase.ReceiveOrderRequest{
		Items: []purchase.ReceiveOrderItemRequest{
			{ItemID: f.itemA.ID, ReceivedQuantity: 2},
		},
	})
	require.NoError(t, err)

	completed, total, err := f.svc.ListOrders(&purchase.ListOrdersRequest{Status: "completed"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, completed, 1)
	assert.Equal(t, first.OrderNo, completed[0].OrderNo)
	assert.Equal(t, f.supplier.Name, completed[0].SupplierName)

	all, total, err := f.svc.ListOrders(&purchase.ListOrdersRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)
}
