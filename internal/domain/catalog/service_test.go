// internal/domain/catalog/service_test.go
package catalog_test

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/your-org/warehouse-backend/internal/config"
	"github.com/your-org/warehouse-backend/internal/domain/catalog"
	"github.com/your-org/warehouse-backend/internal/domain/sales"
	"github.com/your-org/warehouse-backend/internal/pkg/apperrors"
)

func newTestService(t *testing.T) (*catalog.Service, *gorm.DB) {
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
		&sales.OrderItem{},
	))
	return catalog.NewService(db, &config.Config{}), db
}

func TestCreateItemDefaultsAndDuplicate(t *testing.T) {
	svc, _ := newTestService(t)

	item, err := svc.CreateItem(&catalog.CreateItemRequest{
		Code:          "ITEM001",
		Name:          "Widget",
		PurchasePrice: decimal.NewFromInt(30),
		SalePrice:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.Equal(t, "pcs", item.Unit)
	assert.Equal(t, catalog.ItemStatusActive, item.Status)

	_, err = svc.CreateItem(&catalog.CreateItemRequest{Code: "ITEM001", Name: "Widget again"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestListItemsSearchAndPagination(t *testing.T) {
	svc, _ := newTestService(t)

	for _, seed := range []struct{ code, name, category string }{
		{"AC001", "空调", "appliance"},
		{"TV002", "电视", "appliance"},
		{"WM003", "洗衣机", "appliance"},
		{"RF004", "冰箱", "kitchen"},
	} {
		_, err := svc.CreateItem(&catalog.CreateItemRequest{
			Code: seed.code, Name: seed.name, Category: seed.category,
		})
		require.NoError(t, err)
	}

	result, err := svc.ListItems(&catalog.ItemListRequest{Search: "TV"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Total)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "TV002", result.Data[0].Code)

	result, err = svc.ListItems(&catalog.ItemListRequest{Category: "appliance", PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.Total)
	assert.Len(t, result.Data, 2)

	result, err = svc.ListItems(&catalog.ItemListRequest{Category: "appliance", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, result.Data, 1)
}

func TestUpdateItemPartialFields(t *testing.T) {
	svc, _ := newTestService(t)

	item, err := svc.CreateItem(&catalog.CreateItemRequest{
		Code:          "ITEM001",
		Name:          "Widget",
		PurchasePrice: decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	newPrice := decimal.NewFromInt(35)
	updated, err := svc.UpdateItem(item.ID, &catalog.UpdateItemRequest{
		PurchasePrice: &newPrice,
		Status:        catalog.ItemStatusInactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget", updated.Name)
	assert.True(t, updated.PurchasePrice.Equal(newPrice))
	assert.Equal(t, catalog.ItemStatusInactive, updated.Status)
}

func TestDeleteItemBlockedBySalesHistory(t *testing.T) {
	svc, db := newTestService(t)

	item, err := svc.CreateItem(&catalog.CreateItemRequest{Code: "ITEM001", Name: "Widget"})
	require.NoError(t, err)

	require.NoError(t, db.Create(&sales.OrderItem{
		OrderID:  1,
		ItemID:   item.ID,
		Quantity: 2,
	}).Error)

	err = svc.DeleteItem(item.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// Still retrievable after the refused delete.
	_, err = svc.GetItem(item.ID)
	assert.NoError(t, err)
}

func TestDeleteItemWithoutReferences(t *testing.T) {
	svc, _ := newTestService(t)

	item, err := svc.CreateItem(&catalog.CreateItemRequest{Code: "ITEM001", Name: "Widget"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(item.ID))

	_, err = svc.GetItem(item.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	err = svc.DeleteItem(item.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSupplierAndCustomerLifecycle(t *testing.T) {
	svc, _ := newTestService(t)

	supplier, err := svc.CreateSupplier(&catalog.CreateSupplierRequest{Code: "SUP001", Name: "Acme Supply"})
	require.NoError(t, err)

	_, err = svc.CreateSupplier(&catalog.CreateSupplierRequest{Code: "SUP001", Name: "Acme again"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	updatedSupplier, err := svc.UpdateSupplier(supplier.ID, &catalog.UpdateSupplierRequest{
		ContactPerson: "Director Zhang",
		Phone:         "13800138001",
	})
	require.NoError(t, err)
	assert.Equal(t, "Director Zhang", updatedSupplier.ContactPerson)
	assert.Equal(t, "Acme Supply", updatedSupplier.Name)

	_, err = svc.UpdateSupplier(supplier.ID, &catalog.UpdateSupplierRequest{Status: "frozen"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	suppliers, err := svc.ListSuppliers()
	require.NoError(t, err)
	assert.Len(t, suppliers, 1)

	require.NoError(t, svc.DeleteSupplier(supplier.ID))
	suppliers, err = svc.ListSuppliers()
	require.NoError(t, err)
	assert.Empty(t, suppliers)

	customer, err := svc.CreateCustomer(&catalog.CreateCustomerRequest{Code: "CUS001", Name: "Retail Customer"})
	require.NoError(t, err)

	creditLimit := decimal.NewFromInt(50000)
	updatedCustomer, err := svc.UpdateCustomer(customer.ID, &catalog.UpdateCustomerRequest{
		CustomerType: "wholesale",
		CreditLimit:  &creditLimit,
	})
	require.NoError(t, err)
	assert.Equal(t, "wholesale", updatedCustomer.CustomerType)
	assert.True(t, updatedCustomer.CreditLimit.Equal(creditLimit))

	_, err = svc.UpdateCustomer(999, &catalog.UpdateCustomerRequest{Name: "Ghost"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	customers, err := svc.ListCustomers()
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, customer.Code, customers[0].Code)
}

func TestListCategoriesDistinct(t *testing.T) {
	svc, _ := newTestService(t)

	for _, it := range []struct{ code, category string }{
		{"AC001", "空调"},
		{"AC002", "空调"},
		{"TV001", "电视"},
		{"MISC1", ""},
	} {
		_, err := svc.CreateItem(&catalog.CreateItemRequest{Code: it.code, Name: it.code, Category: it.category})
		require.NoError(t, err)
	}

	categories, err := svc.ListCategories()
	require.NoError(t, err)
	assert.Equal(t, []string{"电视", "空调"}, categories)
}
