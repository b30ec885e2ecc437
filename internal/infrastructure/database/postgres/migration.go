// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/your-org/warehouse-backend/internal/domain/catalog"
	"github.com/your-org/warehouse-backend/internal/domain/inventory"
	"github.com/your-org/warehouse-backend/internal/domain/payment"
	"github.com/your-org/warehouse-backend/internal/domain/purchase"
	"github.com/your-org/warehouse-backend/internal/domain/sales"
	"github.com/your-org/warehouse-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	// Dependency order: master data first, then stock, then orders
	models := []interface{}{
		&user.User{},

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
		&payment.Installment{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("Creating additional database indexes...")

	indexes := []string{
		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_items_category_status ON items(category, status)",
		"CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at DESC)",

		// Stock and ledger indexes
		"CREATE INDEX IF NOT EXISTS idx_inventory_warehouse ON inventory(warehouse_id)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_last_updated ON inventory(last_updated DESC)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_item_warehouse ON inventory_transactions(item_id, warehouse_id)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_reference ON inventory_transactions(reference_no)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_date ON inventory_transactions(transaction_date DESC)",

		// Purchase order indexes
		"CREATE INDEX IF NOT EXISTS idx_purchase_orders_status_created ON purchase_orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_order_items_order ON purchase_order_items(order_id)",

		// Sales order indexes
		"CREATE INDEX IF NOT EXISTS idx_sales_orders_status_created ON sales_orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_sales_orders_payment_status ON sales_orders(payment_status)",
		"CREATE INDEX IF NOT EXISTS idx_sales_order_items_order ON sales_order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_sales_order_items_item ON sales_order_items(item_id)",

		// Payment indexes
		"CREATE INDEX IF NOT EXISTS idx_payment_records_order ON payment_records(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_installments_order_no ON installment_payments(order_id, installment_no)",
		"CREATE INDEX IF NOT EXISTS idx_installments_status_due ON installment_payments(status, due_date)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("Created %d indexes (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts the default admin account and demo master data.
// It is a no-op when warehouses already exist.
func (m *Migration) SeedInitialData() error {
	var count int64
	if err := m.db.Model(&inventory.Warehouse{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if count > 0 {
		log.Println("Seed data already present, skipping")
		return nil
	}

	log.Println("Seeding initial data...")

	hashed, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}
	admin := user.User{
		Username:         "admin",
		Password:         string(hashed),
		Email:            "admin@wms.local",
		Role:             user.RoleAdmin,
		CanModifyPrice:   true,
		CanDiscount:      true,
		CanAccessReports: true,
		CanManageUsers:   true,
		Status:           user.UserStatusActive,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	warehouses := []inventory.Warehouse{
		{Code: "WH001", Name: "Main Warehouse", Address: "1 Storage Rd, Chaoyang, Beijing", Manager: "Zhang San", Status: "active"},
		{Code: "WH002", Name: "Branch Warehouse", Address: "88 Logistics Ave, Pudong, Shanghai", Manager: "Li Si", Status: "active"},
	}
	if err := m.db.Create(&warehouses).Error; err != nil {
		return fmt.Errorf("failed to seed warehouses: %w", err)
	}

	suppliers := []catalog.Supplier{
		{Code: "SUP001", Name: "Gree North China Distributor", ContactPerson: "Director Zhang", Phone: "13800138001", Email: "zhang@gree-north.com", Address: "Tech Tower, Chaoyang, Beijing"},
		{Code: "SUP002", Name: "Midea Shanghai Distributor", ContactPerson: "Manager Li", Phone: "13800138002", Email: "li@midea-sh.com", Address: "Appliance Market, Pudong, Shanghai"},
	}
	if err := m.db.Create(&suppliers).Error; err != nil {
		return fmt.Errorf("failed to seed suppliers: %w", err)
	}

	customers := []catalog.Customer{
		{Code: "CUS001", Name: "Suning Beijing Flagship Store", ContactPerson: "Manager Wang", Phone: "13900139001", Email: "wang@suning-bj.com", Address: "Suning Plaza, Jianguo Rd, Beijing", CustomerType: "retail"},
		{Code: "CUS002", Name: "Gome Wholesale Department", ContactPerson: "Buyer Liu", Phone: "13900139002", Email: "liu@gome-wholesale.com", Address: "Caohejing, Xuhui, Shanghai", CustomerType: "wholesale"},
	}
	if err := m.db.Create(&customers).Error; err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}

	items := []catalog.Item{
		{Code: "AC001", Name: "格力KFR-35GW 1.5匹变频空调", EnName: "GREE KFR-35GW 1.5HP Inverter Air Conditioner", Category: "空调", Unit: "台", PurchasePrice: decimal.NewFromFloat(2200), SalePrice: decimal.NewFromFloat(2899), MinStock: 8, MaxStock: 80, Status: catalog.ItemStatusActive},
		{Code: "TV002", Name: "海信65E3F 65英寸4K智能电视", EnName: "Hisense 65E3F 65-inch 4K Smart TV", Category: "电视", Unit: "台", PurchasePrice: decimal.NewFromFloat(2800), SalePrice: decimal.NewFromFloat(3599), MinStock: 5, MaxStock: 50, Status: catalog.ItemStatusActive},
		{Code: "WM003", Name: "小天鹅TG100V88 10公斤变频洗衣机", EnName: "Little Swan TG100V88 10kg Inverter Washing Machine", Category: "洗衣机", Unit: "台", PurchasePrice: decimal.NewFromFloat(1800), SalePrice: decimal.NewFromFloat(2399), MinStock: 6, MaxStock: 60, Status: catalog.ItemStatusActive},
		{Code: "RF004", Name: "美的BCD-516 516升对开门冰箱", EnName: "Midea BCD-516 516L Side-by-Side Refrigerator", Category: "冰箱", Unit: "台", PurchasePrice: decimal.NewFromFloat(2400), SalePrice: decimal.NewFromFloat(3199), MinStock: 4, MaxStock: 40, Status: catalog.ItemStatusActive},
	}
	if err := m.db.Create(&items).Error; err != nil {
		return fmt.Errorf("failed to seed items: %w", err)
	}

	// Opening stock with one ADJUST ledger row each so the signed transaction
	// sum matches the stock quantity from day one.
	type opening struct {
		item      int
		warehouse int
		qty       int
		available int
		reserved  int
	}
	openings := []opening{
		{0, 0, 35, 30, 5},
		{0, 1, 12, 12, 0},
		{1, 0, 18, 15, 3},
		{1, 1, 6, 6, 0},
		{2, 0, 28, 24, 4},
		{2, 1, 8, 7, 1},
		{3, 0, 15, 12, 3},
		{3, 1, 3, 3, 0},
	}
	for _, o := range openings {
		stock := inventory.Stock{
			ItemID:            items[o.item].ID,
			WarehouseID:       warehouses[o.warehouse].ID,
			Quantity:          o.qty,
			AvailableQuantity: o.available,
			ReservedQuantity:  o.reserved,
			AvgCost:           items[o.item].PurchasePrice,
		}
		if err := m.db.Create(&stock).Error; err != nil {
			return fmt.Errorf("failed to seed stock: %w", err)
		}

		transaction := inventory.Transaction{
			ItemID:        items[o.item].ID,
			WarehouseID:   warehouses[o.warehouse].ID,
			Type:          inventory.TransactionTypeIn,
			ReferenceNo:   "ADJ-INIT",
			ReferenceType: inventory.ReferenceAdjust,
			Quantity:      o.qty,
			UnitCost:      items[o.item].PurchasePrice,
			Remarks:       "Opening stock",
		}
		if err := m.db.Create(&transaction).Error; err != nil {
			return fmt.Errorf("failed to seed opening transaction: %w", err)
		}
	}

	log.Println("Initial data seeded")
	return nil
}
