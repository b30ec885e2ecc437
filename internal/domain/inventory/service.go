// internal/domain/inventory/service.go
package inventory

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/warehouse-backend/internal/config"
	"github.com/your-org/warehouse-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles the stock ledger: every mutation of on-hand quantities
// goes through here and leaves a transaction record behind.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new inventory service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AdjustRequest represents a manual stock adjustment
type AdjustRequest struct {
	ItemID      uint   `json:"item_id" binding:"required"`
	WarehouseID uint   `json:"warehouse_id" binding:"required"`
	Quantity    int    `json:"adjust_quantity" binding:"required"`
	Remarks     string `json:"remarks"`
}

// TransferRequest represents a stock transfer between warehouses
type TransferRequest struct {
	ItemID          uint   `json:"item_id" binding:"required"`
	FromWarehouseID uint   `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   uint   `json:"to_warehouse_id" binding:"required"`
	Quantity        int    `json:"quantity" binding:"required"`
	Remarks         string `json:"remarks"`
}

// CreateWarehouseRequest represents warehouse creation data
type CreateWarehouseRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Manager string `json:"manager"`
}

// UpdateWarehouseRequest represents warehouse update data
type UpdateWarehouseRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Manager string `json:"manager"`
	Status  string `json:"status"`
}

// StockListRequest represents stock list query parameters
type StockListRequest struct {
	WarehouseID uint `form:"warehouse_id"`
	ItemID      uint `form:"item_id"`
	LowStock    bool `form:"low_stock"`
}

// StockDetail is a stock row joined with item and warehouse master data
type StockDetail struct {
	ID                uint            `json:"id"`
	ItemID            uint            `json:"item_id"`
	WarehouseID       uint            `json:"warehouse_id"`
	Quantity          int             `json:"quantity"`
	AvailableQuantity int             `json:"available_quantity"`
	ReservedQuantity  int             `json:"reserved_quantity"`
	AvgCost           decimal.Decimal `json:"avg_cost"`
	LastUpdated       time.Time       `json:"last_updated"`
	ItemName          string          `json:"item_name"`
	ItemCode          string          `json:"item_code"`
	EnName            string          `json:"en_name"`
	Unit              string          `json:"unit"`
	MinStock          int             `json:"min_stock"`
	MaxStock          int             `json:"max_stock"`
	WarehouseName     string          `json:"warehouse_name"`
	WarehouseCode     string          `json:"warehouse_code"`
}

// AlertRow is a stock row tagged with its alert category
type AlertRow struct {
	StockDetail
	AlertType AlertType `json:"alert_type"`
}

// TransactionListRequest represents ledger query parameters
type TransactionListRequest struct {
	ItemID      uint            `form:"item_id"`
	WarehouseID uint            `form:"warehouse_id"`
	Type        TransactionType `form:"transaction_type"`
	Page        int             `form:"page,default=1"`
	PageSize    int             `form:"page_size,default=20"`
}

// TransactionDetail is a ledger row joined with item and warehouse names
type TransactionDetail struct {
	Transaction
	ItemName      string `json:"item_name"`
	ItemCode      string `json:"item_code"`
	WarehouseName string `json:"warehouse_name"`
}

// TransactionListResponse represents a paginated ledger listing
type TransactionListResponse struct {
	Data     []TransactionDetail `json:"data"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

// WAREHOUSE MANAGEMENT

// CreateWarehouse creates a new warehouse
func (s *Service) CreateWarehouse(req *CreateWarehouseRequest) (*Warehouse, error) {
	var existing Warehouse
	if err := s.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("warehouse with code '%s' already exists", req.Code)
	}

	warehouse := &Warehouse{
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
		Manager: req.Manager,
		Status:  "active",
	}

	if err := s.db.Create(warehouse).Error; err != nil {
		return nil, apperrors.Persistence("failed to create warehouse", err)
	}

	return warehouse, nil
}

// GetWarehouse retrieves a warehouse by id
func (s *Service) GetWarehouse(id uint) (*Warehouse, error) {
	var warehouse Warehouse
	if err := s.db.First(&warehouse, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("warehouse %d not found", id)
		}
		return nil, apperrors.Persistence("failed to retrieve warehouse", err)
	}
	return &warehouse, nil
}

// ListWarehouses retrieves all active warehouses
func (s *Service) ListWarehouses() ([]Warehouse, error) {
	var warehouses []Warehouse
	if err := s.db.Where("status = ?", "active").Find(&warehouses).Error; err != nil {
		return nil, apperrors.Persistence("failed to retrieve warehouses", err)
	}
	return warehouses, nil
}

// UpdateWarehouse applies partial updates to a warehouse
func (s *Service) UpdateWarehouse(id uint, req *UpdateWarehouseRequest) (*Warehouse, error) {
	warehouse, err := s.GetWarehouse(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		warehouse.Name = req.Name
	}
	if req.Address != "" {
		warehouse.Address = req.Address
	}
	if req.Manager != "" {
		warehouse.Manager = req.Manager
	}
	if req.Status != "" {
		if req.Status != "active" && req.Status != "inactive" {
			return nil, apperrors.Validation("status must be active or inactive")
		}
		warehouse.Status = req.Status
	}

	if err := s.db.Save(warehouse).Error; err != nil {
		return nil, apperrors.Persistence("failed to update warehouse", err)
	}

	return warehouse, nil
}

// DeleteWarehouse removes a warehouse that holds no stock
func (s *Service) DeleteWarehouse(id uint) error {
	var stocked int64
	if err := s.db.Model(&Stock{}).
		Where("warehouse_id = ? AND quantity != 0", id).
		Count(&stocked).Error; err != nil {
		return apperrors.Persistence("failed to check warehouse stock", err)
	}
	if stocked > 0 {
		return apperrors.Conflict("warehouse %d still holds stock and cannot be deleted", id)
	}

	result := s.db.Delete(&Warehouse{}, id)
	if result.Error != nil {
		return apperrors.Persistence("failed to delete warehouse", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("warehouse %d not found", id)
	}

	return nil
}

// STOCK MUTATIONS

var referenceSeq atomic.Uint64

// newReferenceNo builds a ledger reference from the current millisecond plus
// a process-local sequence, so two operations landing in the same
// millisecond still get distinct references.
func newReferenceNo(prefix string) string {
	return fmt.Sprintf("%s%d-%d", prefix, time.Now().UnixMilli(), referenceSeq.Add(1))
}

// Adjust applies a signed quantity delta to a stock row, creating it from a
// zero baseline when absent. Negative resulting stock is permitted for
// adjustments; it is the operator's responsibility.
func (s *Service) Adjust(req *AdjustRequest) (*Transaction, error) {
	referenceNo := newReferenceNo("ADJ")

	txnType := TransactionTypeIn
	if req.Quantity < 0 {
		txnType = TransactionTypeOut
	}

	movement := &Transaction{
		ItemID:        req.ItemID,
		WarehouseID:   req.WarehouseID,
		Type:          txnType,
		ReferenceNo:   referenceNo,
		ReferenceType: ReferenceAdjust,
		Quantity:      req.Quantity,
		Remarks:       req.Remarks,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.applyDelta(tx, req.ItemID, req.WarehouseID, req.Quantity); err != nil {
			return err
		}
		if err := tx.Create(movement).Error; err != nil {
			return apperrors.Persistence("failed to record adjustment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

// Transfer atomically moves stock between two warehouses, recording a
// matched OUT/IN transaction pair under one transfer reference. Either both
// warehouses and both ledger rows change, or nothing does.
func (s *Service) Transfer(req *TransferRequest) (string, error) {
	if req.FromWarehouseID == req.ToWarehouseID {
		return "", apperrors.InvalidRequest("source and destination warehouse must differ")
	}
	if req.Quantity <= 0 {
		return "", apperrors.Validation("transfer quantity must be positive")
	}

	transferNo := newReferenceNo("TF")

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.debitAvailable(tx, req.ItemID, req.FromWarehouseID, req.Quantity); err != nil {
			return err
		}
		if err := s.applyDelta(tx, req.ItemID, req.ToWarehouseID, req.Quantity); err != nil {
			return err
		}

		out := &Transaction{
			ItemID:        req.ItemID,
			WarehouseID:   req.FromWarehouseID,
			Type:          TransactionTypeOut,
			ReferenceNo:   transferNo,
			ReferenceType: ReferenceTransfer,
			Quantity:      -req.Quantity,
			Remarks:       req.Remarks,
		}
		if err := tx.Create(out).Error; err != nil {
			return apperrors.Persistence("failed to record outbound transfer", err)
		}

		in := &Transaction{
			ItemID:        req.ItemID,
			WarehouseID:   req.ToWarehouseID,
			Type:          TransactionTypeIn,
			ReferenceNo:   transferNo,
			ReferenceType: ReferenceTransfer,
			Quantity:      req.Quantity,
			Remarks:       req.Remarks,
		}
		if err := tx.Create(in).Error; err != nil {
			return apperrors.Persistence("failed to record inbound transfer", err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return transferNo, nil
}

// ReceivePurchase increases stock for a received purchase line inside the
// caller's transaction. The avg_cost field is overwritten with the incoming
// unit cost (last-cost, not a weighted average).
func (s *Service) ReceivePurchase(tx *gorm.DB, referenceNo string, itemID, warehouseID uint, quantity int, unitCost decimal.Decimal) error {
	if quantity <= 0 {
		return apperrors.Validation("received quantity must be positive")
	}

	if err := s.applyDelta(tx, itemID, warehouseID, quantity); err != nil {
		return err
	}

	if err := tx.Model(&Stock{}).
		Where("item_id = ? AND warehouse_id = ?", itemID, warehouseID).
		Update("avg_cost", unitCost).Error; err != nil {
		return apperrors.Persistence("failed to update average cost", err)
	}

	movement := &Transaction{
		ItemID:        itemID,
		WarehouseID:   warehouseID,
		Type:          TransactionTypeIn,
		ReferenceNo:   referenceNo,
		ReferenceType: ReferencePurchase,
		Quantity:      quantity,
		UnitCost:      unitCost,
	}
	if err := tx.Create(movement).Error; err != nil {
		return apperrors.Persistence("failed to record purchase receipt", err)
	}

	return nil
}

// DeliverSale decreases stock for a delivered sales line inside the caller's
// transaction. The decrement is conditional on sufficient availability, so
// two competing deliveries cannot drive stock negative.
func (s *Service) DeliverSale(tx *gorm.DB, referenceNo string, itemID, warehouseID uint, quantity int) error {
	if quantity <= 0 {
		return apperrors.Validation("delivered quantity must be positive")
	}

	if err := s.debitAvailable(tx, itemID, warehouseID, quantity); err != nil {
		return err
	}

	movement := &Transaction{
		ItemID:        itemID,
		WarehouseID:   warehouseID,
		Type:          TransactionTypeOut,
		ReferenceNo:   referenceNo,
		ReferenceType: ReferenceSales,
		Quantity:      -quantity,
	}
	if err := tx.Create(movement).Error; err != nil {
		return apperrors.Persistence("failed to record sales delivery", err)
	}

	return nil
}

// applyDelta adds the signed delta to both quantity and available_quantity,
// creating the stock row from a zero baseline when absent.
func (s *Service) applyDelta(tx *gorm.DB, itemID, warehouseID uint, delta int) error {
	result := tx.Model(&Stock{}).
		Where("item_id = ? AND warehouse_id = ?", itemID, warehouseID).
		Updates(map[string]interface{}{
			"quantity":           gorm.Expr("quantity + ?", delta),
			"available_quantity": gorm.Expr("available_quantity + ?", delta),
			"last_updated":       time.Now().UTC(),
		})
	if result.Error != nil {
		return apperrors.Persistence("failed to update stock", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	row := &Stock{
		ItemID:            itemID,
		WarehouseID:       warehouseID,
		Quantity:          delta,
		AvailableQuantity: delta,
	}
	if err := tx.Create(row).Error; err != nil {
		return apperrors.Persistence("failed to create stock row", err)
	}

	return nil
}

// debitAvailable decrements quantity and available_quantity only when enough
// stock is available. The availability check and the decrement are one
// conditional UPDATE, which closes the check-then-act oversell race.
func (s *Service) debitAvailable(tx *gorm.DB, itemID, warehouseID uint, quantity int) error {
	result := tx.Model(&Stock{}).
		Where("item_id = ? AND warehouse_id = ? AND available_quantity >= ?", itemID, warehouseID, quantity).
		Updates(map[string]interface{}{
			"quantity":           gorm.Expr("quantity - ?", quantity),
			"available_quantity": gorm.Expr("available_quantity - ?", quantity),
			"last_updated":       time.Now().UTC(),
		})
	if result.Error != nil {
		return apperrors.Persistence("failed to update stock", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.InsufficientStock("insufficient stock for item %d in warehouse %d", itemID, warehouseID)
	}
	return nil
}

// QUERIES

// GetStock retrieves a single stock row
func (s *Service) GetStock(itemID, warehouseID uint) (*Stock, error) {
	var stock Stock
	if err := s.db.Where("item_id = ? AND warehouse_id = ?", itemID, warehouseID).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no stock for item %d in warehouse %d", itemID, warehouseID)
		}
		return nil, apperrors.Persistence("failed to retrieve stock", err)
	}
	return &stock, nil
}

// ListStock retrieves stock rows joined with item and warehouse master data
func (s *Service) ListStock(req *StockListRequest) ([]StockDetail, error) {
	query := s.db.Table("inventory i").
		Select(`i.id, i.item_id, i.warehouse_id, i.quantity, i.available_quantity, i.reserved_quantity,
			i.avg_cost, i.last_updated,
			it.name AS item_name, it.code AS item_code, it.en_name, it.unit, it.min_stock, it.max_stock,
			w.name AS warehouse_name, w.code AS warehouse_code`).
		Joins("LEFT JOIN items it ON i.item_id = it.id").
		Joins("LEFT JOIN warehouses w ON i.warehouse_id = w.id")

	if req.WarehouseID != 0 {
		query = query.Where("i.warehouse_id = ?", req.WarehouseID)
	}
	if req.ItemID != 0 {
		query = query.Where("i.item_id = ?", req.ItemID)
	}
	if req.LowStock {
		query = query.Where("i.quantity <= it.min_stock")
	}

	var rows []StockDetail
	if err := query.Order("i.last_updated DESC").Scan(&rows).Error; err != nil {
		return nil, apperrors.Persistence("failed to retrieve stock list", err)
	}
	return rows, nil
}

// ListTransactions retrieves ledger records with filters and pagination
func (s *Service) ListTransactions(req *TransactionListRequest) (*TransactionListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	base := s.db.Model(&Transaction{})
	if req.ItemID != 0 {
		base = base.Where("item_id = ?", req.ItemID)
	}
	if req.WarehouseID != 0 {
		base = base.Where("warehouse_id = ?", req.WarehouseID)
	}
	if req.Type != "" {
		base = base.Where("transaction_type = ?", req.Type)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Persistence("failed to count transactions", err)
	}

	query := s.db.Table("inventory_transactions t").
		Select("t.*, i.name AS item_name, i.code AS item_code, w.name AS warehouse_name").
		Joins("LEFT JOIN items i ON t.item_id = i.id").
		Joins("LEFT JOIN warehouses w ON t.warehouse_id = w.id")

	if req.ItemID != 0 {
		query = query.Where("t.item_id = ?", req.ItemID)
	}
	if req.WarehouseID != 0 {
		query = query.Where("t.warehouse_id = ?", req.WarehouseID)
	}
	if req.Type != "" {
		query = query.Where("t.transaction_type = ?", req.Type)
	}

	var rows []TransactionDetail
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("t.transaction_date DESC").Limit(req.PageSize).Offset(offset).Scan(&rows).Error; err != nil {
		return nil, apperrors.Persistence("failed to retrieve transactions", err)
	}

	return &TransactionListResponse{
		Data:     rows,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// Alerts returns stock rows outside their thresholds: out-of-stock first,
// then low stock, then overstock, each group most recently updated first.
func (s *Service) Alerts() ([]AlertRow, error) {
	alertCase := `CASE
		WHEN i.quantity <= 0 THEN 'out_of_stock'
		WHEN i.quantity <= it.min_stock THEN 'low_stock'
		WHEN i.quantity >= it.max_stock THEN 'overstock'
	END`

	var rows []AlertRow
	err := s.db.Table("inventory i").
		Select(`i.id, i.item_id, i.warehouse_id, i.quantity, i.available_quantity, i.reserved_quantity,
			i.avg_cost, i.last_updated,
			it.name AS item_name, it.code AS item_code, it.en_name, it.unit, it.min_stock, it.max_stock,
			w.name AS warehouse_name, w.code AS warehouse_code, `+alertCase+` AS alert_type`).
		Joins("LEFT JOIN items it ON i.item_id = it.id").
		Joins("LEFT JOIN warehouses w ON i.warehouse_id = w.id").
		Where("i.quantity <= 0 OR i.quantity <= it.min_stock OR i.quantity >= it.max_stock").
		Order(`CASE
			WHEN i.quantity <= 0 THEN 1
			WHEN i.quantity <= it.min_stock THEN 2
			WHEN i.quantity >= it.max_stock THEN 3
		END, i.last_updated DESC`).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Persistence("failed to retrieve stock alerts", err)
	}
	return rows, nil
}
