// internal/domain/purchase/service.go
package purchase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/your-org/warehouse-backend/internal/domain/catalog"
	"github.com/your-org/warehouse-backend/internal/domain/inventory"
	"github.com/your-org/warehouse-backend/internal/pkg/apperrors"
)

// Service handles purchase order business logic
type Service struct {
	db        *gorm.DB
	inventory *inventory.Service
}

// NewService creates a new purchase order service
func NewService(db *gorm.DB, inventorySvc *inventory.Service) *Service {
	return &Service{
		db:        db,
		inventory: inventorySvc,
	}
}

// CreateOrderRequest represents a purchase order creation request
type CreateOrderRequest struct {
	SupplierID   uint                     `json:"supplier_id" binding:"required"`
	WarehouseID  uint                     `json:"warehouse_id" binding:"required"`
	OrderDate    string                   `json:"order_date"`
	ExpectedDate string                   `json:"expected_date"`
	Remarks      string                   `json:"remarks"`
	Items        []CreateOrderItemRequest `json:"items" binding:"required"`
}

// CreateOrderItemRequest represents a purchase order line in a creation request
type CreateOrderItemRequest struct {
	ItemID    uint            `json:"item_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// ReceiveOrderRequest records received quantities against order lines
type ReceiveOrderRequest struct {
	Items []ReceiveOrderItemRequest `json:"items" binding:"required"`
}

// ReceiveOrderItemRequest is a single received line
type ReceiveOrderItemRequest struct {
	ItemID           uint `json:"item_id" binding:"required"`
	ReceivedQuantity int  `json:"received_quantity" binding:"required,min=1"`
}

// OrderDetail is an order with resolved supplier and warehouse names
type OrderDetail struct {
	Order
	SupplierName  string `json:"supplier_name"`
	WarehouseName string `json:"warehouse_name"`
}

// OrderItemDetail is an order line with resolved item fields
type OrderItemDetail struct {
	OrderItem
	ItemCode string `json:"item_code"`
	ItemName string `json:"item_name"`
	Unit     string `json:"unit"`
}

// ListOrdersRequest filters the order listing
type ListOrdersRequest struct {
	Status     string `form:"status"`
	SupplierID uint   `form:"supplier_id"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// CreateOrder creates a purchase order with its lines in a single transaction
func (s *Service) CreateOrder(req *CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("purchase order requires at least one item")
	}

	var supplier catalog.Supplier
	if err := s.db.First(&supplier, req.SupplierID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.Validation("supplier %d not found", req.SupplierID)
		}
		return nil, apperrors.Persistence("failed to load supplier", err)
	}

	var warehouse inventory.Warehouse
	if err := s.db.First(&warehouse, req.WarehouseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.Validation("warehouse %d not found", req.WarehouseID)
		}
		return nil, apperrors.Persistence("failed to load warehouse", err)
	}

	orderDate := time.Now()
	if req.OrderDate != "" {
		parsed, err := time.Parse("2006-01-02", req.OrderDate)
		if err != nil {
			return nil, apperrors.Validation("invalid order_date: %s", req.OrderDate)
		}
		orderDate = parsed
	}

	var expectedDate *time.Time
	if req.ExpectedDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpectedDate)
		if err != nil {
			return nil, apperrors.Validation("invalid expected_date: %s", req.ExpectedDate)
		}
		expectedDate = &parsed
	}

	order := &Order{
		OrderNo:      fmt.Sprintf("PO%d", time.Now().UnixMilli()),
		SupplierID:   req.SupplierID,
		WarehouseID:  req.WarehouseID,
		OrderDate:    orderDate,
		ExpectedDate: expectedDate,
		Status:       OrderStatusPending,
		Remarks:      req.Remarks,
	}

	total := decimal.Zero
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, apperrors.Validation("item %d quantity must be positive", line.ItemID)
		}
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		order.Items = append(order.Items, OrderItem{
			ItemID:     line.ItemID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: lineTotal,
		})
		total = total.Add(lineTotal)
	}
	order.TotalAmount = total

	if err := s.db.Create(order).Error; err != nil {
		return nil, apperrors.Persistence("failed to create purchase order", err)
	}

	return order, nil
}

// ReceiveOrder records received quantities, posts the stock movements and
// recomputes the order status. Everything happens in one transaction.
func (s *Service) ReceiveOrder(orderID uint, req *ReceiveOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("receive requires at least one item")
	}

	var order Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("purchase order %d not found", orderID)
			}
			return apperrors.Persistence("failed to load purchase order", err)
		}
		if order.Status == OrderStatusCancelled {
			return apperrors.InvalidRequest("purchase order %s is cancelled", order.OrderNo)
		}

		referenceNo := fmt.Sprintf("PO-%d", order.ID)
		for _, recv := range req.Items {
			if recv.ReceivedQuantity <= 0 {
				return apperrors.Validation("item %d received quantity must be positive", recv.ItemID)
			}

			var line OrderItem
			if err := tx.Where("order_id = ? AND item_id = ?", order.ID, recv.ItemID).
				First(&line).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return apperrors.Validation("item %d is not part of order %s", recv.ItemID, order.OrderNo)
				}
				return apperrors.Persistence("failed to load order line", err)
			}

			if err := tx.Model(&OrderItem{}).
				Where("id = ?", line.ID).
				Update("received_quantity", gorm.Expr("received_quantity + ?", recv.ReceivedQuantity)).Error; err != nil {
				return apperrors.Persistence("failed to update received quantity", err)
			}

			if err := s.inventory.ReceivePurchase(tx, referenceNo, recv.ItemID, order.WarehouseID, recv.ReceivedQuantity, line.UnitPrice); err != nil {
				return err
			}
		}

		status, err := s.recomputeStatus(tx, order.ID)
		if err != nil {
			return err
		}
		if err := tx.Model(&Order{}).Where("id = ?", order.ID).
			Update("status", status).Error; err != nil {
			return apperrors.Persistence("failed to update order status", err)
		}
		order.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadOrder(order.ID)
}

// recomputeStatus derives the fulfillment status from the order lines.
// Calling it repeatedly on an unchanged order yields the same result.
func (s *Service) recomputeStatus(tx *gorm.DB, orderID uint) (OrderStatus, error) {
	var pending int64
	if err := tx.Model(&OrderItem{}).
		Where("order_id = ? AND received_quantity < quantity", orderID).
		Count(&pending).Error; err != nil {
		return "", apperrors.Persistence("failed to count pending lines", err)
	}
	if pending == 0 {
		return OrderStatusCompleted, nil
	}

	var received int64
	if err := tx.Model(&OrderItem{}).
		Where("order_id = ? AND received_quantity > 0", orderID).
		Count(&received).Error; err != nil {
		return "", apperrors.Persistence("failed to count received lines", err)
	}
	if received > 0 {
		return OrderStatusPartial, nil
	}
	return OrderStatusPending, nil
}

// GetOrder returns the order with supplier/warehouse names and line details
func (s *Service) GetOrder(orderID uint) (*OrderDetail, []OrderItemDetail, error) {
	var detail OrderDetail
	err := s.db.Table("purchase_orders po").
		Select("po.*, s.name AS supplier_name, w.name AS warehouse_name").
		Joins("LEFT JOIN suppliers s ON s.id = po.supplier_id").
		Joins("LEFT JOIN warehouses w ON w.id = po.warehouse_id").
		Where("po.id = ?", orderID).
		First(&detail).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperrors.NotFound("purchase order %d not found", orderID)
		}
		return nil, nil, apperrors.Persistence("failed to load purchase order", err)
	}

	var items []OrderItemDetail
	err = s.db.Table("purchase_order_items poi").
		Select("poi.*, i.code AS item_code, i.name AS item_name, i.unit").
		Joins("LEFT JOIN items i ON i.id = poi.item_id").
		Where("poi.order_id = ?", orderID).
		Order("poi.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, nil, apperrors.Persistence("failed to load order lines", err)
	}

	return &detail, items, nil
}

// ListOrders returns a filtered, paginated order listing with resolved names
func (s *Service) ListOrders(req *ListOrdersRequest) ([]OrderDetail, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.Table("purchase_orders po").
		Joins("LEFT JOIN suppliers s ON s.id = po.supplier_id").
		Joins("LEFT JOIN warehouses w ON w.id = po.warehouse_id")

	if req.Status != "" {
		query = query.Where("po.status = ?", req.Status)
	}
	if req.SupplierID != 0 {
		query = query.Where("po.supplier_id = ?", req.SupplierID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Persistence("failed to count purchase orders", err)
	}

	var orders []OrderDetail
	err := query.
		Select("po.*, s.name AS supplier_name, w.name AS warehouse_name").
		Order("po.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&orders).Error
	if err != nil {
		return nil, 0, apperrors.Persistence("failed to list purchase orders", err)
	}

	return orders, total, nil
}

func (s *Service) loadOrder(orderID uint) (*Order, error) {
	var order Order
	if err := s.db.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, apperrors.Persistence("failed to reload purchase order", err)
	}
	return &order, nil
}
