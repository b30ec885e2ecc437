// internal/domain/sales/service.go
package sales

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/your-org/warehouse-backend/internal/domain/catalog"
	"github.com/your-org/warehouse-backend/internal/domain/inventory"
	"github.com/your-org/warehouse-backend/internal/domain/payment"
	"github.com/your-org/warehouse-backend/internal/pkg/apperrors"
)

var oneHundred = decimal.NewFromInt(100)

// Service handles sales order business logic
type Service struct {
	db        *gorm.DB
	inventory *inventory.Service
}

// NewService creates a new sales order service
func NewService(db *gorm.DB, inventorySvc *inventory.Service) *Service {
	return &Service{
		db:        db,
		inventory: inventorySvc,
	}
}

// PaymentInfo carries an immediate payment taken at order creation
type PaymentInfo struct {
	PaymentMethod  string          `json:"payment_method" binding:"required"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	ChangeAmount   decimal.Decimal `json:"change_amount"`
}

// CreateOrderRequest represents a sales order creation request
type CreateOrderRequest struct {
	CustomerID     uint                     `json:"customer_id" binding:"required"`
	WarehouseID    uint                     `json:"warehouse_id" binding:"required"`
	OrderDate      string                   `json:"order_date"`
	DeliveryDate   string                   `json:"delivery_date"`
	DiscountAmount decimal.Decimal          `json:"discount_amount"`
	RoundAmount    decimal.Decimal          `json:"round_amount"`
	Remarks        string                   `json:"remarks"`
	Items          []CreateOrderItemRequest `json:"items" binding:"required"`
	PaymentInfo    *PaymentInfo             `json:"payment_info"`
}

// CreateOrderItemRequest represents a sales order line in a creation request
type CreateOrderItemRequest struct {
	ItemID    uint            `json:"item_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// DeliverOrderRequest records delivered quantities against order lines
type DeliverOrderRequest struct {
	Items []DeliverOrderItemRequest `json:"items" binding:"required"`
}

// DeliverOrderItemRequest is a single delivered line. WarehouseID defaults to
// the order's warehouse when zero.
type DeliverOrderItemRequest struct {
	ItemID            uint `json:"item_id" binding:"required"`
	WarehouseID       uint `json:"warehouse_id"`
	DeliveredQuantity int  `json:"delivered_quantity" binding:"required,min=1"`
}

// OrderDetail is an order with resolved customer and warehouse names
type OrderDetail struct {
	Order
	CustomerName  string `json:"customer_name"`
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
	CustomerID uint   `form:"customer_id"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// CreateOrder creates a sales order, snapshots costs, computes profit and
// optionally records an immediate payment. All of it runs in one transaction.
func (s *Service) CreateOrder(req *CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("sales order requires at least one item")
	}

	var customer catalog.Customer
	if err := s.db.First(&customer, req.CustomerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.Validation("customer %d not found", req.CustomerID)
		}
		return nil, apperrors.Persistence("failed to load customer", err)
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

	var deliveryDate *time.Time
	if req.DeliveryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DeliveryDate)
		if err != nil {
			return nil, apperrors.Validation("invalid delivery_date: %s", req.DeliveryDate)
		}
		deliveryDate = &parsed
	}

	order := &Order{
		OrderNo:        fmt.Sprintf("SO%d", time.Now().UnixMilli()),
		CustomerID:     req.CustomerID,
		WarehouseID:    req.WarehouseID,
		OrderDate:      orderDate,
		DeliveryDate:   deliveryDate,
		DiscountAmount: req.DiscountAmount,
		RoundAmount:    req.RoundAmount,
		Status:         OrderStatusPending,
		PaymentStatus:  PaymentStatusUnpaid,
		PaymentType:    PaymentTypeFull,
		Remarks:        req.Remarks,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		totalCost := decimal.Zero
		for _, line := range req.Items {
			if line.Quantity <= 0 {
				return apperrors.Validation("item %d quantity must be positive", line.ItemID)
			}

			var item catalog.Item
			if err := tx.First(&item, line.ItemID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return apperrors.Validation("item %d not found", line.ItemID)
				}
				return apperrors.Persistence("failed to load item", err)
			}

			qty := decimal.NewFromInt(int64(line.Quantity))
			lineTotal := line.UnitPrice.Mul(qty)
			lineCost := item.PurchasePrice.Mul(qty)

			order.Items = append(order.Items, OrderItem{
				ItemID:     line.ItemID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				UnitCost:   item.PurchasePrice,
				TotalPrice: lineTotal,
				TotalCost:  lineCost,
			})
			total = total.Add(lineTotal)
			totalCost = totalCost.Add(lineCost)
		}

		order.TotalAmount = total
		order.TotalCost = totalCost
		order.GrossProfit = total.Sub(totalCost)
		if total.IsPositive() {
			order.ProfitMargin = order.GrossProfit.Div(total).Mul(oneHundred).Round(2)
		}
		order.FinalAmount = total.Sub(req.DiscountAmount).Add(req.RoundAmount)

		if err := tx.Create(order).Error; err != nil {
			return apperrors.Persistence("failed to create sales order", err)
		}

		if req.PaymentInfo != nil && req.PaymentInfo.PaymentMethod != "" {
			received := req.PaymentInfo.ReceivedAmount
			if received.IsZero() {
				received = order.FinalAmount
			}
			record := &payment.Record{
				OrderID:        order.ID,
				PaymentMethod:  req.PaymentInfo.PaymentMethod,
				Amount:         order.FinalAmount,
				ReceivedAmount: received,
				ChangeAmount:   req.PaymentInfo.ChangeAmount,
				DiscountAmount: req.DiscountAmount,
				RoundAmount:    req.RoundAmount,
			}
			if err := tx.Create(record).Error; err != nil {
				return apperrors.Persistence("failed to create payment record", err)
			}

			if err := tx.Model(&Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
				"payment_status": PaymentStatusPaid,
				"paid_amount":    order.FinalAmount,
			}).Error; err != nil {
				return apperrors.Persistence("failed to update payment status", err)
			}
			order.PaymentStatus = PaymentStatusPaid
			order.PaidAmount = order.FinalAmount
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// DeliverOrder records delivered quantities, posts the stock movements and
// recomputes the order status. If any line lacks stock the whole delivery is
// rolled back.
func (s *Service) DeliverOrder(orderID uint, req *DeliverOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("delivery requires at least one item")
	}

	var order Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("sales order %d not found", orderID)
			}
			return apperrors.Persistence("failed to load sales order", err)
		}
		if order.Status == OrderStatusCancelled {
			return apperrors.InvalidRequest("sales order %s is cancelled", order.OrderNo)
		}

		referenceNo := fmt.Sprintf("SO-%d", order.ID)
		for _, del := range req.Items {
			if del.DeliveredQuantity <= 0 {
				return apperrors.Validation("item %d delivered quantity must be positive", del.ItemID)
			}

			result := tx.Model(&OrderItem{}).
				Where("order_id = ? AND item_id = ?", order.ID, del.ItemID).
				Update("delivered_quantity", gorm.Expr("delivered_quantity + ?", del.DeliveredQuantity))
			if result.Error != nil {
				return apperrors.Persistence("failed to update delivered quantity", result.Error)
			}
			if result.RowsAffected == 0 {
				return apperrors.Validation("item %d is not part of order %s", del.ItemID, order.OrderNo)
			}

			warehouseID := del.WarehouseID
			if warehouseID == 0 {
				warehouseID = order.WarehouseID
			}
			if err := s.inventory.DeliverSale(tx, referenceNo, del.ItemID, warehouseID, del.DeliveredQuantity); err != nil {
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

// recomputeStatus derives the fulfillment status from delivered line
// quantities. Repeating it without new deliveries yields the same result.
func (s *Service) recomputeStatus(tx *gorm.DB, orderID uint) (OrderStatus, error) {
	var pending int64
	if err := tx.Model(&OrderItem{}).
		Where("order_id = ? AND quantity > delivered_quantity", orderID).
		Count(&pending).Error; err != nil {
		return "", apperrors.Persistence("failed to count pending lines", err)
	}
	if pending == 0 {
		return OrderStatusCompleted, nil
	}
	return OrderStatusPartial, nil
}

// GetOrder returns the order with customer/warehouse names and line details
func (s *Service) GetOrder(orderID uint) (*OrderDetail, []OrderItemDetail, error) {
	var detail OrderDetail
	err := s.db.Table("sales_orders so").
		Select("so.*, c.name AS customer_name, w.name AS warehouse_name").
		Joins("LEFT JOIN customers c ON c.id = so.customer_id").
		Joins("LEFT JOIN warehouses w ON w.id = so.warehouse_id").
		Where("so.id = ?", orderID).
		First(&detail).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperrors.NotFound("sales order %d not found", orderID)
		}
		return nil, nil, apperrors.Persistence("failed to load sales order", err)
	}

	var items []OrderItemDetail
	err = s.db.Table("sales_order_items soi").
		Select("soi.*, i.code AS item_code, i.name AS item_name, i.unit").
		Joins("LEFT JOIN items i ON i.id = soi.item_id").
		Where("soi.order_id = ?", orderID).
		Order("soi.id ASC").
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

	query := s.db.Table("sales_orders so").
		Joins("LEFT JOIN customers c ON c.id = so.customer_id").
		Joins("LEFT JOIN warehouses w ON w.id = so.warehouse_id")

	if req.Status != "" {
		query = query.Where("so.status = ?", req.Status)
	}
	if req.CustomerID != 0 {
		query = query.Where("so.customer_id = ?", req.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Persistence("failed to count sales orders", err)
	}

	var orders []OrderDetail
	err := query.
		Select("so.*, c.name AS customer_name, w.name AS warehouse_name").
		Order("so.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&orders).Error
	if err != nil {
		return nil, 0, apperrors.Persistence("failed to list sales orders", err)
	}

	return orders, total, nil
}

func (s *Service) loadOrder(orderID uint) (*Order, error) {
	var order Order
	if err := s.db.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, apperrors.Persistence("failed to reload sales order", err)
	}
	return &order, nil
}
