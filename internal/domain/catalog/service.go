// internal/domain/catalog/service.go
package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/your-org/warehouse-backend/internal/config"
	"github.com/your-org/warehouse-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateItemRequest represents item creation data
type CreateItemRequest struct {
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	EnName        string          `json:"en_name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	Description   string          `json:"description"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MinStock      int             `json:"min_stock"`
	MaxStock      int             `json:"max_stock"`
}

// UpdateItemRequest represents item update data
type UpdateItemRequest struct {
	Name          string           `json:"name"`
	EnName        string           `json:"en_name"`
	Category      string           `json:"category"`
	Unit          string           `json:"unit"`
	Description   string           `json:"description"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	MinStock      *int             `json:"min_stock"`
	MaxStock      *int             `json:"max_stock"`
	Status        ItemStatus       `json:"status"`
}

// ItemListRequest represents item list query parameters
type ItemListRequest struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=10"`
	Search   string `form:"search"`
	Category string `form:"category"`
}

// ItemListResponse represents a paginated item list
type ItemListResponse struct {
	Data     []Item `json:"data"`
	Total    int64  `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// ITEM MANAGEMENT

// CreateItem creates a new catalog item
func (s *Service) CreateItem(req *CreateItemRequest) (*Item, error) {
	var existing Item
	if err := s.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("item with code '%s' already exists", req.Code)
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}

	item := &Item{
		Code:          req.Code,
		Name:          req.Name,
		EnName:        req.EnName,
		Category:      req.Category,
		Unit:          unit,
		Description:   req.Description,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		MinStock:      req.MinStock,
		MaxStock:      req.MaxStock,
		Status:        ItemStatusActive,
	}

	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Persistence("failed to create item", err)
	}

	return item, nil
}

// GetItem retrieves an item by id
func (s *Service) GetItem(id uint) (*Item, error) {
	var item Item
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("item %d not found", id)
		}
		return nil, apperrors.Persistence("failed to retrieve item", err)
	}
	return &item, nil
}

// ListItems retrieves items with search and pagination
func (s *Service) ListItems(req *ItemListRequest) (*ItemListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 10
	}

	query := s.db.Model(&Item{})
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		query = query.Where("name LIKE ? OR code LIKE ? OR en_name LIKE ?", pattern, pattern, pattern)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Persistence("failed to count items", err)
	}

	var items []Item
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC").Limit(req.PageSize).Offset(offset).Find(&items).Error; err != nil {
		return nil, apperrors.Persistence("failed to retrieve items", err)
	}

	return &ItemListResponse{
		Data:     items,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// UpdateItem updates an existing item
func (s *Service) UpdateItem(id uint, req *UpdateItemRequest) (*Item, error) {
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.EnName != "" {
		item.EnName = req.EnName
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	if req.Description != "" {
		item.Description = req.Description
	}
	if req.PurchasePrice != nil {
		item.PurchasePrice = *req.PurchasePrice
	}
	if req.SalePrice != nil {
		item.SalePrice = *req.SalePrice
	}
	if req.MinStock != nil {
		item.MinStock = *req.MinStock
	}
	if req.MaxStock != nil {
		item.MaxStock = *req.MaxStock
	}
	if req.Status != "" {
		item.Status = req.Status
	}

	if err := s.db.Save(item).Error; err != nil {
		return nil, apperrors.Persistence("failed to update item", err)
	}

	return item, nil
}

// DeleteItem removes an item unless sales history references it
func (s *Service) DeleteItem(id uint) error {
	var refs int64
	if err := s.db.Table("sales_order_items").Where("item_id = ?", id).Count(&refs).Error; err != nil {
		return apperrors.Persistence("failed to check item references", err)
	}
	if refs > 0 {
		return apperrors.Conflict("item %d has sales records and cannot be deleted", id)
	}

	result := s.db.Delete(&Item{}, id)
	if result.Error != nil {
		return apperrors.Persistence("failed to delete item", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("item %d not found", id)
	}

	return nil
}

// ListCategories returns the distinct item categories in use
func (s *Service) ListCategories() ([]string, error) {
	var categories []string
	if err := s.db.Model(&Item{}).
		Distinct("category").
		Where("category != ''").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, apperrors.Persistence("failed to list categories", err)
	}
	return categories, nil
}

// SUPPLIER MANAGEMENT

// CreateSupplierRequest represents supplier creation data
type CreateSupplierRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	TaxNumber     string `json:"tax_number"`
	PaymentTerms  string `json:"payment_terms"`
	SupplierType  string `json:"supplier_type"`
}

// UpdateSupplierRequest represents supplier update data
type UpdateSupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	TaxNumber     string `json:"tax_number"`
	PaymentTerms  string `json:"payment_terms"`
	SupplierType  string `json:"supplier_type"`
	Status        string `json:"status"`
}

// CreateSupplier creates a new supplier
func (s *Service) CreateSupplier(req *CreateSupplierRequest) (*Supplier, error) {
	var existing Supplier
	if err := s.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("supplier with code '%s' already exists", req.Code)
	}

	supplier := &Supplier{
		Code:          req.Code,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		TaxNumber:     req.TaxNumber,
		PaymentTerms:  defaultString(req.PaymentTerms, "net_30"),
		SupplierType:  defaultString(req.SupplierType, "manufacturer"),
		Status:        "active",
	}

	if err := s.db.Create(supplier).Error; err != nil {
		return nil, apperrors.Persistence("failed to create supplier", err)
	}

	return supplier, nil
}

// GetSupplier retrieves a supplier by id
func (s *Service) GetSupplier(id uint) (*Supplier, error) {
	var supplier Supplier
	if err := s.db.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("supplier %d not found", id)
		}
		return nil, apperrors.Persistence("failed to retrieve supplier", err)
	}
	return &supplier, nil
}

// ListSuppliers retrieves all active suppliers
func (s *Service) ListSuppliers() ([]Supplier, error) {
	var suppliers []Supplier
	if err := s.db.Where("status = ?", "active").Order("created_at DESC").Find(&suppliers).Error; err != nil {
		return nil, apperrors.Persistence("failed to retrieve suppliers", err)
	}
	return suppliers, nil
}

// UpdateSupplier applies partial updates to a supplier
func (s *Service) UpdateSupplier(id uint, req *UpdateSupplierRequest) (*Supplier, error) {
	supplier, err := s.GetSupplier(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		supplier.Name = req.Name
	}
	if req.ContactPerson != "" {
		supplier.ContactPerson = req.ContactPerson
	}
	if req.Phone != "" {
		supplier.Phone = req.Phone
	}
	if req.Email != "" {
		supplier.Email = req.Email
	}
	if req.Address != "" {
		supplier.Address = req.Address
	}
	if req.TaxNumber != "" {
		supplier.TaxNumber = req.TaxNumber
	}
	if req.PaymentTerms != "" {
		supplier.PaymentTerms = req.PaymentTerms
	}
	if req.SupplierType != "" {
		supplier.SupplierType = req.SupplierType
	}
	if req.Status != "" {
		if req.Status != "active" && req.Status != "inactive" {
			return nil, apperrors.Validation("status must be active or inactive")
		}
		supplier.Status = req.Status
	}

	if err := s.db.Save(supplier).Error; err != nil {
		return nil, apperrors.Persistence("failed to update supplier", err)
	}

	return supplier, nil
}

// DeleteSupplier removes a supplier
func (s *Service) DeleteSupplier(id uint) error {
	result := s.db.Delete(&Supplier{}, id)
	if result.Error != nil {
		return apperrors.Persistence("failed to delete supplier", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("supplier %d not found", id)
	}
	return nil
}

// CUSTOMER MANAGEMENT

// CreateCustomerRequest represents customer creation data
type CreateCustomerRequest struct {
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	ContactPerson string          `json:"contact_person"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	TaxNumber     string          `json:"tax_number"`
	CustomerType  string          `json:"customer_type"`
	CreditLimit   decimal.Decimal `json:"credit_limit"`
	PaymentTerms  string          `json:"payment_terms"`
}

// UpdateCustomerRequest represents customer update data
type UpdateCustomerRequest struct {
	Name          string           `json:"name"`
	ContactPerson string           `json:"contact_person"`
	Phone         string           `json:"phone"`
	Email         string           `json:"email"`
	Address       string           `json:"address"`
	TaxNumber     string           `json:"tax_number"`
	CustomerType  string           `json:"customer_type"`
	CreditLimit   *decimal.Decimal `json:"credit_limit"`
	PaymentTerms  string           `json:"payment_terms"`
	Status        string           `json:"status"`
}

// CreateCustomer creates a new customer
func (s *Service) CreateCustomer(req *CreateCustomerRequest) (*Customer, error) {
	var existing Customer
	if err := s.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("customer with code '%s' already exists", req.Code)
	}

	customer := &Customer{
		Code:          req.Code,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		TaxNumber:     req.TaxNumber,
		CustomerType:  defaultString(req.CustomerType, "retail"),
		CreditLimit:   req.CreditLimit,
		PaymentTerms:  defaultString(req.PaymentTerms, "cash"),
		Status:        "active",
	}

	if err := s.db.Create(customer).Error; err != nil {
		return nil, apperrors.Persistence("failed to create customer", err)
	}

	return customer, nil
}

// GetCustomer retrieves a customer by id
func (s *Service) GetCustomer(id uint) (*Customer, error) {
	var customer Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("customer %d not found", id)
		}
		return nil, apperrors.Persistence("failed to retrieve customer", err)
	}
	return &customer, nil
}

// ListCustomers retrieves all active customers
func (s *Service) ListCustomers() ([]Customer, error) {
	var customers []Customer
	if err := s.db.Where("status = ?", "active").Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, apperrors.Persistence("failed to retrieve customers", err)
	}
	return customers, nil
}

// UpdateCustomer applies partial updates to a customer
func (s *Service) UpdateCustomer(id uint, req *UpdateCustomerRequest) (*Customer, error) {
	customer, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		customer.Name = req.Name
	}
	if req.ContactPerson != "" {
		customer.ContactPerson = req.ContactPerson
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.Email != "" {
		customer.Email = req.Email
	}
	if req.Address != "" {
		customer.Address = req.Address
	}
	if req.TaxNumber != "" {
		customer.TaxNumber = req.TaxNumber
	}
	if req.CustomerType != "" {
		customer.CustomerType = req.CustomerType
	}
	if req.CreditLimit != nil {
		customer.CreditLimit = *req.CreditLimit
	}
	if req.PaymentTerms != "" {
		customer.PaymentTerms = req.PaymentTerms
	}
	if req.Status != "" {
		if req.Status != "active" && req.Status != "inactive" {
			return nil, apperrors.Validation("status must be active or inactive")
		}
		customer.Status = req.Status
	}

	if err := s.db.Save(customer).Error; err != nil {
		return nil, apperrors.Persistence("failed to update customer", err)
	}

	return customer, nil
}

// DeleteCustomer removes a customer
func (s *Service) DeleteCustomer(id uint) error {
	result := s.db.Delete(&Customer{}, id)
	if result.Error != nil {
		return apperrors.Persistence("failed to delete customer", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("customer %d not found", id)
	}
	return nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
