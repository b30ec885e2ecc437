// internal/domain/user/entity.go
package user

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserStatus represents account state
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// User represents an operator account. The permission flags gate the
// price-sensitive operations; WarehouseID scopes non-admin users to one
// warehouse.
type User struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Username           string          `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Password           string          `gorm:"not null;size:255" json:"-"`
	Email              string          `gorm:"size:100" json:"email"`
	Role               string          `gorm:"size:20;default:'user'" json:"role"`
	WarehouseID        *uint           `gorm:"index" json:"warehouse_id"`
	CanModifyPrice     bool            `gorm:"default:false" json:"can_modify_price"`
	CanDiscount        bool            `gorm:"default:false" json:"can_discount"`
	MaxDiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"max_discount_percent"`
	CanAccessReports   bool            `gorm:"default:false" json:"can_access_reports"`
	CanManageUsers     bool            `gorm:"default:false" json:"can_manage_users"`
	Status             UserStatus      `gorm:"size:20;default:'active'" json:"status"`
	LastLoginAt        *time.Time      `json:"last_login_at"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account may log in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsAdmin reports whether the account has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
