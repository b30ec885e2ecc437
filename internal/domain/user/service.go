// internal/domain/user/service.go
package user

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/your-org/warehouse-backend/internal/config"
	"github.com/your-org/warehouse-backend/internal/pkg/apperrors"
	"github.com/your-org/warehouse-backend/internal/pkg/auth"
)

// Service handles user accounts and authentication
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// LoginRequest represents user login data
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// CreateUserRequest creates an operator account
type CreateUserRequest struct {
	Username           string          `json:"username" binding:"required"`
	Password           string          `json:"password" binding:"required"`
	Email              string          `json:"email"`
	Role               string          `json:"role"`
	WarehouseID        *uint           `json:"warehouse_id"`
	CanModifyPrice     bool            `json:"can_modify_price"`
	CanDiscount        bool            `json:"can_discount"`
	MaxDiscountPercent decimal.Decimal `json:"max_discount_percent"`
	CanAccessReports   bool            `json:"can_access_reports"`
	CanManageUsers     bool            `json:"can_manage_users"`
}

// ChangePasswordRequest changes the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// Login authenticates a user and issues a token pair
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var account User
	result := s.db.Where("username = ? AND status = ?", req.Username, UserStatusActive).First(&account)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, apperrors.InvalidRequest("invalid username or password")
		}
		return nil, apperrors.Persistence("failed to load user", result.Error)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, account.Password); err != nil {
		return nil, apperrors.InvalidRequest("invalid username or password")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(account.ID, account.Username, account.Role)
	if err != nil {
		return nil, apperrors.Persistence("failed to generate access token", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(account.ID, account.Username)
	if err != nil {
		return nil, apperrors.Persistence("failed to generate refresh token", err)
	}

	now := time.Now().UTC()
	account.LastLoginAt = &now
	s.db.Model(&User{}).Where("id = ?", account.ID).Update("last_login_at", now)

	account.Password = ""
	return &AuthResponse{
		User:         &account,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// RefreshToken issues a new token pair from a valid refresh token
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.InvalidRequest("invalid refresh token")
	}

	var account User
	result := s.db.Where("id = ? AND status = ?", claims.UserID, UserStatusActive).First(&account)
	if result.Error != nil {
		return nil, apperrors.InvalidRequest("user not found or disabled")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(account.ID, account.Username, account.Role)
	if err != nil {
		return nil, apperrors.Persistence("failed to generate access token", err)
	}
	newRefreshToken, err := s.jwtManager.GenerateRefreshToken(account.ID, account.Username)
	if err != nil {
		return nil, apperrors.Persistence("failed to generate refresh token", err)
	}

	account.Password = ""
	return &AuthResponse{
		User:         &account,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// GetProfile returns the account for the given user ID
func (s *Service) GetProfile(userID uint) (*User, error) {
	var account User
	if err := s.db.First(&account, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("user %d not found", userID)
		}
		return nil, apperrors.Persistence("failed to load user", err)
	}
	account.Password = ""
	return &account, nil
}

// ChangePassword verifies the current password and sets a new one
func (s *Service) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	var account User
	if err := s.db.First(&account, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("user %d not found", userID)
		}
		return apperrors.Persistence("failed to load user", err)
	}

	if err := s.passwordManager.VerifyPassword(req.CurrentPassword, account.Password); err != nil {
		return apperrors.InvalidRequest("current password is incorrect")
	}
	if err := s.passwordManager.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.Validation("%s", err.Error())
	}

	hashed, err := s.passwordManager.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.Persistence("failed to hash password", err)
	}
	if err := s.db.Model(&User{}).Where("id = ?", userID).
		Update("password", hashed).Error; err != nil {
		return apperrors.Persistence("failed to update password", err)
	}
	return nil
}

// CreateUser creates an operator account. Meant for admin use.
func (s *Service) CreateUser(req *CreateUserRequest) (*User, error) {
	if err := s.passwordManager.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.Validation("%s", err.Error())
	}

	var existing User
	if err := s.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("username %s already exists", req.Username)
	}

	hashed, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Persistence("failed to hash password", err)
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	account := User{
		Username:           req.Username,
		Password:           hashed,
		Email:              req.Email,
		Role:               role,
		WarehouseID:        req.WarehouseID,
		CanModifyPrice:     req.CanModifyPrice,
		CanDiscount:        req.CanDiscount,
		MaxDiscountPercent: req.MaxDiscountPercent,
		CanAccessReports:   req.CanAccessReports,
		CanManageUsers:     req.CanManageUsers,
		Status:             UserStatusActive,
	}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, apperrors.Persistence("failed to create user", err)
	}

	account.Password = ""
	return &account, nil
}

// ListUsers returns all accounts, newest first
func (s *Service) ListUsers(page, limit int) ([]User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Persistence("failed to count users", err)
	}

	var users []User
	if err := s.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, apperrors.Persistence("failed to list users", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, total, nil
}

// SetUserStatus enables or disables an account
func (s *Service) SetUserStatus(userID uint, status UserStatus) error {
	if status != UserStatusActive && status != UserStatusDisabled {
		return apperrors.Validation("invalid status: %s", status)
	}
	result := s.db.Model(&User{}).Where("id = ?", userID).Update("status", status)
	if result.Error != nil {
		return apperrors.Persistence("failed to update user status", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("user %d not found", userID)
	}
	return nil
}
