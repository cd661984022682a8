package identity

import (
	"time"

	"github.com/courseplatform/backend/internal/domain/identity"
	"github.com/courseplatform/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Address  string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for audit logging
}

// AuthResult contains the result of a successful registration or login
type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	TokenType   string
	User        UserInfo
}

// TokenResult contains a freshly issued access token
type TokenResult struct {
	AccessToken string
	ExpiresAt   time.Time
	TokenType   string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// UpdateProfileInput carries the whitelisted profile fields. Nil fields are left untouched.
type UpdateProfileInput struct {
	FullName *string
	Phone    *string
	Address  *string
}

// AdminUpdateUserInput carries the fields an admin may change on any account
type AdminUpdateUserInput struct {
	UpdateProfileInput
	Role   *string
	Status *string
}

// UserListFilter represents filter options for the admin user list
type UserListFilter struct {
	Role    string
	Status  string
	Search  string
	Page    int
	PerPage int
}

// Session is an authenticated request context: a verified token whose user
// still exists, is active and has not revoked the token
type Session struct {
	UserID uuid.UUID
	Role   identity.Role
	Claims *auth.Claims
}

// IsAdmin returns true if the session belongs to an admin
func (s *Session) IsAdmin() bool {
	return s.Role == identity.RoleAdmin
}

// UserInfo represents a user in API responses
type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserStats summarizes a user's learning and purchases
type UserStats struct {
	TotalEnrollments     int64           `json:"total_enrollments"`
	ActiveEnrollments    int64           `json:"active_enrollments"`
	CompletedEnrollments int64           `json:"completed_enrollments"`
	TotalOrders          int64           `json:"total_orders"`
	PaidOrders           int64           `json:"paid_orders"`
	TotalSpent           decimal.Decimal `json:"total_spent"`
}

// ToUserInfo converts a domain User to UserInfo
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Address:   u.Address,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
