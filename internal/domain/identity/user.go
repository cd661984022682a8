package identity

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/courseplatform/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents what a user is allowed to do on the platform
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusBanned   UserStatus = "banned"
)

// IsValid reports whether the status is known
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusBanned:
		return true
	}
	return false
}

const (
	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength = 6
	// MaxPasswordBytes is the longest input bcrypt accepts
	MaxPasswordBytes = 72
)

func errPasswordTooLong() error {
	return shared.NewValidationError(fmt.Sprintf("Password cannot exceed %d bytes", MaxPasswordBytes))
}

// User represents an account on the platform.
// TokenVersion is embedded into every issued access token; bumping it revokes
// all tokens issued before the bump.
type User struct {
	shared.BaseEntity
	Email        string     `gorm:"type:varchar(120);not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(255);not null"`
	FullName     string     `gorm:"type:varchar(100);not null"`
	Phone        string     `gorm:"type:varchar(20)"`
	Address      string     `gorm:"type:text"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'student'"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	TokenVersion int        `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active student account.
// Email is lowercased and trimmed, the password is stored as a bcrypt hash.
func NewUser(email, password, fullName string) (*User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, shared.NewValidationError("full_name is required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         RoleStudent,
		Status:       UserStatusActive,
		TokenVersion: 1,
	}, nil
}

// VerifyPassword checks the password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

var (
	decoyHashOnce sync.Once
	decoyHash     []byte
)

// CompareDecoyPassword runs a bcrypt comparison against a fixed hash so a
// login for an unknown email costs as much as one with a wrong password
func CompareDecoyPassword(password string) {
	decoyHashOnce.Do(func() {
		decoyHash, _ = bcrypt.GenerateFromPassword([]byte("decoy-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(password))
}

// ChangePassword verifies the current password and replaces it.
// All previously issued tokens are revoked.
func (u *User) ChangePassword(currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return shared.NewValidationError("Current password and new password are required")
	}
	if !u.VerifyPassword(currentPassword) {
		return shared.NewValidationError("Current password is incorrect")
	}
	if len(newPassword) < MinPasswordLength {
		return shared.NewValidationError("New password must be at least 6 characters long")
	}
	if len(newPassword) > MaxPasswordBytes {
		return errPasswordTooLong()
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.RevokeSessions()
	return nil
}

// ProfileUpdate carries optional profile changes. Nil fields are left untouched.
type ProfileUpdate struct {
	FullName *string
	Phone    *string
	Address  *string
}

// UpdateProfile applies whitelisted profile changes.
// A blank full name is ignored; blank phone or address clears the field.
func (u *User) UpdateProfile(upd ProfileUpdate) {
	if upd.FullName != nil {
		if name := strings.TrimSpace(*upd.FullName); name != "" {
			u.FullName = name
		}
	}
	if upd.Phone != nil {
		u.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Address != nil {
		u.Address = strings.TrimSpace(*upd.Address)
	}
	u.Touch()
}

// SetRole changes the role and revokes sessions when it actually changes
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewValidationError("Invalid role. Must be one of: student, admin")
	}
	if u.Role != role {
		u.Role = role
		u.RevokeSessions()
	}
	return nil
}

// SetStatus changes the account status and revokes sessions when it actually changes
func (u *User) SetStatus(status UserStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("Invalid status. Must be one of: active, inactive, banned")
	}
	if u.Status != status {
		u.Status = status
		u.RevokeSessions()
	}
	return nil
}

// RevokeSessions invalidates every token issued so far
func (u *User) RevokeSessions() {
	u.TokenVersion++
	u.UpdatedAt = time.Now().UTC()
}

// IsActive returns true if the account may log in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail performs the minimal shape check used at registration
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewValidationError("email is required")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return shared.NewValidationError("Invalid email format")
	}
	if len(email) > 120 {
		return shared.NewValidationError("Email cannot exceed 120 characters")
	}
	return nil
}

// ValidatePassword checks password strength
func ValidatePassword(password string) error {
	if password == "" {
		return shared.NewValidationError("password is required")
	}
	if len(password) < MinPasswordLength {
		return shared.NewValidationError("Password must be at least 6 characters long")
	}
	if len(password) > MaxPasswordBytes {
		return errPasswordTooLong()
	}
	return nil
}

// HashPassword hashes a plain password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
