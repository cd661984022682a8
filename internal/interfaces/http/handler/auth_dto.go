package handler

import (
	"time"

	"github.com/courseplatform/backend/internal/application/identity"
)

// RegisterRequest is the body of POST /auth/register.
// Required fields are checked by the service so every missing field gets the same message shape.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body of POST /auth/change-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdateProfileRequest whitelists the self-editable profile fields
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

func (r UpdateProfileRequest) toInput() identity.UpdateProfileInput {
	return identity.UpdateProfileInput{FullName: r.FullName, Phone: r.Phone, Address: r.Address}
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Message     string            `json:"message"`
	User        identity.UserInfo `json:"user"`
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// PasswordChangedResponse carries the replacement token after a password change
type PasswordChangedResponse struct {
	Message     string    `json:"message"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserResponse wraps a single user
type UserResponse struct {
	Message string             `json:"message,omitempty"`
	User    *identity.UserInfo `json:"user"`
}
