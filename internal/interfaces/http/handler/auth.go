package handler

import (
	"github.com/courseplatform/backend/internal/application/identity"
	"github.com/courseplatform/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	userService *identity.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, userService *identity.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: newBaseHandler(logger),
		authService: authService,
		userService: userService,
	}
}

// Register godoc
// @Summary      Register a student account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Account details"
// @Success      201 {object} AuthResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identity.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, AuthResponse{
		Message:     "User registered successfully",
		User:        result.User,
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresAt:   result.ExpiresAt,
	})
}

// Login godoc
// @Summary      User login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} AuthResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, AuthResponse{
		Message:     "Login successful",
		User:        result.User,
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresAt:   result.ExpiresAt,
	})
}

// Logout revokes the presented token until it would have expired
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetJWTClaims(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Logged out successfully")
}

// GetProfile returns the caller's account
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, UserResponse{User: user})
}

// UpdateProfile edits full_name, phone and address of the caller
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, UserResponse{Message: "Profile updated successfully", User: user})
}

// ChangePassword godoc
// @Summary      Change password
// @Description  Every token issued before the change stops working; the response carries a new one
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Current and new password"
// @Success      200 {object} PasswordChangedResponse
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	token, err := h.authService.ChangePassword(c.Request.Context(), identity.ChangePasswordInput{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, PasswordChangedResponse{
		Message:     "Password changed successfully",
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
	})
}
