package handler

import (
	"github.com/courseplatform/backend/internal/application/identity"
	"github.com/courseplatform/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminUpdateUserRequest whitelists the fields an admin may change
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// UserListResponse is a page of users
type UserListResponse struct {
	Users      []identity.UserInfo `json:"users"`
	Pagination dto.Pagination      `json:"pagination"`
}

// UserStatsResponse wraps the caller's learning and spending totals
type UserStatsResponse struct {
	Stats *identity.UserStats `json:"stats"`
}

// UserHandler serves /users/me and the admin user endpoints
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{BaseHandler: newBaseHandler(logger), userService: userService}
}

// Me returns the caller's account
func (h *UserHandler) Me(c *gin.Context) {
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

// UpdateMe edits the caller's profile
func (h *UserHandler) UpdateMe(c *gin.Context) {
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

// DeleteMe removes the caller's account and everything it owns
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Account deleted successfully")
}

// Stats returns enrollment and order totals for the caller
func (h *UserHandler) Stats(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	stats, err := h.userService.Stats(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, UserStatsResponse{Stats: stats})
}

// List godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Param        role     query string false "Role filter"
// @Param        status   query string false "Status filter"
// @Param        page     query int    false "Page number"
// @Param        per_page query int    false "Page size"
// @Success      200 {object} UserListResponse
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	result, err := h.userService.List(c.Request.Context(), identity.UserListFilter{
		Role:    c.Query("role"),
		Status:  c.Query("status"),
		Search:  c.Query("search"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, UserListResponse{Users: result.Items, Pagination: dto.NewPagination(result)})
}

// Update applies an admin edit to any account
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id", "User not found")
	if !ok {
		return
	}
	var req AdminUpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Update(c.Request.Context(), id, identity.AdminUpdateUserInput{
		UpdateProfileInput: req.toInput(),
		Role:               req.Role,
		Status:             req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, UserResponse{Message: "User updated successfully", User: user})
}

// Delete removes a non-admin account
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id", "User not found")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "User deleted successfully")
}
