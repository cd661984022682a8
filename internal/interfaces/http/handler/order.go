package handler

import (
	"strings"

	"github.com/courseplatform/backend/internal/application/checkout"
	"github.com/courseplatform/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader lets clients retry a payment safely
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderListResponse is a page of orders
type OrderListResponse struct {
	Orders     []checkout.OrderResponse `json:"orders"`
	Pagination dto.Pagination           `json:"pagination"`
}

// OrderResponse wraps a single order
type OrderResponse struct {
	Message string                  `json:"message,omitempty"`
	Order   *checkout.OrderResponse `json:"order"`
}

// OrderHandler serves checkout and the admin order endpoints
type OrderHandler struct {
	BaseHandler
	checkoutService *checkout.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(checkoutService *checkout.Service, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{BaseHandler: newBaseHandler(logger), checkoutService: checkoutService}
}

// Create godoc
// @Summary      Create an order
// @Description  Validates every item and stores a pending order; nothing is kept if one item fails
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body checkout.CreateOrderRequest true "Items to buy"
// @Success      201 {object} OrderResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /orders/ [post]
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req checkout.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.checkoutService.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, OrderResponse{Message: "Order created successfully", Order: order})
}

// Pay godoc
// @Summary      Pay a pending order
// @Description  Enrolls the buyer in ordered courses and takes product stock.
// @Description  Repeating a request with the same Idempotency-Key returns the paid order unchanged.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id               path   string                    true  "Order ID"
// @Param        Idempotency-Key  header string                    false "Client retry key"
// @Param        request          body   checkout.PayOrderRequest  false "Payment method"
// @Success      200 {object} OrderResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/pay [post]
func (h *OrderHandler) Pay(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "Order not found")
	if !ok {
		return
	}

	var req checkout.PayOrderRequest
	if c.Request.ContentLength != 0 {
		if !h.bindJSON(c, &req) {
			return
		}
	}
	req.IdempotencyKey = strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))

	order, err := h.checkoutService.PayOrder(c.Request.Context(), userID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, OrderResponse{Message: "Payment processed successfully", Order: order})
}

// MyOrders lists the caller's orders, newest first
func (h *OrderHandler) MyOrders(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	page, perPage := pageParams(c)
	result, err := h.checkoutService.MyOrders(c.Request.Context(), userID, checkout.OrderListFilter{
		Status:  c.Query("status"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, OrderListResponse{Orders: result.Items, Pagination: dto.NewPagination(result)})
}

// Get returns one of the caller's orders
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "Order not found")
	if !ok {
		return
	}
	order, err := h.checkoutService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, OrderResponse{Order: order})
}

// Cancel cancels one of the caller's pending orders
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "Order not found")
	if !ok {
		return
	}
	order, err := h.checkoutService.CancelOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, OrderResponse{Message: "Order cancelled successfully", Order: order})
}

// List returns every order for admins
func (h *OrderHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	result, err := h.checkoutService.ListOrders(c.Request.Context(), checkout.OrderListFilter{
		Status:  c.Query("status"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, OrderListResponse{Orders: result.Items, Pagination: dto.NewPagination(result)})
}

// UpdateStatus overrides an order's status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := h.pathID(c, "id", "Order not found")
	if !ok {
		return
	}
	var req checkout.UpdateOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.checkoutService.UpdateOrderStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, OrderResponse{Message: "Order status updated successfully", Order: order})
}
