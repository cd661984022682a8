package checkout

import (
	"time"

	"github.com/courseplatform/backend/internal/application/catalog"
	"github.com/courseplatform/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line of a create-order request
type OrderItemRequest struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Quantity *int   `json:"quantity"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items"`
	PaymentMethod string             `json:"payment_method"`
}

// PayOrderRequest represents a request to pay a pending order
type PayOrderRequest struct {
	PaymentMethod  string `json:"payment_method"`
	IdempotencyKey string `json:"-"`
}

// UpdateOrderStatusRequest is the admin status override
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderListFilter narrows order listings
type OrderListFilter struct {
	Status  string `form:"status"`
	Page    int    `form:"-"`
	PerPage int    `form:"-"`
}

// OrderItemResponse represents an order line with its course or product
type OrderItemResponse struct {
	ID        uuid.UUID                `json:"id"`
	OrderID   uuid.UUID                `json:"order_id"`
	ItemType  string                   `json:"item_type"`
	CourseID  *uuid.UUID               `json:"course_id"`
	ProductID *uuid.UUID               `json:"product_id"`
	Quantity  int                      `json:"quantity"`
	Price     decimal.Decimal          `json:"price"`
	CreatedAt time.Time                `json:"created_at"`
	Course    *catalog.CourseResponse  `json:"course,omitempty"`
	Product   *catalog.ProductResponse `json:"product,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	PaymentStatus string              `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Items         []OrderItemResponse `json:"items"`
}

// ToOrderResponse converts an order with its loaded items
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, toOrderItemResponse(&o.Items[i]))
	}
	return OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		TotalAmount:   o.TotalAmount,
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Items:         items,
	}
}

func toOrderItemResponse(item *trade.OrderItem) OrderItemResponse {
	resp := OrderItemResponse{
		ID:        item.ID,
		OrderID:   item.OrderID,
		ItemType:  string(item.ItemType),
		CourseID:  item.CourseID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     item.Price,
		CreatedAt: item.CreatedAt,
	}
	if item.Course != nil {
		course := catalog.ToCourseResponse(item.Course)
		resp.Course = &course
	}
	if item.Product != nil {
		product := catalog.ToProductResponse(item.Product)
		resp.Product = &product
	}
	return resp
}
