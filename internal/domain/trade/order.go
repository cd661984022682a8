package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// PaymentStatus represents the state of the (simulated) payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// DefaultPaymentMethod is used when an order is created without one
const DefaultPaymentMethod = "card"

// Order represents a purchase of courses and/or products.
// TotalAmount is fixed at creation as the sum of the item prices.
type Order struct {
	shared.BaseEntity
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod string          `gorm:"type:varchar(50)"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an empty pending order
func NewOrder(userID uuid.UUID, paymentMethod string) *Order {
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}
	return &Order{
		BaseEntity:    shared.NewBaseEntity(),
		UserID:        userID,
		TotalAmount:   decimal.Zero,
		Status:        OrderStatusPending,
		PaymentMethod: paymentMethod,
		PaymentStatus: PaymentStatusPending,
		Items:         make([]OrderItem, 0),
	}
}

// AddCourse adds a course line. Courses are always bought once, at the current price.
func (o *Order) AddCourse(course *catalog.Course) (*OrderItem, error) {
	if !course.IsActive() {
		return nil, shared.NewConflictError(fmt.Sprintf("Course %s is not available", course.Title))
	}
	item, err := NewCourseItem(o.ID, course.ID, course.Price)
	if err != nil {
		return nil, err
	}
	item.Course = course
	o.addItem(item)
	return item, nil
}

// AddProduct adds a product line priced at unit price times quantity.
// Stock is only checked here; it is taken when the order is paid.
func (o *Order) AddProduct(product *catalog.Product, quantity int) (*OrderItem, error) {
	if quantity < 1 {
		return nil, shared.NewValidationError("Quantity must be at least 1")
	}
	if !product.IsActive() {
		return nil, shared.NewConflictError(fmt.Sprintf("Product %s is not available", product.Name))
	}
	if !product.HasStock(quantity) {
		return nil, shared.NewDomainError(shared.CodeInsufficientStock,
			fmt.Sprintf("Insufficient stock for %s. Available: %d", product.Name, product.StockQuantity))
	}
	item, err := NewProductItem(o.ID, product.ID, quantity, product.LinePrice(quantity))
	if err != nil {
		return nil, err
	}
	item.Product = product
	o.addItem(item)
	return item, nil
}

func (o *Order) addItem(item *OrderItem) {
	o.Items = append(o.Items, *item)
	o.TotalAmount = o.TotalAmount.Add(item.Price)
}

// Pay marks the order paid. Only pending orders can be paid.
func (o *Order) Pay(paymentMethod string) error {
	if !o.IsPending() {
		return shared.NewConflictError("Order is not in pending status")
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		paymentMethod = o.PaymentMethod
	}
	if paymentMethod == "" {
		return shared.NewValidationError("Payment method is required")
	}
	o.PaymentMethod = paymentMethod
	o.Status = OrderStatusPaid
	o.PaymentStatus = PaymentStatusCompleted
	o.Touch()
	return nil
}

// Cancel cancels a pending order
func (o *Order) Cancel() error {
	if !o.IsPending() {
		return shared.NewConflictError("Only pending orders can be cancelled")
	}
	o.Status = OrderStatusCancelled
	o.Touch()
	return nil
}

// OverrideStatus sets any valid status. It is the admin escape hatch and has
// no side effects on stock or enrollments.
func (o *Order) OverrideStatus(status OrderStatus) error {
	if status == "" {
		return shared.NewValidationError("Status is required")
	}
	if !status.IsValid() {
		return shared.NewValidationError("Invalid status. Must be one of: pending, paid, cancelled, refunded")
	}
	o.Status = status
	if status == OrderStatusRefunded {
		o.PaymentStatus = PaymentStatusRefunded
	}
	o.Touch()
	return nil
}

// IsPending returns true if the order awaits payment
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsPaid returns true if the order was paid
func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPaid
}

// ItemType distinguishes course lines from product lines
type ItemType string

const (
	ItemTypeCourse  ItemType = "course"
	ItemTypeProduct ItemType = "product"
)

// OrderItem represents one line of an order. Exactly one of CourseID and
// ProductID is set, matching ItemType.
type OrderItem struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	CourseID  *uuid.UUID       `gorm:"type:uuid;index"`
	ProductID *uuid.UUID       `gorm:"type:uuid;index"`
	Quantity  int              `gorm:"not null;default:1"`
	Price     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	ItemType  ItemType         `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time        `gorm:"not null"`
	Course    *catalog.Course  `gorm:"foreignKey:CourseID"`
	Product   *catalog.Product `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewCourseItem creates a course line with quantity 1
func NewCourseItem(orderID, courseID uuid.UUID, price decimal.Decimal) (*OrderItem, error) {
	if courseID == uuid.Nil {
		return nil, shared.NewValidationError("Item type and ID are required")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("price cannot be negative")
	}
	id := courseID
	return &OrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		CourseID:  &id,
		Quantity:  1,
		Price:     price,
		ItemType:  ItemTypeCourse,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewProductItem creates a product line; price is the line total
func NewProductItem(orderID, productID uuid.UUID, quantity int, price decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Item type and ID are required")
	}
	if quantity < 1 {
		return nil, shared.NewValidationError("Quantity must be at least 1")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("price cannot be negative")
	}
	id := productID
	return &OrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: &id,
		Quantity:  quantity,
		Price:     price,
		ItemType:  ItemTypeProduct,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// IsCourse returns true for course lines
func (i *OrderItem) IsCourse() bool {
	return i.ItemType == ItemTypeCourse && i.CourseID != nil
}

// IsProduct returns true for product lines
func (i *OrderItem) IsProduct() bool {
	return i.ItemType == ItemTypeProduct && i.ProductID != nil
}
