package trade

import (
	"context"

	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderFilter narrows order queries. Zero values mean "any".
type OrderFilter struct {
	shared.Filter
	UserID *uuid.UUID
	Status string
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create inserts the order row together with its items
	Create(ctx context.Context, order *Order) error

	// Update saves the order row; items are immutable after creation
	Update(ctx context.Context, order *Order) error

	// FindByID loads an order with items and their course/product
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUser loads an order only if it belongs to userID
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*Order, error)

	// FindByIDForUpdate loads an order holding a row lock until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll lists orders newest first
	FindAll(ctx context.Context, filter OrderFilter) (shared.Paginated[*Order], error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter OrderFilter) (int64, error)

	// SumTotal sums total_amount of orders matching the filter
	SumTotal(ctx context.Context, filter OrderFilter) (decimal.Decimal, error)

	// ExistsByProduct reports whether any order item references the product
	ExistsByProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}
