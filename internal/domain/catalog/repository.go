package catalog

import (
	"context"

	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CourseFilter narrows course listings
type CourseFilter struct {
	shared.Filter
	Status   string
	Category string
	Level    string
}

// CourseRepository defines the interface for course persistence
type CourseRepository interface {
	Create(ctx context.Context, course *Course) error
	Update(ctx context.Context, course *Course) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a course by ID with its enrollment count
	FindByID(ctx context.Context, id uuid.UUID) (*Course, error)

	// FindAll lists courses in insertion order; Search matches the title
	FindAll(ctx context.Context, filter CourseFilter) (shared.Paginated[*Course], error)

	// Categories returns distinct non-empty categories, sorted
	Categories(ctx context.Context) ([]string, error)

	// Count returns the number of courses, optionally restricted to a status
	Count(ctx context.Context, status *CourseStatus) (int64, error)
}

// ProductFilter narrows product listings
type ProductFilter struct {
	shared.Filter
	Status   string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	// SearchDescription extends Search to the description column
	SearchDescription bool
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Modify applies a change to the current row while holding its lock.
	// Returns ErrNotFound when the product does not exist.
	Modify(ctx context.Context, id uuid.UUID, apply func(*Product) error) (*Product, error)

	// FindAll lists products in insertion order; Search matches the name
	FindAll(ctx context.Context, filter ProductFilter) (shared.Paginated[*Product], error)

	// Categories returns distinct non-empty categories, sorted
	Categories(ctx context.Context) ([]string, error)

	// DecrementStock removes quantity units only if that many are in stock,
	// flipping the status to out_of_stock when stock reaches zero.
	// Returns false when the stock was insufficient and nothing changed.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)

	// Count returns the number of products, optionally restricted to a status
	Count(ctx context.Context, status *ProductStatus) (int64, error)
}
