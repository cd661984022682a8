package catalog

import (
	"time"

	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CourseListFilter represents filter options for the public course list
type CourseListFilter struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Level    string `form:"level"`
	Search   string `form:"search"`
	Page     int    `form:"-"`
	PerPage  int    `form:"-"`
}

// ProductListFilter represents filter options for the public product list
type ProductListFilter struct {
	Status   string           `form:"status"`
	Category string           `form:"category"`
	Search   string           `form:"search"`
	MinPrice *decimal.Decimal `form:"-"`
	MaxPrice *decimal.Decimal `form:"-"`
	Page     int              `form:"-"`
	PerPage  int              `form:"-"`
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title         string           `json:"title" binding:"required,max=200"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	DurationHours *int             `json:"duration_hours" binding:"omitempty,min=0"`
	Level         string           `json:"level" binding:"max=20"`
	Category      string           `json:"category" binding:"max=50"`
	ThumbnailURL  string           `json:"thumbnail_url" binding:"max=255"`
	Status        string           `json:"status"`
}

// UpdateCourseRequest represents a request to update a course. Absent fields are left untouched.
type UpdateCourseRequest struct {
	Title         *string          `json:"title" binding:"omitempty,max=200"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	DurationHours *int             `json:"duration_hours"`
	Level         *string          `json:"level" binding:"omitempty,max=20"`
	Category      *string          `json:"category" binding:"omitempty,max=50"`
	ThumbnailURL  *string          `json:"thumbnail_url" binding:"omitempty,max=255"`
	Status        *string          `json:"status"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required,max=200"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	Category      string           `json:"category" binding:"max=50"`
	StockQuantity int              `json:"stock_quantity"`
	ImageURL      string           `json:"image_url" binding:"max=255"`
	Status        string           `json:"status"`
}

// UpdateProductRequest represents a request to update a product. Absent fields are left untouched.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=200"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Category      *string          `json:"category" binding:"omitempty,max=50"`
	StockQuantity *int             `json:"stock_quantity"`
	ImageURL      *string          `json:"image_url" binding:"omitempty,max=255"`
	Status        *string          `json:"status"`
}

// CourseResponse represents a course in API responses
type CourseResponse struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationHours   *int            `json:"duration_hours"`
	Level           string          `json:"level"`
	Category        string          `json:"category"`
	ThumbnailURL    string          `json:"thumbnail_url"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	EnrollmentCount int64           `json:"enrollment_count"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToCourseResponse converts a domain Course to CourseResponse
func ToCourseResponse(c *catalog.Course) CourseResponse {
	return CourseResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Price:           c.Price,
		DurationHours:   c.DurationHours,
		Level:           c.Level,
		Category:        c.Category,
		ThumbnailURL:    c.ThumbnailURL,
		Status:          string(c.Status),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		EnrollmentCount: c.EnrollmentCount,
	}
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
