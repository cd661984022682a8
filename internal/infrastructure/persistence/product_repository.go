package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create creates a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Create(product).Error)
}

// Update updates every column of an existing product
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).Model(product).Select("*").Omit("id", "created_at").Updates(product)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Modify re-reads the product under a row lock, lets apply change it and
// writes it back in the same transaction. Stock decremented by a concurrent
// payment is therefore never overwritten with a stale value.
func (r *GormProductRepository) Modify(ctx context.Context, id uuid.UUID, apply func(*catalog.Product) error) (*catalog.Product, error) {
	var product catalog.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&product, "id = ?", id).Error; err != nil {
			return translateError(err)
		}
		if err := apply(&product); err != nil {
			return err
		}
		return translateError(tx.Model(&product).Select("*").Omit("id", "created_at").Updates(&product).Error)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete deletes a product by ID
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindAll lists products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) (shared.Paginated[*catalog.Product], error) {
	page := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if page.Search != "" {
		pattern := likePattern(page.Search)
		if filter.SearchDescription {
			query = query.Where(
				"("+fmt.Sprintf(likeClause, "name")+" OR "+fmt.Sprintf(likeClause, "description")+")",
				pattern, pattern,
			)
		} else {
			query = query.Where(fmt.Sprintf(likeClause, "name"), pattern)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*catalog.Product]{}, err
	}

	var products []*catalog.Product
	if err := paginate(query.Order(productSort.orderBy(page)), page).Find(&products).Error; err != nil {
		return shared.Paginated[*catalog.Product]{}, err
	}
	return shared.NewPaginated(products, total, page.Page, page.PageSize), nil
}

// Categories returns distinct non-empty categories, sorted
func (r *GormProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if categories == nil {
		categories = []string{}
	}
	return categories, err
}

// DecrementStock runs a single conditional UPDATE so concurrent payments
// can never drive stock below zero
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	if quantity < 1 {
		return false, shared.NewValidationError("Quantity must be at least 1")
	}
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"status": gorm.Expr("CASE WHEN stock_quantity - ? <= 0 THEN ? ELSE status END",
				quantity, string(catalog.ProductStatusOutOfStock)),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Count returns the number of products, optionally restricted to a status
func (r *GormProductRepository) Count(ctx context.Context, status *catalog.ProductStatus) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Count(&count).Error
	return count, err
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
