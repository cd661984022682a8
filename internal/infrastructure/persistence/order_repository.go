package persistence

import (
	"context"

	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/courseplatform/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order row and then its items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return translateError(err)
	}
	if len(order.Items) == 0 {
		return nil
	}
	return translateError(db.Omit(clause.Associations).Create(&order.Items).Error)
}

// Update saves the order row; items are left untouched
func (r *GormOrderRepository) Update(ctx context.Context, order *trade.Order) error {
	result := r.db.WithContext(ctx).Model(order).
		Select("*").Omit("id", "created_at", clause.Associations).
		Updates(order)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID loads an order with items and their course/product
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.withItems(r.db.WithContext(ctx)).First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindByIDForUser loads an order only if it belongs to userID
func (r *GormOrderRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.withItems(r.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindByIDForUpdate locks the order row for the rest of the transaction
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := lockForUpdate(r.db.WithContext(ctx)).First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	if err := r.db.WithContext(ctx).
		Preload("Course").Preload("Product").
		Where("order_id = ?", order.ID).
		Order("created_at ASC, id ASC").
		Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAll lists orders newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) (shared.Paginated[*trade.Order], error) {
	page := filter.Filter.Normalize()
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Order{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*trade.Order]{}, err
	}

	var orders []*trade.Order
	if err := paginate(r.withItems(query).Order(orderSort.orderBy(page)), page).Find(&orders).Error; err != nil {
		return shared.Paginated[*trade.Order]{}, err
	}
	return shared.NewPaginated(orders, total, page.Page, page.PageSize), nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter trade.OrderFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Order{}), filter).Count(&count).Error
	return count, err
}

// SumTotal sums total_amount of orders matching the filter
func (r *GormOrderRepository) SumTotal(ctx context.Context, filter trade.OrderFilter) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	row := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Order{}), filter).
		Select("SUM(total_amount)").
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// ExistsByProduct reports whether any order item references the product
func (r *GormOrderRepository) ExistsByProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.OrderItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormOrderRepository) withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	}).Preload("Items.Course").Preload("Items.Product")
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter trade.OrderFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
