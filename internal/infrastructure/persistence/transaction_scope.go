package persistence

import (
	"context"

	"github.com/courseplatform/backend/internal/application/checkout"
	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/learning"
	"github.com/courseplatform/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction, committing on success
// and rolling back when fn returns an error or panics.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos checkout.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) CourseRepo() catalog.CourseRepository {
	return NewGormCourseRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) EnrollmentRepo() learning.EnrollmentRepository {
	return NewGormEnrollmentRepository(r.tx)
}

var _ checkout.TransactionScope = (*GormTransactionScope)(nil)
var _ checkout.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
