package checkout

import (
	"context"

	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/learning"
	"github.com/courseplatform/backend/internal/domain/trade"
)

// TransactionScope runs checkout steps in one database transaction.
// A returned error rolls back every write made through the repositories.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories that share the current transaction
type TransactionalRepositories interface {
	OrderRepo() trade.OrderRepository
	CourseRepo() catalog.CourseRepository
	ProductRepo() catalog.ProductRepository
	EnrollmentRepo() learning.EnrollmentRepository
}
