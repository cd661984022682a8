package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/identity"
	"github.com/courseplatform/backend/internal/domain/learning"
	"github.com/courseplatform/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory sqlite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, "secret123", "Test User")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), user))
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, title string, price string, mutate ...func(*catalog.Course)) *catalog.Course {
	t.Helper()
	course, err := catalog.NewCourse(title, decimal.RequireFromString(price))
	require.NoError(t, err)
	for _, m := range mutate {
		m(course)
	}
	require.NoError(t, NewGormCourseRepository(db).Create(context.Background(), course))
	// distinct created_at values keep insertion order observable
	time.Sleep(2 * time.Millisecond)
	return course
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string, stock int, mutate ...func(*catalog.Product)) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, decimal.RequireFromString(price), stock)
	require.NoError(t, err)
	for _, m := range mutate {
		m(product)
	}
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), product))
	time.Sleep(2 * time.Millisecond)
	return product
}

func seedEnrollment(t *testing.T, db *gorm.DB, userID, courseID uuid.UUID) *learning.Enrollment {
	t.Helper()
	enrollment := learning.NewEnrollment(userID, courseID)
	require.NoError(t, NewGormEnrollmentRepository(db).Create(context.Background(), enrollment))
	time.Sleep(2 * time.Millisecond)
	return enrollment
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, course *catalog.Course, product *catalog.Product, qty int) *trade.Order {
	t.Helper()
	order := trade.NewOrder(userID, "")
	if course != nil {
		_, err := order.AddCourse(course)
		require.NoError(t, err)
	}
	if product != nil {
		_, err := order.AddProduct(product, qty)
		require.NoError(t, err)
	}
	require.NoError(t, NewGormOrderRepository(db).Create(context.Background(), order))
	time.Sleep(2 * time.Millisecond)
	return order
}
