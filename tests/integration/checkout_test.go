package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	checkoutapp "github.com/courseplatform/backend/internal/application/checkout"
	learningapp "github.com/courseplatform/backend/internal/application/learning"
	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/identity"
	"github.com/courseplatform/backend/internal/domain/learning"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/courseplatform/backend/internal/infrastructure/cache"
	"github.com/courseplatform/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutSetup struct {
	db       *TestDB
	users    *persistence.GormUserRepository
	courses  *persistence.GormCourseRepository
	products *persistence.GormProductRepository
	checkout *checkoutapp.Service
	learning *learningapp.Service
}

func newCheckoutSetup(t *testing.T) *checkoutSetup {
	t.Helper()
	db := NewTestDB(t)

	orders := persistence.NewGormOrderRepository(db.DB)
	courses := persistence.NewGormCourseRepository(db.DB)
	enrollments := persistence.NewGormEnrollmentRepository(db.DB)
	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotency.Close() })

	return &checkoutSetup{
		db:       db,
		users:    persistence.NewGormUserRepository(db.DB),
		courses:  courses,
		products: persistence.NewGormProductRepository(db.DB),
		checkout: checkoutapp.NewService(orders, persistence.NewGormTransactionScope(db.DB), idempotency, time.Hour, nil),
		learning: learningapp.NewService(enrollments, courses, nil),
	}
}

func (s *checkoutSetup) user(t *testing.T, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(email, "secret123", "Test User")
	require.NoError(t, err)
	require.NoError(t, s.users.Create(context.Background(), u))
	return u
}

func (s *checkoutSetup) product(t *testing.T, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Workbook", decimal.NewFromInt(15), stock)
	require.NoError(t, err)
	require.NoError(t, s.products.Create(context.Background(), p))
	return p
}

func (s *checkoutSetup) course(t *testing.T, price int64) *catalog.Course {
	t.Helper()
	c, err := catalog.NewCourse("Go in Practice", decimal.NewFromInt(price))
	require.NoError(t, err)
	require.NoError(t, s.courses.Create(context.Background(), c))
	return c
}

func quantity(n int) *int { return &n }

func TestCheckout_ConcurrentPaymentsNeverOversell(t *testing.T) {
	s := newCheckoutSetup(t)
	ctx := context.Background()

	const stock, buyers = 3, 8
	product := s.product(t, stock)

	type pending struct {
		userID  uuid.UUID
		orderID uuid.UUID
	}
	orders := make([]pending, 0, buyers)
	for i := 0; i < buyers; i++ {
		u := s.user(t, fmt.Sprintf("buyer%d@example.com", i))
		order, err := s.checkout.CreateOrder(ctx, u.ID, checkoutapp.CreateOrderRequest{
			Items: []checkoutapp.OrderItemRequest{{Type: "product", ID: product.ID.String(), Quantity: quantity(1)}},
		})
		require.NoError(t, err)
		orders = append(orders, pending{userID: u.ID, orderID: order.ID})
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		failures  []error
	)
	for _, o := range orders {
		wg.Add(1)
		go func(o pending) {
			defer wg.Done()
			_, err := s.checkout.PayOrder(ctx, o.userID, o.orderID, checkoutapp.PayOrderRequest{PaymentMethod: "card"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			failures = append(failures, err)
		}(o)
	}
	wg.Wait()

	assert.Equal(t, stock, succeeded)
	require.Len(t, failures, buyers-stock)
	for _, err := range failures {
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr), "unexpected error: %v", err)
		assert.Equal(t, shared.CodeInsufficientStock, domainErr.Code)
	}

	reloaded, err := s.products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.StockQuantity)
	assert.Equal(t, catalog.ProductStatusOutOfStock, reloaded.Status)
}

func TestCheckout_ConcurrentPayOfSameOrder(t *testing.T) {
	s := newCheckoutSetup(t)
	ctx := context.Background()

	buyer := s.user(t, "buyer@example.com")
	course := s.course(t, 49)
	product := s.product(t, 10)

	order, err := s.checkout.CreateOrder(ctx, buyer.ID, checkoutapp.CreateOrderRequest{
		Items: []checkoutapp.OrderItemRequest{
			{Type: "course", ID: course.ID.String()},
			{Type: "product", ID: product.ID.String(), Quantity: quantity(2)},
		},
	})
	require.NoError(t, err)

	const attempts = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.checkout.PayOrder(ctx, buyer.ID, order.ID, checkoutapp.PayOrderRequest{PaymentMethod: "card"}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)

	reloaded, err := s.products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, reloaded.StockQuantity)

	var enrollments int64
	require.NoError(t, s.db.DB.Model(&learning.Enrollment{}).
		Where("user_id = ? AND course_id = ?", buyer.ID, course.ID).
		Count(&enrollments).Error)
	assert.Equal(t, int64(1), enrollments)
}

func TestCheckout_IdempotentPaymentReplay(t *testing.T) {
	s := newCheckoutSetup(t)
	ctx := context.Background()

	buyer := s.user(t, "replay@example.com")
	product := s.product(t, 5)
	order, err := s.checkout.CreateOrder(ctx, buyer.ID, checkoutapp.CreateOrderRequest{
		Items: []checkoutapp.OrderItemRequest{{Type: "product", ID: product.ID.String(), Quantity: quantity(1)}},
	})
	require.NoError(t, err)

	req := checkoutapp.PayOrderRequest{PaymentMethod: "card", IdempotencyKey: "pay-once"}
	first, err := s.checkout.PayOrder(ctx, buyer.ID, order.ID, req)
	require.NoError(t, err)
	second, err := s.checkout.PayOrder(ctx, buyer.ID, order.ID, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "paid", second.Status)

	reloaded, err := s.products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.StockQuantity)
}

func TestLearning_ConcurrentEnrollCreatesOneRow(t *testing.T) {
	s := newCheckoutSetup(t)
	ctx := context.Background()

	student := s.user(t, "student@example.com")
	course := s.course(t, 0)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.learning.Enroll(ctx, student.ID, course.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, shared.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected enroll error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)

	var count int64
	require.NoError(t, s.db.DB.Model(&learning.Enrollment{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
