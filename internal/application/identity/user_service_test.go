package identity

import (
	"context"
	"testing"

	"github.com/courseplatform/backend/internal/domain/identity"
	"github.com/courseplatform/backend/internal/domain/learning"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/courseplatform/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userServiceFixture struct {
	svc         *UserService
	users       *MockUserRepository
	enrollments *MockEnrollmentRepository
	orders      *MockOrderRepository
}

func newUserServiceFixture() userServiceFixture {
	f := userServiceFixture{
		users:       new(MockUserRepository),
		enrollments: new(MockEnrollmentRepository),
		orders:      new(MockOrderRepository),
	}
	f.svc = NewUserService(f.users, f.enrollments, f.orders, nil)
	return f
}

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newUserServiceFixture()
	user := newTestUser(t, "user@example.com")
	f.users.On("FindByID", ctx, user.ID).Return(user, nil)
	f.users.On("Update", ctx, user).Return(nil)

	info, err := f.svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		FullName: strPtr("  Renamed  "),
		Phone:    strPtr("123"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", info.FullName)
	assert.Equal(t, "123", info.Phone)
	assert.Equal(t, "student", info.Role)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newUserServiceFixture()
	id := uuid.New()
	f.users.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := f.svc.GetByID(ctx, id)
	assertCode(t, err, shared.CodeNotFound, "User not found")
}

func TestUserService_DeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("student can delete self", func(t *testing.T) {
		f := newUserServiceFixture()
		user := newTestUser(t, "user@example.com")
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)
		f.users.On("Delete", ctx, user.ID).Return(nil)

		require.NoError(t, f.svc.DeleteAccount(ctx, user.ID))
		f.users.AssertExpectations(t)
	})

	t.Run("admin cannot", func(t *testing.T) {
		f := newUserServiceFixture()
		user := newTestUser(t, "admin@example.com")
		user.Role = identity.RoleAdmin
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)

		err := f.svc.DeleteAccount(ctx, user.ID)
		assertCode(t, err, shared.CodeConflict, "Cannot delete admin account")
		f.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestUserService_Stats(t *testing.T) {
	ctx := context.Background()
	f := newUserServiceFixture()
	user := newTestUser(t, "user@example.com")
	id := user.ID
	f.users.On("FindByID", ctx, id).Return(user, nil)

	f.enrollments.On("Count", ctx, learning.EnrollmentFilter{UserID: &id}).Return(int64(3), nil)
	f.enrollments.On("Count", ctx, learning.EnrollmentFilter{UserID: &id, Status: "active"}).Return(int64(2), nil)
	f.enrollments.On("Count", ctx, learning.EnrollmentFilter{UserID: &id, Status: "completed"}).Return(int64(1), nil)
	f.orders.On("Count", ctx, trade.OrderFilter{UserID: &id}).Return(int64(4), nil)
	paid := trade.OrderFilter{UserID: &id, Status: "paid"}
	f.orders.On("Count", ctx, paid).Return(int64(2), nil)
	f.orders.On("SumTotal", ctx, paid).Return(decimal.RequireFromString("149.98"), nil)

	stats, err := f.svc.Stats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalEnrollments)
	assert.Equal(t, int64(2), stats.ActiveEnrollments)
	assert.Equal(t, int64(1), stats.CompletedEnrollments)
	assert.Equal(t, int64(4), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.PaidOrders)
	assert.Equal(t, "149.98", stats.TotalSpent.StringFixed(2))
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	f := newUserServiceFixture()
	user := newTestUser(t, "user@example.com")

	f.users.On("FindAll", ctx, shared.Filter{
		Page:     1,
		PageSize: 20,
		Search:   "user",
		Filters:  map[string]interface{}{"role": "student"},
	}).Return(shared.NewPaginated([]*identity.User{user}, 1, 1, 20), nil)

	page, err := f.svc.List(ctx, UserListFilter{Role: "student", Search: "user", Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "user@example.com", page.Items[0].Email)
	assert.Equal(t, int64(1), page.Total)
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("role change revokes sessions", func(t *testing.T) {
		f := newUserServiceFixture()
		user := newTestUser(t, "user@example.com")
		before := user.TokenVersion
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)
		f.users.On("Update", ctx, user).Return(nil)

		info, err := f.svc.Update(ctx, user.ID, AdminUpdateUserInput{Role: strPtr("admin")})
		require.NoError(t, err)
		assert.Equal(t, "admin", info.Role)
		assert.Equal(t, before+1, user.TokenVersion)
	})

	t.Run("unchanged status keeps sessions", func(t *testing.T) {
		f := newUserServiceFixture()
		user := newTestUser(t, "user@example.com")
		before := user.TokenVersion
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)
		f.users.On("Update", ctx, user).Return(nil)

		_, err := f.svc.Update(ctx, user.ID, AdminUpdateUserInput{Status: strPtr("active")})
		require.NoError(t, err)
		assert.Equal(t, before, user.TokenVersion)
	})

	t.Run("invalid status", func(t *testing.T) {
		f := newUserServiceFixture()
		user := newTestUser(t, "user@example.com")
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)

		_, err := f.svc.Update(ctx, user.ID, AdminUpdateUserInput{Status: strPtr("sleeping")})
		assertCode(t, err, shared.CodeValidation, "Invalid status. Must be one of: active, inactive, banned")
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newUserServiceFixture()
	admin := newTestUser(t, "admin@example.com")
	admin.Role = identity.RoleAdmin
	f.users.On("FindByID", ctx, admin.ID).Return(admin, nil)

	err := f.svc.Delete(ctx, admin.ID)
	assertCode(t, err, shared.CodeConflict, "Cannot delete admin user")
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates admin when missing", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("ExistsByEmail", ctx, "admin@example.com").Return(false, nil)
		f.users.On("Create", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.Email == "admin@example.com" && u.Role == identity.RoleAdmin
		})).Return(nil)

		created, err := f.svc.EnsureAdmin(ctx, " Admin@Example.com ", "admin123", "Admin")
		require.NoError(t, err)
		assert.True(t, created)
		f.users.AssertExpectations(t)
	})

	t.Run("skips existing email", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("ExistsByEmail", ctx, "admin@example.com").Return(true, nil)

		created, err := f.svc.EnsureAdmin(ctx, "admin@example.com", "admin123", "Admin")
		require.NoError(t, err)
		assert.False(t, created)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
