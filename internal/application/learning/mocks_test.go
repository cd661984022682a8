package learning

import (
	"context"

	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/learning"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCourseRepository is a mock implementation of catalog.CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, course *catalog.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *catalog.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindAll(ctx context.Context, filter catalog.CourseFilter) (shared.Paginated[*catalog.Course], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*catalog.Course]), args.Error(1)
}

func (m *MockCourseRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCourseRepository) Count(ctx context.Context, status *catalog.CourseStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockEnrollmentRepository is a mock implementation of learning.EnrollmentRepository
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, enrollment *learning.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) Update(ctx context.Context, enrollment *learning.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*learning.Enrollment, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*learning.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) FindByUser(ctx context.Context, userID uuid.UUID, status string) ([]*learning.Enrollment, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*learning.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindAll(ctx context.Context, filter learning.EnrollmentFilter) (shared.Paginated[*learning.Enrollment], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*learning.Enrollment]), args.Error(1)
}

func (m *MockEnrollmentRepository) Count(ctx context.Context, filter learning.EnrollmentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

