package persistence

import (
	"context"

	"github.com/courseplatform/backend/internal/domain/learning"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEnrollmentRepository implements EnrollmentRepository using GORM
type GormEnrollmentRepository struct {
	db *gorm.DB
}

// NewGormEnrollmentRepository creates a new GormEnrollmentRepository
func NewGormEnrollmentRepository(db *gorm.DB) *GormEnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// Create inserts an enrollment; the unique (user_id, course_id) index turns
// a concurrent duplicate into shared.ErrAlreadyExists
func (r *GormEnrollmentRepository) Create(ctx context.Context, enrollment *learning.Enrollment) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(enrollment).Error)
}

// Update saves progress and status
func (r *GormEnrollmentRepository) Update(ctx context.Context, enrollment *learning.Enrollment) error {
	result := r.db.WithContext(ctx).Model(enrollment).
		Select("progress", "status", "completion_date", "updated_at").
		Updates(enrollment)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByIDForUser loads an enrollment only if it belongs to userID
func (r *GormEnrollmentRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*learning.Enrollment, error) {
	var enrollment learning.Enrollment
	if err := r.db.WithContext(ctx).Preload("Course").
		Where("id = ? AND user_id = ?", id, userID).
		First(&enrollment).Error; err != nil {
		return nil, translateError(err)
	}
	return &enrollment, nil
}

// Exists reports whether the user is enrolled in the course in any status
func (r *GormEnrollmentRepository) Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&learning.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// FindByUser lists a user's enrollments newest first
func (r *GormEnrollmentRepository) FindByUser(ctx context.Context, userID uuid.UUID, status string) ([]*learning.Enrollment, error) {
	query := r.db.WithContext(ctx).Preload("Course").Preload("User").Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var enrollments []*learning.Enrollment
	if err := query.Order("enrolled_at DESC, id DESC").Find(&enrollments).Error; err != nil {
		return nil, err
	}
	if enrollments == nil {
		enrollments = []*learning.Enrollment{}
	}
	return enrollments, nil
}

// FindAll lists enrollments newest first
func (r *GormEnrollmentRepository) FindAll(ctx context.Context, filter learning.EnrollmentFilter) (shared.Paginated[*learning.Enrollment], error) {
	page := filter.Filter.Normalize()
	query := r.applyFilter(r.db.WithContext(ctx).Model(&learning.Enrollment{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*learning.Enrollment]{}, err
	}

	var enrollments []*learning.Enrollment
	if err := paginate(query.Preload("Course").Preload("User").Order(enrollmentSort.orderBy(page)), page).
		Find(&enrollments).Error; err != nil {
		return shared.Paginated[*learning.Enrollment]{}, err
	}
	return shared.NewPaginated(enrollments, total, page.Page, page.PageSize), nil
}

// Count counts enrollments matching the filter
func (r *GormEnrollmentRepository) Count(ctx context.Context, filter learning.EnrollmentFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&learning.Enrollment{}), filter).Count(&count).Error
	return count, err
}

func (r *GormEnrollmentRepository) applyFilter(query *gorm.DB, filter learning.EnrollmentFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

var _ learning.EnrollmentRepository = (*GormEnrollmentRepository)(nil)
