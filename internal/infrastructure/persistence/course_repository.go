package persistence

import (
	"context"
	"fmt"

	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/learning"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCourseRepository implements CourseRepository using GORM
type GormCourseRepository struct {
	db *gorm.DB
}

// NewGormCourseRepository creates a new GormCourseRepository
func NewGormCourseRepository(db *gorm.DB) *GormCourseRepository {
	return &GormCourseRepository{db: db}
}

// Create creates a new course
func (r *GormCourseRepository) Create(ctx context.Context, course *catalog.Course) error {
	return translateError(r.db.WithContext(ctx).Create(course).Error)
}

// Update updates every column of an existing course
func (r *GormCourseRepository) Update(ctx context.Context, course *catalog.Course) error {
	result := r.db.WithContext(ctx).Model(course).Select("*").Omit("id", "created_at").Updates(course)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a course by ID. Order items still referencing the course
// surface as shared.ErrConflict.
func (r *GormCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Course{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a course by ID with its enrollment count
func (r *GormCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Course, error) {
	var course catalog.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	if err := r.fillEnrollmentCounts(ctx, []*catalog.Course{&course}); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindAll lists courses matching the filter
func (r *GormCourseRepository) FindAll(ctx context.Context, filter catalog.CourseFilter) (shared.Paginated[*catalog.Course], error) {
	page := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).Model(&catalog.Course{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if page.Search != "" {
		query = query.Where(fmt.Sprintf(likeClause, "title"), likePattern(page.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*catalog.Course]{}, err
	}

	var courses []*catalog.Course
	if err := paginate(query.Order(courseSort.orderBy(page)), page).Find(&courses).Error; err != nil {
		return shared.Paginated[*catalog.Course]{}, err
	}
	if err := r.fillEnrollmentCounts(ctx, courses); err != nil {
		return shared.Paginated[*catalog.Course]{}, err
	}
	return shared.NewPaginated(courses, total, page.Page, page.PageSize), nil
}

// Categories returns distinct non-empty categories, sorted
func (r *GormCourseRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&catalog.Course{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if categories == nil {
		categories = []string{}
	}
	return categories, err
}

// Count returns the number of courses, optionally restricted to a status
func (r *GormCourseRepository) Count(ctx context.Context, status *catalog.CourseStatus) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Course{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Count(&count).Error
	return count, err
}

type courseEnrollmentCount struct {
	CourseID uuid.UUID
	Total    int64
}

// fillEnrollmentCounts loads enrollment counts for a page of courses in one query
func (r *GormCourseRepository) fillEnrollmentCounts(ctx context.Context, courses []*catalog.Course) error {
	if len(courses) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}

	var rows []courseEnrollmentCount
	if err := r.db.WithContext(ctx).Model(&learning.Enrollment{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ?", ids).
		Group("course_id").
		Scan(&rows).Error; err != nil {
		return err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.CourseID] = row.Total
	}
	for _, c := range courses {
		c.EnrollmentCount = counts[c.ID]
	}
	return nil
}

var _ catalog.CourseRepository = (*GormCourseRepository)(nil)
