package catalog

import (
	"context"
	"errors"

	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CourseService handles course catalog reads and admin course management
type CourseService struct {
	courseRepo catalog.CourseRepository
	logger     *zap.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo catalog.CourseRepository, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// List returns a page of courses. Status defaults to active.
func (s *CourseService) List(ctx context.Context, filter CourseListFilter) (shared.Paginated[CourseResponse], error) {
	status := filter.Status
	if status == "" {
		status = string(catalog.CourseStatusActive)
	}

	page, err := s.courseRepo.FindAll(ctx, catalog.CourseFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PerPage,
			Search:   filter.Search,
		},
		Status:   status,
		Category: filter.Category,
		Level:    filter.Level,
	})
	if err != nil {
		return shared.Paginated[CourseResponse]{}, err
	}
	return shared.MapPaginated(page, ToCourseResponse), nil
}

// GetByID retrieves a course with its enrollment count
func (s *CourseService) GetByID(ctx context.Context, id uuid.UUID) (*CourseResponse, error) {
	course, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCourseResponse(course)
	return &response, nil
}

// Categories lists the distinct course categories
func (s *CourseService) Categories(ctx context.Context) ([]string, error) {
	return s.courseRepo.Categories(ctx)
}

// Levels lists the course levels
func (s *CourseService) Levels() []string {
	return catalog.Levels()
}

// Create creates a course
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*CourseResponse, error) {
	if req.Price == nil {
		return nil, shared.NewValidationError("price is required")
	}
	course, err := catalog.NewCourse(req.Title, *req.Price)
	if err != nil {
		return nil, err
	}

	upd := catalog.CourseUpdate{
		Description:   &req.Description,
		DurationHours: req.DurationHours,
		Level:         &req.Level,
		Category:      &req.Category,
		ThumbnailURL:  &req.ThumbnailURL,
	}
	if req.Status != "" {
		status := catalog.CourseStatus(req.Status)
		upd.Status = &status
	}
	if err := course.Apply(upd); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("Course created",
		zap.String("course_id", course.ID.String()),
		zap.String("title", course.Title))

	response := ToCourseResponse(course)
	return &response, nil
}

// Update applies whitelisted changes to a course
func (s *CourseService) Update(ctx context.Context, id uuid.UUID, req UpdateCourseRequest) (*CourseResponse, error) {
	course, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	upd := catalog.CourseUpdate{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		DurationHours: req.DurationHours,
		Level:         req.Level,
		Category:      req.Category,
		ThumbnailURL:  req.ThumbnailURL,
	}
	if req.Status != nil {
		status := catalog.CourseStatus(*req.Status)
		upd.Status = &status
	}
	if err := course.Apply(upd); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	response := ToCourseResponse(course)
	return &response, nil
}

// Delete removes a course that nobody is enrolled in and no order references
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	course, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if course.EnrollmentCount > 0 {
		return shared.NewConflictError("Cannot delete course with existing enrollments")
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return shared.NewConflictError("Cannot delete course referenced by orders")
		}
		return err
	}

	s.logger.Info("Course deleted", zap.String("course_id", id.String()))
	return nil
}

func (s *CourseService) find(ctx context.Context, id uuid.UUID) (*catalog.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Course not found")
		}
		return nil, err
	}
	return course, nil
}
