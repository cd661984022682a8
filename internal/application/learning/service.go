package learning

import (
	"context"
	"errors"

	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/learning"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages a learner's enrollments and their progress
type Service struct {
	enrollmentRepo learning.EnrollmentRepository
	courseRepo     catalog.CourseRepository
	logger         *zap.Logger
}

// NewService creates a new learning service
func NewService(enrollmentRepo learning.EnrollmentRepository, courseRepo catalog.CourseRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		logger:         logger,
	}
}

// Enroll enrolls the user directly in an active course
func (s *Service) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*EnrollmentResponse, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Course not found")
		}
		return nil, err
	}
	if !course.IsActive() {
		return nil, shared.NewConflictError("Course is not available for enrollment")
	}

	exists, err := s.enrollmentRepo.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errAlreadyEnrolled()
	}

	enrollment := learning.NewEnrollment(userID, courseID)
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errAlreadyEnrolled()
		}
		return nil, err
	}
	enrollment.Course = course

	s.logger.Info("User enrolled",
		zap.String("user_id", userID.String()),
		zap.String("course_id", courseID.String()))

	response := ToEnrollmentResponse(enrollment)
	return &response, nil
}

// MyCourses returns every enrollment of the user with its course
func (s *Service) MyCourses(ctx context.Context, userID uuid.UUID) ([]EnrollmentResponse, error) {
	return s.forUser(ctx, userID, "")
}

// MyEnrollments returns the user's enrollments newest first, optionally by status
func (s *Service) MyEnrollments(ctx context.Context, userID uuid.UUID, status string) ([]EnrollmentResponse, error) {
	return s.forUser(ctx, userID, status)
}

func (s *Service) forUser(ctx context.Context, userID uuid.UUID, status string) ([]EnrollmentResponse, error) {
	enrollments, err := s.enrollmentRepo.FindByUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		responses = append(responses, ToEnrollmentResponse(e))
	}
	return responses, nil
}

// Get returns one of the user's enrollments
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*EnrollmentResponse, error) {
	enrollment, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	response := ToEnrollmentResponse(enrollment)
	return &response, nil
}

// UpdateProgress records progress, completing or reopening the enrollment as needed
func (s *Service) UpdateProgress(ctx context.Context, userID, id uuid.UUID, req UpdateProgressRequest) (*EnrollmentResponse, error) {
	if req.Progress == nil {
		return nil, shared.NewValidationError("Progress must be a number between 0 and 100")
	}
	return s.mutate(ctx, userID, id, func(e *learning.Enrollment) error {
		return e.UpdateProgress(*req.Progress)
	})
}

// Complete marks the course finished
func (s *Service) Complete(ctx context.Context, userID, id uuid.UUID) (*EnrollmentResponse, error) {
	return s.mutate(ctx, userID, id, (*learning.Enrollment).Complete)
}

// Drop withdraws the user from the course
func (s *Service) Drop(ctx context.Context, userID, id uuid.UUID) (*EnrollmentResponse, error) {
	return s.mutate(ctx, userID, id, (*learning.Enrollment).Drop)
}

// Reactivate resumes a dropped enrollment
func (s *Service) Reactivate(ctx context.Context, userID, id uuid.UUID) (*EnrollmentResponse, error) {
	return s.mutate(ctx, userID, id, (*learning.Enrollment).Reactivate)
}

func (s *Service) mutate(ctx context.Context, userID, id uuid.UUID, apply func(*learning.Enrollment) error) (*EnrollmentResponse, error) {
	enrollment, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(enrollment); err != nil {
		return nil, err
	}
	if err := s.enrollmentRepo.Update(ctx, enrollment); err != nil {
		return nil, err
	}
	response := ToEnrollmentResponse(enrollment)
	return &response, nil
}

// List returns every enrollment for the admin console, newest first
func (s *Service) List(ctx context.Context, filter EnrollmentListFilter) (shared.Paginated[EnrollmentResponse], error) {
	page, err := s.enrollmentRepo.FindAll(ctx, learning.EnrollmentFilter{
		Filter:   shared.Filter{Page: filter.Page, PageSize: filter.PerPage},
		CourseID: filter.CourseID,
		Status:   filter.Status,
	})
	if err != nil {
		return shared.Paginated[EnrollmentResponse]{}, err
	}
	return shared.MapPaginated(page, ToEnrollmentResponse), nil
}

func (s *Service) find(ctx context.Context, userID, id uuid.UUID) (*learning.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.FindByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Enrollment not found")
		}
		return nil, err
	}
	return enrollment, nil
}

func errAlreadyEnrolled() error {
	return shared.NewConflictError("Already enrolled in this course")
}
