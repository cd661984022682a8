package learning

import (
	"context"

	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EnrollmentFilter narrows enrollment queries. Zero values mean "any".
type EnrollmentFilter struct {
	shared.Filter
	UserID   *uuid.UUID
	CourseID *uuid.UUID
	Status   string
}

// EnrollmentRepository defines the interface for enrollment persistence
type EnrollmentRepository interface {
	// Create inserts an enrollment. A duplicate (user, course) pair yields
	// shared.ErrAlreadyExists.
	Create(ctx context.Context, enrollment *Enrollment) error

	// Update saves progress and status
	Update(ctx context.Context, enrollment *Enrollment) error

	// FindByIDForUser loads an enrollment only if it belongs to userID
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*Enrollment, error)

	// Exists reports whether the user is enrolled in the course in any status
	Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error)

	// FindByUser lists a user's enrollments newest first, with course and user loaded
	FindByUser(ctx context.Context, userID uuid.UUID, status string) ([]*Enrollment, error)

	// FindAll lists enrollments newest first
	FindAll(ctx context.Context, filter EnrollmentFilter) (shared.Paginated[*Enrollment], error)

	// Count counts enrollments matching the filter
	Count(ctx context.Context, filter EnrollmentFilter) (int64, error)
}
