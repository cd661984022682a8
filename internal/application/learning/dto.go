package learning

import (
	"time"

	"github.com/courseplatform/backend/internal/application/catalog"
	"github.com/courseplatform/backend/internal/domain/learning"
	"github.com/google/uuid"
)

// UpdateProgressRequest carries a new progress percentage
type UpdateProgressRequest struct {
	Progress *float64 `json:"progress"`
}

// EnrollmentListFilter narrows the admin enrollment listing
type EnrollmentListFilter struct {
	Status   string     `form:"status"`
	CourseID *uuid.UUID `form:"-"`
	Page     int        `form:"-"`
	PerPage  int        `form:"-"`
}

// EnrolledUser is the trimmed user shown next to an enrollment
type EnrolledUser struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}

// EnrollmentResponse represents an enrollment in API responses
type EnrollmentResponse struct {
	ID             uuid.UUID               `json:"id"`
	UserID         uuid.UUID               `json:"user_id"`
	CourseID       uuid.UUID               `json:"course_id"`
	EnrolledAt     time.Time               `json:"enrolled_at"`
	Progress       float64                 `json:"progress"`
	Status         string                  `json:"status"`
	CompletionDate *time.Time              `json:"completion_date"`
	Course         *catalog.CourseResponse `json:"course,omitempty"`
	User           *EnrolledUser           `json:"user,omitempty"`
}

// ToEnrollmentResponse converts an enrollment and whatever relations were loaded
func ToEnrollmentResponse(e *learning.Enrollment) EnrollmentResponse {
	resp := EnrollmentResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		CourseID:       e.CourseID,
		EnrolledAt:     e.EnrolledAt,
		Progress:       e.Progress,
		Status:         string(e.Status),
		CompletionDate: e.CompletionDate,
	}
	if e.Course != nil {
		course := catalog.ToCourseResponse(e.Course)
		resp.Course = &course
	}
	if e.User != nil {
		resp.User = &EnrolledUser{ID: e.User.ID, Email: e.User.Email, FullName: e.User.FullName}
	}
	return resp
}
