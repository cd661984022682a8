package learning

import (
	"math"
	"time"

	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/identity"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EnrollmentStatus represents where a student is in a course
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
)

// IsValid reports whether the status is known
func (s EnrollmentStatus) IsValid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusCompleted, EnrollmentStatusDropped:
		return true
	}
	return false
}

// CompleteProgress is the progress value of a finished course
const CompleteProgress = 100.0

// Enrollment links a user to a course they bought or joined.
// Invariant: Progress == 100 if and only if Status == completed.
type Enrollment struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_user_course,priority:1"`
	CourseID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_user_course,priority:2;index"`
	EnrolledAt     time.Time        `gorm:"not null"`
	Progress       float64          `gorm:"not null;default:0"`
	Status         EnrollmentStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	CompletionDate *time.Time
	UpdatedAt      time.Time        `gorm:"not null"`
	Course         *catalog.Course  `gorm:"foreignKey:CourseID"`
	User           *identity.User   `gorm:"foreignKey:UserID"`
}

// TableName returns the table name for GORM
func (Enrollment) TableName() string {
	return "enrollments"
}

// NewEnrollment creates an active enrollment with zero progress
func NewEnrollment(userID, courseID uuid.UUID) *Enrollment {
	now := time.Now().UTC()
	return &Enrollment{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: now,
		Progress:   0,
		Status:     EnrollmentStatusActive,
		UpdatedAt:  now,
	}
}

// UpdateProgress sets progress and keeps status in sync with it.
// Reaching 100 completes the enrollment; going below 100 reopens a completed one.
// A dropped enrollment stays dropped below 100.
func (e *Enrollment) UpdateProgress(progress float64) error {
	if math.IsNaN(progress) || progress < 0 || progress > CompleteProgress {
		return shared.NewValidationError("Progress must be a number between 0 and 100")
	}
	now := time.Now().UTC()
	e.Progress = progress
	switch {
	case progress == CompleteProgress && e.Status != EnrollmentStatusCompleted:
		e.Status = EnrollmentStatusCompleted
		e.CompletionDate = &now
	case progress < CompleteProgress && e.Status == EnrollmentStatusCompleted:
		e.Status = EnrollmentStatusActive
		e.CompletionDate = nil
	}
	e.UpdatedAt = now
	return nil
}

// Complete marks the course finished
func (e *Enrollment) Complete() error {
	if e.IsCompleted() {
		return shared.NewConflictError("Course is already completed")
	}
	now := time.Now().UTC()
	e.Status = EnrollmentStatusCompleted
	e.Progress = CompleteProgress
	e.CompletionDate = &now
	e.UpdatedAt = now
	return nil
}

// Drop withdraws from the course. Completed courses stay completed.
func (e *Enrollment) Drop() error {
	if e.Status == EnrollmentStatusDropped {
		return shared.NewConflictError("Course is already dropped")
	}
	if e.IsCompleted() {
		return shared.NewConflictError("Completed courses cannot be dropped")
	}
	e.Status = EnrollmentStatusDropped
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// Reactivate resumes a dropped enrollment
func (e *Enrollment) Reactivate() error {
	if e.Status != EnrollmentStatusDropped {
		return shared.NewConflictError("Only dropped enrollments can be reactivated")
	}
	e.Status = EnrollmentStatusActive
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// IsCompleted returns true if the course was finished
func (e *Enrollment) IsCompleted() bool {
	return e.Status == EnrollmentStatusCompleted
}
