package catalog

import (
	"strings"

	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CourseStatus represents the publication status of a course
type CourseStatus string

const (
	CourseStatusActive   CourseStatus = "active"
	CourseStatusInactive CourseStatus = "inactive"
	CourseStatusDraft    CourseStatus = "draft"
)

// IsValid reports whether the status is known
func (s CourseStatus) IsValid() bool {
	switch s {
	case CourseStatusActive, CourseStatusInactive, CourseStatusDraft:
		return true
	}
	return false
}

// Course levels offered by the catalog
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Levels returns the fixed list of course levels
func Levels() []string {
	return []string{LevelBeginner, LevelIntermediate, LevelAdvanced}
}

// Course represents a sellable course
type Course struct {
	shared.BaseEntity
	Title         string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DurationHours *int            `gorm:"column:duration_hours"`
	Level         string          `gorm:"type:varchar(20)"`
	Category      string          `gorm:"type:varchar(50);index"`
	ThumbnailURL  string          `gorm:"column:thumbnail_url;type:varchar(255)"`
	Status        CourseStatus    `gorm:"type:varchar(20);not null;default:'active';index"`

	// EnrollmentCount is filled by the repository on reads
	EnrollmentCount int64 `gorm:"-"`
}

// TableName returns the table name for GORM
func (Course) TableName() string {
	return "courses"
}

// NewCourse creates an active course
func NewCourse(title string, price decimal.Decimal) (*Course, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewValidationError("title is required")
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	return &Course{
		BaseEntity: shared.NewBaseEntity(),
		Title:      title,
		Price:      price.Round(2),
		Status:     CourseStatusActive,
	}, nil
}

// CourseUpdate carries optional course changes. Nil fields are left untouched.
type CourseUpdate struct {
	Title         *string
	Description   *string
	Price         *decimal.Decimal
	DurationHours *int
	Level         *string
	Category      *string
	ThumbnailURL  *string
	Status        *CourseStatus
}

// Apply validates and applies the update. Nothing is changed on error.
func (c *Course) Apply(upd CourseUpdate) error {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return shared.NewValidationError("title is required")
	}
	if upd.Price != nil {
		if err := validatePrice(*upd.Price); err != nil {
			return err
		}
	}
	if upd.DurationHours != nil && *upd.DurationHours < 0 {
		return shared.NewValidationError("duration_hours cannot be negative")
	}
	if upd.Status != nil && !upd.Status.IsValid() {
		return shared.NewValidationError("Invalid status. Must be one of: active, inactive, draft")
	}

	if upd.Title != nil {
		c.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.Price != nil {
		c.Price = upd.Price.Round(2)
	}
	if upd.DurationHours != nil {
		hours := *upd.DurationHours
		c.DurationHours = &hours
	}
	if upd.Level != nil {
		c.Level = *upd.Level
	}
	if upd.Category != nil {
		c.Category = *upd.Category
	}
	if upd.ThumbnailURL != nil {
		c.ThumbnailURL = *upd.ThumbnailURL
	}
	if upd.Status != nil {
		c.Status = *upd.Status
	}
	c.Touch()
	return nil
}

// IsActive returns true if the course can be bought or enrolled in
func (c *Course) IsActive() bool {
	return c.Status == CourseStatusActive
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("price cannot be negative")
	}
	return nil
}
