package handler

import (
	"github.com/courseplatform/backend/internal/application/learning"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/courseplatform/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EnrollmentResponse wraps a single enrollment
type EnrollmentResponse struct {
	Message    string                       `json:"message,omitempty"`
	Enrollment *learning.EnrollmentResponse `json:"enrollment"`
}

// EnrollmentsResponse lists enrollments without paging
type EnrollmentsResponse struct {
	Enrollments []learning.EnrollmentResponse `json:"enrollments"`
}

// EnrollmentListResponse is a page of enrollments
type EnrollmentListResponse struct {
	Enrollments []learning.EnrollmentResponse `json:"enrollments"`
	Pagination  dto.Pagination                `json:"pagination"`
}

// EnrollmentHandler serves the learner's enrollment endpoints and the admin listing
type EnrollmentHandler struct {
	BaseHandler
	learningService *learning.Service
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(learningService *learning.Service, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{BaseHandler: newBaseHandler(logger), learningService: learningService}
}

// MyEnrollments lists the caller's enrollments, optionally by status
func (h *EnrollmentHandler) MyEnrollments(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	enrollments, err := h.learningService.MyEnrollments(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, EnrollmentsResponse{Enrollments: enrollments})
}

// Get returns one of the caller's enrollments
func (h *EnrollmentHandler) Get(c *gin.Context) {
	h.respond(c, "", func(userID, id uuid.UUID) (*learning.EnrollmentResponse, error) {
		return h.learningService.Get(c.Request.Context(), userID, id)
	})
}

// UpdateProgress sets the completion percentage
func (h *EnrollmentHandler) UpdateProgress(c *gin.Context) {
	var req learning.UpdateProgressRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c, "Progress updated successfully", func(userID, id uuid.UUID) (*learning.EnrollmentResponse, error) {
		return h.learningService.UpdateProgress(c.Request.Context(), userID, id, req)
	})
}

// Complete marks an enrollment as finished
func (h *EnrollmentHandler) Complete(c *gin.Context) {
	h.respond(c, "Course completed successfully", func(userID, id uuid.UUID) (*learning.EnrollmentResponse, error) {
		return h.learningService.Complete(c.Request.Context(), userID, id)
	})
}

// Drop abandons an enrollment
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	h.respond(c, "Course dropped successfully", func(userID, id uuid.UUID) (*learning.EnrollmentResponse, error) {
		return h.learningService.Drop(c.Request.Context(), userID, id)
	})
}

// Reactivate resumes a dropped enrollment
func (h *EnrollmentHandler) Reactivate(c *gin.Context) {
	h.respond(c, "Enrollment reactivated successfully", func(userID, id uuid.UUID) (*learning.EnrollmentResponse, error) {
		return h.learningService.Reactivate(c.Request.Context(), userID, id)
	})
}

func (h *EnrollmentHandler) respond(c *gin.Context, message string, call func(userID, id uuid.UUID) (*learning.EnrollmentResponse, error)) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Enrollment not found")
	if !ok {
		return
	}
	enrollment, err := call(userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, EnrollmentResponse{Message: message, Enrollment: enrollment})
}

// List returns every enrollment for admins, filtered by status and course_id
func (h *EnrollmentHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	filter := learning.EnrollmentListFilter{
		Status:  c.Query("status"),
		Page:    page,
		PerPage: perPage,
	}
	if raw := c.Query("course_id"); raw != "" {
		courseID, err := uuid.Parse(raw)
		if err != nil {
			h.HandleError(c, shared.NewValidationError(dto.MsgInvalidIdentifier))
			return
		}
		filter.CourseID = &courseID
	}

	result, err := h.learningService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, EnrollmentListResponse{Enrollments: result.Items, Pagination: dto.NewPagination(result)})
}
