package handler

import (
	"github.com/courseplatform/backend/internal/application/catalog"
	"github.com/courseplatform/backend/internal/application/learning"
	"github.com/courseplatform/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CourseListResponse is a page of courses
type CourseListResponse struct {
	Courses    []catalog.CourseResponse `json:"courses"`
	Pagination dto.Pagination           `json:"pagination"`
}

// CourseResponse wraps a single course
type CourseResponse struct {
	Message string                  `json:"message,omitempty"`
	Course  *catalog.CourseResponse `json:"course"`
}

// CategoriesResponse lists distinct categories
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// LevelsResponse lists the course levels
type LevelsResponse struct {
	Levels []string `json:"levels"`
}

// CourseHandler serves the course catalog and the admin course endpoints
type CourseHandler struct {
	BaseHandler
	courseService   *catalog.CourseService
	learningService *learning.Service
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *catalog.CourseService, learningService *learning.Service, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:     newBaseHandler(logger),
		courseService:   courseService,
		learningService: learningService,
	}
}

// List godoc
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Param        status   query string false "Status (default active)"
// @Param        category query string false "Category"
// @Param        level    query string false "Level"
// @Param        search   query string false "Title contains"
// @Param        page     query int    false "Page number"
// @Param        per_page query int    false "Page size (max 100)"
// @Success      200 {object} CourseListResponse
// @Router       /courses/ [get]
func (h *CourseHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	result, err := h.courseService.List(c.Request.Context(), catalog.CourseListFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Level:    c.Query("level"),
		Search:   c.Query("search"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, CourseListResponse{Courses: result.Items, Pagination: dto.NewPagination(result)})
}

// Get returns one course
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id", "Course not found")
	if !ok {
		return
	}
	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, CourseResponse{Course: course})
}

// Categories lists the distinct course categories
func (h *CourseHandler) Categories(c *gin.Context) {
	categories, err := h.courseService.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, CategoriesResponse{Categories: categories})
}

// Levels lists the supported course levels
func (h *CourseHandler) Levels(c *gin.Context) {
	h.OK(c, LevelsResponse{Levels: h.courseService.Levels()})
}

// Enroll enrolls the caller in a course for free
func (h *CourseHandler) Enroll(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	courseID, ok := h.pathID(c, "id", "Course not found")
	if !ok {
		return
	}
	enrollment, err := h.learningService.Enroll(c.Request.Context(), userID, courseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, EnrollmentResponse{Message: "Enrolled successfully", Enrollment: enrollment})
}

// MyCourses lists every enrollment of the caller with its course
func (h *CourseHandler) MyCourses(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	enrollments, err := h.learningService.MyCourses(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, EnrollmentsResponse{Enrollments: enrollments})
}

// Create godoc
// @Summary      Create a course
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateCourseRequest true "Course"
// @Success      201 {object} CourseResponse
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /admin/courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req catalog.CreateCourseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	course, err := h.courseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, CourseResponse{Message: "Course created successfully", Course: course})
}

// Update applies a partial course edit
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id", "Course not found")
	if !ok {
		return
	}
	var req catalog.UpdateCourseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	course, err := h.courseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, CourseResponse{Message: "Course updated successfully", Course: course})
}

// Delete removes a course without enrollments
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id", "Course not found")
	if !ok {
		return
	}
	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Course deleted successfully")
}
