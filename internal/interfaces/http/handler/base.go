package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/courseplatform/backend/internal/interfaces/http/dto"
	"github.com/courseplatform/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct {
	logger *zap.Logger
}

func newBaseHandler(logger *zap.Logger) BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return BaseHandler{logger: logger}
}

// OK sends a 200 response
func (h *BaseHandler) OK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}

// Message sends a 200 response carrying only a message
func (h *BaseHandler) Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.NewMessageResponse(message))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(message))
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(message))
}

// HandleError converts service errors to HTTP responses. Domain errors keep
// their message; anything else is logged and hidden behind a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.NewErrorResponse(domainErr.Message))
		return
	}

	h.logger.Error("Unhandled error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("request_id")),
	)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.MsgInternalError))
}

// bindJSON decodes the body into req and writes a 400 on failure.
// Binding-tag violations produce a field message, malformed JSON a generic one.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if msg := middleware.ValidationMessage(err); msg != "" {
			h.BadRequest(c, msg)
		} else {
			h.BadRequest(c, dto.MsgInvalidJSON)
		}
		return false
	}
	return true
}

// pathID parses a UUID path parameter. Malformed ids are reported as the
// entity being absent, since no row can carry them.
func (h *BaseHandler) pathID(c *gin.Context, param, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(notFound))
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user id
func (h *BaseHandler) currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserUUID(c)
	if !ok {
		h.Unauthorized(c, dto.MsgMissingAuthHeader)
		return uuid.Nil, false
	}
	return id, true
}

// pageParams reads page and per_page leniently; bad values fall back to defaults
func pageParams(c *gin.Context) (page, perPage int) {
	page = queryInt(c, "page", 1)
	perPage = queryInt(c, "per_page", shared.DefaultPageSize)
	return page, perPage
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// queryDecimal parses an optional decimal query parameter; invalid input is ignored
func queryDecimal(c *gin.Context, key string) *decimal.Decimal {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}
