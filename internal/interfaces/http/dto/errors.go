package dto

import (
	"net/http"

	"github.com/courseplatform/backend/internal/domain/shared"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Business conflicts answer 400, matching what clients of the API expect.
var ErrorCodeHTTPStatus = map[string]int{
	// Validation errors -> 400 Bad Request
	shared.CodeValidation:   http.StatusBadRequest,
	shared.CodeInvalidInput: http.StatusBadRequest,

	// Auth errors
	shared.CodeUnauthorized:       http.StatusUnauthorized,
	shared.CodeInvalidCredentials: http.StatusUnauthorized,
	shared.CodeAccountInactive:    http.StatusUnauthorized,
	shared.CodeForbidden:          http.StatusForbidden,

	// Resource errors
	shared.CodeNotFound: http.StatusNotFound,

	// Conflicts -> 400 Bad Request
	shared.CodeConflict:          http.StatusBadRequest,
	shared.CodeAlreadyExists:     http.StatusBadRequest,
	shared.CodeInvalidState:      http.StatusBadRequest,
	shared.CodeInsufficientStock: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Messages returned by the HTTP layer itself
const (
	MsgInternalError     = "An unexpected error occurred"
	MsgPanic             = "Internal server error"
	MsgNotFound          = "Not found"
	MsgInvalidJSON       = "Invalid JSON body"
	MsgAdminRequired     = "Admin access required"
	MsgMissingAuthHeader = "Authorization header is required"
	MsgInvalidAuthHeader = "Invalid authorization header format"
	MsgRateLimited       = "Too many requests. Please try again later."
	MsgRequestTooLarge   = "Request body exceeds maximum allowed size"
	MsgInvalidIdentifier = "Invalid ID format"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}
