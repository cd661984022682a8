package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeValidation, http.StatusBadRequest},
		{shared.CodeInvalidInput, http.StatusBadRequest},
		{shared.CodeUnauthorized, http.StatusUnauthorized},
		{shared.CodeInvalidCredentials, http.StatusUnauthorized},
		{shared.CodeAccountInactive, http.StatusUnauthorized},
		{shared.CodeForbidden, http.StatusForbidden},
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeConflict, http.StatusBadRequest},
		{shared.CodeAlreadyExists, http.StatusBadRequest},
		{shared.CodeInvalidState, http.StatusBadRequest},
		{shared.CodeInsufficientStock, http.StatusBadRequest},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestErrorResponse_JSON(t *testing.T) {
	body, err := json.Marshal(NewErrorResponse("Course not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Course not found"}`, string(body))
}

func TestNewPagination(t *testing.T) {
	t.Run("middle page", func(t *testing.T) {
		p := NewPagination(shared.NewPaginated([]int{4, 5, 6}, 10, 2, 3))
		assert.Equal(t, Pagination{Page: 2, Pages: 4, PerPage: 3, Total: 10, HasNext: true, HasPrev: true}, p)
	})

	t.Run("page past the end", func(t *testing.T) {
		p := NewPagination(shared.NewPaginated([]int{}, 10, 9, 5))
		assert.Equal(t, 2, p.Pages)
		assert.False(t, p.HasNext)
		assert.True(t, p.HasPrev)
	})

	t.Run("empty result", func(t *testing.T) {
		p := NewPagination(shared.NewPaginated([]int{}, 0, 1, 10))
		assert.Equal(t, 0, p.Pages)
		assert.False(t, p.HasNext)
		assert.False(t, p.HasPrev)
	})
}

func TestDecimalRendersAsNumber(t *testing.T) {
	body, err := json.Marshal(map[string]decimal.Decimal{"price": decimal.RequireFromString("49.99")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":49.99}`, string(body))
}
