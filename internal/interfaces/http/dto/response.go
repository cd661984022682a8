package dto

import (
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

func init() {
	// prices and totals render as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Pagination describes the page returned by list endpoints
type Pagination struct {
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// NewPagination builds the pagination block of a list response
func NewPagination[T any](p shared.Paginated[T]) Pagination {
	return Pagination{
		Page:    p.Page,
		Pages:   p.TotalPages,
		PerPage: p.PageSize,
		Total:   p.Total,
		HasNext: p.HasNext(),
		HasPrev: p.HasPrev(),
	}
}

// MessageResponse is the body of mutations that return no entity
type MessageResponse struct {
	Message string `json:"message"`
}

// NewMessageResponse creates a message response
func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Message: message}
}
