package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/helphub/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
)

// Pagination holds validated 1-based page parameters
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the number of items skipped before the page starts
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// NormalizePagination clamps page and limit into their valid ranges
func NormalizePagination(page, limit int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Pagination{Page: page, Limit: limit}
}

// ParsePaginationParams extracts and validates pagination parameters from the request
func ParsePaginationParams(c *gin.Context) Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil {
		limit = DefaultPageSize
	}

	return NormalizePagination(page, limit)
}

// CalculateSliceIndices calculates the start and end indices for slicing an array for pagination
func CalculateSliceIndices(p Pagination, totalItems int) (start, end int) {
	p = NormalizePagination(p.Page, p.Limit)

	start = p.Offset()
	end = start + p.Limit

	if start >= totalItems {
		return totalItems, totalItems
	}
	if end > totalItems {
		end = totalItems
	}
	return start, end
}

// Paginate returns the page of items selected by p. The input is not modified.
func Paginate[T any](items []T, p Pagination) []T {
	start, end := CalculateSliceIndices(p, len(items))
	page := make([]T, end-start)
	copy(page, items[start:end])
	return page
}

// NewPageInfo derives totals for a filtered collection of totalItems entries
func NewPageInfo(totalItems int, p Pagination) dto.PageInfo {
	p = NormalizePagination(p.Page, p.Limit)

	totalPages := 0
	if totalItems > 0 {
		totalPages = (totalItems + p.Limit - 1) / p.Limit
	}

	return dto.PageInfo{
		Total:      totalItems,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
		HasMore:    p.Page*p.Limit < totalItems,
	}
}
