package dto

// PageInfo describes where a page sits inside a filtered collection
type PageInfo struct {
	Total      int  `json:"total" example:"42"`
	Page       int  `json:"page" example:"1"`
	Limit      int  `json:"limit" example:"10"`
	TotalPages int  `json:"totalPages" example:"5"`
	HasMore    bool `json:"hasMore" example:"true"`
}

// ListResponse is the envelope for unpaginated collections
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewListResponse never serializes items as null
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}

// PagedResponse is the envelope for paginated collections
type PagedResponse[T any] struct {
	Items []T `json:"items"`
	PageInfo
}

// NewPagedResponse wraps one page of items together with its page info
func NewPagedResponse[T any](items []T, info PageInfo) PagedResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PagedResponse[T]{Items: items, PageInfo: info}
}

// MessageResponse is returned by operations without a resource body
type MessageResponse struct {
	Message string `json:"message" example:"Post deleted successfully"`
}

// HealthResponse is served by the liveness endpoints
type HealthResponse struct {
	Status  string `json:"status" example:"OK"`
	Message string `json:"message" example:"Community Help Hub API is running"`
}
