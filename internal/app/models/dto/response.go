package dto

import "time"

// APIResponse is the envelope of every JSON page and endpoint.
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Data      interface{}  `json:"data,omitempty"`
	Messages  []string     `json:"messages,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data and any flash messages in a success envelope.
func NewSuccessResponse(data interface{}, messages ...string) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Messages:  messages,
		Timestamp: time.Now(),
	}
}

// NewErrorResponse wraps an error detail in a failure envelope.
func NewErrorResponse(detail *ErrorDetail) APIResponse {
	return APIResponse{
		Success:   false,
		Error:     detail,
		Timestamp: time.Now(),
	}
}

// PaginationInfo describes the page that was actually served.
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	PageSize    int   `json:"pageSize" example:"10"`
	TotalItems  int64 `json:"totalItems" example:"42"`
	TotalPages  int   `json:"totalPages" example:"5"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// RedirectResponse is the body sent with a redirect so JSON clients can follow it.
type RedirectResponse struct {
	Location string `json:"location" example:"/login"`
}
