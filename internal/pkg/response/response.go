package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

type Pagination struct {
	Page            int   `json:"page"`
	PageSize        int   `json:"pageSize"`
	TotalItems      int64 `json:"totalItems"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

type APIResponse struct {
	Success    bool         `json:"success"`
	Data       interface{}  `json:"data"`
	Pagination *Pagination  `json:"pagination,omitempty"`
	Error      *ErrorDetail `json:"error"`
	RequestID  string       `json:"requestId"`
	Timestamp  string       `json:"timestamp"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

func NewPaginationMeta(total int64, page, pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = 10
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:            page,
		PageSize:        pageSize,
		TotalItems:      total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// Success writes a successful envelope; pag is optional.
func Success(c *gin.Context, status int, data interface{}, pag *Pagination) {
	c.JSON(status, APIResponse{
		Success:    true,
		Data:       data,
		Pagination: pag,
		RequestID:  c.GetString("X-Request-ID"),
		Timestamp:  time.Now().Format(time.RFC3339),
	})
}

// Error writes a failed envelope.
func Error(c *gin.Context, status int, errCode string, message string, details interface{}) {
	c.JSON(status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &ErrorDetail{
			Code:    errCode,
			Message: message,
			Details: details,
		},
		RequestID: c.GetString("X-Request-ID"),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
