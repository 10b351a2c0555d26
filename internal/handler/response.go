package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/orderdesk/order-api/pkg/errors"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Data       interface{}            `json:"data,omitempty"`
	Error      errors.Kind            `json:"error,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	RetryAfter int                    `json:"retryAfter,omitempty"`
}

// Pagination is the metadata attached to list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// Paginated wraps a page of items with its metadata.
type Paginated struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

func NewPaginated(items interface{}, page, pageSize int, total int64) Paginated {
	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	return Paginated{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// OK sends a 200 success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// Created sends a 201 success envelope.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// Error maps any error to the envelope. Internal causes are logged, never
// leaked to the caller.
func Error(c *gin.Context, err error) {
	appErr := errors.FromError(err)
	if appErr.Kind == errors.KindInternal {
		log.Error().
			Err(appErr.Err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("request failed")
	}

	c.JSON(appErr.StatusCode(), Response{
		Success:    false,
		Message:    appErr.Message,
		Error:      appErr.Kind,
		Details:    appErr.Details,
		RetryAfter: appErr.RetryAfter,
	})
}

// BindError reports a request-body binding failure as a validation error.
func BindError(c *gin.Context, err error) {
	Error(c, errors.Validation(err.Error(), nil))
}
