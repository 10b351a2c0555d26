package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/order-api/internal/handler"
	"github.com/orderdesk/order-api/pkg/errors"
)

type SizeLimitConfig struct {
	MaxBodyBytes int64
}

func DefaultSizeLimitConfig() SizeLimitConfig {
	return SizeLimitConfig{
		MaxBodyBytes: 110 << 20,
	}
}

// SizeLimit caps the request body so a single oversized upload cannot
// exhaust memory before the media channel validation runs.
func SizeLimit(config SizeLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > config.MaxBodyBytes {
			handler.Error(c, errors.BatchTooLarge(c.Request.ContentLength, config.MaxBodyBytes))
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, config.MaxBodyBytes)
		c.Next()
	}
}
