package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", Validation("bad input", nil), http.StatusBadRequest},
		{"business rule", BusinessRule("not allowed now", nil), http.StatusBadRequest},
		{"unauthorized", Unauthorized(""), http.StatusUnauthorized},
		{"forbidden", Forbidden(""), http.StatusForbidden},
		{"not found", NotFound("order"), http.StatusNotFound},
		{"file too large", FileTooLarge("a.jpg", 10, 5), http.StatusRequestEntityTooLarge},
		{"batch too large maps to 400", BatchTooLarge(100, 50), http.StatusBadRequest},
		{"unsupported type", UnsupportedFileType("a.bin", "application/octet-stream"), http.StatusUnsupportedMediaType},
		{"rate limited", RateLimited(60), http.StatusTooManyRequests},
		{"internal", Internal(fmt.Errorf("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestFromError(t *testing.T) {
	appErr := NotFound("order")
	assert.Same(t, appErr, FromError(appErr))

	wrapped := FromError(fmt.Errorf("raw failure"))
	assert.Equal(t, KindInternal, wrapped.Kind)
	assert.Equal(t, "internal server error", wrapped.Message)
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRateLimitedCarriesRetryAfter(t *testing.T) {
	err := RateLimited(30)
	assert.Equal(t, 30, err.RetryAfter)
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "order not found", NotFound("order").Message)
}
