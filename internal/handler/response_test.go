package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/order-api/pkg/errors"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestOK(t *testing.T) {
	c, rec := testContext(t)

	OK(c, "done", gin.H{"id": "42"})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "done", body["message"])
	assert.NotNil(t, body["data"])
	assert.NotContains(t, body, "error")
}

func TestError_BusinessRule(t *testing.T) {
	c, rec := testContext(t)

	Error(c, errors.BusinessRule("order cannot be cancelled while ON_HOLD", map[string]interface{}{
		"current_status":   "ON_HOLD",
		"allowed_statuses": []string{"PENDING", "IN_PROGRESS"},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "BUSINESS_RULE_ERROR", body["error"])

	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ON_HOLD", details["current_status"])
}

func TestError_InternalHidesCause(t *testing.T) {
	c, rec := testContext(t)

	Error(c, assertableError("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body["error"])
	assert.Equal(t, "internal server error", body["message"])
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestError_RateLimitEnvelope(t *testing.T) {
	c, rec := testContext(t)

	Error(c, errors.RateLimited(60))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "RATE_LIMIT", body["error"])
	assert.EqualValues(t, 60, body["retryAfter"])
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]string{"a", "b"}, 2, 20, 41)
	assert.Equal(t, 2, p.Pagination.Page)
	assert.EqualValues(t, 41, p.Pagination.Total)
	assert.EqualValues(t, 3, p.Pagination.TotalPages)
}

type assertableError string

func (e assertableError) Error() string { return string(e) }
