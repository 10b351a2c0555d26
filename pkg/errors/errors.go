package errors

import (
	"fmt"
	"net/http"
)

// Kind identifies the category of an application error. It is the value
// surfaced in the `error` field of the API response envelope.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindBusinessRule Kind = "BUSINESS_RULE_ERROR"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindFileSize     Kind = "FILE_SIZE_ERROR"
	KindFileType     Kind = "FILE_TYPE_ERROR"
	KindRateLimit    Kind = "RATE_LIMIT"
	KindInternal     Kind = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Kind       Kind                   `json:"kind"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	RetryAfter int                    `json:"retry_after,omitempty"`
	Status     int                    `json:"-"`
	Err        error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status this error maps to.
func (e *AppError) StatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindValidation, KindBusinessRule:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindFileSize:
		return http.StatusRequestEntityTooLarge
	case KindFileType:
		return http.StatusUnsupportedMediaType
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FromError returns err as an *AppError, wrapping unknown errors as internal.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Internal(err)
}

// Error constructors

func Validation(message string, err error) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Err: err}
}

// BusinessRule reports a state-machine or status-gate violation. Current and
// allowed statuses travel in Details so clients can explain the rejection
// without parsing the message.
func BusinessRule(message string, details map[string]interface{}) *AppError {
	return &AppError{Kind: KindBusinessRule, Message: message, Details: details}
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	if message == "" {
		message = "insufficient permissions"
	}
	return &AppError{Kind: KindForbidden, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// FileTooLarge reports a single file over the per-file limit (413).
func FileTooLarge(filename string, size, limit int64) *AppError {
	return &AppError{
		Kind:    KindFileSize,
		Message: fmt.Sprintf("file %q exceeds the size limit", filename),
		Details: map[string]interface{}{"filename": filename, "size": size, "limit": limit},
	}
}

// BatchTooLarge reports an aggregate request size violation. Unlike the
// per-file case this maps to 400, matching the granularity of the check.
func BatchTooLarge(total, limit int64) *AppError {
	return &AppError{
		Kind:    KindFileSize,
		Message: "total upload size exceeds the request limit",
		Details: map[string]interface{}{"total_size": total, "limit": limit},
		Status:  http.StatusBadRequest,
	}
}

func UnsupportedFileType(filename, mimeType string) *AppError {
	return &AppError{
		Kind:    KindFileType,
		Message: fmt.Sprintf("file type %q is not allowed", mimeType),
		Details: map[string]interface{}{"filename": filename, "mime_type": mimeType},
	}
}

func RateLimited(retryAfter int) *AppError {
	return &AppError{
		Kind:       KindRateLimit,
		Message:    "too many requests",
		RetryAfter: retryAfter,
	}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}
