package errors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError     ErrorType = "VALIDATION_ERROR"
	NotFoundError       ErrorType = "NOT_FOUND"
	ServerError         ErrorType = "SERVER_ERROR"
	UpstreamFetchError  ErrorType = "UPSTREAM_FETCH_ERROR"
	EmptyResultError    ErrorType = "EMPTY_RESULT"
	InsufficientDataErr ErrorType = "INSUFFICIENT_DATA"
	RenderPipelineError ErrorType = "RENDER_PIPELINE_ERROR"
	CacheError          ErrorType = "CACHE_ERROR"
	RateLimitError      ErrorType = "RATE_LIMIT_EXCEEDED"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the raw cause to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the status the handler layer should answer with.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus == 0 {
		return getHTTPStatus(e.Type)
	}
	return e.HTTPStatus
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// InternalServerError is the fallback for errors that carry no AppError type.
func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// UpstreamFailed reports a non-2xx status or network failure from a data source.
func UpstreamFailed(source string, err error) *AppError {
	return &AppError{
		Type:       UpstreamFetchError,
		Message:    fmt.Sprintf("%s data unavailable", source),
		Detail:     errDetail(err),
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

// EmptyResult reports a syntactically valid but empty upstream answer.
func EmptyResult(source string, err error) *AppError {
	return &AppError{
		Type:       EmptyResultError,
		Message:    fmt.Sprintf("%s returned no data", source),
		Detail:     errDetail(err),
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

// RateLimitExceeded tells the client to come back after retryAfter seconds.
func RateLimitExceeded(message string, retryAfter int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		Detail:     fmt.Sprintf("retry after %d seconds", retryAfter),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

func InsufficientData(err error) *AppError {
	return &AppError{
		Type:       InsufficientDataErr,
		Message:    "Not enough data to render dashboard",
		Detail:     errDetail(err),
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func RenderFailed(err error) *AppError {
	return &AppError{
		Type:       RenderPipelineError,
		Message:    "Could not create dash image",
		Detail:     errDetail(err),
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case RateLimitError:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
