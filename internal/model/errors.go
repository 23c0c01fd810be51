package model

import (
	"errors"
	"net/http"
)

// ErrorCode is a stable string code of an API failure
type ErrorCode string

const (
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrorCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrorCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrorCodeRateLimit    ErrorCode = "RATE_LIMIT"
	ErrorCodeUpstream     ErrorCode = "GITLAB_API_ERROR"
	ErrorCodeNetwork      ErrorCode = "NETWORK_ERROR"
	ErrorCodeBadRequest   ErrorCode = "BAD_REQUEST"
	ErrorCodeUnknown      ErrorCode = "UNKNOWN_ERROR"
	ErrorCodeSuperseded   ErrorCode = "SUPERSEDED"
	ErrorCodeUnavailable  ErrorCode = "SERVICE_UNAVAILABLE"
)

// APIError is an error mapped to a status code and a string code at the API boundary
type APIError struct {
	Status  int
	Code    ErrorCode
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewStatusError maps an upstream HTTP status to an APIError
func NewStatusError(status int, message string, err error) *APIError {
	switch status {
	case http.StatusUnauthorized:
		return &APIError{Status: status, Code: ErrorCodeUnauthorized, Message: "Unauthorized: invalid token", Err: err}
	case http.StatusForbidden:
		return &APIError{Status: status, Code: ErrorCodeForbidden, Message: "Forbidden: insufficient permissions", Err: err}
	case http.StatusNotFound:
		return &APIError{Status: status, Code: ErrorCodeNotFound, Message: "Not found", Err: err}
	case http.StatusTooManyRequests:
		return &APIError{Status: status, Code: ErrorCodeRateLimit, Message: "Rate limit exceeded", Err: err}
	}
	if message == "" {
		message = "source-control API error"
	}
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	return &APIError{Status: status, Code: ErrorCodeUpstream, Message: message, Err: err}
}

// NewNetworkError is returned when the upstream host cannot be reached
func NewNetworkError(err error) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    ErrorCodeNetwork,
		Message: "Network error: unable to reach source-control API",
		Err:     err,
	}
}

// NewBadRequestError is returned for invalid client input
func NewBadRequestError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrorCodeBadRequest, Message: message}
}

// NewSupersededError is returned to a request that lost to a newer request of the same viewer
func NewSupersededError() *APIError {
	return &APIError{Status: http.StatusConflict, Code: ErrorCodeSuperseded, Message: "Request was superseded by a newer one"}
}

// NewUnavailableError is returned when an optional feature is not configured
func NewUnavailableError(message string) *APIError {
	return &APIError{Status: http.StatusServiceUnavailable, Code: ErrorCodeUnavailable, Message: message}
}

// AsAPIError extracts an APIError from the chain or maps err to UNKNOWN_ERROR
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    ErrorCodeUnknown,
		Message: "An unexpected error occurred",
		Err:     err,
	}
}
