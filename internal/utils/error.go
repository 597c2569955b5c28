package utils

import (
	"fmt"
	"net/http"
)

// Error codes with HTTP status mapping
const (
	// General errors
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeValidationFailed  = "VALIDATION_ERROR"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"

	// Warehouse errors
	ErrCodeWarehouseError   = "WAREHOUSE_ERROR"
	ErrCodeConnectionFailed = "CONNECTION_FAILED"
	ErrCodeQueryFailed      = "QUERY_FAILED"

	// Registry errors
	ErrCodeTableNotFound = "TABLE_NOT_FOUND"
	ErrCodeTableExists   = "TABLE_EXISTS"
	ErrCodeSchemaInvalid = "SCHEMA_INVALID"
	ErrCodeSaveFailed    = "SAVE_FAILED"

	// Authentication errors
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeInvalidToken = "INVALID_TOKEN"
)

// HTTPStatus maps error codes to HTTP status codes
var HTTPStatus = map[string]int{
	ErrCodeInvalidRequest:    http.StatusBadRequest,
	ErrCodeValidationFailed:  http.StatusUnprocessableEntity,
	ErrCodeUnauthorized:      http.StatusUnauthorized,
	ErrCodeForbidden:         http.StatusForbidden,
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeConflict:          http.StatusConflict,
	ErrCodeInternalError:     http.StatusInternalServerError,
	ErrCodeRateLimitExceeded: http.StatusTooManyRequests,

	ErrCodeWarehouseError:   http.StatusBadGateway,
	ErrCodeConnectionFailed: http.StatusServiceUnavailable,
	ErrCodeQueryFailed:      http.StatusInternalServerError,

	ErrCodeTableNotFound: http.StatusNotFound,
	ErrCodeTableExists:   http.StatusConflict,
	ErrCodeSchemaInvalid: http.StatusUnprocessableEntity,
	ErrCodeSaveFailed:    http.StatusBadGateway,

	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeInvalidToken: http.StatusUnauthorized,
}

// AppError represents an application error with additional context. Raw
// carries the offending stored value for errors about unparseable data, so
// the pages can show it read-only; it never goes on the wire.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Raw     string `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Convenience functions for common error types

func NewWarehouseError(cause error, details string) *AppError {
	return &AppError{
		Code:    ErrCodeWarehouseError,
		Message: "Warehouse operation failed",
		Details: details,
		Cause:   cause,
	}
}

func NewTableNotFoundError(tableKey string) *AppError {
	return &AppError{
		Code:    ErrCodeTableNotFound,
		Message: fmt.Sprintf("table configuration %q not found", tableKey),
	}
}

func NewSchemaInvalidError(cause error, tableKey, rawSchema string) *AppError {
	return &AppError{
		Code:    ErrCodeSchemaInvalid,
		Message: fmt.Sprintf("stored schema for %q is not valid JSON", tableKey),
		Details: cause.Error(),
		Raw:     rawSchema,
		Cause:   cause,
	}
}

func NewValidationError(message, details string) *AppError {
	return &AppError{
		Code:    ErrCodeValidationFailed,
		Message: message,
		Details: details,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: ErrCodeTableExists, Message: message}
}

// IsErrorType checks if an error matches a specific error code
func IsErrorType(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetErrorStatus returns the HTTP status code for an error
func GetErrorStatus(err error) int {
	if appErr, ok := err.(*AppError); ok {
		if status, exists := HTTPStatus[appErr.Code]; exists {
			return status
		}
	}
	return http.StatusInternalServerError
}
