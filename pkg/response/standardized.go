package response

import (
	"time"

	"tableconfig-editor/internal/utils"
)

// StandardResponse represents a standardized API response
type StandardResponse struct {
	Success       bool        `json:"success"`
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	Message       string      `json:"message,omitempty"`
	CorrelationID string      `json:"correlationId"`
	Timestamp     time.Time   `json:"timestamp"`
}

// ErrorInfo represents error information in responses
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse creates a successful response
func SuccessResponse(data interface{}, correlationID string) *StandardResponse {
	return &StandardResponse{
		Success:       true,
		Data:          data,
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}
}

// SuccessMessageResponse creates a successful response with a message
func SuccessMessageResponse(message, correlationID string) *StandardResponse {
	return &StandardResponse{
		Success:       true,
		Message:       message,
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}
}

// ErrorResponse creates an error response
func ErrorResponse(code, message, details, correlationID string) *StandardResponse {
	return &StandardResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}
}

// ErrorResponseFromAppError creates an error response from AppError
func ErrorResponseFromAppError(appErr *utils.AppError, correlationID string) *StandardResponse {
	return &StandardResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}
}

// RateLimitResponse creates a rate limit exceeded response
func RateLimitResponse(correlationID string) *StandardResponse {
	return ErrorResponse(utils.ErrCodeRateLimitExceeded, "Too many requests", "", correlationID)
}

// UnauthorizedResponse creates an unauthorized error response
func UnauthorizedResponse(message, correlationID string) *StandardResponse {
	if message == "" {
		message = "Unauthorized access"
	}
	return ErrorResponse(utils.ErrCodeUnauthorized, message, "", correlationID)
}
