package dto

import "github.com/yigit/helphub/internal/pkg/apperrors"

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeTokenNotFound      ErrorCode = "AUTH_007"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"

	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeResourceInvalid       ErrorCode = "RES_003"

	// Request errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeBadRequest       ErrorCode = "REQ_001"
	ErrorCodeTooManyRequests  ErrorCode = "REQ_002"
	ErrorCodeRouteNotFound    ErrorCode = "REQ_003"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
)

// ErrorResponse is the single error envelope of the API
type ErrorResponse struct {
	Message string                 `json:"message" example:"Validation error"`
	Code    ErrorCode              `json:"code" example:"VAL_001"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
	Detail  string                 `json:"detail,omitempty"`
}

// NewErrorResponse creates an error envelope
func NewErrorResponse(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{Code: code, Message: message}
}

// WithErrors attaches field level details
func (e *ErrorResponse) WithErrors(fields []apperrors.FieldError) *ErrorResponse {
	e.Errors = fields
	return e
}

// WithDetail attaches debug information; only set in development
func (e *ErrorResponse) WithDetail(detail string) *ErrorResponse {
	e.Detail = detail
	return e
}
