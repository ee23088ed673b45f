package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/logger"
)

// exposeErrorDetail adds the raw error text to 500 responses; development only
var exposeErrorDetail bool

// ExposeErrorDetails toggles the detail field on internal errors
func ExposeErrorDetails(enabled bool) {
	exposeErrorDetail = enabled
}

// errorMapping ties a sentinel to its status, code and default message
type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// Order matters: the first matching sentinel wins
var errorMappings = []errorMapping{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation error"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrFileTooLarge, http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "File too large"},
	{apperrors.ErrUnsupportedFileType, http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Unsupported file type"},
	{apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "User already exists"},
	{apperrors.ErrResourceAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrEventFull, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Event is full"},

	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token has expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Authentication required"},
	{apperrors.ErrPermissionDenied, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Not authorized"},
	{apperrors.ErrNotRoomMember, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Not a participant of this chat room"},

	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrPostNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Post not found"},
	{apperrors.ErrCommentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Comment not found"},
	{apperrors.ErrEventNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Event not found"},
	{apperrors.ErrAlertNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Emergency alert not found"},
	{apperrors.ErrRoomNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Chat room not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
}

// StatusFor returns the HTTP status and envelope for err
func StatusFor(err error) (int, *dto.ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			resp := dto.NewErrorResponse(m.code, apperrors.MessageOf(err, m.message))
			if fields := apperrors.FieldsOf(err); len(fields) > 0 {
				resp.WithErrors(fields)
			}
			return m.status, resp
		}
	}

	resp := dto.NewErrorResponse(dto.ErrorCodeInternalServer, "Internal server error")
	if exposeErrorDetail && err != nil {
		resp.WithDetail(err.Error())
	}
	return http.StatusInternalServerError, resp
}

// HandleAPIError writes the error envelope for err and aborts the chain
func HandleAPIError(c *gin.Context, err error) {
	status, resp := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// NoRoute answers unknown routes with the JSON envelope
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeRouteNotFound, "Route not found"))
	}
}
