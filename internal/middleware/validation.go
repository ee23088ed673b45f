package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/validation"
)

// BindJSON decodes and validates the JSON body into obj. On failure the 400
// envelope is written and false is returned.
func BindJSON(c *gin.Context, obj interface{}) bool {
	return bindWith(c, obj, binding.JSON)
}

// BindQuery validates the query string into obj
func BindQuery(c *gin.Context, obj interface{}) bool {
	return bindWith(c, obj, binding.Query)
}

// Bind picks the binding from the request content type (JSON or multipart form)
func Bind(c *gin.Context, obj interface{}) bool {
	return bindWith(c, obj, binding.Default(c.Request.Method, c.ContentType()))
}

func bindWith(c *gin.Context, obj interface{}, b binding.Binding) bool {
	if err := c.ShouldBindWith(obj, b); err != nil {
		HandleAPIError(c, validationError(err))
		return false
	}
	return true
}

func validationError(err error) error {
	fields := validation.Translate(err)
	if len(fields) == 0 {
		return apperrors.NewBadRequestError("Invalid request: " + err.Error())
	}
	return apperrors.NewValidationError(fields...)
}
