// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/middleware"
)

// currentUserID returns the authenticated caller. Routes reaching it sit behind the
// auth middleware, so a miss means a wiring error and is answered with 401.
func currentUserID(ctx *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized,
			dto.NewErrorResponse(dto.ErrorCodeTokenNotFound, "Authentication required"))
		return "", false
	}
	return userID, true
}
