package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/services"
	"github.com/yigit/helphub/internal/middleware"
	"github.com/yigit/helphub/internal/pkg/apperrors"
)

// avatarField is the multipart file part carrying a new profile image
const avatarField = "avatar"

// UserController handles user-related operations
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// ListUsers returns the public user directory
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} dto.ListResponse[dto.UserSummary]
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.userService.ListUsers(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, users)
}

// GetUserByID retrieves user information by ID
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) GetUserByID(ctx *gin.Context) {
	user, err := c.userService.GetUserByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// GetMe retrieves the profile of the authenticated user
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Router /users/me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	user, err := c.userService.GetUserByID(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// UpdateMe applies a partial profile update. The body is JSON or a multipart
// form; a multipart body may carry one image in the "avatar" part.
// @Summary Update own profile
// @Tags users
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest false "Fields to change"
// @Param avatar formData file false "Profile image (jpeg, png, webp)"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error, duplicate email or bad image"
// @Router /users/me [put]
func (c *UserController) UpdateMe(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !middleware.Bind(ctx, &req) {
		return
	}

	avatar, err := c.avatarUpload(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.userService.UpdateProfile(ctx.Request.Context(), userID, &req, avatar)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// avatarUpload returns the uploaded avatar, or nil when the request carries none
func (c *UserController) avatarUpload(ctx *gin.Context) (*multipart.FileHeader, error) {
	if !strings.HasPrefix(ctx.ContentType(), "multipart/") {
		return nil, nil
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid multipart form")
	}
	files := form.File[avatarField]
	if len(files) > 1 {
		return nil, apperrors.NewBadRequestError("Only one avatar file may be uploaded")
	}

	fh, err := ctx.FormFile(avatarField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid avatar upload")
	}
	return fh, nil
}
