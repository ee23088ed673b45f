package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/services"
	"github.com/yigit/helphub/internal/middleware"
	"github.com/yigit/helphub/internal/pkg/helpers"
)

// PostController handles help request posts
type PostController struct {
	postService services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService) *PostController {
	return &PostController{
		postService: postService,
	}
}

// ListPosts returns a filtered, paginated page of posts, newest first
// @Summary List posts
// @Tags posts
// @Produce json
// @Param category query string false "Category filter"
// @Param status query string false "Status filter"
// @Param location query string false "Location substring"
// @Param search query string false "Search in title and description"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.PagedResponse[dto.PostResponse]
// @Router /posts [get]
func (c *PostController) ListPosts(ctx *gin.Context) {
	var query dto.PostListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	filter := models.PostFilter{
		Category: models.PostCategory(query.Category),
		Status:   models.PostStatus(query.Status),
		Location: query.Location,
		Search:   query.Search,
	}
	c.list(ctx, filter)
}

// ListUserPosts returns the posts created by one user
// @Summary List a user's posts
// @Tags posts
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.PagedResponse[dto.PostResponse]
// @Router /posts/user/{userId} [get]
func (c *PostController) ListUserPosts(ctx *gin.Context) {
	c.list(ctx, models.PostFilter{UserID: ctx.Param("userId")})
}

func (c *PostController) list(ctx *gin.Context, filter models.PostFilter) {
	page := helpers.ParsePaginationParams(ctx)

	posts, err := c.postService.ListPosts(ctx.Request.Context(), filter, page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, posts)
}

// GetPost returns one post with its owner and comments
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} dto.PostDetailResponse
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id} [get]
func (c *PostController) GetPost(ctx *gin.Context) {
	post, err := c.postService.GetPost(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

// CreatePost creates a help request owned by the caller
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} dto.PostResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	post, err := c.postService.CreatePost(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, post)
}

// UpdatePost applies a partial update; only the owner may call it
// @Summary Update post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body dto.UpdatePostRequest true "Fields to change"
// @Success 200 {object} dto.PostResponse
// @Failure 401 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id} [put]
func (c *PostController) UpdatePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	post, err := c.postService.UpdatePost(ctx.Request.Context(), ctx.Param("id"), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, post)
}

// DeletePost removes a post and its comments; only the owner may call it
// @Summary Delete post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id} [delete]
func (c *PostController) DeletePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if err := c.postService.DeletePost(ctx.Request.Context(), ctx.Param("id"), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Post deleted successfully"})
}
