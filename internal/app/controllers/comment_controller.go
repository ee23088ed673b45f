package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/services"
	"github.com/yigit/helphub/internal/middleware"
)

// CommentController handles comments on posts
type CommentController struct {
	commentService services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// ListComments returns a post's comments, newest first
// @Summary List comments
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} dto.ListResponse[dto.CommentResponse]
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/comments [get]
func (c *CommentController) ListComments(ctx *gin.Context) {
	comments, err := c.commentService.ListComments(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, comments)
}

// CreateComment adds a comment by the caller
// @Summary Create comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.CommentResponse
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/comments [post]
func (c *CommentController) CreateComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	comment, err := c.commentService.CreateComment(ctx.Request.Context(), ctx.Param("id"), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, comment)
}

// ReviewComment lets the post owner mark a comment helpful or change its status
// @Summary Review comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param commentId path string true "Comment ID"
// @Param request body dto.UpdateCommentRequest true "Review"
// @Success 200 {object} dto.CommentResponse
// @Failure 401 {object} dto.ErrorResponse "Not the post owner"
// @Router /posts/{id}/comments/{commentId} [patch]
func (c *CommentController) ReviewComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	comment, err := c.commentService.ReviewComment(ctx.Request.Context(), ctx.Param("id"), ctx.Param("commentId"), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, comment)
}
