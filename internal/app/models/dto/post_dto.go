package dto

import "github.com/yigit/helphub/internal/app/models"

// --- Request DTOs ---

// CreatePostRequest represents help request creation data
type CreatePostRequest struct {
	Category    models.PostCategory `json:"category" binding:"required,oneof=medical education transportation food shelter technology other"`
	Title       string              `json:"title" binding:"required,notblank,max=100"`
	Description string              `json:"description" binding:"required,notblank,max=1000"`
	Location    string              `json:"location" binding:"required,notblank"`
	Status      models.PostStatus   `json:"status" binding:"omitempty,oneof=open in-progress resolved closed"`
	Urgency     models.PostUrgency  `json:"urgency" binding:"omitempty,oneof=low medium high critical"`
	Images      []string            `json:"images"`
	Tags        []string            `json:"tags"`
}

// UpdatePostRequest represents a partial post update
type UpdatePostRequest struct {
	Category    *models.PostCategory `json:"category" binding:"omitempty,oneof=medical education transportation food shelter technology other"`
	Title       *string              `json:"title" binding:"omitempty,notblank,max=100"`
	Description *string              `json:"description" binding:"omitempty,notblank,max=1000"`
	Location    *string              `json:"location" binding:"omitempty,notblank"`
	Status      *models.PostStatus   `json:"status" binding:"omitempty,oneof=open in-progress resolved closed"`
	Urgency     *models.PostUrgency  `json:"urgency" binding:"omitempty,oneof=low medium high critical"`
	Images      []string             `json:"images"`
	Tags        []string             `json:"tags"`
}

// PostListQuery holds the optional list filters
type PostListQuery struct {
	Category string `form:"category" binding:"omitempty,oneof=medical education transportation food shelter technology other"`
	Status   string `form:"status" binding:"omitempty,oneof=open in-progress resolved closed"`
	Location string `form:"location"`
	Search   string `form:"search"`
}

// --- Response DTOs ---

// PostResponse is a post with its owner
type PostResponse struct {
	models.Post
	User *UserSummary `json:"user,omitempty"`
}

// PostDetailResponse adds the post's comments
type PostDetailResponse struct {
	PostResponse
	Comments []CommentResponse `json:"comments"`
}
