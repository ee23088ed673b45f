package dto

import "github.com/yigit/helphub/internal/app/models"

// CreateCommentRequest represents a new comment on a post
type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required,notblank,max=500"`
}

// UpdateCommentRequest lets the post owner mark a comment
type UpdateCommentRequest struct {
	IsHelpful *bool                 `json:"isHelpful"`
	Status    *models.CommentStatus `json:"status" binding:"omitempty,oneof=pending accepted rejected"`
}

// CommentAuthor is the author projection embedded in comments
type CommentAuthor struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// CommentResponse is a comment with its author
type CommentResponse struct {
	models.Comment
	User *CommentAuthor `json:"user,omitempty"`
}

// NewCommentResponse joins a comment with its author, which may be unknown
func NewCommentResponse(c *models.Comment, author *models.User) CommentResponse {
	resp := CommentResponse{Comment: *c}
	if author != nil {
		resp.User = &CommentAuthor{ID: author.ID, Name: author.Name, Avatar: author.Avatar}
	}
	return resp
}
