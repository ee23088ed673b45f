package models

import "time"

// CommentStatus records how the post owner received an offer of help
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusAccepted CommentStatus = "accepted"
	CommentStatusRejected CommentStatus = "rejected"
)

// Comment is a reply attached to a post
type Comment struct {
	ID        string        `json:"id" db:"id"`
	PostID    string        `json:"postId" db:"post_id"`
	UserID    string        `json:"userId" db:"user_id"`
	Comment   string        `json:"comment" db:"comment"`
	IsHelpful bool          `json:"isHelpful" db:"is_helpful"`
	Status    CommentStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}
