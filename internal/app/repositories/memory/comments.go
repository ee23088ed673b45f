package memory

import (
	"context"
	"sort"

	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/pkg/apperrors"
)

// CommentRepository is the in-memory comment collection
type CommentRepository struct {
	s *Store
}

// Create stores a comment; the post must still exist
func (r *CommentRepository) Create(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if (&PostRepository{r.s}).index(comment.PostID) < 0 {
		return apperrors.ErrPostNotFound
	}
	if comment.ID == "" {
		comment.ID = r.s.newID()
	}
	now := r.s.now()
	comment.CreatedAt, comment.UpdatedAt = now, now

	r.s.comments = append(r.s.comments, cloneComment(comment))
	return nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(_ context.Context, id string) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.comments {
		if c.ID == id {
			return cloneComment(c), nil
		}
	}
	return nil, apperrors.ErrCommentNotFound
}

// ListByPost returns a post's comments, newest first
func (r *CommentRepository) ListByPost(_ context.Context, postID string) ([]*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	comments := []*models.Comment{}
	for i := len(r.s.comments) - 1; i >= 0; i-- {
		if c := r.s.comments[i]; c.PostID == postID {
			comments = append(comments, cloneComment(c))
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

// Update stores the review fields of a comment
func (r *CommentRepository) Update(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.comments {
		if c.ID == comment.ID {
			c.IsHelpful = comment.IsHelpful
			c.Status = comment.Status
			c.UpdatedAt = r.s.now()
			comment.UpdatedAt = c.UpdatedAt
			return nil
		}
	}
	return apperrors.ErrCommentNotFound
}

// CountByUser counts the comments a user wrote and how many were marked helpful
func (r *CommentRepository) CountByUser(_ context.Context, userID string) (int, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	total, helpful := 0, 0
	for _, c := range r.s.comments {
		if c.UserID != userID {
			continue
		}
		total++
		if c.IsHelpful {
			helpful++
		}
	}
	return total, helpful, nil
}
