package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/helpers"
)

// PostRepository is the in-memory post collection
type PostRepository struct {
	s *Store
}

func (r *PostRepository) index(id string) int {
	for i, p := range r.s.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func matchesPost(p *models.Post, f models.PostFilter) bool {
	if f.UserID != "" && p.UserID != f.UserID {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Location != "" && !containsFold(p.Location, f.Location) {
		return false
	}
	if f.Search != "" && !containsFold(p.Title, f.Search) && !containsFold(p.Description, f.Search) {
		return false
	}
	return true
}

// Create stores a new post
func (r *PostRepository) Create(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if post.ID == "" {
		post.ID = r.s.newID()
	}
	now := r.s.now()
	post.CreatedAt, post.UpdatedAt = now, now
	post.Images, post.Tags = cloneStrings(post.Images), cloneStrings(post.Tags)

	r.s.posts = append(r.s.posts, clonePost(post))
	return nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if i := r.index(id); i >= 0 {
		return clonePost(r.s.posts[i]), nil
	}
	return nil, apperrors.ErrPostNotFound
}

// List filters, sorts newest first, then slices out the requested page
func (r *PostRepository) List(_ context.Context, filter models.PostFilter, page helpers.Pagination) ([]*models.Post, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []*models.Post{}
	for i := len(r.s.posts) - 1; i >= 0; i-- {
		if p := r.s.posts[i]; matchesPost(p, filter) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	pageItems := helpers.Paginate(matched, page)
	out := make([]*models.Post, len(pageItems))
	for i, p := range pageItems {
		out[i] = clonePost(p)
	}
	return out, len(matched), nil
}

// Update replaces the mutable fields; owner and creation time are kept from the stored post
func (r *PostRepository) Update(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.index(post.ID)
	if i < 0 {
		return apperrors.ErrPostNotFound
	}
	stored := r.s.posts[i]
	post.UserID = stored.UserID
	post.CreatedAt = stored.CreatedAt
	post.UpdatedAt = r.s.now()
	r.s.posts[i] = clonePost(post)
	return nil
}

// Delete removes the post and every comment that references it
func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return apperrors.ErrPostNotFound
	}
	r.s.posts = append(r.s.posts[:i], r.s.posts[i+1:]...)

	kept := r.s.comments[:0]
	for _, c := range r.s.comments {
		if c.PostID != id {
			kept = append(kept, c)
		}
	}
	for j := len(kept); j < len(r.s.comments); j++ {
		r.s.comments[j] = nil
	}
	r.s.comments = kept
	return nil
}

// CountByUser counts the posts a user has published
func (r *PostRepository) CountByUser(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, p := range r.s.posts {
		if p.UserID == userID {
			count++
		}
	}
	return count, nil
}
