package memory

import (
	"context"
	"strings"

	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/pkg/apperrors"
)

// UserRepository is the in-memory user collection
type UserRepository struct {
	s *Store
}

func (r *UserRepository) emailTaken(email, exceptID string) bool {
	for _, u := range r.s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *UserRepository) find(id string) *models.User {
	for _, u := range r.s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// Create stores a new user; the email must be unused regardless of case
func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return apperrors.ErrEmailAlreadyExists
	}
	if user.ID == "" {
		user.ID = r.s.newID()
	}
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now

	r.s.users = append(r.s.users, cloneUser(user))
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if u := r.find(id); u != nil {
		return cloneUser(u), nil
	}
	return nil, apperrors.ErrUserNotFound
}

// GetByEmail retrieves a user by email, ignoring case
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// GetByIDs loads the users whose ids are given
func (r *UserRepository) GetByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make(map[string]*models.User, len(ids))
	for _, u := range r.s.users {
		if containsString(ids, u.ID) {
			result[u.ID] = cloneUser(u)
		}
	}
	return result, nil
}

// List returns every user in registration order
func (r *UserRepository) List(_ context.Context) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, cloneUser(u))
	}
	return users, nil
}

// Update replaces the stored profile, keeping id and creation time
func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := r.find(user.ID)
	if stored == nil {
		return apperrors.ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return apperrors.ErrEmailAlreadyExists
	}

	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = r.s.now()
	*stored = *cloneUser(user)
	return nil
}
