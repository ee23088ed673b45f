package dto

import "github.com/yigit/helphub/internal/app/models"

// UpdateProfileRequest carries a partial profile update. Nil fields are left unchanged.
// It binds from JSON or from a multipart form whose file part is named "avatar".
type UpdateProfileRequest struct {
	Name     *string `json:"name" form:"name" binding:"omitempty,notblank,max=100"`
	Email    *string `json:"email" form:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" form:"phone"`
	Location *string `json:"location" form:"location"`
	Avatar   *string `json:"avatar" form:"avatar"`
	Password *string `json:"password" form:"password"`
}

// UserSummary is the owner projection embedded in posts
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar,omitempty"`
}

// NewUserSummary projects a user for embedding
func NewUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Location: u.Location, Phone: u.Phone, Avatar: u.Avatar}
}
