package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/repositories"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/auth"
	"github.com/yigit/helphub/internal/pkg/filestorage"
)

const (
	avatarSubPath     = "avatars"
	minPasswordLength = 6
)

// UserService defines the interface for user operations
type UserService interface {
	ListUsers(ctx context.Context) (*dto.ListResponse[dto.UserSummary], error)
	GetUserByID(ctx context.Context, id string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest, avatar *multipart.FileHeader) (*dto.UserResponse, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo    repositories.IUserRepository
	fileStorage filestorage.FileStorage
	logger      zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository, fileStorage filestorage.FileStorage, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// ListUsers returns the public summaries of all users
func (s *userServiceImpl) ListUsers(ctx context.Context) (*dto.ListResponse[dto.UserSummary], error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	summaries := make([]dto.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, *dto.NewUserSummary(u))
	}
	resp := dto.NewListResponse(summaries)
	return &resp, nil
}

// GetUserByID retrieves a user by ID
func (s *userServiceImpl) GetUserByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateProfile applies the non-nil fields of req. A new avatar file replaces the
// stored one; the previous file is removed once the update is saved, but only
// when it lives in the caller's own avatar directory.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest, avatar *multipart.FileHeader) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	previousAvatar := user.Avatar

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = NormalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Location != nil {
		user.Location = strings.TrimSpace(*req.Location)
	}
	if req.Avatar != nil {
		value := strings.TrimSpace(*req.Avatar)
		// stored images are only reachable through an upload
		if value != user.Avatar && s.isStoredFile(value) {
			return nil, apperrors.NewValidationError(apperrors.FieldError{
				Field:   "avatar",
				Message: "avatar must be an external URL, upload a file to use a stored image",
			})
		}
		user.Avatar = value
	}

	// an empty password means "unchanged"
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < minPasswordLength {
			return nil, apperrors.NewValidationError(apperrors.FieldError{
				Field:   "password",
				Message: fmt.Sprintf("password must contain at least %d characters", minPasswordLength),
			})
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	var uploaded string
	if avatar != nil {
		if s.fileStorage == nil {
			return nil, apperrors.NewBadRequestError("File uploads are not enabled")
		}
		uploaded, err = s.fileStorage.SaveImage(avatar, path.Join(avatarSubPath, userID))
		if err != nil {
			return nil, err
		}
		user.Avatar = uploaded
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if uploaded != "" {
			s.removeFile(uploaded)
		}
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Email is already in use")
		}
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to update profile")
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if uploaded != "" && previousAvatar != uploaded && s.ownsAvatar(userID, previousAvatar) {
		s.removeFile(previousAvatar)
	}

	s.logger.Info().Str("userID", userID).Bool("avatarUploaded", uploaded != "").Msg("Profile updated")
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userServiceImpl) uploadsPrefix() string {
	if s.fileStorage == nil {
		return filestorage.DefaultURLPrefix
	}
	return s.fileStorage.URLPrefix()
}

// isStoredFile reports whether url points into the upload directory
func (s *userServiceImpl) isStoredFile(url string) bool {
	if !strings.HasPrefix(url, "/") {
		return false
	}
	prefix := s.uploadsPrefix()
	cleaned := path.Clean(url)
	return cleaned == prefix || strings.HasPrefix(cleaned, prefix+"/")
}

// ownsAvatar reports whether url is a file saved under userID's avatar directory
func (s *userServiceImpl) ownsAvatar(userID, url string) bool {
	if url == "" || userID == "" || !strings.HasPrefix(url, "/") {
		return false
	}
	dir := path.Join(s.uploadsPrefix(), avatarSubPath, userID) + "/"
	return strings.HasPrefix(path.Clean(url), dir)
}

func (s *userServiceImpl) removeFile(url string) {
	if s.fileStorage == nil {
		return
	}
	if err := s.fileStorage.DeleteFile(url); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("Failed to delete replaced avatar")
	}
}
