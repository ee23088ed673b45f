package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/repositories"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/logger"
)

// AuthorizationService handles ownership and membership checks shared by the services
type AuthorizationService struct {
	postRepo repositories.IPostRepository
	chatRepo repositories.IChatRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(postRepo repositories.IPostRepository, chatRepo repositories.IChatRepository) *AuthorizationService {
	return &AuthorizationService{
		postRepo: postRepo,
		chatRepo: chatRepo,
	}
}

// CanModifyPost reports whether userID owns the post
func (s *AuthorizationService) CanModifyPost(ctx context.Context, postID, userID string) (*models.Post, bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return nil, false, err
		}
		logger.Error().Err(err).Str("postID", postID).Msg("Error getting post in CanModifyPost")
		return nil, false, fmt.Errorf("failed to check post ownership: %w", err)
	}
	return post, post.UserID == userID, nil
}

// ValidatePostOwnership returns the post when userID owns it
func (s *AuthorizationService) ValidatePostOwnership(ctx context.Context, postID, userID string) (*models.Post, error) {
	post, ok, err := s.CanModifyPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewForbiddenError("Not authorized to modify this post")
	}
	return post, nil
}

// ValidateRoomMembership returns the room when userID is one of its participants
func (s *AuthorizationService) ValidateRoomMembership(ctx context.Context, roomID, userID string) (*models.ChatRoom, error) {
	room, err := s.chatRepo.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, apperrors.ErrRoomNotFound) {
			return nil, err
		}
		logger.Error().Err(err).Str("roomID", roomID).Msg("Error getting chat room in ValidateRoomMembership")
		return nil, fmt.Errorf("failed to check room membership: %w", err)
	}
	if !room.HasParticipant(userID) {
		return nil, apperrors.NewCustomError(apperrors.ErrNotRoomMember, "Not a participant of this chat room")
	}
	return room, nil
}
