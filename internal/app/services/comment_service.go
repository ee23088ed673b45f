package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/helphub/internal/app/auth"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/repositories"
	"github.com/yigit/helphub/internal/pkg/apperrors"
)

// CommentService defines the interface for comment operations
type CommentService interface {
	ListComments(ctx context.Context, postID string) (*dto.ListResponse[dto.CommentResponse], error)
	CreateComment(ctx context.Context, postID, userID string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ReviewComment(ctx context.Context, postID, commentID, userID string, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
}

// commentServiceImpl implements CommentService
type commentServiceImpl struct {
	commentRepo  repositories.ICommentRepository
	postRepo     repositories.IPostRepository
	userRepo     repositories.IUserRepository
	authzService *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo repositories.ICommentRepository,
	postRepo repositories.IPostRepository,
	userRepo repositories.IUserRepository,
	authzService *auth.AuthorizationService,
	logger zerolog.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo:  commentRepo,
		postRepo:     postRepo,
		userRepo:     userRepo,
		authzService: authzService,
		logger:       logger,
	}
}

// ListComments returns a post's comments with their authors, newest first
func (s *commentServiceImpl) ListComments(ctx context.Context, postID string) (*dto.ListResponse[dto.CommentResponse], error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}

	authorIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.UserID)
	}
	authors, err := s.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading comment authors: %w", err)
	}

	items := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		items = append(items, dto.NewCommentResponse(c, authors[c.UserID]))
	}
	resp := dto.NewListResponse(items)
	return &resp, nil
}

// CreateComment adds a pending comment by userID to the post
func (s *commentServiceImpl) CreateComment(ctx context.Context, postID, userID string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Comment: strings.TrimSpace(req.Comment),
		Status:  models.CommentStatusPending,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if apperrors.Is(err, apperrors.ErrPostNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("postID", postID).Str("userID", userID).Msg("Failed to create comment")
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	resp := s.withAuthor(ctx, comment)
	return &resp, nil
}

// ReviewComment lets the post owner mark a comment helpful or accept/reject it
func (s *commentServiceImpl) ReviewComment(ctx context.Context, postID, commentID, userID string, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.authzService.ValidatePostOwnership(ctx, postID, userID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, apperrors.ErrCommentNotFound
	}

	if req.IsHelpful != nil {
		comment.IsHelpful = *req.IsHelpful
	}
	if req.Status != nil {
		comment.Status = *req.Status
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		s.logger.Error().Err(err).Str("commentID", commentID).Msg("Failed to update comment")
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	resp := s.withAuthor(ctx, comment)
	return &resp, nil
}

// withAuthor attaches the author summary; a failed lookup leaves it empty
func (s *commentServiceImpl) withAuthor(ctx context.Context, comment *models.Comment) dto.CommentResponse {
	author, err := s.userRepo.GetByID(ctx, comment.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Str("commentID", comment.ID).Str("userID", comment.UserID).Msg("Comment author not found")
		author = nil
	}
	return dto.NewCommentResponse(comment, author)
}
