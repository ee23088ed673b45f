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
	"github.com/yigit/helphub/internal/pkg/helpers"
)

// PostService defines the interface for help request operations
type PostService interface {
	ListPosts(ctx context.Context, filter models.PostFilter, page helpers.Pagination) (*dto.PagedResponse[dto.PostResponse], error)
	GetPost(ctx context.Context, id string) (*dto.PostDetailResponse, error)
	CreatePost(ctx context.Context, userID string, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, postID, userID string, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, postID, userID string) error
}

// postServiceImpl implements PostService
type postServiceImpl struct {
	postRepo     repositories.IPostRepository
	commentRepo  repositories.ICommentRepository
	userRepo     repositories.IUserRepository
	authzService *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo repositories.IPostRepository,
	commentRepo repositories.ICommentRepository,
	userRepo repositories.IUserRepository,
	authzService *auth.AuthorizationService,
	logger zerolog.Logger,
) PostService {
	return &postServiceImpl{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		userRepo:     userRepo,
		authzService: authzService,
		logger:       logger,
	}
}

// ListPosts returns one page of the filtered posts, newest first, with their owners
func (s *postServiceImpl) ListPosts(ctx context.Context, filter models.PostFilter, page helpers.Pagination) (*dto.PagedResponse[dto.PostResponse], error) {
	filter.Location = strings.TrimSpace(filter.Location)
	filter.Search = strings.TrimSpace(filter.Search)

	posts, total, err := s.postRepo.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}

	ownerIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		ownerIDs = append(ownerIDs, p.UserID)
	}
	owners, err := s.userRepo.GetByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading post owners: %w", err)
	}

	items := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		items = append(items, dto.PostResponse{Post: *p, User: dto.NewUserSummary(owners[p.UserID])})
	}

	resp := dto.NewPagedResponse(items, helpers.NewPageInfo(total, page))
	return &resp, nil
}

// GetPost returns the post with its owner and comments
func (s *postServiceImpl) GetPost(ctx context.Context, id string) (*dto.PostDetailResponse, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}

	userIDs := []string{post.UserID}
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading users: %w", err)
	}

	commentResponses := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		commentResponses = append(commentResponses, dto.NewCommentResponse(c, users[c.UserID]))
	}

	return &dto.PostDetailResponse{
		PostResponse: dto.PostResponse{Post: *post, User: dto.NewUserSummary(users[post.UserID])},
		Comments:     commentResponses,
	}, nil
}

// CreatePost publishes a help request owned by userID
func (s *postServiceImpl) CreatePost(ctx context.Context, userID string, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	post := &models.Post{
		UserID:      userID,
		Category:    req.Category,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		Status:      req.Status,
		Urgency:     req.Urgency,
		Images:      repositories.NonNil(req.Images),
		Tags:        cleanTags(req.Tags),
	}
	if post.Status == "" {
		post.Status = models.PostStatusOpen
	}
	if post.Urgency == "" {
		post.Urgency = models.PostUrgencyMedium
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to create post")
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info().Str("postID", post.ID).Str("userID", userID).Msg("Post created")
	return s.withOwner(ctx, post)
}

// UpdatePost applies the provided fields; only the owner may update
func (s *postServiceImpl) UpdatePost(ctx context.Context, postID, userID string, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.authzService.ValidatePostOwnership(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		post.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		post.Location = strings.TrimSpace(*req.Location)
	}
	if req.Status != nil {
		post.Status = *req.Status
	}
	if req.Urgency != nil {
		post.Urgency = *req.Urgency
	}
	if req.Images != nil {
		post.Images = req.Images
	}
	if req.Tags != nil {
		post.Tags = cleanTags(req.Tags)
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		s.logger.Error().Err(err).Str("postID", postID).Msg("Failed to update post")
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return s.withOwner(ctx, post)
}

// DeletePost removes the post and its comments; only the owner may delete
func (s *postServiceImpl) DeletePost(ctx context.Context, postID, userID string) error {
	if _, err := s.authzService.ValidatePostOwnership(ctx, postID, userID); err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		s.logger.Error().Err(err).Str("postID", postID).Msg("Failed to delete post")
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.Info().Str("postID", postID).Str("userID", userID).Msg("Post deleted")
	return nil
}

func (s *postServiceImpl) withOwner(ctx context.Context, post *models.Post) (*dto.PostResponse, error) {
	resp := &dto.PostResponse{Post: *post}
	owner, err := s.userRepo.GetByID(ctx, post.UserID)
	if err == nil {
		resp.User = dto.NewUserSummary(owner)
	} else {
		s.logger.Warn().Err(err).Str("postID", post.ID).Msg("Post owner not found")
	}
	return resp, nil
}

// cleanTags trims tags and drops empty ones and repeats
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
