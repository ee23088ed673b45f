package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/helphub/internal/app/auth"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/repositories"
	"github.com/yigit/helphub/internal/pkg/apperrors"
)

// brokenUserLookup fails every single-user lookup
type brokenUserLookup struct {
	repositories.IUserRepository
}

func (brokenUserLookup) GetByID(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection reset")
}

func TestCreateComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.register(t, "Ada", "ada@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	post := f.createPost(t, ada, "Need help")

	comment, err := f.comments.CreateComment(ctx, post.ID, bob, &dto.CreateCommentRequest{Comment: "  On my way "})
	require.NoError(t, err)
	assert.Equal(t, "On my way", comment.Comment.Comment)
	assert.Equal(t, models.CommentStatusPending, comment.Status)
	assert.False(t, comment.IsHelpful)
	require.NotNil(t, comment.User)
	assert.Equal(t, "Bob", comment.User.Name)

	_, err = f.comments.CreateComment(ctx, "missing", bob, &dto.CreateCommentRequest{Comment: "hello"})
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)

	list, err := f.comments.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	_, err = f.comments.ListComments(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestReviewComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.register(t, "Ada", "ada@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	post := f.createPost(t, ada, "Need help")
	other := f.createPost(t, ada, "Other post")

	comment, err := f.comments.CreateComment(ctx, post.ID, bob, &dto.CreateCommentRequest{Comment: "I can drive"})
	require.NoError(t, err)

	helpful := true
	accepted := models.CommentStatusAccepted
	review := &dto.UpdateCommentRequest{IsHelpful: &helpful, Status: &accepted}

	_, err = f.comments.ReviewComment(ctx, post.ID, comment.ID, bob, review)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied, "only the post owner reviews")

	_, err = f.comments.ReviewComment(ctx, other.ID, comment.ID, ada, review)
	assert.ErrorIs(t, err, apperrors.ErrCommentNotFound, "comment must belong to the post")

	reviewed, err := f.comments.ReviewComment(ctx, post.ID, comment.ID, ada, review)
	require.NoError(t, err)
	assert.True(t, reviewed.IsHelpful)
	assert.Equal(t, models.CommentStatusAccepted, reviewed.Status)
	assert.Equal(t, bob, reviewed.UserID)

	_, helpfulCount, err := f.repos.Comments.CountByUser(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, 1, helpfulCount)
}

func TestCommentAuthorLookupFailureIsLogged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.register(t, "Ada", "ada@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	post := f.createPost(t, ada, "Need help")

	var logs bytes.Buffer
	authz := appauth.NewAuthorizationService(f.repos.Posts, f.repos.Chat)
	comments := NewCommentService(f.repos.Comments, f.repos.Posts, brokenUserLookup{f.repos.Users}, authz, zerolog.New(&logs))

	created, err := comments.CreateComment(ctx, post.ID, bob, &dto.CreateCommentRequest{Comment: "On my way"})
	require.NoError(t, err)
	assert.Nil(t, created.User)
	assert.Contains(t, logs.String(), "Comment author not found")
	assert.Contains(t, logs.String(), "connection reset")

	logs.Reset()
	helpful := true
	reviewed, err := comments.ReviewComment(ctx, post.ID, created.ID, ada, &dto.UpdateCommentRequest{IsHelpful: &helpful})
	require.NoError(t, err)
	assert.Nil(t, reviewed.User)
	assert.Contains(t, logs.String(), created.ID)
}
