package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/helpers"
)

func TestCreatePost_Defaults(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Ada", "ada@example.com")

	post, err := f.posts.CreatePost(context.Background(), owner, &dto.CreatePostRequest{
		Category:    models.PostCategoryMedical,
		Title:       "  Need a ride to the clinic ",
		Description: "Tuesday morning",
		Location:    "Elm Street",
		Tags:        []string{" ride", "", "ride", "clinic"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, owner, post.UserID)
	assert.Equal(t, "Need a ride to the clinic", post.Title)
	assert.Equal(t, models.PostStatusOpen, post.Status)
	assert.Equal(t, models.PostUrgencyMedium, post.Urgency)
	assert.Equal(t, []string{"ride", "clinic"}, post.Tags)
	assert.Equal(t, []string{}, post.Images)
	require.NotNil(t, post.User)
	assert.Equal(t, "Ada", post.User.Name)
}

func TestListPosts_FiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.register(t, "Ada", "ada@example.com")
	bob := f.register(t, "Bob", "bob@example.com")

	for i := 0; i < 7; i++ {
		f.createPost(t, ada, fmt.Sprintf("Ada post %d", i))
	}
	f.createPost(t, bob, "Bob post")

	page, err := f.posts.ListPosts(ctx, models.PostFilter{}, helpers.Pagination{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 8, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasMore)
	require.Len(t, page.Items, 3)
	for _, item := range page.Items {
		require.NotNil(t, item.User)
	}

	byUser, err := f.posts.ListPosts(ctx, models.PostFilter{UserID: bob}, helpers.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, byUser.Total)
	assert.Equal(t, "Bob post", byUser.Items[0].Title)
	assert.Equal(t, "Bob", byUser.Items[0].User.Name)

	search, err := f.posts.ListPosts(ctx, models.PostFilter{Search: "ADA POST 3"}, helpers.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, search.Total)
}

func TestUpdatePost_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.register(t, "Ada", "ada@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	post := f.createPost(t, ada, "Original")

	_, err := f.posts.UpdatePost(ctx, post.ID, bob, &dto.UpdatePostRequest{Title: strPtr("Hijacked")})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	resolved := models.PostStatusResolved
	updated, err := f.posts.UpdatePost(ctx, post.ID, ada, &dto.UpdatePostRequest{Title: strPtr(" Updated "), Status: &resolved})
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Title)
	assert.Equal(t, models.PostStatusResolved, updated.Status)
	assert.Equal(t, ada, updated.UserID)
	assert.Equal(t, post.CreatedAt, updated.CreatedAt)

	_, err = f.posts.UpdatePost(ctx, "missing", ada, &dto.UpdatePostRequest{})
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestDeletePost_RemovesComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.register(t, "Ada", "ada@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	post := f.createPost(t, ada, "To delete")

	_, err := f.comments.CreateComment(ctx, post.ID, bob, &dto.CreateCommentRequest{Comment: "I can help"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.posts.DeletePost(ctx, post.ID, bob), apperrors.ErrPermissionDenied)
	require.NoError(t, f.posts.DeletePost(ctx, post.ID, ada))

	_, err = f.posts.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)

	total, _, err := f.repos.Comments.CountByUser(ctx, bob)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGetPost_WithOwnerAndComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.register(t, "Ada", "ada@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	post := f.createPost(t, ada, "Detail")

	_, err := f.comments.CreateComment(ctx, post.ID, bob, &dto.CreateCommentRequest{Comment: "first"})
	require.NoError(t, err)
	_, err = f.comments.CreateComment(ctx, post.ID, ada, &dto.CreateCommentRequest{Comment: "second"})
	require.NoError(t, err)

	detail, err := f.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", detail.User.Name)
	assert.Equal(t, "555-0100", detail.User.Phone)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "second", detail.Comments[0].Comment.Comment)
	assert.Equal(t, "Bob", detail.Comments[1].User.Name)
}
