package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/repositories/memory"
	"github.com/yigit/helphub/internal/pkg/apperrors"
)

func TestValidatePostOwnership(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	authz := NewAuthorizationService(repos.Posts, repos.Chat)

	post := &models.Post{UserID: "owner", Title: "Need a ride", Category: models.PostCategoryTransportation}
	require.NoError(t, repos.Posts.Create(ctx, post))

	got, err := authz.ValidatePostOwnership(ctx, post.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	_, err = authz.ValidatePostOwnership(ctx, post.ID, "someone-else")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = authz.ValidatePostOwnership(ctx, "missing", "owner")
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestValidateRoomMembership(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	authz := NewAuthorizationService(repos.Posts, repos.Chat)

	room := &models.ChatRoom{ParticipantIDs: []string{"a", "b"}}
	require.NoError(t, repos.Chat.CreateRoom(ctx, room))

	_, err := authz.ValidateRoomMembership(ctx, room.ID, "a")
	assert.NoError(t, err)

	_, err = authz.ValidateRoomMembership(ctx, room.ID, "c")
	assert.ErrorIs(t, err, apperrors.ErrNotRoomMember)

	_, err = authz.ValidateRoomMembership(ctx, "missing", "a")
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}
