package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/repositories/memory"
	"github.com/yigit/helphub/internal/pkg/auth"
	"github.com/yigit/helphub/internal/pkg/helpers"
)

func TestCreateDefaultData(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()

	require.NoError(t, CreateDefaultData(ctx, repos, zerolog.Nop()))
	// second run is a no-op
	require.NoError(t, CreateDefaultData(ctx, repos, zerolog.Nop()))

	demo, err := repos.Users.GetByEmail(ctx, DemoEmail)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(demo.PasswordHash, DemoPassword))

	posts, total, err := repos.Posts.List(ctx, models.PostFilter{}, helpers.NormalizePagination(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, demo.ID, posts[0].UserID)

	_, total, err = repos.Events.List(ctx, models.EventFilter{}, helpers.NormalizePagination(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
