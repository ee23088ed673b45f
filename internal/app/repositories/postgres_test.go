package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/helphub/internal/app/migrations"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/config"
	"github.com/yigit/helphub/internal/db"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/helpers"
)

// newTestRepositories connects to TEST_DATABASE_URL, applies the migrations
// and empties every table. Tests sharing the database must not run in parallel.
func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL repository tests")
	}
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.Database.URL = url
	cfg.Database.MaxConns = 10
	cfg.Database.MinConns = 1
	cfg.Database.ConnMaxLifetime = "5m"

	database, err := db.NewPostgresDB(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	dir := filepath.Join("..", "..", "..", "migrations")
	require.NoError(t, migrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, dir))

	_, err = database.Pool.Exec(ctx, `TRUNCATE chat_messages, chat_rooms, emergency_responses, emergency_alerts,
		events, comments, posts, users CASCADE`)
	require.NoError(t, err)

	return NewPostgresRepositories(database)
}

func createTestUser(t *testing.T, repos *Repositories, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", PasswordHash: "hash"}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return u
}

func createTestPost(t *testing.T, repos *Repositories, userID, title string) *models.Post {
	t.Helper()
	p := &models.Post{
		UserID:      userID,
		Category:    models.PostCategoryFood,
		Title:       title,
		Description: title + " description",
		Location:    "Riverside",
		Status:      models.PostStatusOpen,
		Urgency:     models.PostUrgencyMedium,
	}
	require.NoError(t, repos.Posts.Create(context.Background(), p))
	return p
}

func createTestEvent(t *testing.T, repos *Repositories, organizerID string, maxParticipants int) *models.Event {
	t.Helper()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	e := &models.Event{
		Title:           "Park cleanup",
		Description:     "Bring gloves",
		OrganizerID:     organizerID,
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		Location:        "Central park",
		Type:            "volunteering",
		Status:          models.EventStatusUpcoming,
		MaxParticipants: maxParticipants,
	}
	require.NoError(t, repos.Events.Create(context.Background(), e))
	return e
}

func TestPostgresUsers_EmailUniqueIgnoringCase(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	require.NoError(t, repos.Users.Create(ctx, &models.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "h"}))
	err := repos.Users.Create(ctx, &models.User{Name: "Ann 2", Email: "ANN@Example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	u, err := repos.Users.GetByEmail(ctx, "Ann@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)

	_, err = repos.Users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestPostgresComments_CreateOnMissingPost(t *testing.T) {
	repos := newTestRepositories(t)
	u := createTestUser(t, repos, "commenter")

	err := repos.Comments.Create(context.Background(), &models.Comment{
		PostID: "missing", UserID: u.ID, Comment: "hello", Status: models.CommentStatusPending,
	})
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestPostgresPosts_DeleteCascadesComments(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()
	owner := createTestUser(t, repos, "owner")
	helper := createTestUser(t, repos, "helper")

	keep := createTestPost(t, repos, owner.ID, "keep")
	drop := createTestPost(t, repos, owner.ID, "drop")
	for i := 0; i < 3; i++ {
		require.NoError(t, repos.Comments.Create(ctx, &models.Comment{
			PostID: drop.ID, UserID: helper.ID, Comment: "c", Status: models.CommentStatusPending,
		}))
	}
	kept := &models.Comment{PostID: keep.ID, UserID: helper.ID, Comment: "stays", Status: models.CommentStatusPending}
	require.NoError(t, repos.Comments.Create(ctx, kept))

	require.NoError(t, repos.Posts.Delete(ctx, drop.ID))

	gone, err := repos.Comments.ListByPost(ctx, drop.ID)
	require.NoError(t, err)
	assert.Empty(t, gone)

	remaining, err := repos.Comments.ListByPost(ctx, keep.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)

	_, err = repos.Posts.GetByID(ctx, drop.ID)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	assert.ErrorIs(t, repos.Posts.Delete(ctx, drop.ID), apperrors.ErrPostNotFound)
}

func TestPostgresPosts_SearchTreatsWildcardsLiterally(t *testing.T) {
	repos := newTestRepositories(t)
	owner := createTestUser(t, repos, "owner")

	want := createTestPost(t, repos, owner.ID, "50% off groceries")
	createTestPost(t, repos, owner.ID, "500 apples")

	posts, total, err := repos.Posts.List(context.Background(), models.PostFilter{Search: "50%"}, helpers.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, want.ID, posts[0].ID)
}

func TestPostgresEvents_JoinCapacityAndIdempotence(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()
	organizer := createTestUser(t, repos, "organizer")
	e := createTestEvent(t, repos, organizer.ID, 2)

	got, err := repos.Events.Join(ctx, e.ID, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.ParticipantIDs)

	got, err = repos.Events.Join(ctx, e.ID, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.ParticipantIDs)

	_, err = repos.Events.Join(ctx, e.ID, "b")
	require.NoError(t, err)

	_, err = repos.Events.Join(ctx, e.ID, "c")
	assert.ErrorIs(t, err, apperrors.ErrEventFull)

	got, err = repos.Events.Join(ctx, e.ID, "b")
	require.NoError(t, err, "an existing participant may rejoin a full event")
	assert.Equal(t, []string{"a", "b"}, got.ParticipantIDs)

	_, err = repos.Events.Join(ctx, "missing", "a")
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestPostgresEvents_ConcurrentJoinsNeverOverfill(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()
	organizer := createTestUser(t, repos, "organizer")
	e := createTestEvent(t, repos, organizer.ID, 5)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repos.Events.Join(ctx, e.ID, fmt.Sprintf("user-%d", i%20))
			if err != nil {
				assert.ErrorIs(t, err, apperrors.ErrEventFull)
			}
		}(i)
	}
	wg.Wait()

	got, err := repos.Events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, got.ParticipantIDs, 5)

	unique := map[string]bool{}
	for _, id := range got.ParticipantIDs {
		assert.False(t, unique[id], id)
		unique[id] = true
	}
}

func TestPostgresChat_ReadStateIsPerMember(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()
	a := createTestUser(t, repos, "a")
	b := createTestUser(t, repos, "b")
	c := createTestUser(t, repos, "c")

	room := &models.ChatRoom{ParticipantIDs: []string{a.ID, b.ID, c.ID}}
	require.NoError(t, repos.Chat.CreateRoom(ctx, room))
	require.NoError(t, repos.Chat.CreateMessage(ctx, &models.ChatMessage{
		RoomID: room.ID, SenderID: a.ID, Content: "meet at noon", Type: models.ChatMessageTypeText,
	}))

	marked, err := repos.Chat.MarkRead(ctx, room.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	marked, err = repos.Chat.MarkRead(ctx, room.ID, b.ID)
	require.NoError(t, err)
	assert.Zero(t, marked)

	rooms, err := repos.Chat.ListRoomsForUser(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, 1, rooms[0].UnreadCount)

	rooms, err = repos.Chat.ListRoomsForUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, rooms[0].UnreadCount, "own messages are never unread")

	messages, err := repos.Chat.ListMessages(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, []string{b.ID}, messages[0].ReadBy)
	assert.False(t, messages[0].IsRead)

	_, err = repos.Chat.MarkRead(ctx, room.ID, c.ID)
	require.NoError(t, err)
	messages, err = repos.Chat.ListMessages(ctx, room.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{b.ID, c.ID}, messages[0].ReadBy)
	assert.True(t, messages[0].IsRead)
}
