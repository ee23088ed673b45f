package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/helphub/internal/app/auth"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/repositories"
	"github.com/yigit/helphub/internal/app/repositories/memory"
	"github.com/yigit/helphub/internal/pkg/auth"
)

// fixture wires every service to one in-memory store
type fixture struct {
	repos       *repositories.Repositories
	broadcaster *recordingBroadcaster

	auth        AuthService
	users       UserService
	posts       PostService
	comments    CommentService
	events      EventService
	emergency   EmergencyService
	achievement AchievementService
	chat        ChatService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repos := memory.NewStore().Repositories()
	authz := appauth.NewAuthorizationService(repos.Posts, repos.Chat)
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenIssuer: "helphub.test"})
	broadcaster := &recordingBroadcaster{}
	log := zerolog.Nop()

	return &fixture{
		repos:       repos,
		broadcaster: broadcaster,
		auth:        NewAuthService(repos.Users, jwtService, log),
		users:       NewUserService(repos.Users, nil, log),
		posts:       NewPostService(repos.Posts, repos.Comments, repos.Users, authz, log),
		comments:    NewCommentService(repos.Comments, repos.Posts, repos.Users, authz, log),
		events:      NewEventService(repos.Events, log),
		emergency:   NewEmergencyService(repos.Emergency, log),
		achievement: NewAchievementService(repos, log),
		chat:        NewChatService(repos.Chat, repos.Users, authz, broadcaster, log),
	}
}

// register creates an account and returns its id
func (f *fixture) register(t *testing.T, name, email string) string {
	t.Helper()
	resp, err := f.auth.Register(context.Background(), &dto.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "password123",
		Phone:    "555-0100",
		Location: "Springfield",
	})
	require.NoError(t, err)
	return resp.User.ID
}

func (f *fixture) createPost(t *testing.T, userID, title string) *dto.PostResponse {
	t.Helper()
	post, err := f.posts.CreatePost(context.Background(), userID, &dto.CreatePostRequest{
		Category:    models.PostCategoryFood,
		Title:       title,
		Description: "Need groceries delivered",
		Location:    "Downtown",
	})
	require.NoError(t, err)
	return post
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	frames map[string][][]byte
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frames == nil {
		b.frames = map[string][][]byte{}
	}
	b.frames[roomID] = append(b.frames[roomID], data)
}

func (b *recordingBroadcaster) events(t *testing.T, roomID string) []dto.ChatEvent {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	out := []dto.ChatEvent{}
	for _, frame := range b.frames[roomID] {
		var ev dto.ChatEvent
		require.NoError(t, json.Unmarshal(frame, &ev))
		out = append(out, ev)
	}
	return out
}
