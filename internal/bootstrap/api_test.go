package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/config"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	deps   *Dependencies
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	t.Setenv("APP_ENV", config.ModeTest)
	t.Setenv("DB_DRIVER", config.DriverMemory)
	t.Setenv("STORAGE_PATH", t.TempDir())
	t.Setenv("SEED_DEMO_DATA", "false")
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWT_SECRET", "api-test-secret")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	ctx := context.Background()
	lgr := zerolog.Nop()

	repos, database, err := SetupStorage(ctx, cfg, lgr)
	require.NoError(t, err)
	require.Nil(t, database)

	deps, err := BuildDependencies(ctx, cfg, repos, lgr)
	require.NoError(t, err)

	hubCtx, cancel := context.WithCancel(ctx)
	go deps.Hub.Run(hubCtx)
	t.Cleanup(func() {
		cancel()
		deps.Close()
	})

	return &testAPI{t: t, router: SetupRouter(cfg, deps, lgr), deps: deps}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// register creates an account and returns its token and id
func (a *testAPI) register(name, email string) (string, string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": name, "email": email, "password": "password123",
		"phone": "555-0101", "location": "Riverside",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[dto.AuthResponse](a.t, w)
	return resp.Token, resp.User.ID
}

func (a *testAPI) createPost(token, title string) dto.PostResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/posts", token, gin.H{
		"category": "food", "title": title, "description": "Need a hand", "location": "Riverside",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.PostResponse](a.t, w)
}

func TestAPI_HealthAndUnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/", "/health"} {
		w := api.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", decode[dto.HealthResponse](t, w).Status)
	}

	w := api.do(http.MethodGet, "/api/nothing-here", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrorCodeRouteNotFound, decode[dto.ErrorResponse](t, w).Code)
}

func TestAPI_Auth(t *testing.T) {
	api := newTestAPI(t)
	token, id := api.register("Ann", "Ann@Example.com")

	t.Run("duplicate email is rejected case-insensitively", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/auth/register", "", gin.H{
			"name": "Other", "email": "ann@example.COM", "password": "password123",
			"phone": "1", "location": "x",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User already exists", decode[dto.ErrorResponse](t, w).Message)
	})

	t.Run("invalid registration lists the fields", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": " ", "email": "nope", "password": "1"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[dto.ErrorResponse](t, w)
		assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Code)
		fields := map[string]bool{}
		for _, f := range resp.Errors {
			fields[f.Field] = true
		}
		for _, f := range []string{"name", "email", "password", "phone", "location"} {
			assert.True(t, fields[f], f)
		}
	})

	t.Run("login", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ANN@example.com", "password": "password123"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, id, decode[dto.AuthResponse](t, w).User.ID)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		wrong := api.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@example.com", "password": "password124"})
		unknown := api.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ghost@example.com", "password": "password123"})

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, wrong.Code, unknown.Code)
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	})

	t.Run("profile", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/auth/profile", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		profile := decode[dto.UserResponse](t, w)
		assert.Equal(t, "ann@example.com", profile.Email)
		assert.NotContains(t, w.Body.String(), "password")

		w = api.do(http.MethodGet, "/api/auth/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		w = api.do(http.MethodGet, "/api/auth/profile", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAPI_PostsAndComments(t *testing.T) {
	api := newTestAPI(t)
	owner, ownerID := api.register("Owner", "owner@example.com")
	other, _ := api.register("Other", "other@example.com")

	w := api.do(http.MethodPost, "/api/posts", "", gin.H{"title": "x"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	post := api.createPost(owner, "Need groceries")
	assert.Equal(t, ownerID, post.UserID)
	assert.Equal(t, models.PostStatusOpen, post.Status)
	assert.Equal(t, models.PostUrgencyMedium, post.Urgency)

	t.Run("non-owner cannot update or delete", func(t *testing.T) {
		w := api.do(http.MethodPut, "/api/posts/"+post.ID, other, gin.H{"title": "Hijacked"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		w = api.do(http.MethodDelete, "/api/posts/"+post.ID, other, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("owner updates", func(t *testing.T) {
		w := api.do(http.MethodPut, "/api/posts/"+post.ID, owner, gin.H{"status": "in-progress"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := decode[dto.PostResponse](t, w)
		assert.Equal(t, models.PostStatusInProgress, updated.Status)
		assert.Equal(t, "Need groceries", updated.Title)
		assert.Equal(t, ownerID, updated.UserID)
	})

	t.Run("comments", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/posts/"+post.ID+"/comments", other, gin.H{"comment": "I can help"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		comment := decode[dto.CommentResponse](t, w)

		w = api.do(http.MethodPatch, "/api/posts/"+post.ID+"/comments/"+comment.ID, other, gin.H{"isHelpful": true})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = api.do(http.MethodPatch, "/api/posts/"+post.ID+"/comments/"+comment.ID, owner, gin.H{"isHelpful": true, "status": "accepted"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, decode[dto.CommentResponse](t, w).IsHelpful)

		w = api.do(http.MethodGet, "/api/posts/"+post.ID, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		detail := decode[dto.PostDetailResponse](t, w)
		require.Len(t, detail.Comments, 1)
		require.NotNil(t, detail.User)
		assert.Equal(t, "Owner", detail.User.Name)
	})

	t.Run("delete cascades to comments", func(t *testing.T) {
		w := api.do(http.MethodDelete, "/api/posts/"+post.ID, owner, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = api.do(http.MethodGet, "/api/posts/"+post.ID, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		comments, err := api.deps.Repos.Comments.ListByPost(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}

func TestAPI_PostPagination(t *testing.T) {
	api := newTestAPI(t)
	token, userID := api.register("Pager", "pager@example.com")
	for i := 0; i < 7; i++ {
		api.createPost(token, fmt.Sprintf("Post %d", i))
	}

	w := api.do(http.MethodGet, "/api/posts?page=2&limit=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[dto.PagedResponse[dto.PostResponse]](t, w)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasMore)

	w = api.do(http.MethodGet, "/api/posts?page=3&limit=3", "", nil)
	page = decode[dto.PagedResponse[dto.PostResponse]](t, w)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)

	w = api.do(http.MethodGet, "/api/posts/user/"+userID+"?limit=100", "", nil)
	assert.Equal(t, 7, decode[dto.PagedResponse[dto.PostResponse]](t, w).Total)

	w = api.do(http.MethodGet, "/api/posts?category=spaceships", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_EventCapacity(t *testing.T) {
	api := newTestAPI(t)
	organizer, organizerID := api.register("Org", "org@example.com")
	first, firstID := api.register("First", "first@example.com")
	second, _ := api.register("Second", "second@example.com")

	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	w := api.do(http.MethodPost, "/api/events", organizer, gin.H{
		"title": "Clean-up", "description": "Bring gloves", "location": "Park", "type": "volunteering",
		"startTime": start, "endTime": start.Add(2 * time.Hour), "maxParticipants": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	event := decode[models.Event](t, w)
	assert.Equal(t, organizerID, event.OrganizerID)
	assert.Equal(t, models.EventStatusUpcoming, event.Status)

	for i := 0; i < 2; i++ {
		w = api.do(http.MethodPost, "/api/events/"+event.ID+"/join", first, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, []string{firstID}, decode[models.Event](t, w).ParticipantIDs)
	}

	w = api.do(http.MethodPost, "/api/events/"+event.ID+"/join", second, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Event is full", decode[dto.ErrorResponse](t, w).Message)

	w = api.do(http.MethodPost, "/api/events", organizer, gin.H{
		"title": "Backwards", "description": "d", "location": "l", "type": "t",
		"startTime": start, "endTime": start.Add(-time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.PagedResponse[models.Event]](t, w).Total)
}

func TestAPI_EmergencyAndAchievements(t *testing.T) {
	api := newTestAPI(t)
	reporter, _ := api.register("Reporter", "reporter@example.com")
	helper, helperID := api.register("Helper", "helper@example.com")

	w := api.do(http.MethodPost, "/api/emergency", reporter, gin.H{
		"type": "medical", "priority": "high", "title": "Fall", "description": "Neighbour fell",
		"location": "5th street", "latitude": 40.7, "longitude": -74.0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	alert := decode[models.EmergencyAlert](t, w)
	assert.Equal(t, 15, alert.EstimatedResponseTime)

	w = api.do(http.MethodPost, "/api/emergency/"+alert.ID+"/respond", helper, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	alert = decode[models.EmergencyAlert](t, w)
	require.Len(t, alert.Responses, 1)
	assert.Equal(t, helperID, alert.Responses[0].ResponderID)
	assert.Equal(t, "accepted", alert.Responses[0].Status)

	w = api.do(http.MethodPost, "/api/emergency/"+alert.ID+"/respond", helper, gin.H{"message": "5 minutes away", "estimatedArrivalTime": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[models.EmergencyAlert](t, w).Responses, 2)

	w = api.do(http.MethodPost, "/api/emergency/missing/respond", helper, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/api/achievements", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decode[dto.ListResponse[models.Achievement]](t, w).Total)

	w = api.do(http.MethodGet, "/api/achievements/stats", helper, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decode[dto.AchievementStatsResponse](t, w)
	assert.Equal(t, helperID, stats.UserID)
	assert.Equal(t, 1, stats.TotalEmergencyResponses)
}

func TestAPI_ProfileUpdateWithAvatar(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("Avatar", "avatar@example.com")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Avatar Person"))
	part, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/users/me", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode[dto.UserResponse](t, w)
	assert.Equal(t, "Avatar Person", user.Name)
	require.True(t, strings.HasPrefix(user.Avatar, "/uploads/avatars/"), user.Avatar)

	onDisk := filepath.Join(api.deps.FileStorage.BasePath(), strings.TrimPrefix(user.Avatar, "/uploads/"))
	_, err = os.Stat(onDisk)
	require.NoError(t, err)

	w = api.do(http.MethodGet, user.Avatar, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.Avatar, decode[dto.UserResponse](t, w).Avatar)

	w = api.do(http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.ListResponse[dto.UserSummary]](t, w).Total)

	// another account cannot point its avatar at the stored file
	other, _ := api.register("Other", "other@example.com")
	w = api.do(http.MethodPut, "/api/users/me", other, gin.H{"avatar": user.Avatar})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	w = api.do(http.MethodPut, "/api/users/me", other, gin.H{"avatar": "https://example.com/a.png"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, err = os.Stat(onDisk)
	assert.NoError(t, err)
}

func TestAPI_ChatOverWebsocket(t *testing.T) {
	api := newTestAPI(t)
	alice, aliceID := api.register("Alice", "alice@example.com")
	bob, bobID := api.register("Bob", "bob@example.com")
	eve, _ := api.register("Eve", "eve@example.com")

	w := api.do(http.MethodPost, "/api/chat/rooms", alice, gin.H{"participantIds": []string{bobID}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	room := decode[models.ChatRoom](t, w)
	assert.ElementsMatch(t, []string{aliceID, bobID}, room.ParticipantIDs)

	w = api.do(http.MethodGet, "/api/chat/rooms/"+room.ID+"/messages", eve, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	srv := httptest.NewServer(api.router)
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/chat/rooms/" + room.ID + "/ws?token="

	_, resp, err := gorillaws.DefaultDialer.Dial(wsURL+eve, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL+bob, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return api.deps.Hub.ClientCount(room.ID) == 1 }, time.Second, 10*time.Millisecond)

	w = api.do(http.MethodPost, "/api/chat/rooms/"+room.ID+"/messages", alice, gin.H{"content": "hi bob"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event dto.ChatEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, dto.ChatEventMessage, event.Type)
	require.NotNil(t, event.Message)
	assert.Equal(t, "hi bob", event.Message.Content)
	assert.Equal(t, aliceID, event.Message.SenderID)

	// a frame sent over the socket is stored and echoed to the room
	require.NoError(t, conn.WriteMessage(gorillaws.TextMessage, []byte("hello alice")))
	require.NoError(t, conn.ReadJSON(&event))
	require.NotNil(t, event.Message)
	assert.Equal(t, bobID, event.Message.SenderID)

	w = api.do(http.MethodGet, "/api/chat/rooms/"+room.ID+"/messages", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	messages := decode[dto.ListResponse[models.ChatMessage]](t, w)
	require.Equal(t, 2, messages.Total)
	assert.Equal(t, "hi bob", messages.Items[0].Content)
	assert.Equal(t, "hello alice", messages.Items[1].Content)

	w = api.do(http.MethodGet, "/api/chat/rooms", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rooms := decode[dto.ListResponse[models.ChatRoom]](t, w)
	require.Len(t, rooms.Items, 1)
	assert.Equal(t, 1, rooms.Items[0].UnreadCount)

	w = api.do(http.MethodPost, "/api/chat/rooms/"+room.ID+"/read", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.MarkReadResponse](t, w).Marked)
}
