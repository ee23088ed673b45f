package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/pkg/helpers"
)

// IUserRepository defines user persistence. Email lookups are case-insensitive.
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// IPostRepository defines post persistence. Delete also removes the post's comments.
type IPostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter, page helpers.Pagination) ([]*models.Post, int, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}

// ICommentRepository defines comment persistence
type ICommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	CountByUser(ctx context.Context, userID string) (total int, helpful int, err error)
}

// IEventRepository defines event persistence
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter, page helpers.Pagination) ([]*models.Event, int, error)
	// Join adds userID to the participants exactly once. An existing participant is
	// accepted even when the event is full; a newcomer to a full event gets ErrEventFull.
	Join(ctx context.Context, eventID, userID string) (*models.Event, error)
	CountJoinedByUser(ctx context.Context, userID string) (int, error)
}

// IEmergencyRepository defines emergency alert persistence
type IEmergencyRepository interface {
	Create(ctx context.Context, alert *models.EmergencyAlert) error
	GetByID(ctx context.Context, id string) (*models.EmergencyAlert, error)
	List(ctx context.Context, filter models.AlertFilter) ([]*models.EmergencyAlert, error)
	// AddResponse appends to the response log and records the responder once
	AddResponse(ctx context.Context, alertID string, response *models.EmergencyResponse) (*models.EmergencyAlert, error)
	CountRespondedByUser(ctx context.Context, userID string) (int, error)
}

// IChatRepository defines chat room and message persistence
type IChatRepository interface {
	CreateRoom(ctx context.Context, room *models.ChatRoom) error
	GetRoom(ctx context.Context, id string) (*models.ChatRoom, error)
	// ListRoomsForUser returns the rooms userID belongs to, most recently active first,
	// with UnreadCount computed for that user
	ListRoomsForUser(ctx context.Context, userID string) ([]*models.ChatRoom, error)
	// CreateMessage stores the message and updates the room's last message fields
	CreateMessage(ctx context.Context, message *models.ChatMessage) error
	ListMessages(ctx context.Context, roomID string) ([]*models.ChatMessage, error)
	// MarkRead records userID as a reader of every message it has not read yet,
	// returning how many messages changed
	MarkRead(ctx context.Context, roomID, userID string) (int, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	Users     IUserRepository
	Posts     IPostRepository
	Comments  ICommentRepository
	Events    IEventRepository
	Emergency IEmergencyRepository
	Chat      IChatRepository
}

// NewID generates an identifier for a new record
func NewID() string {
	return uuid.NewString()
}

// NonNil replaces a nil slice with an empty one so arrays never serialize or store as null
func NonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
