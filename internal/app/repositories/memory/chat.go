package memory

import (
	"context"
	"sort"

	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/pkg/apperrors"
)

// ChatRepository is the in-memory room and message collection
type ChatRepository struct {
	s *Store
}

func (r *ChatRepository) findRoom(id string) *models.ChatRoom {
	for _, room := range r.s.rooms {
		if room.ID == id {
			return room
		}
	}
	return nil
}

// CreateRoom stores a new room
func (r *ChatRepository) CreateRoom(_ context.Context, room *models.ChatRoom) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if room.ID == "" {
		room.ID = r.s.newID()
	}
	room.CreatedAt = r.s.now()
	room.ParticipantIDs = cloneStrings(room.ParticipantIDs)

	r.s.rooms = append(r.s.rooms, cloneRoom(room))
	return nil
}

// GetRoom retrieves a room by ID
func (r *ChatRepository) GetRoom(_ context.Context, id string) (*models.ChatRoom, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if room := r.findRoom(id); room != nil {
		return cloneRoom(room), nil
	}
	return nil, apperrors.ErrRoomNotFound
}

// ListRoomsForUser returns the user's rooms, most recently active first
func (r *ChatRepository) ListRoomsForUser(_ context.Context, userID string) ([]*models.ChatRoom, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	unread := map[string]int{}
	for _, m := range r.s.messages {
		if !m.ReadByUser(userID) {
			unread[m.RoomID]++
		}
	}

	rooms := []*models.ChatRoom{}
	for i := len(r.s.rooms) - 1; i >= 0; i-- {
		room := r.s.rooms[i]
		if !room.HasParticipant(userID) {
			continue
		}
		c := cloneRoom(room)
		c.UnreadCount = unread[room.ID]
		rooms = append(rooms, c)
	}
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].LastActivity().After(rooms[j].LastActivity())
	})
	return rooms, nil
}

// CreateMessage stores a message and moves the room's last message pointer
func (r *ChatRepository) CreateMessage(_ context.Context, message *models.ChatMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	room := r.findRoom(message.RoomID)
	if room == nil {
		return apperrors.ErrRoomNotFound
	}
	if message.ID == "" {
		message.ID = r.s.newID()
	}
	message.Timestamp = r.s.now()
	message.ReadBy = cloneStrings(message.ReadBy)

	r.s.messages = append(r.s.messages, cloneMessage(message))

	content, ts := message.Content, message.Timestamp
	room.LastMessage = &content
	room.LastMessageTime = &ts
	return nil
}

// ListMessages returns a room's messages in the order they were posted
func (r *ChatRepository) ListMessages(_ context.Context, roomID string) ([]*models.ChatMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	messages := []*models.ChatMessage{}
	for _, m := range r.s.messages {
		if m.RoomID == roomID {
			messages = append(messages, cloneMessage(m))
		}
	}
	return messages, nil
}

// MarkRead records userID as a reader of the room's messages from other senders
func (r *ChatRepository) MarkRead(_ context.Context, roomID, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	room := r.findRoom(roomID)
	if room == nil {
		return 0, apperrors.ErrRoomNotFound
	}

	marked := 0
	for _, m := range r.s.messages {
		if m.RoomID != roomID || m.ReadByUser(userID) {
			continue
		}
		m.ReadBy = append(m.ReadBy, userID)
		m.IsRead = readByAllRecipients(m, room.ParticipantIDs)
		marked++
	}
	return marked, nil
}

func readByAllRecipients(m *models.ChatMessage, participants []string) bool {
	for _, id := range participants {
		if !m.ReadByUser(id) {
			return false
		}
	}
	return true
}
