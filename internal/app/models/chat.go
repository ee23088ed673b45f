package models

import "time"

// Chat message types
const (
	ChatMessageTypeText  = "text"
	ChatMessageTypeImage = "image"
)

// ChatRoom groups a fixed set of participants
type ChatRoom struct {
	ID              string     `json:"id" db:"id"`
	ParticipantIDs  []string   `json:"participantIds" db:"participant_ids"`
	LastMessage     *string    `json:"lastMessage" db:"last_message"`
	LastMessageTime *time.Time `json:"lastMessageTime" db:"last_message_time"`
	UnreadCount     int        `json:"unreadCount" db:"-"` // computed per caller
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
}

// HasParticipant reports whether userID belongs to the room
func (r *ChatRoom) HasParticipant(userID string) bool {
	for _, id := range r.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// LastActivity is the time used to order rooms
func (r *ChatRoom) LastActivity() time.Time {
	if r.LastMessageTime != nil {
		return *r.LastMessageTime
	}
	return r.CreatedAt
}

// ChatMessage is a single message posted in a room. ReadBy lists the members
// who marked it read; IsRead turns true once every recipient has.
type ChatMessage struct {
	ID        string                 `json:"id" db:"id"`
	RoomID    string                 `json:"roomId" db:"room_id"`
	SenderID  string                 `json:"senderId" db:"sender_id"`
	Content   string                 `json:"content" db:"content"`
	Type      string                 `json:"type" db:"type"`
	Metadata  map[string]interface{} `json:"metadata" db:"metadata"`
	IsRead    bool                   `json:"isRead" db:"is_read"`
	ReadBy    []string               `json:"readBy" db:"read_by"`
	Timestamp time.Time              `json:"timestamp" db:"created_at"`
}

// ReadByUser reports whether userID has read the message; senders always have
func (m *ChatMessage) ReadByUser(userID string) bool {
	if m.SenderID == userID {
		return true
	}
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}
