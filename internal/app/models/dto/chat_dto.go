package dto

import "github.com/yigit/helphub/internal/app/models"

// CreateRoomRequest lists the other members of a new room; the caller is always added
type CreateRoomRequest struct {
	ParticipantIDs []string `json:"participantIds" binding:"required,min=1,dive,required,notblank"`
}

// SendMessageRequest represents a new chat message
type SendMessageRequest struct {
	Content  string                 `json:"content" binding:"required,notblank,max=2000"`
	Type     string                 `json:"type" binding:"omitempty,oneof=text image"`
	Metadata map[string]interface{} `json:"metadata"`
}

// MarkReadResponse reports how many messages were marked as read
type MarkReadResponse struct {
	RoomID string `json:"roomId"`
	Marked int    `json:"marked"`
}

// Chat event types pushed over the room websocket
const (
	ChatEventMessage = "message"
	ChatEventError   = "error"
)

// ChatEvent is a frame pushed to websocket subscribers of a room
type ChatEvent struct {
	Type    string              `json:"type"`
	Message *models.ChatMessage `json:"message,omitempty"`
	Error   *ErrorResponse      `json:"error,omitempty"`
}
