package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/helphub/internal/app/auth"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/repositories"
	"github.com/yigit/helphub/internal/pkg/apperrors"
)

// RoomBroadcaster pushes a payload to everyone connected to a room
type RoomBroadcaster interface {
	BroadcastToRoom(roomID string, data []byte)
}

// ChatService defines the interface for chat operations
type ChatService interface {
	ListRooms(ctx context.Context, userID string) (*dto.ListResponse[models.ChatRoom], error)
	CreateRoom(ctx context.Context, userID string, req *dto.CreateRoomRequest) (*models.ChatRoom, error)
	GetRoom(ctx context.Context, roomID, userID string) (*models.ChatRoom, error)
	ListMessages(ctx context.Context, roomID, userID string) (*dto.ListResponse[models.ChatMessage], error)
	SendMessage(ctx context.Context, roomID, userID string, req *dto.SendMessageRequest) (*models.ChatMessage, error)
	MarkRead(ctx context.Context, roomID, userID string) (*dto.MarkReadResponse, error)
}

// chatServiceImpl implements ChatService
type chatServiceImpl struct {
	chatRepo     repositories.IChatRepository
	userRepo     repositories.IUserRepository
	authzService *auth.AuthorizationService
	broadcaster  RoomBroadcaster // optional
	logger       zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	chatRepo repositories.IChatRepository,
	userRepo repositories.IUserRepository,
	authzService *auth.AuthorizationService,
	broadcaster RoomBroadcaster,
	logger zerolog.Logger,
) ChatService {
	return &chatServiceImpl{
		chatRepo:     chatRepo,
		userRepo:     userRepo,
		authzService: authzService,
		broadcaster:  broadcaster,
		logger:       logger,
	}
}

// ListRooms returns the caller's rooms with their unread counts
func (s *chatServiceImpl) ListRooms(ctx context.Context, userID string) (*dto.ListResponse[models.ChatRoom], error) {
	rooms, err := s.chatRepo.ListRoomsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing chat rooms: %w", err)
	}

	items := make([]models.ChatRoom, 0, len(rooms))
	for _, r := range rooms {
		items = append(items, *r)
	}
	resp := dto.NewListResponse(items)
	return &resp, nil
}

// CreateRoom opens a room between the caller and the listed users
func (s *chatServiceImpl) CreateRoom(ctx context.Context, userID string, req *dto.CreateRoomRequest) (*models.ChatRoom, error) {
	participants := []string{userID}
	seen := map[string]struct{}{userID: {}}
	for _, id := range req.ParticipantIDs {
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		participants = append(participants, id)
	}

	if len(participants) < 2 {
		return nil, apperrors.NewValidationError(apperrors.FieldError{
			Field:   "participantIds",
			Message: "participantIds must name at least one other user",
		})
	}

	known, err := s.userRepo.GetByIDs(ctx, participants[1:])
	if err != nil {
		return nil, fmt.Errorf("error loading participants: %w", err)
	}
	for _, id := range participants[1:] {
		if _, ok := known[id]; !ok {
			return nil, apperrors.NewCustomError(apperrors.ErrUserNotFound, fmt.Sprintf("User %s not found", id))
		}
	}

	room := &models.ChatRoom{ParticipantIDs: participants}
	if err := s.chatRepo.CreateRoom(ctx, room); err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to create chat room")
		return nil, fmt.Errorf("failed to create chat room: %w", err)
	}

	s.logger.Info().Str("roomID", room.ID).Int("participants", len(participants)).Msg("Chat room created")
	return room, nil
}

// GetRoom returns the room when the caller is a participant
func (s *chatServiceImpl) GetRoom(ctx context.Context, roomID, userID string) (*models.ChatRoom, error) {
	return s.authzService.ValidateRoomMembership(ctx, roomID, userID)
}

// ListMessages returns the room's messages, oldest first
func (s *chatServiceImpl) ListMessages(ctx context.Context, roomID, userID string) (*dto.ListResponse[models.ChatMessage], error) {
	if _, err := s.authzService.ValidateRoomMembership(ctx, roomID, userID); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListMessages(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}

	items := make([]models.ChatMessage, 0, len(messages))
	for _, m := range messages {
		items = append(items, *m)
	}
	resp := dto.NewListResponse(items)
	return &resp, nil
}

// SendMessage stores a message from a participant and pushes it to connected clients
func (s *chatServiceImpl) SendMessage(ctx context.Context, roomID, userID string, req *dto.SendMessageRequest) (*models.ChatMessage, error) {
	if _, err := s.authzService.ValidateRoomMembership(ctx, roomID, userID); err != nil {
		return nil, err
	}

	message := &models.ChatMessage{
		RoomID:   roomID,
		SenderID: userID,
		Content:  strings.TrimSpace(req.Content),
		Type:     req.Type,
		Metadata: req.Metadata,
	}
	if message.Type == "" {
		message.Type = models.ChatMessageTypeText
	}

	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		if apperrors.Is(err, apperrors.ErrRoomNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("roomID", roomID).Str("userID", userID).Msg("Failed to store chat message")
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	s.broadcast(message)
	return message, nil
}

// MarkRead marks the messages other participants sent as read
func (s *chatServiceImpl) MarkRead(ctx context.Context, roomID, userID string) (*dto.MarkReadResponse, error) {
	if _, err := s.authzService.ValidateRoomMembership(ctx, roomID, userID); err != nil {
		return nil, err
	}

	marked, err := s.chatRepo.MarkRead(ctx, roomID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark messages as read: %w", err)
	}
	return &dto.MarkReadResponse{RoomID: roomID, Marked: marked}, nil
}

func (s *chatServiceImpl) broadcast(message *models.ChatMessage) {
	if s.broadcaster == nil {
		return
	}

	data, err := json.Marshal(dto.ChatEvent{Type: dto.ChatEventMessage, Message: message})
	if err != nil {
		s.logger.Error().Err(err).Str("messageID", message.ID).Msg("Failed to marshal message for broadcast")
		return
	}
	s.broadcaster.BroadcastToRoom(message.RoomID, data)
}
