package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/services"
	"github.com/yigit/helphub/internal/middleware"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/validation"
	"github.com/yigit/helphub/internal/pkg/websocket"
)

// ChatController handles chat rooms, messages and the room websocket
type ChatController struct {
	chatService services.ChatService
	hub         *websocket.Hub
	logger      zerolog.Logger
}

// NewChatController creates a new ChatController
func NewChatController(chatService services.ChatService, hub *websocket.Hub, logger zerolog.Logger) *ChatController {
	return &ChatController{
		chatService: chatService,
		hub:         hub,
		logger:      logger,
	}
}

// ListRooms returns the caller's rooms with their unread counts
// @Summary List chat rooms
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListResponse[models.ChatRoom]
// @Router /chat/rooms [get]
func (c *ChatController) ListRooms(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	rooms, err := c.chatService.ListRooms(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rooms)
}

// CreateRoom opens a room between the caller and the listed users
// @Summary Create chat room
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRoomRequest true "Participants"
// @Success 201 {object} models.ChatRoom
// @Failure 404 {object} dto.ErrorResponse "Participant not found"
// @Router /chat/rooms [post]
func (c *ChatController) CreateRoom(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateRoomRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	room, err := c.chatService.CreateRoom(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, room)
}

// ListMessages returns a room's messages, oldest first
// @Summary List chat messages
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 200 {object} dto.ListResponse[models.ChatMessage]
// @Failure 401 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Room not found"
// @Router /chat/rooms/{id}/messages [get]
func (c *ChatController) ListMessages(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	messages, err := c.chatService.ListMessages(ctx.Request.Context(), ctx.Param("id"), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, messages)
}

// SendMessage posts a message to a room
// @Summary Send chat message
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} models.ChatMessage
// @Failure 401 {object} dto.ErrorResponse "Not a participant"
// @Router /chat/rooms/{id}/messages [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	message, err := c.chatService.SendMessage(ctx.Request.Context(), ctx.Param("id"), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, message)
}

// MarkRead marks the other members' messages in a room as read by the caller
// @Summary Mark room read
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 200 {object} dto.MarkReadResponse
// @Router /chat/rooms/{id}/read [post]
func (c *ChatController) MarkRead(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.chatService.MarkRead(ctx.Request.Context(), ctx.Param("id"), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Connect upgrades to a websocket subscribed to the room. Frames sent by the
// client are stored as messages from the caller.
// @Summary Room websocket
// @Tags chat
// @Param id path string true "Room ID"
// @Param token query string false "JWT when the Authorization header cannot be set"
// @Success 101
// @Failure 401 {object} dto.ErrorResponse "Not a participant"
// @Router /chat/rooms/{id}/ws [get]
func (c *ChatController) Connect(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	roomID := ctx.Param("id")
	if _, err := c.chatService.GetRoom(ctx.Request.Context(), roomID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.hub.ServeRoom(ctx.Writer, ctx.Request, roomID, userID, c.handleFrame); err != nil {
		c.logger.Warn().Err(err).Str("roomID", roomID).Str("userID", userID).Msg("Websocket connection rejected")
	}
}

// handleFrame stores one incoming frame. A JSON object is read as a
// SendMessageRequest, anything else as plain text content.
func (c *ChatController) handleFrame(ctx context.Context, client *websocket.Client, payload []byte) {
	req, err := decodeFrame(payload)
	if err == nil {
		_, err = c.chatService.SendMessage(ctx, client.RoomID(), client.UserID(), req)
	}
	if err == nil {
		return
	}

	_, resp := middleware.StatusFor(err)
	data, marshalErr := json.Marshal(dto.ChatEvent{Type: dto.ChatEventError, Error: resp})
	if marshalErr != nil {
		c.logger.Error().Err(marshalErr).Msg("Failed to encode websocket error frame")
		return
	}
	client.Reply(data)
}

func decodeFrame(payload []byte) (*dto.SendMessageRequest, error) {
	req := &dto.SendMessageRequest{}
	if bytes.HasPrefix(payload, []byte("{")) {
		if err := json.Unmarshal(payload, req); err != nil {
			return nil, apperrors.NewValidationError(validation.Translate(err)...)
		}
	} else {
		req.Content = string(payload)
	}

	if err := binding.Validator.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError(validation.Translate(err)...)
	}
	return req, nil
}
