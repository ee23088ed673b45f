package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/services"
	"github.com/yigit/helphub/internal/middleware"
	"github.com/yigit/helphub/internal/pkg/helpers"
)

// EventController handles community events
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// ListEvents returns a filtered page of events ordered by start time
// @Summary List events
// @Tags events
// @Produce json
// @Param type query string false "Event type"
// @Param status query string false "Event status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.PagedResponse[models.Event]
// @Router /events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	var query dto.EventListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	filter := models.EventFilter{Type: query.Type, Status: query.Status}
	events, err := c.eventService.ListEvents(ctx.Request.Context(), filter, helpers.ParsePaginationParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, events)
}

// GetEvent returns one event
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.Event
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	event, err := c.eventService.GetEvent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, event)
}

// CreateEvent creates an event organized by the caller
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} models.Event
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, event)
}

// JoinEvent adds the caller to the participants
// @Summary Join event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} models.Event
// @Failure 400 {object} dto.ErrorResponse "Event is full"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/join [post]
func (c *EventController) JoinEvent(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	event, err := c.eventService.JoinEvent(ctx.Request.Context(), ctx.Param("id"), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, event)
}
