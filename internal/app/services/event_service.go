package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/repositories"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/helpers"
)

// EventService defines the interface for community event operations
type EventService interface {
	ListEvents(ctx context.Context, filter models.EventFilter, page helpers.Pagination) (*dto.PagedResponse[models.Event], error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	CreateEvent(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*models.Event, error)
	JoinEvent(ctx context.Context, eventID, userID string) (*models.Event, error)
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	eventRepo repositories.IEventRepository
	logger    zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repositories.IEventRepository, logger zerolog.Logger) EventService {
	return &eventServiceImpl{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// ListEvents returns one page of the filtered events, soonest first
func (s *eventServiceImpl) ListEvents(ctx context.Context, filter models.EventFilter, page helpers.Pagination) (*dto.PagedResponse[models.Event], error) {
	events, total, err := s.eventRepo.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}

	items := make([]models.Event, 0, len(events))
	for _, e := range events {
		items = append(items, *e)
	}
	resp := dto.NewPagedResponse(items, helpers.NewPageInfo(total, page))
	return &resp, nil
}

// GetEvent retrieves an event by ID
func (s *eventServiceImpl) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// CreateEvent schedules an upcoming event organized by organizerID
func (s *eventServiceImpl) CreateEvent(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*models.Event, error) {
	event := &models.Event{
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		OrganizerID:     organizerID,
		StartTime:       req.StartTime.UTC(),
		EndTime:         req.EndTime.UTC(),
		Location:        strings.TrimSpace(req.Location),
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Type:            strings.TrimSpace(req.Type),
		Status:          models.EventStatusUpcoming,
		MaxParticipants: req.MaxParticipants,
		ParticipantIDs:  []string{},
		Tags:            cleanTags(req.Tags),
		IsVirtual:       req.IsVirtual,
	}
	if req.VirtualMeetingLink != nil {
		if link := strings.TrimSpace(*req.VirtualMeetingLink); link != "" {
			event.VirtualMeetingLink = &link
		}
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("organizerID", organizerID).Msg("Failed to create event")
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info().Str("eventID", event.ID).Str("organizerID", organizerID).Msg("Event created")
	return event, nil
}

// JoinEvent adds userID to the participants. Joining again is a no-op even when the event is full.
func (s *eventServiceImpl) JoinEvent(ctx context.Context, eventID, userID string) (*models.Event, error) {
	event, err := s.eventRepo.Join(ctx, eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrEventFull):
			return nil, apperrors.NewCustomError(apperrors.ErrEventFull, "Event is full")
		case errors.Is(err, apperrors.ErrEventNotFound):
			return nil, err
		}
		s.logger.Error().Err(err).Str("eventID", eventID).Str("userID", userID).Msg("Failed to join event")
		return nil, fmt.Errorf("failed to join event: %w", err)
	}

	s.logger.Info().Str("eventID", eventID).Str("userID", userID).Int("participants", len(event.ParticipantIDs)).Msg("Event joined")
	return event, nil
}
