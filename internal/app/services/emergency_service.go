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
)

const (
	// DefaultEstimatedResponseTime is used when the reporter gives none, in minutes
	DefaultEstimatedResponseTime = 15

	responseStatusAccepted = "accepted"
)

// EmergencyService defines the interface for emergency alert operations
type EmergencyService interface {
	ListAlerts(ctx context.Context, filter models.AlertFilter) (*dto.ListResponse[models.EmergencyAlert], error)
	GetAlert(ctx context.Context, id string) (*models.EmergencyAlert, error)
	CreateAlert(ctx context.Context, userID string, req *dto.CreateAlertRequest) (*models.EmergencyAlert, error)
	RespondToAlert(ctx context.Context, alertID, userID string, req *dto.RespondAlertRequest) (*models.EmergencyAlert, error)
}

// emergencyServiceImpl implements EmergencyService
type emergencyServiceImpl struct {
	alertRepo repositories.IEmergencyRepository
	logger    zerolog.Logger
}

// NewEmergencyService creates a new EmergencyService
func NewEmergencyService(alertRepo repositories.IEmergencyRepository, logger zerolog.Logger) EmergencyService {
	return &emergencyServiceImpl{
		alertRepo: alertRepo,
		logger:    logger,
	}
}

// ListAlerts returns the filtered alerts, newest first
func (s *emergencyServiceImpl) ListAlerts(ctx context.Context, filter models.AlertFilter) (*dto.ListResponse[models.EmergencyAlert], error) {
	alerts, err := s.alertRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing alerts: %w", err)
	}

	items := make([]models.EmergencyAlert, 0, len(alerts))
	for _, a := range alerts {
		items = append(items, *a)
	}
	resp := dto.NewListResponse(items)
	return &resp, nil
}

// GetAlert retrieves an alert by ID
func (s *emergencyServiceImpl) GetAlert(ctx context.Context, id string) (*models.EmergencyAlert, error) {
	return s.alertRepo.GetByID(ctx, id)
}

// CreateAlert raises an active alert reported by userID
func (s *emergencyServiceImpl) CreateAlert(ctx context.Context, userID string, req *dto.CreateAlertRequest) (*models.EmergencyAlert, error) {
	alert := &models.EmergencyAlert{
		UserID:                    userID,
		Type:                      strings.TrimSpace(req.Type),
		Priority:                  strings.TrimSpace(req.Priority),
		Title:                     strings.TrimSpace(req.Title),
		Description:               strings.TrimSpace(req.Description),
		Location:                  strings.TrimSpace(req.Location),
		Latitude:                  *req.Latitude,
		Longitude:                 *req.Longitude,
		Status:                    models.AlertStatusActive,
		ResponderIDs:              []string{},
		RequiresImmediateResponse: req.RequiresImmediateResponse,
		EstimatedResponseTime:     DefaultEstimatedResponseTime,
	}
	if req.EstimatedResponseTime != nil {
		alert.EstimatedResponseTime = *req.EstimatedResponseTime
	}

	if err := s.alertRepo.Create(ctx, alert); err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to create alert")
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	s.logger.Warn().
		Str("alertID", alert.ID).
		Str("type", alert.Type).
		Str("priority", alert.Priority).
		Bool("immediate", alert.RequiresImmediateResponse).
		Msg("Emergency alert raised")
	return alert, nil
}

// RespondToAlert logs a response from userID. The alert status is left to the reporter.
func (s *emergencyServiceImpl) RespondToAlert(ctx context.Context, alertID, userID string, req *dto.RespondAlertRequest) (*models.EmergencyAlert, error) {
	response := &models.EmergencyResponse{
		ResponderID: userID,
		Message:     models.DefaultResponseMessage,
		Status:      responseStatusAccepted,
	}
	if req != nil {
		if msg := strings.TrimSpace(req.Message); msg != "" {
			response.Message = msg
		}
		response.EstimatedArrivalTime = req.EstimatedArrivalTime
	}

	alert, err := s.alertRepo.AddResponse(ctx, alertID, response)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlertNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("alertID", alertID).Str("userID", userID).Msg("Failed to respond to alert")
		return nil, fmt.Errorf("failed to respond to alert: %w", err)
	}

	s.logger.Info().Str("alertID", alertID).Str("userID", userID).Int("responders", len(alert.ResponderIDs)).Msg("Alert response recorded")
	return alert, nil
}
