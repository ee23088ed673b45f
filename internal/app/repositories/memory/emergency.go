package memory

import (
	"context"
	"sort"

	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/pkg/apperrors"
)

// EmergencyRepository is the in-memory alert collection
type EmergencyRepository struct {
	s *Store
}

func (r *EmergencyRepository) find(id string) *models.EmergencyAlert {
	for _, a := range r.s.alerts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Create stores a new alert
func (r *EmergencyRepository) Create(_ context.Context, alert *models.EmergencyAlert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if alert.ID == "" {
		alert.ID = r.s.newID()
	}
	now := r.s.now()
	alert.CreatedAt, alert.UpdatedAt = now, now
	alert.ResponderIDs = cloneStrings(alert.ResponderIDs)
	alert.Responses = []models.EmergencyResponse{}

	r.s.alerts = append(r.s.alerts, cloneAlert(alert))
	return nil
}

// GetByID retrieves an alert by ID
func (r *EmergencyRepository) GetByID(_ context.Context, id string) (*models.EmergencyAlert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if a := r.find(id); a != nil {
		return cloneAlert(a), nil
	}
	return nil, apperrors.ErrAlertNotFound
}

// List returns the filtered alerts, newest first
func (r *EmergencyRepository) List(_ context.Context, filter models.AlertFilter) ([]*models.EmergencyAlert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	alerts := []*models.EmergencyAlert{}
	for i := len(r.s.alerts) - 1; i >= 0; i-- {
		a := r.s.alerts[i]
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.Priority != "" && a.Priority != filter.Priority {
			continue
		}
		alerts = append(alerts, cloneAlert(a))
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts, nil
}

// AddResponse appends to the log and records the responder once
func (r *EmergencyRepository) AddResponse(_ context.Context, alertID string, response *models.EmergencyResponse) (*models.EmergencyAlert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a := r.find(alertID)
	if a == nil {
		return nil, apperrors.ErrAlertNotFound
	}

	if response.ID == "" {
		response.ID = r.s.newID()
	}
	response.AlertID = alertID
	if response.Timestamp.IsZero() {
		response.Timestamp = r.s.now()
	}

	if !containsString(a.ResponderIDs, response.ResponderID) {
		a.ResponderIDs = append(a.ResponderIDs, response.ResponderID)
	}
	a.Responses = append(a.Responses, *response)
	a.UpdatedAt = response.Timestamp
	return cloneAlert(a), nil
}

// CountRespondedByUser counts the alerts a user has responded to
func (r *EmergencyRepository) CountRespondedByUser(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, a := range r.s.alerts {
		if containsString(a.ResponderIDs, userID) {
			count++
		}
	}
	return count, nil
}
