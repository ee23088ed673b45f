package memory

import (
	"context"
	"sort"

	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/helpers"
)

// EventRepository is the in-memory event collection
type EventRepository struct {
	s *Store
}

func (r *EventRepository) find(id string) *models.Event {
	for _, e := range r.s.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Create stores a new event
func (r *EventRepository) Create(_ context.Context, event *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if event.ID == "" {
		event.ID = r.s.newID()
	}
	now := r.s.now()
	event.CreatedAt, event.UpdatedAt = now, now
	event.ParticipantIDs, event.Tags = cloneStrings(event.ParticipantIDs), cloneStrings(event.Tags)

	r.s.events = append(r.s.events, cloneEvent(event))
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(_ context.Context, id string) (*models.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if e := r.find(id); e != nil {
		return cloneEvent(e), nil
	}
	return nil, apperrors.ErrEventNotFound
}

// List filters, sorts by start time, then slices out the requested page
func (r *EventRepository) List(_ context.Context, filter models.EventFilter, page helpers.Pagination) ([]*models.Event, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []*models.Event{}
	for _, e := range r.s.events {
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		matched = append(matched, e)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].StartTime.Before(matched[j].StartTime)
	})

	pageItems := helpers.Paginate(matched, page)
	out := make([]*models.Event, len(pageItems))
	for i, e := range pageItems {
		out[i] = cloneEvent(e)
	}
	return out, len(matched), nil
}

// Join checks membership before capacity, so rejoining a full event succeeds
func (r *EventRepository) Join(_ context.Context, eventID, userID string) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e := r.find(eventID)
	if e == nil {
		return nil, apperrors.ErrEventNotFound
	}
	if e.HasParticipant(userID) {
		return cloneEvent(e), nil
	}
	if e.IsFull() {
		return nil, apperrors.ErrEventFull
	}

	e.ParticipantIDs = append(e.ParticipantIDs, userID)
	e.UpdatedAt = r.s.now()
	return cloneEvent(e), nil
}

// CountJoinedByUser counts the events a user participates in
func (r *EventRepository) CountJoinedByUser(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, e := range r.s.events {
		if e.HasParticipant(userID) {
			count++
		}
	}
	return count, nil
}
