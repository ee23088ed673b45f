package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/db"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/helpers"
	"github.com/yigit/helphub/internal/pkg/logger"
)

var eventColumns = []string{
	"id", "title", "description", "organizer_id", "start_time", "end_time", "location", "latitude", "longitude",
	"type", "status", "max_participants", "participant_ids", "tags", "is_virtual", "virtual_meeting_link",
	"created_at", "updated_at",
}

// EventRepository handles event database operations
type EventRepository struct {
	pgRepository
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(database *db.PostgresDB) *EventRepository {
	return &EventRepository{pgRepository: newPgRepository(database)}
}

func scanEvent(row rowScanner) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.OrganizerID, &e.StartTime, &e.EndTime, &e.Location,
		&e.Latitude, &e.Longitude, &e.Type, &e.Status, &e.MaxParticipants, &e.ParticipantIDs, &e.Tags,
		&e.IsVirtual, &e.VirtualMeetingLink, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func applyEventFilter(q squirrel.SelectBuilder, f models.EventFilter) squirrel.SelectBuilder {
	if f.Type != "" {
		q = q.Where(squirrel.Eq{"type": f.Type})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	return q
}

// Create inserts a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = NewID()
	}
	now := time.Now().UTC()
	event.CreatedAt, event.UpdatedAt = now, now
	event.ParticipantIDs, event.Tags = NonNil(event.ParticipantIDs), NonNil(event.Tags)

	sql, args, err := r.sb.Insert("events").
		Columns(eventColumns...).
		Values(event.ID, event.Title, event.Description, event.OrganizerID, event.StartTime, event.EndTime,
			event.Location, event.Latitude, event.Longitude, event.Type, event.Status, event.MaxParticipants,
			event.ParticipantIDs, event.Tags, event.IsVirtual, event.VirtualMeetingLink, event.CreatedAt, event.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("organizerID", event.OrganizerID).Msg("Error executing create event query")
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).From("events").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	event, err := scanEvent(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Str("eventID", id).Msg("Error scanning event row")
		return nil, fmt.Errorf("error getting event by ID: %w", err)
	}
	return event, nil
}

// List returns one page of the filtered events ordered by start time
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter, page helpers.Pagination) ([]*models.Event, int, error) {
	countSQL, countArgs, err := applyEventFilter(r.sb.Select("COUNT(*)").From("events"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count events query: %w", err)
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	sql, args, err := applyEventFilter(r.sb.Select(eventColumns...).From("events"), filter).
		OrderBy("start_time ASC", "id ASC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list events query")
		return nil, 0, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, total, nil
}

func (r *EventRepository) joinQuery(eventID, userID string, now time.Time) squirrel.UpdateBuilder {
	return r.sb.Update("events").
		Set("participant_ids", squirrel.Expr("array_append(participant_ids, ?::text)", userID)).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": eventID}).
		Where("NOT (?::text = ANY(participant_ids))", userID).
		Where("(max_participants = 0 OR cardinality(participant_ids) < max_participants)")
}

// Join appends the user in a single conditional UPDATE so concurrent joins cannot overfill the event
func (r *EventRepository) Join(ctx context.Context, eventID, userID string) (*models.Event, error) {
	sql, args, err := r.joinQuery(eventID, userID, time.Now().UTC()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build join event query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("eventID", eventID).Str("userID", userID).Msg("Error executing join event query")
		return nil, fmt.Errorf("error joining event: %w", err)
	}

	event, err := r.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if cmdTag.RowsAffected() == 0 && !event.HasParticipant(userID) {
		return nil, apperrors.ErrEventFull
	}
	return event, nil
}

// CountJoinedByUser counts the events a user participates in
func (r *EventRepository) CountJoinedByUser(ctx context.Context, userID string) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("events").Where("?::text = ANY(participant_ids)", userID).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count joined events query: %w", err)
	}

	var count int
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting joined events: %w", err)
	}
	return count, nil
}
