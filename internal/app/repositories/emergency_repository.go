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
	"github.com/yigit/helphub/internal/pkg/logger"
)

var alertColumns = []string{
	"id", "user_id", "type", "priority", "title", "description", "location", "latitude", "longitude", "status",
	"responder_ids", "requires_immediate_response", "estimated_response_time", "created_at", "updated_at", "resolved_at",
}

var responseColumns = []string{"id", "alert_id", "responder_id", "message", "status", "estimated_arrival_time", "created_at"}

// EmergencyRepository handles emergency alert database operations
type EmergencyRepository struct {
	pgRepository
}

// NewEmergencyRepository creates a new EmergencyRepository
func NewEmergencyRepository(database *db.PostgresDB) *EmergencyRepository {
	return &EmergencyRepository{pgRepository: newPgRepository(database)}
}

func scanAlert(row rowScanner) (*models.EmergencyAlert, error) {
	a := &models.EmergencyAlert{}
	err := row.Scan(&a.ID, &a.UserID, &a.Type, &a.Priority, &a.Title, &a.Description, &a.Location,
		&a.Latitude, &a.Longitude, &a.Status, &a.ResponderIDs, &a.RequiresImmediateResponse,
		&a.EstimatedResponseTime, &a.CreatedAt, &a.UpdatedAt, &a.ResolvedAt)
	a.Responses = []models.EmergencyResponse{}
	return a, err
}

// Create inserts a new alert
func (r *EmergencyRepository) Create(ctx context.Context, alert *models.EmergencyAlert) error {
	if alert.ID == "" {
		alert.ID = NewID()
	}
	now := time.Now().UTC()
	alert.CreatedAt, alert.UpdatedAt = now, now
	alert.ResponderIDs = NonNil(alert.ResponderIDs)
	alert.Responses = []models.EmergencyResponse{}

	sql, args, err := r.sb.Insert("emergency_alerts").
		Columns(alertColumns...).
		Values(alert.ID, alert.UserID, alert.Type, alert.Priority, alert.Title, alert.Description, alert.Location,
			alert.Latitude, alert.Longitude, alert.Status, alert.ResponderIDs, alert.RequiresImmediateResponse,
			alert.EstimatedResponseTime, alert.CreatedAt, alert.UpdatedAt, alert.ResolvedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create alert query: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", alert.UserID).Msg("Error executing create alert query")
		return fmt.Errorf("error creating alert: %w", err)
	}
	return nil
}

// GetByID retrieves an alert with its response log
func (r *EmergencyRepository) GetByID(ctx context.Context, id string) (*models.EmergencyAlert, error) {
	sql, args, err := r.sb.Select(alertColumns...).From("emergency_alerts").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get alert query: %w", err)
	}

	alert, err := scanAlert(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAlertNotFound
		}
		return nil, fmt.Errorf("error getting alert by ID: %w", err)
	}

	if err := r.attachResponses(ctx, []*models.EmergencyAlert{alert}); err != nil {
		return nil, err
	}
	return alert, nil
}

// List returns the filtered alerts, newest first
func (r *EmergencyRepository) List(ctx context.Context, filter models.AlertFilter) ([]*models.EmergencyAlert, error) {
	q := r.sb.Select(alertColumns...).From("emergency_alerts")
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.Priority != "" {
		q = q.Where(squirrel.Eq{"priority": filter.Priority})
	}

	sql, args, err := q.OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list alerts query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list alerts query")
		return nil, fmt.Errorf("error querying alerts: %w", err)
	}
	defer rows.Close()

	alerts := []*models.EmergencyAlert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert rows: %w", err)
	}

	if err := r.attachResponses(ctx, alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// attachResponses loads the response logs of several alerts with one query
func (r *EmergencyRepository) attachResponses(ctx context.Context, alerts []*models.EmergencyAlert) error {
	if len(alerts) == 0 {
		return nil
	}

	byID := make(map[string]*models.EmergencyAlert, len(alerts))
	ids := make([]string, 0, len(alerts))
	for _, a := range alerts {
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	sql, args, err := r.sb.Select(responseColumns...).
		From("emergency_responses").
		Where(squirrel.Eq{"alert_id": ids}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build list responses query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error querying alert responses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var resp models.EmergencyResponse
		if err := rows.Scan(&resp.ID, &resp.AlertID, &resp.ResponderID, &resp.Message, &resp.Status,
			&resp.EstimatedArrivalTime, &resp.Timestamp); err != nil {
			return fmt.Errorf("error scanning alert response row: %w", err)
		}
		if a, ok := byID[resp.AlertID]; ok {
			a.Responses = append(a.Responses, resp)
		}
	}
	return rows.Err()
}

// AddResponse records a responder once and appends the response in one transaction
func (r *EmergencyRepository) AddResponse(ctx context.Context, alertID string, response *models.EmergencyResponse) (*models.EmergencyAlert, error) {
	if response.ID == "" {
		response.ID = NewID()
	}
	response.AlertID = alertID
	if response.Timestamp.IsZero() {
		response.Timestamp = time.Now().UTC()
	}

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update("emergency_alerts").
			Set("responder_ids", squirrel.Expr(
				"CASE WHEN ?::text = ANY(responder_ids) THEN responder_ids ELSE array_append(responder_ids, ?::text) END",
				response.ResponderID, response.ResponderID)).
			Set("updated_at", response.Timestamp).
			Where(squirrel.Eq{"id": alertID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build respond query: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error recording responder: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrAlertNotFound
		}

		sql, args, err = r.sb.Insert("emergency_responses").
			Columns(responseColumns...).
			Values(response.ID, alertID, response.ResponderID, response.Message, response.Status,
				response.EstimatedArrivalTime, response.Timestamp).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert response query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error inserting alert response: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrAlertNotFound) {
			logger.Error().Err(err).Str("alertID", alertID).Msg("Error responding to alert")
		}
		return nil, err
	}

	return r.GetByID(ctx, alertID)
}

// CountRespondedByUser counts the alerts a user has responded to
func (r *EmergencyRepository) CountRespondedByUser(ctx context.Context, userID string) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("emergency_alerts").Where("?::text = ANY(responder_ids)", userID).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count responses query: %w", err)
	}

	var count int
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting alert responses: %w", err)
	}
	return count, nil
}
