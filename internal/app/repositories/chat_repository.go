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

var roomColumns = []string{"id", "participant_ids", "last_message", "last_message_time", "created_at"}

var messageColumns = []string{"id", "room_id", "sender_id", "content", "type", "metadata", "is_read", "read_by", "created_at"}

// ChatRepository handles chat room and message database operations
type ChatRepository struct {
	pgRepository
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(database *db.PostgresDB) *ChatRepository {
	return &ChatRepository{pgRepository: newPgRepository(database)}
}

func scanRoom(row rowScanner, extra ...any) (*models.ChatRoom, error) {
	room := &models.ChatRoom{}
	dest := append([]any{&room.ID, &room.ParticipantIDs, &room.LastMessage, &room.LastMessageTime, &room.CreatedAt}, extra...)
	return room, row.Scan(dest...)
}

func scanMessage(row rowScanner) (*models.ChatMessage, error) {
	m := &models.ChatMessage{}
	err := row.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Content, &m.Type, &m.Metadata, &m.IsRead, &m.ReadBy, &m.Timestamp)
	return m, err
}

// CreateRoom inserts a new room
func (r *ChatRepository) CreateRoom(ctx context.Context, room *models.ChatRoom) error {
	if room.ID == "" {
		room.ID = NewID()
	}
	room.CreatedAt = time.Now().UTC()
	room.ParticipantIDs = NonNil(room.ParticipantIDs)

	sql, args, err := r.sb.Insert("chat_rooms").
		Columns(roomColumns...).
		Values(room.ID, room.ParticipantIDs, room.LastMessage, room.LastMessageTime, room.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create room query: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Msg("Error executing create room query")
		return fmt.Errorf("error creating chat room: %w", err)
	}
	return nil
}

// GetRoom retrieves a room by ID
func (r *ChatRepository) GetRoom(ctx context.Context, id string) (*models.ChatRoom, error) {
	sql, args, err := r.sb.Select(roomColumns...).From("chat_rooms").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get room query: %w", err)
	}

	room, err := scanRoom(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("error getting chat room: %w", err)
	}
	return room, nil
}

func (r *ChatRepository) listRoomsQuery(userID string) squirrel.SelectBuilder {
	unread := squirrel.Expr(`(SELECT COUNT(*) FROM chat_messages m
		WHERE m.room_id = chat_rooms.id AND m.sender_id <> ?::text AND NOT (?::text = ANY(m.read_by)))`, userID, userID)

	return r.sb.Select(roomColumns...).
		Column(unread).
		From("chat_rooms").
		Where("?::text = ANY(participant_ids)", userID).
		OrderBy("COALESCE(last_message_time, created_at) DESC", "id DESC")
}

// ListRoomsForUser returns the user's rooms with their unread counts
func (r *ChatRepository) ListRoomsForUser(ctx context.Context, userID string) ([]*models.ChatRoom, error) {
	sql, args, err := r.listRoomsQuery(userID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list rooms query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error executing list rooms query")
		return nil, fmt.Errorf("error querying chat rooms: %w", err)
	}
	defer rows.Close()

	rooms := []*models.ChatRoom{}
	for rows.Next() {
		var unreadCount int
		room, err := scanRoom(rows, &unreadCount)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat room row: %w", err)
		}
		room.UnreadCount = unreadCount
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat room rows: %w", err)
	}
	return rooms, nil
}

// CreateMessage stores a message and moves the room's last message pointer in one transaction
func (r *ChatRepository) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	if message.ID == "" {
		message.ID = NewID()
	}
	message.Timestamp = time.Now().UTC()
	message.ReadBy = NonNil(message.ReadBy)

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update("chat_rooms").
			Set("last_message", message.Content).
			Set("last_message_time", message.Timestamp).
			Where(squirrel.Eq{"id": message.RoomID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build touch room query: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error updating chat room: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrRoomNotFound
		}

		sql, args, err = r.sb.Insert("chat_messages").
			Columns(messageColumns...).
			Values(message.ID, message.RoomID, message.SenderID, message.Content, message.Type,
				message.Metadata, message.IsRead, message.ReadBy, message.Timestamp).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create message query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Str("roomID", message.RoomID).Msg("Error executing create message query")
			return fmt.Errorf("error creating chat message: %w", err)
		}
		return nil
	})
}

// ListMessages returns a room's messages in chronological order
func (r *ChatRepository) ListMessages(ctx context.Context, roomID string) ([]*models.ChatMessage, error) {
	sql, args, err := r.sb.Select(messageColumns...).
		From("chat_messages").
		Where(squirrel.Eq{"room_id": roomID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list messages query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying chat messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.ChatMessage{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat message rows: %w", err)
	}
	return messages, nil
}

// markReadQuery adds userID to read_by. is_read is evaluated against the old
// row, so userID is excluded from the recipients still to read explicitly.
func (r *ChatRepository) markReadQuery(roomID, userID string) squirrel.UpdateBuilder {
	allRead := squirrel.Expr(`NOT EXISTS (SELECT 1 FROM chat_rooms r, unnest(r.participant_ids) AS p(id)
		WHERE r.id = chat_messages.room_id AND p.id NOT IN (chat_messages.sender_id, ?::text)
		AND NOT (p.id = ANY(chat_messages.read_by)))`, userID)

	return r.sb.Update("chat_messages").
		Set("read_by", squirrel.Expr("array_append(read_by, ?::text)", userID)).
		Set("is_read", allRead).
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.NotEq{"sender_id": userID}).
		Where("NOT (?::text = ANY(read_by))", userID)
}

// MarkRead records userID as a reader of the room's messages from other senders
func (r *ChatRepository) MarkRead(ctx context.Context, roomID, userID string) (int, error) {
	sql, args, err := r.markReadQuery(roomID, userID).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build mark read query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error marking messages read: %w", err)
	}
	return int(cmdTag.RowsAffected()), nil
}
