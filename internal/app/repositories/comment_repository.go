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
	"github.com/yigit/helphub/internal/pkg/dberrors"
	"github.com/yigit/helphub/internal/pkg/logger"
)

var commentColumns = []string{"id", "post_id", "user_id", "comment", "is_helpful", "status", "created_at", "updated_at"}

// CommentRepository handles comment database operations
type CommentRepository struct {
	pgRepository
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(database *db.PostgresDB) *CommentRepository {
	return &CommentRepository{pgRepository: newPgRepository(database)}
}

func scanComment(row rowScanner) (*models.Comment, error) {
	c := &models.Comment{}
	err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.Comment, &c.IsHelpful, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create inserts a comment; a vanished post yields ErrPostNotFound
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = NewID()
	}
	now := time.Now().UTC()
	comment.CreatedAt, comment.UpdatedAt = now, now

	sql, args, err := r.sb.Insert("comments").
		Columns(commentColumns...).
		Values(comment.ID, comment.PostID, comment.UserID, comment.Comment, comment.IsHelpful, comment.Status, comment.CreatedAt, comment.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create comment query: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrPostNotFound
		}
		logger.Error().Err(err).Str("postID", comment.PostID).Msg("Error executing create comment query")
		return fmt.Errorf("error creating comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	sql, args, err := r.sb.Select(commentColumns...).From("comments").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get comment query: %w", err)
	}

	comment, err := scanComment(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("error getting comment by ID: %w", err)
	}
	return comment, nil
}

// ListByPost returns a post's comments, newest first
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	sql, args, err := r.sb.Select(commentColumns...).
		From("comments").
		Where(squirrel.Eq{"post_id": postID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list comments query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("postID", postID).Msg("Error executing list comments query")
		return nil, fmt.Errorf("error querying comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, nil
}

// Update persists the review fields of a comment
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	comment.UpdatedAt = time.Now().UTC()

	sql, args, err := r.sb.Update("comments").
		Set("is_helpful", comment.IsHelpful).
		Set("status", comment.Status).
		Set("updated_at", comment.UpdatedAt).
		Where(squirrel.Eq{"id": comment.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update comment query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating comment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}
	return nil
}

// CountByUser counts the comments a user wrote and how many of them were marked helpful
func (r *CommentRepository) CountByUser(ctx context.Context, userID string) (int, int, error) {
	sql, args, err := r.sb.Select("COUNT(*)", "COUNT(*) FILTER (WHERE is_helpful)").
		From("comments").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build count comments query: %w", err)
	}

	var total, helpful int
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&total, &helpful); err != nil {
		return 0, 0, fmt.Errorf("error counting user comments: %w", err)
	}
	return total, helpful, nil
}
