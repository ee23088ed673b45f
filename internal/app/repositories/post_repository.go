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

var postColumns = []string{"id", "user_id", "category", "title", "description", "location", "status", "urgency", "images", "tags", "created_at", "updated_at"}

// PostRepository handles post database operations
type PostRepository struct {
	pgRepository
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(database *db.PostgresDB) *PostRepository {
	return &PostRepository{pgRepository: newPgRepository(database)}
}

func scanPost(row rowScanner) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(&p.ID, &p.UserID, &p.Category, &p.Title, &p.Description, &p.Location,
		&p.Status, &p.Urgency, &p.Images, &p.Tags, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func applyPostFilter(q squirrel.SelectBuilder, f models.PostFilter) squirrel.SelectBuilder {
	if f.UserID != "" {
		q = q.Where(squirrel.Eq{"user_id": f.UserID})
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"category": f.Category})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.Location != "" {
		q = q.Where(squirrel.ILike{"location": likePattern(f.Location)})
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		q = q.Where(squirrel.Or{squirrel.ILike{"title": pattern}, squirrel.ILike{"description": pattern}})
	}
	return q
}

// Create inserts a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = NewID()
	}
	now := time.Now().UTC()
	post.CreatedAt, post.UpdatedAt = now, now
	post.Images, post.Tags = NonNil(post.Images), NonNil(post.Tags)

	sql, args, err := r.sb.Insert("posts").
		Columns(postColumns...).
		Values(post.ID, post.UserID, post.Category, post.Title, post.Description, post.Location,
			post.Status, post.Urgency, post.Images, post.Tags, post.CreatedAt, post.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create post query: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", post.UserID).Msg("Error executing create post query")
		return fmt.Errorf("error creating post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	sql, args, err := r.sb.Select(postColumns...).From("posts").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get post query: %w", err)
	}

	post, err := scanPost(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		logger.Error().Err(err).Str("postID", id).Msg("Error scanning post row")
		return nil, fmt.Errorf("error getting post by ID: %w", err)
	}
	return post, nil
}

// List returns one page of the filtered posts, newest first, and the filtered total
func (r *PostRepository) List(ctx context.Context, filter models.PostFilter, page helpers.Pagination) ([]*models.Post, int, error) {
	countSQL, countArgs, err := applyPostFilter(r.sb.Select("COUNT(*)").From("posts"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count posts query: %w", err)
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting posts")
		return nil, 0, fmt.Errorf("error counting posts: %w", err)
	}

	sql, args, err := applyPostFilter(r.sb.Select(postColumns...).From("posts"), filter).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list posts query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list posts query")
		return nil, 0, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, total, nil
}

// Update persists the mutable fields of a post; the owner is never rewritten
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()

	sql, args, err := r.sb.Update("posts").
		SetMap(map[string]interface{}{
			"category":    post.Category,
			"title":       post.Title,
			"description": post.Description,
			"location":    post.Location,
			"status":      post.Status,
			"urgency":     post.Urgency,
			"images":      NonNil(post.Images),
			"tags":        NonNil(post.Tags),
			"updated_at":  post.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": post.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update post query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("postID", post.ID).Msg("Error executing update post query")
		return fmt.Errorf("error updating post: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// Delete removes a post together with its comments
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Delete("comments").Where(squirrel.Eq{"post_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete comments query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error deleting post comments: %w", err)
		}

		sql, args, err = r.sb.Delete("posts").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete post query: %w", err)
		}
		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Str("postID", id).Msg("Error executing delete post query")
			return fmt.Errorf("error deleting post: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrPostNotFound
		}
		return nil
	})
}

// CountByUser counts the posts a user has published
func (r *PostRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("posts").Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count posts query: %w", err)
	}

	var count int
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting user posts: %w", err)
	}
	return count, nil
}
