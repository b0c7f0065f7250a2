package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"go.uber.org/zap"
)

// PostRepository implements the repositories.PostRepository interface
type PostRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *DB, logger *zap.Logger) repositories.PostRepository {
	return &PostRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, strategy_id, series_id, month, week, post_date, platform, post_type,
			hook, body_copy, cta, hashtags, justification, wildcard, visual_concept, image_url,
			status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		post.ID,
		post.StrategyID,
		post.SeriesID,
		post.Month,
		post.Week,
		post.PostDate,
		pq.Array(platformsToStrings(post.Platforms)),
		post.PostType,
		post.Hook,
		post.BodyCopy,
		post.CTA,
		pq.Array(post.Hashtags),
		post.Justification,
		post.Wildcard,
		post.VisualConcept,
		post.ImageURL,
		post.Status,
		post.CreatedBy,
		post.CreatedAt,
		post.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	r.logger.Debug("post created",
		zap.String("id", post.ID.String()),
		zap.String("month", post.Month),
		zap.Int("week", post.Week))
	return nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := selectPostQuery + ` WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	row := executor.QueryRowContext(ctx, query, id)
	post, err := scanPostRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// GetByStrategyMonth retrieves a month of posts ordered by week then date
func (r *PostRepository) GetByStrategyMonth(ctx context.Context, strategyID uuid.UUID, month string) ([]*models.Post, error) {
	query := selectPostQuery + `
		WHERE strategy_id = $1 AND month = $2
		ORDER BY week ASC, post_date ASC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, strategyID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPostRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

// UpdateStatus moves a post through the approval workflow
func (r *PostRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PostStatus) error {
	query := `UPDATE posts SET status = $2, updated_at = $3 WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update post status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("post status updated",
		zap.String("id", id.String()),
		zap.String("status", string(status)))
	return nil
}

// UpdateImageURL attaches a generated image to a post
func (r *PostRepository) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	query := `UPDATE posts SET image_url = $2, updated_at = $3 WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, imageURL, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update post image: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("post image updated", zap.String("id", id.String()))
	return nil
}

// Delete deletes a post
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM posts WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("post deleted", zap.String("id", id.String()))
	return nil
}

const selectPostQuery = `
	SELECT id, strategy_id, series_id, month, week, post_date, platform, post_type,
		hook, body_copy, cta, hashtags, justification, wildcard, visual_concept, image_url,
		status, created_by, created_at, updated_at
	FROM posts`

// scanPostRow scans a post from either a *sql.Row or *sql.Rows scan function
func scanPostRow(scan func(dest ...interface{}) error) (*models.Post, error) {
	post := &models.Post{}
	var platforms pq.StringArray
	var hashtags pq.StringArray
	var postDate sql.NullTime

	err := scan(
		&post.ID,
		&post.StrategyID,
		&post.SeriesID,
		&post.Month,
		&post.Week,
		&postDate,
		&platforms,
		&post.PostType,
		&post.Hook,
		&post.BodyCopy,
		&post.CTA,
		&hashtags,
		&post.Justification,
		&post.Wildcard,
		&post.VisualConcept,
		&post.ImageURL,
		&post.Status,
		&post.CreatedBy,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if postDate.Valid {
		post.PostDate = postDate.Time
	}
	post.Platforms = stringsToPlatforms(platforms)
	post.Hashtags = hashtags

	return post, nil
}
