package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"go.uber.org/zap"
)

// CommentRepository implements the repositories.CommentRepository interface
type CommentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *DB, logger *zap.Logger) repositories.CommentRepository {
	return &CommentRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, user_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		comment.ID,
		comment.PostID,
		comment.UserID,
		comment.Text,
		comment.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	r.logger.Debug("comment created",
		zap.String("id", comment.ID.String()),
		zap.String("post_id", comment.PostID.String()))
	return nil
}

// GetByPostID retrieves all comments for a post, oldest first
func (r *CommentRepository) GetByPostID(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	query := `
		SELECT id, post_id, user_id, text, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.UserID,
			&comment.Text,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}

// Delete deletes a comment
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("comment %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("comment deleted", zap.String("id", id.String()))
	return nil
}
