package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"go.uber.org/zap"
)

// SeriesRepository implements the repositories.SeriesRepository interface
type SeriesRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSeriesRepository creates a new series repository
func NewSeriesRepository(db *DB, logger *zap.Logger) repositories.SeriesRepository {
	return &SeriesRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new series
func (r *SeriesRepository) Create(ctx context.Context, series *models.Series) error {
	query := `
		INSERT INTO series (id, strategy_id, name, description, goal, cadence, platforms, tone, examples, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	examples, err := json.Marshal(series.Examples)
	if err != nil {
		return fmt.Errorf("failed to marshal series examples: %w", err)
	}

	executor := GetExecutor(ctx, r.db)
	_, err = executor.ExecContext(ctx, query,
		series.ID,
		series.StrategyID,
		series.Name,
		series.Description,
		series.Goal,
		series.Cadence,
		pq.Array(platformsToStrings(series.Platforms)),
		series.Tone,
		examples,
		series.CreatedAt,
		series.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create series: %w", err)
	}

	r.logger.Debug("series created",
		zap.String("id", series.ID.String()),
		zap.String("name", series.Name))
	return nil
}

// GetByID retrieves a series by ID
func (r *SeriesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Series, error) {
	query := `
		SELECT id, strategy_id, name, description, goal, cadence, platforms, tone, examples, created_at, updated_at
		FROM series
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	return scanSeries(executor.QueryRowContext(ctx, query, id))
}

// GetByStrategyID retrieves all series for a strategy
func (r *SeriesRepository) GetByStrategyID(ctx context.Context, strategyID uuid.UUID) ([]*models.Series, error) {
	query := `
		SELECT id, strategy_id, name, description, goal, cadence, platforms, tone, examples, created_at, updated_at
		FROM series
		WHERE strategy_id = $1
		ORDER BY created_at ASC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, strategyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer rows.Close()

	var result []*models.Series
	for rows.Next() {
		series := &models.Series{}
		var platforms pq.StringArray
		var examples []byte
		err := rows.Scan(
			&series.ID,
			&series.StrategyID,
			&series.Name,
			&series.Description,
			&series.Goal,
			&series.Cadence,
			&platforms,
			&series.Tone,
			&examples,
			&series.CreatedAt,
			&series.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan series: %w", err)
		}
		series.Platforms = stringsToPlatforms(platforms)
		if len(examples) > 0 {
			if err := json.Unmarshal(examples, &series.Examples); err != nil {
				return nil, fmt.Errorf("failed to unmarshal series examples: %w", err)
			}
		}
		result = append(result, series)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating series rows: %w", err)
	}

	return result, nil
}

// GetByName retrieves a series by name within a strategy
func (r *SeriesRepository) GetByName(ctx context.Context, strategyID uuid.UUID, name string) (*models.Series, error) {
	query := `
		SELECT id, strategy_id, name, description, goal, cadence, platforms, tone, examples, created_at, updated_at
		FROM series
		WHERE strategy_id = $1 AND name = $2
	`

	executor := GetExecutor(ctx, r.db)
	return scanSeries(executor.QueryRowContext(ctx, query, strategyID, name))
}

// Delete deletes a series
func (r *SeriesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM series WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete series: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("series %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("series deleted", zap.String("id", id.String()))
	return nil
}

func scanSeries(row *sql.Row) (*models.Series, error) {
	series := &models.Series{}
	var platforms pq.StringArray
	var examples []byte

	err := row.Scan(
		&series.ID,
		&series.StrategyID,
		&series.Name,
		&series.Description,
		&series.Goal,
		&series.Cadence,
		&platforms,
		&series.Tone,
		&examples,
		&series.CreatedAt,
		&series.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get series: %w", err)
	}

	series.Platforms = stringsToPlatforms(platforms)
	if len(examples) > 0 {
		if err := json.Unmarshal(examples, &series.Examples); err != nil {
			return nil, fmt.Errorf("failed to unmarshal series examples: %w", err)
		}
	}

	return series, nil
}
