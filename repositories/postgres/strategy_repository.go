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

// StrategyRepository implements the repositories.StrategyRepository interface
type StrategyRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewStrategyRepository creates a new strategy repository
func NewStrategyRepository(db *DB, logger *zap.Logger) repositories.StrategyRepository {
	return &StrategyRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new strategy
func (r *StrategyRepository) Create(ctx context.Context, strategy *models.Strategy) error {
	query := `
		INSERT INTO strategies (id, client_id, platforms, content_pillars, kpis, monthly_themes, company_os_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	themes, err := json.Marshal(strategy.MonthlyThemes)
	if err != nil {
		return fmt.Errorf("failed to marshal monthly themes: %w", err)
	}

	executor := GetExecutor(ctx, r.db)
	_, err = executor.ExecContext(ctx, query,
		strategy.ID,
		strategy.ClientID,
		pq.Array(platformsToStrings(strategy.Platforms)),
		pq.Array(strategy.ContentPillars),
		pq.Array(strategy.KPIs),
		themes,
		strategy.CompanyOSURL,
		strategy.CreatedAt,
		strategy.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create strategy: %w", err)
	}

	r.logger.Debug("strategy created",
		zap.String("id", strategy.ID.String()),
		zap.String("client_id", strategy.ClientID.String()))
	return nil
}

// GetByID retrieves a strategy by ID
func (r *StrategyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Strategy, error) {
	query := `
		SELECT id, client_id, platforms, content_pillars, kpis, monthly_themes, company_os_url, created_at, updated_at
		FROM strategies
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	return scanStrategy(executor.QueryRowContext(ctx, query, id))
}

// GetByClientID retrieves the newest strategy for a client
func (r *StrategyRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) (*models.Strategy, error) {
	query := `
		SELECT id, client_id, platforms, content_pillars, kpis, monthly_themes, company_os_url, created_at, updated_at
		FROM strategies
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	executor := GetExecutor(ctx, r.db)
	return scanStrategy(executor.QueryRowContext(ctx, query, clientID))
}

// Update updates a strategy
func (r *StrategyRepository) Update(ctx context.Context, strategy *models.Strategy) error {
	query := `
		UPDATE strategies
		SET platforms = $2,
		    content_pillars = $3,
		    kpis = $4,
		    monthly_themes = $5,
		    company_os_url = $6,
		    updated_at = $7
		WHERE id = $1
	`

	themes, err := json.Marshal(strategy.MonthlyThemes)
	if err != nil {
		return fmt.Errorf("failed to marshal monthly themes: %w", err)
	}

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		strategy.ID,
		pq.Array(platformsToStrings(strategy.Platforms)),
		pq.Array(strategy.ContentPillars),
		pq.Array(strategy.KPIs),
		themes,
		strategy.CompanyOSURL,
		strategy.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update strategy: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("strategy %s: %w", strategy.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("strategy updated", zap.String("id", strategy.ID.String()))
	return nil
}

// Delete deletes a strategy
func (r *StrategyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM strategies WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete strategy: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("strategy %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("strategy deleted", zap.String("id", id.String()))
	return nil
}

func scanStrategy(row *sql.Row) (*models.Strategy, error) {
	strategy := &models.Strategy{}
	var platforms pq.StringArray
	var pillars pq.StringArray
	var kpis pq.StringArray
	var themes []byte
	var companyOSURL sql.NullString

	err := row.Scan(
		&strategy.ID,
		&strategy.ClientID,
		&platforms,
		&pillars,
		&kpis,
		&themes,
		&companyOSURL,
		&strategy.CreatedAt,
		&strategy.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get strategy: %w", err)
	}

	strategy.CompanyOSURL = companyOSURL.String
	strategy.Platforms = stringsToPlatforms(platforms)
	strategy.ContentPillars = pillars
	strategy.KPIs = kpis

	if len(themes) > 0 {
		if err := json.Unmarshal(themes, &strategy.MonthlyThemes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal monthly themes: %w", err)
		}
	}

	return strategy, nil
}

func platformsToStrings(platforms []models.Platform) []string {
	out := make([]string, len(platforms))
	for i, p := range platforms {
		out[i] = string(p)
	}
	return out
}

func stringsToPlatforms(raw []string) []models.Platform {
	if len(raw) == 0 {
		return nil
	}
	out := make([]models.Platform, len(raw))
	for i, s := range raw {
		out[i] = models.Platform(s)
	}
	return out
}
