package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"go.uber.org/zap"
)

// ClientRepository implements the repositories.ClientRepository interface
type ClientRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *DB, logger *zap.Logger) repositories.ClientRepository {
	return &ClientRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new client
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, name, company_name, industry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.CompanyName,
		client.Industry,
		client.CreatedAt,
		client.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	r.logger.Debug("client created", zap.String("id", client.ID.String()), zap.String("name", client.Name))
	return nil
}

// GetByID retrieves a client by ID
func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	query := `
		SELECT id, name, company_name, industry, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	client := &models.Client{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.CompanyName,
		&client.Industry,
		&client.CreatedAt,
		&client.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return client, nil
}

// List retrieves all clients, newest first
func (r *ClientRepository) List(ctx context.Context) ([]*models.Client, error) {
	query := `
		SELECT id, name, company_name, industry, created_at, updated_at
		FROM clients
		ORDER BY created_at DESC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client := &models.Client{}
		err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.CompanyName,
			&client.Industry,
			&client.CreatedAt,
			&client.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}

	return clients, nil
}

// Update updates a client
func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $2,
		    company_name = $3,
		    industry = $4,
		    updated_at = $5
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.CompanyName,
		client.Industry,
		client.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("client %s: %w", client.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("client updated", zap.String("id", client.ID.String()))
	return nil
}

// Delete deletes a client
func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM clients WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("client %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("client deleted", zap.String("id", id.String()))
	return nil
}
