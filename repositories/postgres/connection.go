package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pulseplan/backend/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Clients table
		CREATE TABLE IF NOT EXISTS clients (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			company_name VARCHAR(255),
			industry VARCHAR(255),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- User profiles table (primary key = identity-provider subject id)
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(255) PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL,
			assigned_clients UUID[],
			client_id UUID REFERENCES clients(id) ON DELETE SET NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Strategies table
		CREATE TABLE IF NOT EXISTS strategies (
			id UUID PRIMARY KEY,
			client_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			platforms TEXT[] NOT NULL,
			content_pillars TEXT[] NOT NULL,
			kpis TEXT[] NOT NULL,
			monthly_themes JSONB NOT NULL,
			company_os_url TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Series table
		CREATE TABLE IF NOT EXISTS series (
			id UUID PRIMARY KEY,
			strategy_id UUID NOT NULL REFERENCES strategies(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			goal TEXT,
			cadence VARCHAR(100),
			platforms TEXT[] NOT NULL,
			tone VARCHAR(255),
			examples JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Posts table
		CREATE TABLE IF NOT EXISTS posts (
			id UUID PRIMARY KEY,
			strategy_id UUID NOT NULL REFERENCES strategies(id) ON DELETE CASCADE,
			series_id UUID REFERENCES series(id) ON DELETE SET NULL,
			month VARCHAR(20) NOT NULL,
			week INTEGER NOT NULL,
			post_date TIMESTAMP,
			platform TEXT[] NOT NULL,
			post_type VARCHAR(50) NOT NULL,
			hook TEXT NOT NULL,
			body_copy TEXT NOT NULL,
			cta TEXT,
			hashtags TEXT[],
			justification TEXT,
			wildcard BOOLEAN NOT NULL DEFAULT false,
			visual_concept TEXT,
			image_url TEXT,
			status VARCHAR(50) NOT NULL DEFAULT 'draft',
			created_by VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Comments table
		CREATE TABLE IF NOT EXISTS comments (
			id UUID PRIMARY KEY,
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id VARCHAR(255) NOT NULL,
			text TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
		CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
		CREATE INDEX IF NOT EXISTS idx_strategies_client_id ON strategies(client_id);
		CREATE INDEX IF NOT EXISTS idx_series_strategy_id ON series(strategy_id);
		CREATE INDEX IF NOT EXISTS idx_posts_strategy_id ON posts(strategy_id);
		CREATE INDEX IF NOT EXISTS idx_posts_series_id ON posts(series_id);
		CREATE INDEX IF NOT EXISTS idx_posts_month ON posts(strategy_id, month);
		CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status);
		CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}
