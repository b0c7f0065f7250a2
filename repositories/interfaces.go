package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulseplan/backend/models"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// Automatically commits if the function succeeds, rolls back on error.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// UserRepository is the profile store: one row per identity-provider subject.
// A subject may briefly have no row (signup race); callers must treat
// ErrNoRows-derived not-found results as a normal outcome, not a failure.
type UserRepository interface {
	// Create creates a new user profile
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user profile by subject id
	GetByID(ctx context.Context, subjectID string) (*models.User, error)

	// GetByEmail retrieves a user profile by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves all user profiles
	List(ctx context.Context) ([]*models.User, error)

	// Update updates a user profile
	Update(ctx context.Context, user *models.User) error

	// Delete deletes a user profile
	Delete(ctx context.Context, subjectID string) error
}

// ClientRepository handles client company data operations
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)

	// List retrieves clients newest first
	List(ctx context.Context) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StrategyRepository handles strategy data operations
type StrategyRepository interface {
	Create(ctx context.Context, strategy *models.Strategy) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Strategy, error)
	GetByClientID(ctx context.Context, clientID uuid.UUID) (*models.Strategy, error)
	Update(ctx context.Context, strategy *models.Strategy) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SeriesRepository handles recurring content series data operations
type SeriesRepository interface {
	Create(ctx context.Context, series *models.Series) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Series, error)
	GetByStrategyID(ctx context.Context, strategyID uuid.UUID) ([]*models.Series, error)
	GetByName(ctx context.Context, strategyID uuid.UUID, name string) (*models.Series, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostRepository handles planned post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)

	// GetByStrategyMonth retrieves a month of posts ordered by week then date
	GetByStrategyMonth(ctx context.Context, strategyID uuid.UUID, month string) ([]*models.Post, error)

	// UpdateStatus moves a post through the approval workflow
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.PostStatus) error

	// UpdateImageURL attaches a generated image to a post
	UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentRepository handles review comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByPostID(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories bundles all repository implementations
type Repositories struct {
	Users      UserRepository
	Clients    ClientRepository
	Strategies StrategyRepository
	Series     SeriesRepository
	Posts      PostRepository
	Comments   CommentRepository
}
