package app

import (
	"context"
	"fmt"
	"time"

	"github.com/pulseplan/backend/ai/anthropic"
	"github.com/pulseplan/backend/ai/gemini"
	"github.com/pulseplan/backend/auth"
	"github.com/pulseplan/backend/config"
	"github.com/pulseplan/backend/handlers"
	"github.com/pulseplan/backend/identity"
	"github.com/pulseplan/backend/middleware"
	"github.com/pulseplan/backend/repositories"
	"github.com/pulseplan/backend/repositories/postgres"
	"github.com/pulseplan/backend/services/content"
	"github.com/pulseplan/backend/services/profiles"
	"github.com/pulseplan/backend/services/roles"
	"github.com/pulseplan/backend/services/strategy"
	"github.com/pulseplan/backend/storage"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users      repositories.UserRepository
	Clients    repositories.ClientRepository
	Strategies repositories.StrategyRepository
	Series     repositories.SeriesRepository
	Posts      repositories.PostRepository
	Comments   repositories.CommentRepository
	TxManager  repositories.TransactionManager

	// Identity and roles
	Resolver *identity.Resolver
	Roles    *roles.Service

	// rolesCleanupStop stops the role cache cleanup worker on shutdown
	rolesCleanupStop chan struct{}

	// Services
	StrategyService *strategy.Service
	ContentService  *content.Service
	ProfileService  *profiles.Service

	// Middleware
	AccessMiddleware *middleware.AccessMiddleware
	AuthMiddleware   *middleware.AuthMiddleware

	// Handlers
	AuthHandler    *auth.Handler
	HealthHandler  *handlers.HealthHandler
	ClientHandler  *handlers.ClientHandler
	AIHandler      *handlers.AIHandler
	CommentHandler *handlers.CommentHandler
	UploadHandler  *handlers.UploadHandler
	AdminHandler   *handlers.AdminHandler
	PageHandler    *handlers.PageHandler
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initIdentity(cfg)
	deps.initServices(cfg)
	deps.initHandlers(ctx, cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection, the repository factory
// and the repositories
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	repos := factory.NewRepositories()
	d.Users = repos.Users
	d.Clients = repos.Clients
	d.Strategies = repos.Strategies
	d.Series = repos.Series
	d.Posts = repos.Posts
	d.Comments = repos.Comments
	d.TxManager = factory.GetTransactionManager()

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))

	return nil
}

// initIdentity wires the session resolver, the role lookup and the two
// middlewares built on them
func (d *Dependencies) initIdentity(cfg *config.Config) {
	d.Resolver = identity.NewResolver(cfg.Identity, d.Logger)
	d.Roles = roles.NewService(d.Users, roles.Config{}, d.Logger)

	d.rolesCleanupStop = make(chan struct{})
	go d.Roles.StartCacheCleanup(time.Minute, d.rolesCleanupStop)

	d.AccessMiddleware = middleware.NewAccessMiddleware(d.Resolver, d.Roles, d.Logger)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Resolver, d.Users, d.Logger)
}

// initServices wires the generation and profile services
func (d *Dependencies) initServices(cfg *config.Config) {
	generator := anthropic.NewAdapter(cfg.AI.Anthropic)
	if cfg.AI.Anthropic.APIKey == "" {
		d.Logger.Warn("anthropic API key not configured, generation endpoints will fail")
	}

	d.StrategyService = strategy.NewService(generator, d.Clients, d.Strategies, d.Series, d.TxManager, d.Logger)
	d.ContentService = content.NewService(generator, d.Strategies, d.Series, d.Posts, d.TxManager, d.Logger)

	adminClient := identity.NewAdminClient(cfg.Identity, d.Logger)
	d.ProfileService = profiles.NewService(adminClient, d.Users, d.Roles, d.Logger)
}

// initHandlers wires the HTTP handlers
func (d *Dependencies) initHandlers(ctx context.Context, cfg *config.Config) {
	d.AuthHandler = auth.NewHandler(cfg.Identity, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB.DB, d.Resolver, d.Logger)
	d.ClientHandler = handlers.NewClientHandler(d.Clients, d.Logger)
	d.CommentHandler = handlers.NewCommentHandler(d.Comments, d.Logger)
	d.AdminHandler = handlers.NewAdminHandler(d.ProfileService, d.Logger)
	d.PageHandler = handlers.NewPageHandler()

	store := storage.NewClient(cfg.Storage, cfg.Identity.ServiceKey, d.Logger)
	d.UploadHandler = handlers.NewUploadHandler(store, d.Logger)

	// Image prompt generation is optional. A nil engine makes the endpoint
	// answer 502 instead of failing at startup.
	var images handlers.ImagePromptGenerator
	if cfg.AI.Gemini.APIKey != "" {
		engine, err := gemini.NewEngine(ctx, cfg.AI.Gemini)
		if err != nil {
			d.Logger.Warn("gemini engine initialization failed, image endpoint disabled", zap.Error(err))
		} else {
			images = engine
		}
	}
	d.AIHandler = handlers.NewAIHandler(d.StrategyService, d.ContentService, images, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.rolesCleanupStop != nil {
		close(d.rolesCleanupStop)
		d.rolesCleanupStop = nil
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
