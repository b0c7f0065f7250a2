package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pulseplan/backend/ai"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"github.com/pulseplan/backend/services"
	"github.com/pulseplan/backend/utils"
	"go.uber.org/zap"
)

// Service generates and persists marketing strategies. Generation is
// consultant-only; the provider's answer is parsed and validated as a whole
// before anything is written, and the strategy and its series commit in one
// transaction so a malformed answer never leaves partial state.
type Service struct {
	generator  ai.TextGenerator
	clients    repositories.ClientRepository
	strategies repositories.StrategyRepository
	series     repositories.SeriesRepository
	txManager  repositories.TransactionManager
	logger     *zap.Logger
}

// NewService creates a strategy service
func NewService(
	generator ai.TextGenerator,
	clients repositories.ClientRepository,
	strategies repositories.StrategyRepository,
	series repositories.SeriesRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *Service {
	return &Service{
		generator:  generator,
		clients:    clients,
		strategies: strategies,
		series:     series,
		txManager:  txManager,
		logger:     logger,
	}
}

// Result is a generated strategy with its series
type Result struct {
	Strategy *models.Strategy
	Series   []*models.Series
}

// Generate builds a strategy for a client from its company-OS document
func (s *Service) Generate(ctx context.Context, actor *models.User, clientID uuid.UUID, companyOSContent, companyOSURL string) (*Result, error) {
	if actor.Role != models.RoleConsultant {
		return nil, services.NewDomainError(services.ErrorTypeForbidden,
			"strategy generation is consultant-only", nil)
	}

	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrClientNotFound
		}
		return nil, services.WrapInternal("failed to load client", err)
	}

	raw, err := s.generator.Generate(ctx, "", ai.StrategyPrompt(companyOSContent))
	if err != nil {
		s.logger.Error("strategy generation call failed",
			zap.String("client_id", clientID.String()),
			zap.Error(err))
		return nil, services.WrapExternal("generation provider call failed", err)
	}

	plan, err := parseStrategyPlan(raw)
	if err != nil {
		s.logger.Warn("strategy generation rejected",
			zap.String("client_id", clientID.String()),
			zap.Error(err))
		return nil, err
	}

	strategy := models.NewStrategy(clientID, companyOSURL)
	strategy.Platforms = plan.Platforms
	strategy.ContentPillars = plan.ContentPillars
	strategy.KPIs = plan.KPIs
	strategy.MonthlyThemes = plan.MonthlyThemes

	seriesList := make([]*models.Series, 0, len(plan.Series))
	for _, sp := range plan.Series {
		series := models.NewSeries(strategy.ID, sp.Name)
		series.Description = sp.Description
		series.Goal = sp.Goal
		series.Cadence = sp.Cadence
		series.Platforms = sp.Platforms
		series.Tone = sp.Tone
		series.Examples = sp.Examples
		seriesList = append(seriesList, series)
	}

	err = s.txManager.InTransaction(ctx, func(ctx context.Context, tx repositories.Transaction) error {
		if err := s.strategies.Create(ctx, strategy); err != nil {
			return err
		}
		for _, series := range seriesList {
			if err := s.series.Create(ctx, series); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, services.WrapInternal("failed to persist strategy", err)
	}

	s.logger.Info("strategy generated",
		zap.String("strategy_id", strategy.ID.String()),
		zap.String("client_id", clientID.String()),
		zap.Int("series", len(seriesList)))

	return &Result{Strategy: strategy, Series: seriesList}, nil
}

// GetForClient returns the newest strategy for a client with its series
func (s *Service) GetForClient(ctx context.Context, clientID uuid.UUID) (*Result, error) {
	strategy, err := s.strategies.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrStrategyNotFound
		}
		return nil, services.WrapInternal("failed to load strategy", err)
	}

	seriesList, err := s.series.GetByStrategyID(ctx, strategy.ID)
	if err != nil {
		return nil, services.WrapInternal("failed to load series", err)
	}

	return &Result{Strategy: strategy, Series: seriesList}, nil
}

// parseStrategyPlan parses and validates the provider's answer. Any failure
// rejects the whole generation.
func parseStrategyPlan(raw string) (*models.StrategyPlan, error) {
	var plan models.StrategyPlan
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &plan); err != nil {
		return nil, services.WrapError(services.ErrorTypeGeneration, "generation output is not valid JSON", err)
	}

	if err := utils.ValidateStruct(&plan); err != nil {
		return nil, services.WrapError(services.ErrorTypeGeneration,
			fmt.Sprintf("generation output failed validation: %v", err), err)
	}

	return &plan, nil
}
