package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pulseplan/backend/ai"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"github.com/pulseplan/backend/services"
	"github.com/pulseplan/backend/utils"
	"go.uber.org/zap"
)

// Service generates monthly content calendars from a strategy and its series.
// The same validate-then-commit discipline as strategy generation applies: a
// calendar that fails validation writes nothing.
type Service struct {
	generator  ai.TextGenerator
	strategies repositories.StrategyRepository
	series     repositories.SeriesRepository
	posts      repositories.PostRepository
	txManager  repositories.TransactionManager
	logger     *zap.Logger
}

// NewService creates a content service
func NewService(
	generator ai.TextGenerator,
	strategies repositories.StrategyRepository,
	series repositories.SeriesRepository,
	posts repositories.PostRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *Service {
	return &Service{
		generator:  generator,
		strategies: strategies,
		series:     series,
		posts:      posts,
		txManager:  txManager,
		logger:     logger,
	}
}

// GenerateMonth generates a month of posts for a strategy
func (s *Service) GenerateMonth(ctx context.Context, actor *models.User, strategyID uuid.UUID, month string) ([]*models.Post, error) {
	if actor.Role != models.RoleConsultant {
		return nil, services.NewDomainError(services.ErrorTypeForbidden,
			"content generation is consultant-only", nil)
	}

	strategy, err := s.strategies.GetByID(ctx, strategyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrStrategyNotFound
		}
		return nil, services.WrapInternal("failed to load strategy", err)
	}

	seriesList, err := s.series.GetByStrategyID(ctx, strategyID)
	if err != nil {
		return nil, services.WrapInternal("failed to load series", err)
	}

	prompt := ai.ContentPrompt(describeStrategy(strategy), describeSeries(seriesList), month)
	raw, err := s.generator.Generate(ctx, "", prompt)
	if err != nil {
		s.logger.Error("content generation call failed",
			zap.String("strategy_id", strategyID.String()),
			zap.String("month", month),
			zap.Error(err))
		return nil, services.WrapExternal("generation provider call failed", err)
	}

	plan, err := parseCalendarPlan(raw)
	if err != nil {
		s.logger.Warn("content generation rejected",
			zap.String("strategy_id", strategyID.String()),
			zap.String("month", month),
			zap.Error(err))
		return nil, err
	}

	seriesByName := make(map[string]*models.Series, len(seriesList))
	for _, sr := range seriesList {
		seriesByName[sr.Name] = sr
	}

	postList := make([]*models.Post, 0, len(plan.Posts))
	for _, pp := range plan.Posts {
		post := models.NewPost(strategyID, month, actor.ID)
		post.Week = pp.Week
		post.Platforms = pp.Platforms
		post.PostType = pp.PostType
		post.Hook = pp.Hook
		post.BodyCopy = pp.BodyCopy
		post.CTA = pp.CTA
		post.Hashtags = pp.Hashtags
		post.Justification = pp.Justification
		post.Wildcard = pp.Wildcard
		post.VisualConcept = pp.VisualConcept

		if pp.SeriesName != "" {
			if sr, ok := seriesByName[pp.SeriesName]; ok {
				post.SeriesID = &sr.ID
			}
		}

		postList = append(postList, post)
	}

	err = s.txManager.InTransaction(ctx, func(ctx context.Context, tx repositories.Transaction) error {
		for _, post := range postList {
			if err := s.posts.Create(ctx, post); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, services.WrapInternal("failed to persist posts", err)
	}

	s.logger.Info("calendar generated",
		zap.String("strategy_id", strategyID.String()),
		zap.String("month", month),
		zap.Int("posts", len(postList)))

	return postList, nil
}

// GetMonth returns the posts of a strategy's month ordered by week then date
func (s *Service) GetMonth(ctx context.Context, strategyID uuid.UUID, month string) ([]*models.Post, error) {
	posts, err := s.posts.GetByStrategyMonth(ctx, strategyID, month)
	if err != nil {
		return nil, services.WrapInternal("failed to load posts", err)
	}
	return posts, nil
}

// Advance moves a post to the next approval status for the acting role
func (s *Service) Advance(ctx context.Context, actor *models.User, postID uuid.UUID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrPostNotFound
		}
		return nil, services.WrapInternal("failed to load post", err)
	}

	next, ok := post.Status.NextStatus(actor.Role)
	if !ok {
		return nil, services.NewDomainError(services.ErrorTypeForbidden,
			fmt.Sprintf("role %s cannot advance a %s post", actor.Role, post.Status), nil)
	}

	if err := s.posts.UpdateStatus(ctx, postID, next); err != nil {
		return nil, services.WrapInternal("failed to update post status", err)
	}

	post.Status = next
	return post, nil
}

// RefineHooks generates alternative hooks for a post
func (s *Service) RefineHooks(ctx context.Context, postID uuid.UUID, targetTone string) ([]string, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrPostNotFound
		}
		return nil, services.WrapInternal("failed to load post", err)
	}

	seriesName := ""
	if post.SeriesID != nil {
		if sr, err := s.series.GetByID(ctx, *post.SeriesID); err == nil {
			seriesName = sr.Name
		}
	}

	raw, err := s.generator.Generate(ctx, "", ai.HookRefinementPrompt(post.Hook, post.BodyCopy, seriesName, targetTone))
	if err != nil {
		return nil, services.WrapExternal("generation provider call failed", err)
	}

	var alternatives models.HookAlternatives
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &alternatives); err != nil {
		return nil, services.WrapError(services.ErrorTypeGeneration, "generation output is not valid JSON", err)
	}
	if err := utils.ValidateStruct(&alternatives); err != nil {
		return nil, services.WrapError(services.ErrorTypeGeneration,
			fmt.Sprintf("generation output failed validation: %v", err), err)
	}

	return alternatives.Alternatives, nil
}

// parseCalendarPlan parses and validates the provider's answer. Any failure
// rejects the whole month.
func parseCalendarPlan(raw string) (*models.CalendarPlan, error) {
	var plan models.CalendarPlan
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &plan); err != nil {
		return nil, services.WrapError(services.ErrorTypeGeneration, "generation output is not valid JSON", err)
	}

	if err := utils.ValidateStruct(&plan); err != nil {
		return nil, services.WrapError(services.ErrorTypeGeneration,
			fmt.Sprintf("generation output failed validation: %v", err), err)
	}

	return &plan, nil
}

// describeStrategy renders a strategy for prompt inclusion
func describeStrategy(strategy *models.Strategy) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Platforms: %s\n", joinPlatforms(strategy.Platforms))
	fmt.Fprintf(&b, "Content pillars: %s\n", strings.Join(strategy.ContentPillars, ", "))
	fmt.Fprintf(&b, "KPIs: %s\n", strings.Join(strategy.KPIs, ", "))

	if len(strategy.MonthlyThemes) > 0 {
		b.WriteString("Monthly themes:\n")
		for month, theme := range strategy.MonthlyThemes {
			fmt.Fprintf(&b, "- %s: %s\n", month, theme)
		}
	}

	return b.String()
}

// describeSeries renders the series definitions for prompt inclusion
func describeSeries(seriesList []*models.Series) string {
	var b strings.Builder

	for _, sr := range seriesList {
		fmt.Fprintf(&b, "Series %q: %s\n", sr.Name, sr.Description)
		fmt.Fprintf(&b, "  Goal: %s | Cadence: %s | Tone: %s | Platforms: %s\n",
			sr.Goal, sr.Cadence, sr.Tone, joinPlatforms(sr.Platforms))
	}

	return b.String()
}

func joinPlatforms(platforms []models.Platform) string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
