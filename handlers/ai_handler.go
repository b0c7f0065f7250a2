package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pulseplan/backend/ai"
	"github.com/pulseplan/backend/middleware"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/services/content"
	"github.com/pulseplan/backend/services/strategy"
	"github.com/pulseplan/backend/utils"
	"go.uber.org/zap"
)

// GenerateStrategyRequest represents a request to generate a client strategy
type GenerateStrategyRequest struct {
	ClientID         uuid.UUID `json:"client_id" validate:"required"`
	CompanyOSContent string    `json:"company_os_content" validate:"required"`
	CompanyOSURL     string    `json:"company_os_url"`
}

// GenerateContentRequest represents a request to generate a month of posts
type GenerateContentRequest struct {
	StrategyID uuid.UUID `json:"strategy_id" validate:"required"`
	Month      string    `json:"month" validate:"required"`
}

// RefineHooksRequest represents a request for alternative hooks on a post
type RefineHooksRequest struct {
	PostID     uuid.UUID `json:"post_id" validate:"required"`
	TargetTone string    `json:"target_tone"`
}

// GenerateImageRequest represents a request for an image prompt
type GenerateImageRequest struct {
	VisualConcept string   `json:"visual_concept" validate:"required"`
	BrandColors   []string `json:"brand_colors"`
	BrandTone     string   `json:"brand_tone"`
}

// ImagePromptGenerator turns a visual concept into a generation-ready prompt
type ImagePromptGenerator interface {
	GenerateImagePrompt(ctx context.Context, visualConcept string, brandColors []string, brandTone string) (string, error)
}

// AIHandler handles generation HTTP requests
type AIHandler struct {
	strategies *strategy.Service
	contents   *content.Service
	images     ImagePromptGenerator
	logger     *zap.Logger
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(strategies *strategy.Service, contents *content.Service, images ImagePromptGenerator, logger *zap.Logger) *AIHandler {
	return &AIHandler{
		strategies: strategies,
		contents:   contents,
		images:     images,
		logger:     logger,
	}
}

// HandleGenerateStrategy handles POST /api/v1/ai/strategy
func (h *AIHandler) HandleGenerateStrategy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor := middleware.GetUserFromContext(ctx)
	if actor == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req GenerateStrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	// Company-OS content is quoted verbatim inside the generation prompt, so
	// documents carrying embedded instructions are rejected up front.
	if findings := ai.ScanDocument(req.CompanyOSContent); len(findings) > 0 {
		h.logger.Warn("company OS content rejected",
			zap.String("client_id", req.ClientID.String()),
			zap.String("findings", ai.DescribeFindings(findings)))
		_ = utils.WriteBadRequest(w, "Company OS content was rejected", map[string]interface{}{
			"findings": ai.DescribeFindings(findings),
		})
		return
	}

	result, err := h.strategies.Generate(ctx, actor, req.ClientID, req.CompanyOSContent, req.CompanyOSURL)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, map[string]interface{}{
		"strategy": result.Strategy,
		"series":   result.Series,
	})
}

// HandleGetStrategy handles GET /api/v1/clients/{id}/strategy
func (h *AIHandler) HandleGetStrategy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor := middleware.GetUserFromContext(ctx)
	if actor == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid client ID format", nil)
		return
	}

	if !actor.CanAccessClient(clientID) {
		_ = utils.WriteForbidden(w, "Access denied to this client")
		return
	}

	result, err := h.strategies.GetForClient(ctx, clientID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"strategy": result.Strategy,
		"series":   result.Series,
	})
}

// HandleGenerateContent handles POST /api/v1/ai/content
func (h *AIHandler) HandleGenerateContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor := middleware.GetUserFromContext(ctx)
	if actor == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	posts, err := h.contents.GenerateMonth(ctx, actor, req.StrategyID, req.Month)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, posts)
}

// HandleGetMonth handles GET /api/v1/strategies/{id}/posts?month=YYYY-MM
func (h *AIHandler) HandleGetMonth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	strategyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid strategy ID format", nil)
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		_ = utils.WriteBadRequest(w, "Query parameter month is required", nil)
		return
	}

	posts, err := h.contents.GetMonth(ctx, strategyID, month)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, posts)
}

// HandleAdvancePost handles POST /api/v1/posts/{id}/advance
func (h *AIHandler) HandleAdvancePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor := middleware.GetUserFromContext(ctx)
	if actor == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid post ID format", nil)
		return
	}

	post, err := h.contents.Advance(ctx, actor, postID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("post advanced",
		zap.String("post_id", postID.String()),
		zap.String("status", string(post.Status)))

	_ = utils.WriteOK(w, post)
}

// HandleRefineHooks handles POST /api/v1/ai/hooks
func (h *AIHandler) HandleRefineHooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RefineHooksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	alternatives, err := h.contents.RefineHooks(ctx, req.PostID, req.TargetTone)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, models.HookAlternatives{Alternatives: alternatives})
}

// HandleGenerateImage handles POST /api/v1/ai/image
func (h *AIHandler) HandleGenerateImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.images == nil {
		_ = utils.WriteBadGateway(w, "Image generation is not configured")
		return
	}

	var req GenerateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	prompt, err := h.images.GenerateImagePrompt(ctx, req.VisualConcept, req.BrandColors, req.BrandTone)
	if err != nil {
		h.logger.Error("image prompt generation failed", zap.Error(err))
		_ = utils.WriteBadGateway(w, "Image prompt generation failed")
		return
	}

	_ = utils.WriteOK(w, models.ImagePrompt{Prompt: prompt})
}
