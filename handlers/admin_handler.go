package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pulseplan/backend/middleware"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/services/profiles"
	"github.com/pulseplan/backend/utils"
	"go.uber.org/zap"
)

// UpdateRoleRequest represents a role change for a subject
type UpdateRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required,role"`
}

// AdminHandler handles profile repair and role administration
type AdminHandler struct {
	profiles *profiles.Service
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(profiles *profiles.Service, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		profiles: profiles,
		logger:   logger,
	}
}

// HandleFixUsers handles POST /admin/fix-users. The route is deliberately
// outside the session gate: its purpose is to repair the missing profile
// rows that lock subjects out in the first place.
func (h *AdminHandler) HandleFixUsers(w http.ResponseWriter, r *http.Request) {
	result, err := h.profiles.Backfill(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, result)
}

// HandleGetProfile handles GET /api/v1/users/me
func (h *AdminHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	if actor == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	_ = utils.WriteOK(w, actor)
}

// HandleUpdateRole handles PUT /api/v1/users/{id}/role (consultant only)
func (h *AdminHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor := middleware.GetUserFromContext(ctx)
	if actor == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	subjectID := chi.URLParam(r, "id")
	if subjectID == "" {
		_ = utils.WriteBadRequest(w, "Subject ID is required", nil)
		return
	}

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	user, err := h.profiles.UpdateRole(ctx, actor, subjectID, req.Role)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, user)
}
