package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pulseplan/backend/middleware"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"github.com/pulseplan/backend/utils"
	"go.uber.org/zap"
)

// CreateClientRequest represents a request to onboard a client company
type CreateClientRequest struct {
	Name        string `json:"name" validate:"required"`
	CompanyName string `json:"company_name" validate:"required"`
	Industry    string `json:"industry" validate:"required"`
}

// UpdateClientRequest represents a request to update a client company
type UpdateClientRequest struct {
	Name        *string `json:"name,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
	Industry    *string `json:"industry,omitempty"`
}

// ClientHandler handles client company HTTP requests
type ClientHandler struct {
	clients repositories.ClientRepository
	logger  *zap.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clients repositories.ClientRepository, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clients: clients,
		logger:  logger,
	}
}

// HandleListClients handles GET /api/v1/clients. Consultants see every
// client; agencies their assignments; client users their own company.
func (h *ClientHandler) HandleListClients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor := middleware.GetUserFromContext(ctx)
	if actor == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	clients, err := h.clients.List(ctx)
	if err != nil {
		h.logger.Error("failed to list clients", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to retrieve clients")
		return
	}

	visible := make([]*models.Client, 0, len(clients))
	for _, client := range clients {
		if actor.CanAccessClient(client.ID) {
			visible = append(visible, client)
		}
	}

	h.logger.Debug("listed clients",
		zap.String("subject_id", actor.ID),
		zap.Int("count", len(visible)))

	_ = utils.WriteOK(w, visible)
}

// HandleCreateClient handles POST /api/v1/clients
func (h *ClientHandler) HandleCreateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	client := models.NewClient(req.Name, req.CompanyName, req.Industry)
	if err := h.clients.Create(ctx, client); err != nil {
		h.logger.Error("failed to create client", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to create client")
		return
	}

	h.logger.Info("client created",
		zap.String("client_id", client.ID.String()),
		zap.String("company", client.CompanyName))

	_ = utils.WriteCreated(w, client)
}

// HandleGetClient handles GET /api/v1/clients/{id}
func (h *ClientHandler) HandleGetClient(w http.ResponseWriter, r *http.Request) {
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

	client, err := h.clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Client not found")
			return
		}
		h.logger.Error("failed to fetch client",
			zap.String("client_id", clientID.String()),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to retrieve client")
		return
	}

	_ = utils.WriteOK(w, client)
}

// HandleUpdateClient handles PATCH /api/v1/clients/{id}
func (h *ClientHandler) HandleUpdateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid client ID format", nil)
		return
	}

	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	client, err := h.clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Client not found")
			return
		}
		h.logger.Error("failed to fetch client",
			zap.String("client_id", clientID.String()),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to retrieve client")
		return
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.CompanyName != nil {
		client.CompanyName = *req.CompanyName
	}
	if req.Industry != nil {
		client.Industry = *req.Industry
	}

	if err := h.clients.Update(ctx, client); err != nil {
		h.logger.Error("failed to update client",
			zap.String("client_id", clientID.String()),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to update client")
		return
	}

	h.logger.Info("client updated", zap.String("client_id", clientID.String()))
	_ = utils.WriteOK(w, client)
}

// HandleDeleteClient handles DELETE /api/v1/clients/{id}
func (h *ClientHandler) HandleDeleteClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid client ID format", nil)
		return
	}

	if err := h.clients.Delete(ctx, clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "Client not found")
			return
		}
		h.logger.Error("failed to delete client",
			zap.String("client_id", clientID.String()),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to delete client")
		return
	}

	h.logger.Info("client deleted", zap.String("client_id", clientID.String()))
	utils.WriteNoContent(w)
}
