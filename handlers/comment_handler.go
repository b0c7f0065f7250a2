package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pulseplan/backend/middleware"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"github.com/pulseplan/backend/utils"
	"go.uber.org/zap"
)

// CreateCommentRequest represents review feedback on a post
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// CommentHandler handles review comment HTTP requests
type CommentHandler struct {
	comments repositories.CommentRepository
	logger   *zap.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments repositories.CommentRepository, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		logger:   logger,
	}
}

// HandleCreateComment handles POST /api/v1/posts/{id}/comments
func (h *CommentHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
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

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	comment := models.NewComment(postID, actor.ID, req.Text)
	if err := h.comments.Create(ctx, comment); err != nil {
		h.logger.Error("failed to create comment",
			zap.String("post_id", postID.String()),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to create comment")
		return
	}

	_ = utils.WriteCreated(w, comment)
}

// HandleListComments handles GET /api/v1/posts/{id}/comments
func (h *CommentHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid post ID format", nil)
		return
	}

	comments, err := h.comments.GetByPostID(ctx, postID)
	if err != nil {
		h.logger.Error("failed to list comments",
			zap.String("post_id", postID.String()),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to retrieve comments")
		return
	}

	_ = utils.WriteOK(w, comments)
}

// HandleDeleteComment handles DELETE /api/v1/comments/{id}
func (h *CommentHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid comment ID format", nil)
		return
	}

	if err := h.comments.Delete(ctx, commentID); err != nil {
		h.logger.Error("failed to delete comment",
			zap.String("comment_id", commentID.String()),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to delete comment")
		return
	}

	utils.WriteNoContent(w)
}
