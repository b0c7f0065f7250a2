package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/pulseplan/backend/middleware"
	"github.com/pulseplan/backend/storage"
	"github.com/pulseplan/backend/utils"
	"go.uber.org/zap"
)

// maxUploadBytes caps company-OS document uploads
const maxUploadBytes = 5 << 20 // 5 MiB

// DocumentStore uploads documents and returns their public URL
type DocumentStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// UploadResponse is the upload endpoint response body
type UploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// UploadHandler handles document upload HTTP requests
type UploadHandler struct {
	store  DocumentStore
	logger *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store DocumentStore, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		store:  store,
		logger: logger,
	}
}

// HandleUpload handles POST /api/v1/upload (multipart form, field "file")
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor := middleware.GetUserFromContext(ctx)
	if actor == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Form field file is required", nil)
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		_ = utils.WriteBadRequest(w, "File exceeds the 5 MiB limit", nil)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.logger.Error("failed to read upload", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to read upload")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%s/%d-%s", actor.ID, time.Now().Unix(), path.Base(header.Filename))

	url, err := h.store.Upload(ctx, key, data, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrStorageUnavailable) {
			h.logger.Warn("document store unavailable", zap.Error(err))
			_ = utils.WriteBadGateway(w, "Document store unavailable")
			return
		}
		h.logger.Error("upload rejected",
			zap.String("key", key),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Upload rejected by document store", nil)
		return
	}

	h.logger.Info("document uploaded",
		zap.String("subject_id", actor.ID),
		zap.String("key", key),
		zap.Int("bytes", len(data)))

	_ = utils.WriteCreated(w, UploadResponse{URL: url, Key: key})
}
