package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pulseplan/backend/services"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", services.ErrClientNotFound, http.StatusNotFound},
		{"validation", services.ErrInvalidRole, http.StatusBadRequest},
		{"unauthorized", services.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", services.ErrCrossRoleAccess, http.StatusForbidden},
		{"conflict", services.ErrDuplicateProfile, http.StatusConflict},
		{"generation rejected", services.WrapError(services.ErrorTypeGeneration, "bad output", nil), http.StatusUnprocessableEntity},
		{"external", services.WrapExternal("provider down", errors.New("dial tcp")), http.StatusBadGateway},
		{"internal", services.WrapInternal("db broke", errors.New("conn reset")), http.StatusInternalServerError},
		{"plain error", errors.New("something"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleServiceError(rec, tt.err, logger)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleServiceError(rec, nil, logger)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}
