package handlers

import (
	"net/http"

	"github.com/pulseplan/backend/middleware"
	"github.com/pulseplan/backend/utils"
)

// PageHandler serves the page-level routes the routing layer navigates
// between. The real UI is a separate frontend; these stubs answer with the
// page identity so every redirect target resolves and the routing round-trip
// holds end to end.
type PageHandler struct{}

// NewPageHandler creates a new PageHandler
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// pageResponse is the minimal page body
type pageResponse struct {
	Page    string `json:"page"`
	Subject string `json:"subject,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Serve returns a handler answering with the given page name
func (h *PageHandler) Serve(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := pageResponse{
			Page:  page,
			Error: r.URL.Query().Get("error"),
		}
		if session := middleware.GetSessionFromContext(r.Context()); session != nil {
			resp.Subject = session.Subject
		}
		_ = utils.WriteJSON(w, http.StatusOK, resp)
	}
}
