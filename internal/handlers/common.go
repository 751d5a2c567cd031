package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/lehigh-university-libraries/visionary/internal/form"
	"github.com/lehigh-university-libraries/visionary/internal/gallery"
	"github.com/lehigh-university-libraries/visionary/internal/hub"
	"github.com/lehigh-university-libraries/visionary/internal/providers"
	"github.com/lehigh-university-libraries/visionary/internal/storage"
	"github.com/lehigh-university-libraries/visionary/internal/studio"
	"github.com/lehigh-university-libraries/visionary/internal/viewer"
)

type Handler struct {
	sessionStore  *storage.SessionStore
	hub           *hub.Hub
	newController func() *studio.Controller
	upgrader      websocket.Upgrader
}

// New builds the HTTP handler. newController is called once per page
// session; h may be nil, in which case no live updates are pushed.
func New(store *storage.SessionStore, h *hub.Hub, newController func() *studio.Controller) *Handler {
	return &Handler{
		sessionStore:  store,
		hub:           h,
		newController: newController,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Debug(message, "status", code)
	}
	http.Error(w, message, code)
}

// writeActionError maps controller errors to status codes.
func (h *Handler) writeActionError(w http.ResponseWriter, err error) {
	h.writeError(w, err.Error(), statusFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, studio.ErrEmptyPrompt):
		return http.StatusBadRequest
	case errors.Is(err, gallery.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, studio.ErrBusy), errors.Is(err, form.ErrLocked), errors.Is(err, viewer.ErrClosed):
		return http.StatusConflict
	}
	switch providers.Classify(err) {
	case providers.KindConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// decodeJSON reads an optional JSON body; an empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, r *http.Request) (*studio.Controller, bool) {
	ctrl, exists := h.sessionStore.Get(chi.URLParam(r, "sessionID"))
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return ctrl, true
}

// publisher forwards controller changes to the session's WebSocket clients.
func (h *Handler) publisher(sessionID string, ctrl *studio.Controller) func(studio.Section) {
	return func(s studio.Section) {
		if s.Has(studio.SectionStatus) {
			h.hub.Publish(sessionID, hub.EventStatus, ctrl.StatusSnapshot())
		}
		if s.Has(studio.SectionGallery) {
			h.hub.Publish(sessionID, hub.EventGallery, ctrl.GalleryView())
		}
		if s.Has(studio.SectionViewer) {
			h.hub.Publish(sessionID, hub.EventViewer, ctrl.ViewerSnapshot())
		}
	}
}
