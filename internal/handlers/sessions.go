package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/visionary/internal/studio"
)

// SessionResponse is returned when a page opens a session.
type SessionResponse struct {
	ID string `json:"id"`
	studio.Snapshot
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctrl := h.newController()
	sessionID := h.sessionStore.Create(ctrl)
	if h.hub != nil {
		ctrl.SetObserver(h.publisher(sessionID, ctrl))
	}
	slog.Info("Studio session started", "session_id", sessionID)
	h.writeJSONStatus(w, http.StatusCreated, SessionResponse{ID: sessionID, Snapshot: ctrl.Snapshot()})
}

func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, ctrl.Snapshot())
}

// HandleEndSession discards the session and everything generated in it.
func (h *Handler) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !h.sessionStore.Delete(sessionID) {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	if h.hub != nil {
		h.hub.EndSession(sessionID)
	}
	slog.Info("Studio session ended", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}
