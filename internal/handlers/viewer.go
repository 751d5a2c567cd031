package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/visionary/internal/studio"
	"github.com/lehigh-university-libraries/visionary/internal/viewer"
)

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type closeRequest struct {
	Reason string `json:"reason"`
}

// viewerAction runs one viewer command and answers with the viewer state.
func (h *Handler) viewerAction(w http.ResponseWriter, r *http.Request, fn func(*studio.Controller) error) {
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	if err := fn(ctrl); err != nil {
		h.writeActionError(w, err)
		return
	}
	h.writeJSON(w, ctrl.ViewerSnapshot())
}

func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "imageID")
	h.viewerAction(w, r, func(c *studio.Controller) error { return c.Select(imageID) })
}

func (h *Handler) HandleZoomIn(w http.ResponseWriter, r *http.Request) {
	h.viewerAction(w, r, (*studio.Controller).ZoomIn)
}

func (h *Handler) HandleZoomOut(w http.ResponseWriter, r *http.Request) {
	h.viewerAction(w, r, (*studio.Controller).ZoomOut)
}

func (h *Handler) HandleResetZoom(w http.ResponseWriter, r *http.Request) {
	h.viewerAction(w, r, (*studio.Controller).ResetZoom)
}

func (h *Handler) HandlePanStart(w http.ResponseWriter, r *http.Request) {
	h.viewerAction(w, r, (*studio.Controller).BeginPan)
}

func (h *Handler) HandlePan(w http.ResponseWriter, r *http.Request) {
	var req panRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.viewerAction(w, r, func(c *studio.Controller) error { return c.Pan(req.DX, req.DY) })
}

func (h *Handler) HandlePanEnd(w http.ResponseWriter, r *http.Request) {
	h.viewerAction(w, r, (*studio.Controller).EndPan)
}

func (h *Handler) HandleCloseViewer(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	reason, err := viewer.ParseCloseReason(req.Reason)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.viewerAction(w, r, func(c *studio.Controller) error { return c.CloseViewer(reason) })
}
