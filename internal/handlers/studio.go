package handlers

import (
	"context"
	"net/http"

	"github.com/lehigh-university-libraries/visionary/internal/models"
)

type formRequest struct {
	Prompt      *string `json:"prompt"`
	AspectRatio *string `json:"aspect_ratio"`
}

type clearGalleryRequest struct {
	Confirm bool `json:"confirm"`
}

// HandleUpdateForm applies prompt and/or aspect ratio edits. The aspect
// ratio stays editable while a request is pending; the prompt does not.
func (h *Handler) HandleUpdateForm(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	var req formRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.AspectRatio != nil {
		ratio, err := models.ParseAspectRatio(*req.AspectRatio)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ctrl.SetAspectRatio(ratio); err != nil {
			h.writeActionError(w, err)
			return
		}
	}
	if req.Prompt != nil {
		if err := ctrl.SetPrompt(*req.Prompt); err != nil {
			h.writeActionError(w, err)
			return
		}
	}
	h.writeJSON(w, ctrl.Snapshot())
}

func (h *Handler) HandleClearPrompt(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	if err := ctrl.ClearPrompt(); err != nil {
		h.writeActionError(w, err)
		return
	}
	h.writeJSON(w, ctrl.Snapshot())
}

// HandleGenerate submits the form. A body with a prompt fills the form
// first; an aspect ratio alone is applied before submitting the stored
// prompt; an empty body submits what is already there. Once started the
// generation runs to completion even if the client goes away.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	var req formRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ratio := ctrl.StatusSnapshot().Form.AspectRatio
	if req.AspectRatio != nil {
		var err error
		if ratio, err = models.ParseAspectRatio(*req.AspectRatio); err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	ctx := context.WithoutCancel(r.Context())
	var err error
	switch {
	case req.Prompt != nil:
		_, err = ctrl.Generate(ctx, *req.Prompt, ratio)
	case req.AspectRatio != nil:
		_, err = ctrl.Generate(ctx, ctrl.StatusSnapshot().Form.Prompt, ratio)
	default:
		_, err = ctrl.Submit(ctx)
	}
	if err != nil {
		h.writeActionError(w, err)
		return
	}
	h.writeJSONStatus(w, http.StatusCreated, ctrl.Snapshot())
}

func (h *Handler) HandleDismissError(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	ctrl.DismissError()
	h.writeJSON(w, ctrl.Snapshot())
}

// HandleClearGallery empties the gallery only when the body confirms it.
func (h *Handler) HandleClearGallery(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	var req clearGalleryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctrl.ClearGallery(req.Confirm)
	h.writeJSON(w, ctrl.Snapshot())
}
