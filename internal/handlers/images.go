package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/visionary/internal/imageref"
)

// HandleImage serves a gallery record's full-size image bytes.
func (h *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	img, err := ctrl.Image(chi.URLParam(r, "imageID"))
	if err != nil {
		h.writeActionError(w, err)
		return
	}
	h.writeImage(w, img.ImageRef, "")
}

// HandleDownload exports the image open in the viewer as gemini-gen-<id>.png.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	name, ref, err := ctrl.Download()
	if err != nil {
		h.writeActionError(w, err)
		return
	}
	h.writeImage(w, ref, name)
}

func (h *Handler) writeImage(w http.ResponseWriter, ref, attachment string) {
	mimeType, data, err := imageref.Decode(ref)
	if err != nil {
		h.writeError(w, "Failed to decode image: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if attachment != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment))
	}
	if _, err := w.Write(data); err != nil {
		slog.Error("Unable to write image", "err", err)
	}
}
