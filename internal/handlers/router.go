package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router wires every studio action to an endpoint under its session.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	r.Get("/", h.HandleIndex)
	r.Handle("/static/*", h.HandleStatic())
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", h.HandleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.HandleSessionDetail)
			r.Post("/end", h.HandleEndSession)
			r.Get("/events", h.HandleEvents)

			r.Put("/form", h.HandleUpdateForm)
			r.Post("/form/clear", h.HandleClearPrompt)
			r.Post("/generate", h.HandleGenerate)
			r.Post("/error/dismiss", h.HandleDismissError)

			r.Post("/gallery/clear", h.HandleClearGallery)
			r.Post("/gallery/{imageID}/select", h.HandleSelect)
			r.Get("/images/{imageID}", h.HandleImage)

			r.Route("/viewer", func(r chi.Router) {
				r.Post("/zoom-in", h.HandleZoomIn)
				r.Post("/zoom-out", h.HandleZoomOut)
				r.Post("/reset", h.HandleResetZoom)
				r.Post("/pan/start", h.HandlePanStart)
				r.Post("/pan", h.HandlePan)
				r.Post("/pan/end", h.HandlePanEnd)
				r.Post("/close", h.HandleCloseViewer)
				r.Get("/download", h.HandleDownload)
			})
		})
	})

	return r
}
