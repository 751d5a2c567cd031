package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/visionary/internal/config"
	"github.com/lehigh-university-libraries/visionary/internal/gemini"
	"github.com/lehigh-university-libraries/visionary/internal/handlers"
	"github.com/lehigh-university-libraries/visionary/internal/hub"
	"github.com/lehigh-university-libraries/visionary/internal/storage"
	"github.com/lehigh-university-libraries/visionary/internal/studio"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web studio",
		Long: `Starts the Visionary web studio on the specified port.

Each browser tab gets its own session: a prompt form, a gallery of the images
generated in that tab, and a zoom/pan viewer. Nothing is saved; reloading the
page starts over.`,
		Example: `  # Start server on default port 8888
  visionary serve

  # Start server on custom port
  visionary serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port == "" {
				port = cfg.Port
			}

			generator, err := gemini.New(cfg.Provider, cfg.ImageModel)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			store := storage.New()
			events := hub.New()
			go events.Run(ctx)
			handler := handlers.New(store, events, func() *studio.Controller {
				return studio.New(generator)
			})
			go sweepSessions(ctx, handler, store, cfg.SessionTTL)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Visionary studio available", "addr", addr, "url", "http://localhost"+addr, "provider", cfg.Provider, "model", cfg.ImageModel)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-ctx.Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default $PORT or 8888)")

	return cmd
}

// sweepSessions expires sessions whose page went away without ending them.
func sweepSessions(ctx context.Context, handler *handlers.Handler, store *storage.SessionStore, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if expired := handler.SweepIdle(ttl); len(expired) > 0 {
				slog.Info("Expired idle sessions", "count", len(expired), "active", store.Len())
			}
		}
	}
}
