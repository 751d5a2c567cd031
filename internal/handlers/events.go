package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/visionary/internal/hub"
	"github.com/lehigh-university-libraries/visionary/internal/studio"
	"github.com/lehigh-university-libraries/visionary/internal/viewer"
)

// HandleEvents upgrades to a WebSocket that streams state changes and accepts
// pointer-driven viewer commands.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		h.writeError(w, "Live updates are disabled", http.StatusNotFound)
		return
	}
	ctrl, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "session_id", sessionID, "err", err)
		return
	}

	client := hub.NewClient(h.hub, conn, sessionID, h.dispatcher(sessionID, ctrl))
	if !h.hub.Join(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// dispatcher applies viewer commands; each one counts as session activity.
func (h *Handler) dispatcher(sessionID string, ctrl *studio.Controller) hub.Dispatcher {
	return func(cmd hub.Command) error {
		h.sessionStore.Touch(sessionID)
		switch cmd.Type {
		case hub.CmdPanStart:
			return ctrl.BeginPan()
		case hub.CmdPanMove:
			return ctrl.Pan(cmd.DX, cmd.DY)
		case hub.CmdPanEnd:
			return ctrl.EndPan()
		case hub.CmdZoomIn:
			return ctrl.ZoomIn()
		case hub.CmdZoomOut:
			return ctrl.ZoomOut()
		case hub.CmdZoomReset:
			return ctrl.ResetZoom()
		case hub.CmdClose:
			reason, err := viewer.ParseCloseReason(cmd.Reason)
			if err != nil {
				return err
			}
			return ctrl.CloseViewer(reason)
		default:
			return fmt.Errorf("unknown command type %q", cmd.Type)
		}
	}
}

// SweepIdle ends sessions idle for longer than ttl. A session with a live
// WebSocket is still open in a tab and is never swept.
func (h *Handler) SweepIdle(ttl time.Duration) []string {
	var active func(string) bool
	if h.hub != nil {
		active = func(sessionID string) bool { return h.hub.ClientCount(sessionID) > 0 }
	}
	expired := h.sessionStore.Sweep(ttl, active)
	if h.hub != nil {
		for _, id := range expired {
			h.hub.EndSession(id)
		}
	}
	return expired
}
