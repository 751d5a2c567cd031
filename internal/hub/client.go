package hub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Viewer commands accepted from the browser.
const (
	CmdPanStart  = "pan.start"
	CmdPanMove   = "pan.move"
	CmdPanEnd    = "pan.end"
	CmdZoomIn    = "zoom.in"
	CmdZoomOut   = "zoom.out"
	CmdZoomReset = "zoom.reset"
	CmdClose     = "close"
)

// Command is one browser to server message.
type Command struct {
	Type   string  `json:"type"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

// Dispatcher applies a command to the session it arrived on.
type Dispatcher func(Command) error

// DecodeCommand parses and checks an inbound message.
func DecodeCommand(raw []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return Command{}, fmt.Errorf("failed to decode command: %w", err)
	}
	switch cmd.Type {
	case CmdPanStart, CmdPanMove, CmdPanEnd, CmdZoomIn, CmdZoomOut, CmdZoomReset, CmdClose:
		return cmd, nil
	default:
		return Command{}, fmt.Errorf("unknown command type %q", cmd.Type)
	}
}

// ReadPump reads commands from the connection until it closes.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Leave(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("WebSocket read failed", "session", c.SessionID, "err", err)
			}
			return
		}

		cmd, err := DecodeCommand(message)
		if err != nil {
			slog.Warn("Ignoring WebSocket message", "session", c.SessionID, "err", err)
			continue
		}
		if c.Dispatch == nil {
			continue
		}
		if err := c.Dispatch(cmd); err != nil {
			slog.Debug("Viewer command rejected", "session", c.SessionID, "type", cmd.Type, "err", err)
		}
	}
}

// WritePump writes queued events and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
