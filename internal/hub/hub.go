// Package hub pushes studio state changes to the browser over WebSockets and
// feeds pointer-driven viewer commands back in.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Event types pushed to clients.
const (
	EventStatus  = "status"
	EventGallery = "gallery"
	EventViewer  = "viewer"
	EventEnded   = "session.ended"
)

// Event is one server to browser message.
type Event struct {
	Type      string `json:"type"`
	SessionID string `json:"-"`
	Data      any    `json:"data,omitempty"`
}

// Client is a WebSocket connection attached to one studio session.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	Send      chan []byte
	SessionID string
	Dispatch  Dispatcher
}

// Hub fans events out to every connection of a session.
type Hub struct {
	Clients    map[string]map[*Client]bool // sessionID -> clients
	Broadcast  chan *Event
	Register   chan *Client
	Unregister chan *Client
	End        chan string
	Mu         sync.RWMutex

	done chan struct{}
}

func New() *Hub {
	return &Hub{
		Clients:    make(map[string]map[*Client]bool),
		Broadcast:  make(chan *Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		End:        make(chan string, 16),
		done:       make(chan struct{}),
	}
}

// NewClient builds a client with a buffered send queue.
func NewClient(h *Hub, conn *websocket.Conn, sessionID string, dispatch Dispatcher) *Client {
	return &Client{
		Hub:       h,
		Conn:      conn,
		Send:      make(chan []byte, 64),
		SessionID: sessionID,
		Dispatch:  dispatch,
	}
}

// Publish queues an event for a session's clients. It is a no-op once Run
// has returned.
func (h *Hub) Publish(sessionID, eventType string, data any) {
	select {
	case h.Broadcast <- &Event{Type: eventType, SessionID: sessionID, Data: data}:
	case <-h.done:
	}
}

// Join registers a client; it reports false once Run has returned.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters a client.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// EndSession tells a session's clients it is gone and disconnects them.
func (h *Hub) EndSession(sessionID string) {
	select {
	case h.End <- sessionID:
	case <-h.done:
	}
}

// Done is closed when Run returns.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.Register:
			h.Mu.Lock()
			if h.Clients[client.SessionID] == nil {
				h.Clients[client.SessionID] = make(map[*Client]bool)
			}
			h.Clients[client.SessionID][client] = true
			h.Mu.Unlock()
			slog.Debug("WebSocket client registered", "session", client.SessionID)

		case client := <-h.Unregister:
			h.Mu.Lock()
			h.remove(client)
			h.Mu.Unlock()

		case sessionID := <-h.End:
			payload := mustMarshal(&Event{Type: EventEnded})
			h.Mu.Lock()
			for client := range h.Clients[sessionID] {
				select {
				case client.Send <- payload:
				default:
				}
				h.remove(client)
			}
			h.Mu.Unlock()

		case event := <-h.Broadcast:
			payload := mustMarshal(event)
			h.Mu.Lock()
			for client := range h.Clients[event.SessionID] {
				select {
				case client.Send <- payload:
				default:
					slog.Warn("Dropping slow WebSocket client", "session", event.SessionID)
					h.remove(client)
				}
			}
			h.Mu.Unlock()
		}
	}
}

// ClientCount reports how many connections a session has.
func (h *Hub) ClientCount(sessionID string) int {
	h.Mu.RLock()
	defer h.Mu.RUnlock()
	return len(h.Clients[sessionID])
}

// remove must be called with Mu held.
func (h *Hub) remove(client *Client) {
	clients, ok := h.Clients[client.SessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.Clients, client.SessionID)
	}
}

func (h *Hub) closeAll() {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	for _, clients := range h.Clients {
		for client := range clients {
			h.remove(client)
		}
	}
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal event", "err", err)
		return []byte("{}")
	}
	return b
}
