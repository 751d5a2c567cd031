package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func testClient(h *Hub, sessionID string, buffer int) *Client {
	return &Client{Hub: h, Send: make(chan []byte, buffer), SessionID: sessionID}
}

func receive(t *testing.T, c *Client) (Event, bool) {
	t.Helper()
	select {
	case raw, ok := <-c.Send:
		if !ok {
			return Event{}, false
		}
		var evt Event
		require.NoError(t, json.Unmarshal(raw, &evt))
		return evt, true
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}, false
}

func TestPublishReachesOnlyThatSession(t *testing.T) {
	h := startHub(t)
	a := testClient(h, "a", 4)
	b := testClient(h, "b", 4)
	h.Register <- a
	h.Register <- b

	h.Publish("a", EventGallery, map[string]int{"count": 1})

	evt, ok := receive(t, a)
	require.True(t, ok)
	assert.Equal(t, EventGallery, evt.Type)
	assert.Equal(t, map[string]any{"count": float64(1)}, evt.Data)
	assert.Empty(t, b.Send)
}

func TestSlowClientIsDropped(t *testing.T) {
	h := startHub(t)
	c := testClient(h, "a", 1)
	h.Register <- c

	h.Publish("a", EventStatus, nil)
	h.Publish("a", EventStatus, nil)

	assert.Eventually(t, func() bool { return h.ClientCount("a") == 0 }, time.Second, 5*time.Millisecond)
	_, ok := receive(t, c)
	require.True(t, ok)
	_, ok = receive(t, c)
	assert.False(t, ok, "send channel should be closed")
}

func TestEndSessionNotifiesAndDisconnects(t *testing.T) {
	h := startHub(t)
	c := testClient(h, "a", 4)
	h.Register <- c

	h.End <- "a"

	evt, ok := receive(t, c)
	require.True(t, ok)
	assert.Equal(t, EventEnded, evt.Type)
	_, ok = receive(t, c)
	assert.False(t, ok)
}

func TestUnregisterTwiceIsSafe(t *testing.T) {
	h := startHub(t)
	c := testClient(h, "a", 1)
	h.Register <- c
	h.Unregister <- c
	h.Unregister <- c

	_, ok := <-c.Send
	assert.False(t, ok)
}

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Command
		wantErr bool
	}{
		{"pan move", `{"type":"pan.move","dx":3.5,"dy":-2}`, Command{Type: CmdPanMove, DX: 3.5, DY: -2}, false},
		{"close with reason", `{"type":"close","reason":"escape"}`, Command{Type: CmdClose, Reason: "escape"}, false},
		{"zoom in", `{"type":"zoom.in"}`, Command{Type: CmdZoomIn}, false},
		{"unknown", `{"type":"generate"}`, Command{}, true},
		{"malformed", `{"type":`, Command{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCommand([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSendsAfterShutdownDoNotBlock(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	c := testClient(h, "a", 1)
	require.True(t, h.Join(c))
	cancel()
	<-h.Done()

	_, ok := <-c.Send
	assert.False(t, ok, "clients are disconnected on shutdown")

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		assert.False(t, h.Join(testClient(h, "b", 1)))
		h.Leave(c)
		for i := 0; i < cap(h.End)+1; i++ {
			h.EndSession("a")
		}
		for i := 0; i < cap(h.Broadcast)+1; i++ {
			h.Publish("a", EventStatus, nil)
		}
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("send blocked after the hub stopped")
	}
}
