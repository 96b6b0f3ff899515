package api

import (
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// SSEClient is one connected listener on a simulation stream
type SSEClient struct {
	Stream  string
	Channel chan RunEvent
}

// RunEvent is one progress update on a simulation stream. Phase moves
// through accepted and running, then ends in done or failed.
type RunEvent struct {
	Stream     string    `json:"stream"`
	Phase      string    `json:"phase"`
	RunID      string    `json:"run_id,omitempty"`
	Nuclide    string    `json:"nuclide,omitempty"`
	Done       int64     `json:"done"`
	Total      int64     `json:"total"`
	EventCount int64     `json:"event_count,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// SSEHub fans simulation progress out to Server-Sent-Events listeners,
// keyed by the client-chosen stream name.
type SSEHub struct {
	clients    map[string]map[chan RunEvent]bool
	clientsMu  sync.RWMutex
	register   chan SSEClient
	unregister chan SSEClient
	broadcast  chan RunEvent
}

// NewSSEHub creates the hub and starts its dispatch loop
func NewSSEHub() *SSEHub {
	hub := &SSEHub{
		clients:    make(map[string]map[chan RunEvent]bool),
		register:   make(chan SSEClient, 10),
		unregister: make(chan SSEClient, 10),
		broadcast:  make(chan RunEvent, 100),
	}

	go hub.run()
	return hub
}

func (h *SSEHub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			if h.clients[client.Stream] == nil {
				h.clients[client.Stream] = make(map[chan RunEvent]bool)
			}
			h.clients[client.Stream][client.Channel] = true
			log.Printf("[SSE] Listener joined stream %s (total: %d)",
				client.Stream, len(h.clients[client.Stream]))
			h.clientsMu.Unlock()

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if clients, exists := h.clients[client.Stream]; exists {
				delete(clients, client.Channel)
				close(client.Channel)
				log.Printf("[SSE] Listener left stream %s (remaining: %d)",
					client.Stream, len(clients))
				if len(clients) == 0 {
					delete(h.clients, client.Stream)
				}
			}
			h.clientsMu.Unlock()

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			if clients, exists := h.clients[event.Stream]; exists {
				for clientChan := range clients {
					select {
					case clientChan <- event:
					default:
						// slow listener, skip this update
					}
				}
			}
			h.clientsMu.RUnlock()
		}
	}
}

// Broadcast fans an event out to every listener on its stream. Progress
// updates are droppable: when the hub is saturated the event is discarded
// rather than stalling a simulation worker.
func (h *SSEHub) Broadcast(event RunEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[SSE] Hub saturated, dropping %s event for stream %s", event.Phase, event.Stream)
	}
}

// HandleSSE subscribes the caller to a stream's progress events
func (h *SSEHub) HandleSSE(c *gin.Context) {
	stream := c.Query("stream")
	if stream == "" {
		c.JSON(400, gin.H{"error": "stream parameter required"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", "Cache-Control")

	clientChan := make(chan RunEvent, 10)

	select {
	case h.register <- SSEClient{Stream: stream, Channel: clientChan}:
	default:
		c.JSON(500, gin.H{"error": "SSE hub registration failed"})
		return
	}

	defer func() {
		select {
		case h.unregister <- SSEClient{Stream: stream, Channel: clientChan}:
		default:
			// hub overloaded, the channel leaks until the stream empties
		}
	}()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-clientChan:
			eventJSON, err := json.Marshal(event)
			if err != nil {
				log.Printf("[SSE] Failed to marshal event: %v", err)
				return true
			}
			c.SSEvent("run", string(eventJSON))
			return true

		case <-time.After(30 * time.Second):
			c.SSEvent("ping", `{"status": "alive", "timestamp": "`+time.Now().Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}

// ActiveStreams returns the streams with at least one listener
func (h *SSEHub) ActiveStreams() []string {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	streams := make([]string, 0, len(h.clients))
	for stream := range h.clients {
		streams = append(streams, stream)
	}
	return streams
}

// ClientCount returns the number of listeners on one stream
func (h *SSEHub) ClientCount(stream string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	if clients, exists := h.clients[stream]; exists {
		return len(clients)
	}
	return 0
}
