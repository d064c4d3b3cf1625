package ui

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"cetaksoal/domain/core"
	"cetaksoal/internal"
	"cetaksoal/internal/state"

	"github.com/gin-gonic/gin"
)

// DocumentEvent tells open editors that the document changed
type DocumentEvent struct {
	Generation    uint64        `json:"generation"`
	ImportID      core.ImportID `json:"importId,omitempty"`
	QuestionCount int           `json:"questionCount"`
	Timestamp     time.Time     `json:"timestamp"`
}

// EventHub fans document events out to Server-Sent Events clients
type EventHub struct {
	clients   map[chan DocumentEvent]bool
	clientsMu sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	logger    *internal.Logger
	ping      time.Duration
}

// NewEventHub creates a hub and subscribes it to store
func NewEventHub(store *state.Store, logger *internal.Logger) *EventHub {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	h := &EventHub{
		clients: make(map[chan DocumentEvent]bool),
		done:    make(chan struct{}),
		logger:  logger.Named("SSE"),
		ping:    30 * time.Second,
	}
	if store != nil {
		store.Subscribe(func(snap state.Snapshot) {
			h.Broadcast(DocumentEvent{
				Generation:    snap.Generation,
				ImportID:      snap.ImportID,
				QuestionCount: len(snap.Questions),
				Timestamp:     time.Now(),
			})
		})
	}
	return h
}

func (h *EventHub) register() chan DocumentEvent {
	ch := make(chan DocumentEvent, 10)
	h.clientsMu.Lock()
	h.clients[ch] = true
	count := len(h.clients)
	h.clientsMu.Unlock()
	h.logger.Debug("client registered (total clients: %d)", count)
	return ch
}

func (h *EventHub) unregister(ch chan DocumentEvent) {
	h.clientsMu.Lock()
	delete(h.clients, ch)
	count := len(h.clients)
	h.clientsMu.Unlock()
	h.logger.Debug("client unregistered (remaining clients: %d)", count)
}

// Broadcast sends an event to every connected client. A client whose
// buffer is full misses the event; the next one carries a newer generation.
func (h *EventHub) Broadcast(event DocumentEvent) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- event:
		default:
			h.logger.Warn("client channel full, skipping generation %d", event.Generation)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *EventHub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Close ends every open stream
func (h *EventHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// HandleSSE streams document events until the client leaves
func (h *EventHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ch := h.register()
	defer h.unregister(ch)

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.ping)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-ch:
			eventJSON, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event: %v", err)
				return true
			}
			c.SSEvent("document", string(eventJSON))
			return true

		case <-ticker.C:
			c.SSEvent("ping", `{"status":"alive"}`)
			return true

		case <-ctx.Done():
			return false

		case <-h.done:
			return false
		}
	})
}
