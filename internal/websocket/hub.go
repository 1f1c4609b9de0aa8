package websocket

import (
	"encoding/json"
	"sync"

	"github.com/julianstephens/focos/internal/logger"
	"github.com/julianstephens/focos/internal/models"
	"github.com/julianstephens/focos/internal/state"
)

const (
	TypeSnapshot = "snapshot"
	TypeChange   = "state_changed"
)

// Message is what every client receives: the full state plus which slices
// changed to produce it.
type Message struct {
	Type    string          `json:"type"`
	Version uint64          `json:"version"`
	Slices  []string        `json:"slices,omitempty"`
	State   models.AppState `json:"state"`
}

// NewChangeMessage wraps a store change for the wire.
func NewChangeMessage(c state.Change) Message {
	return Message{
		Type:    TypeChange,
		Version: c.Version,
		Slices:  c.Slices,
		State:   c.State,
	}
}

// Hub maintains the set of active clients and fans state changes out to them.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*Client]struct{}
	lastVersion uint64
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

// Attach subscribes the hub to every change of the store and returns the
// unsubscribe function.
func (h *Hub) Attach(s *state.Store) func() {
	return s.Subscribe(func(c state.Change) {
		h.Broadcast(NewChangeMessage(c))
	})
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends msg to all connected clients. Change messages older than
// the last one broadcast are dropped, since subscribers may be called from
// several goroutines.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal broadcast", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if msg.Type == TypeChange {
		if msg.Version <= h.lastVersion {
			logger.Debug("Dropping stale change", "version", msg.Version, "last", h.lastVersion)
			return
		}
		h.lastVersion = msg.Version
	}

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow client; it resyncs from the next message since each one
			// carries the full state.
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
