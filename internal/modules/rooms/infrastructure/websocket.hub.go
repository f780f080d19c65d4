package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"askRoomWeb/internal/modules/rooms/application/port"
	"askRoomWeb/internal/modules/rooms/domain"
)

// Hub fans view messages out to the websocket clients of each session.
type Hub struct {
	sessions map[string]map[*Client]struct{}
	mu       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]map[*Client]struct{})}
}

// Publish delivers msg to the clients of msg.SessionID, or to every client when the
// message is not bound to a session. Clients whose buffer is full are detached.
func (h *Hub) Publish(_ context.Context, msg *domain.Message) {
	if msg == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("publish marshal error", slog.Any("error", err))
		return
	}

	target := strings.TrimSpace(msg.SessionID)
	h.mu.RLock()
	clients := make([]*Client, 0)
	if target != "" {
		for c := range h.sessions[target] {
			clients = append(clients, c)
		}
	} else {
		for _, set := range h.sessions {
			for c := range set {
				clients = append(clients, c)
			}
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.enqueue(data) {
			slog.Warn("ws send buffer full", slog.String("sessionId", c.sessionID), slog.String("clientId", c.clientID))
			go h.detachClient(c)
		}
	}
}

// AttachClient registers c under its session.
func (h *Hub) AttachClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.sessions[c.sessionID]
	if !ok {
		set = make(map[*Client]struct{})
		h.sessions[c.sessionID] = set
	}
	set[c] = struct{}{}
	slog.Info("ws client attached", slog.String("sessionId", c.sessionID), slog.String("clientId", c.clientID), slog.Int("sessionClients", len(set)))
}

// ClientCount reports how many clients are attached to sessionID.
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[strings.TrimSpace(sessionID)])
}

func (h *Hub) detachClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
}

func (h *Hub) detachLocked(c *Client) {
	if c == nil {
		return
	}
	if set, ok := h.sessions[c.sessionID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.sessions, c.sessionID)
		}
	}
	c.close()
	slog.Info("ws client detached", slog.String("sessionId", c.sessionID), slog.String("clientId", c.clientID))
}

var _ port.ViewPublisher = (*Hub)(nil)
