package domain

import (
	"strings"
	"time"
)

const (
	// TopicSessionView carries a full view snapshot to the browsers of a session.
	TopicSessionView = "session.view"

	EntityRooms = "rooms"
)

// Message travels between the broker, the session store and the websocket hub.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity,omitempty"`
	Action     string            `json:"action,omitempty"`
	ResourceID string            `json:"resourceId,omitempty"`
	SessionID  string            `json:"sessionId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewViewMessage wraps a session view for the websocket stream.
func NewViewMessage(view View, at time.Time) *Message {
	return &Message{
		Topic:     TopicSessionView,
		Entity:    "session",
		Action:    "view",
		SessionID: view.SessionID,
		Data:      view,
		Timestamp: at.UTC(),
	}
}

// RoomID resolves the room an event refers to. Room events carry it as the resource
// id, question and answer events in metadata.
func (m *Message) RoomID() string {
	if m == nil {
		return ""
	}
	if m.Metadata != nil {
		for _, key := range []string{"roomId", "room_id"} {
			if v := strings.TrimSpace(m.Metadata[key]); v != "" {
				return v
			}
		}
	}
	if strings.EqualFold(strings.TrimSpace(m.Entity), EntityRooms) {
		return strings.TrimSpace(m.ResourceID)
	}
	return ""
}
