package domain

import "strings"

// Room is a named, described container of questions as returned by the backend.
type Room struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     Timestamp `json:"created_at"`
}

// Question is a user-submitted item inside a room, optionally paired with the AI answer.
type Question struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id,omitempty"`
	Content   string    `json:"content"`
	Answer    *string   `json:"answer"`
	CreatedAt Timestamp `json:"created_at"`
}

// HasAnswer reports whether the backend already produced a non-empty answer.
func (q Question) HasAnswer() bool {
	return q.Answer != nil && *q.Answer != ""
}

// AnswerText returns the answer or an empty string while it is still pending.
func (q Question) AnswerText() string {
	if q.Answer == nil {
		return ""
	}
	return *q.Answer
}

// FindRoom looks a room up by identifier in a cached list.
func FindRoom(rooms []Room, id string) (Room, bool) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return Room{}, false
	}
	for _, room := range rooms {
		if room.ID == trimmed {
			return room, true
		}
	}
	return Room{}, false
}

// AudioUploadResult mirrors the backend reply to an audio upload.
type AudioUploadResult struct {
	TranscribedText string    `json:"transcribed_text"`
	Question        *Question `json:"question,omitempty"`
}

// Health is the payload of the backend liveness endpoint.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Online reports whether the backend declared itself online.
func (h Health) Online() bool {
	return strings.EqualFold(strings.TrimSpace(h.Status), "online")
}
