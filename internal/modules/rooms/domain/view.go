package domain

// NoticeKind classifies the status line shown above the page.
type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
)

// Notice is the visible outcome of the last operation.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

// View is the render-ready snapshot of one session.
type View struct {
	SessionID      string            `json:"sessionId"`
	Rooms          []Room            `json:"rooms"`
	SelectedRoom   *Room             `json:"selectedRoom"`
	Questions      []Question        `json:"questions"`
	Transcript     []TranscriptEntry `json:"transcript"`
	RoomDraft      RoomDraft         `json:"roomDraft"`
	QuestionDraft  QuestionDraft     `json:"questionDraft"`
	ShowCreateRoom bool              `json:"showCreateRoom"`
	Loading        bool              `json:"loading"`
	Notice         *Notice           `json:"notice,omitempty"`
	AudioAccept    string            `json:"audioAccept"`
}

// IsSelected reports whether the room with id is the selected one.
func (v View) IsSelected(id string) bool {
	return v.SelectedRoom != nil && v.SelectedRoom.ID == id
}

// CreateRoomLabel is the caption of the create-room submit button.
func (v View) CreateRoomLabel() string {
	if v.Loading {
		return "Creating..."
	}
	return "Create"
}

// SendLabel is the caption of the question submit button.
func (v View) SendLabel() string {
	if v.Loading {
		return "..."
	}
	return "Send"
}
