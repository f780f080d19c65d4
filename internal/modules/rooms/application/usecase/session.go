package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"askRoomWeb/internal/modules/rooms/application/port"
	"askRoomWeb/internal/modules/rooms/domain"
)

// Session is the state of one browser: cached rooms and questions, the selected room,
// the form drafts and the shared loading flag. Caches are replaced by refetches, never
// merged. The mutex is never held across backend calls, so mutations may race.
type Session struct {
	id        string
	api       port.RoomsAPI
	publisher port.ViewPublisher
	now       func() time.Time

	mu             sync.Mutex
	rooms          []domain.Room
	selected       *domain.Room
	questions      []domain.Question
	roomDraft      domain.RoomDraft
	questionDraft  domain.QuestionDraft
	showCreateRoom bool
	loading        bool
	notice         *domain.Notice
	lastSeen       time.Time
}

// NewSession builds an empty session. publisher may be nil.
func NewSession(id string, api port.RoomsAPI, publisher port.ViewPublisher) *Session {
	return &Session{
		id:        strings.TrimSpace(id),
		api:       api,
		publisher: publisher,
		now:       time.Now,
		rooms:     []domain.Room{},
		questions: []domain.Question{},
		lastSeen:  time.Now(),
	}
}

func (s *Session) ID() string { return s.id }

// Mount performs the initial room list fetch.
func (s *Session) Mount(ctx context.Context) error {
	return s.RefreshRooms(ctx)
}

// View returns a render-ready copy of the current state.
func (s *Session) View() domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := domain.View{
		SessionID:      s.id,
		Rooms:          append([]domain.Room(nil), s.rooms...),
		Questions:      append([]domain.Question(nil), s.questions...),
		Transcript:     domain.BuildTranscript(s.questions),
		RoomDraft:      s.roomDraft,
		QuestionDraft:  s.questionDraft,
		ShowCreateRoom: s.showCreateRoom,
		Loading:        s.loading,
		AudioAccept:    domain.AudioAccept(),
	}
	if s.selected != nil {
		room := *s.selected
		view.SelectedRoom = &room
	}
	if s.notice != nil {
		notice := *s.notice
		view.Notice = &notice
	}
	return view
}

// ToggleCreateRoom flips the visibility of the create-room form.
func (s *Session) ToggleCreateRoom(ctx context.Context) {
	s.mu.Lock()
	s.showCreateRoom = !s.showCreateRoom
	s.mu.Unlock()
	s.publish(ctx)
}

// CancelCreateRoom hides the create-room form, keeping whatever was typed.
func (s *Session) CancelCreateRoom(ctx context.Context) {
	s.mu.Lock()
	s.showCreateRoom = false
	s.mu.Unlock()
	s.publish(ctx)
}

// CreateRoom submits the create-room form. Blank fields abort before any backend call.
// On success the draft is cleared, the form hidden and the room list refetched; on
// failure the draft and form are left untouched.
func (s *Session) CreateRoom(ctx context.Context, draft domain.RoomDraft) error {
	s.mu.Lock()
	s.roomDraft = draft
	s.mu.Unlock()

	if !draft.Ready() {
		s.fail(ctx, "create room", fmt.Errorf("%w: name and description are required", port.ErrInvalidInput))
		return port.ErrInvalidInput
	}

	s.setLoading(ctx, true)
	defer s.setLoading(ctx, false)

	if err := s.api.CreateRoom(ctx, draft.Name, draft.Description); err != nil {
		s.fail(ctx, "create room", err)
		return err
	}

	s.mu.Lock()
	s.roomDraft = domain.RoomDraft{}
	s.showCreateRoom = false
	s.notice = nil
	s.mu.Unlock()
	slog.Info("room created", slog.String("sessionId", s.id), slog.String("name", draft.Name))

	_ = s.RefreshRooms(ctx)
	return nil
}

// SelectRoom switches the selected room and fetches its questions.
func (s *Session) SelectRoom(ctx context.Context, roomID string) error {
	s.mu.Lock()
	room, ok := domain.FindRoom(s.rooms, roomID)
	if ok {
		s.selected = &room
	}
	s.mu.Unlock()

	if !ok {
		err := fmt.Errorf("%w: %s", port.ErrUnknownRoom, strings.TrimSpace(roomID))
		s.fail(ctx, "select room", err)
		return err
	}
	slog.Debug("room selected", slog.String("sessionId", s.id), slog.String("roomId", room.ID))
	s.publish(ctx)

	return s.RefreshQuestions(ctx, room.ID)
}

// CreateQuestion posts a question into the selected room, then refetches questions and
// rooms. The new question only shows up once the refetch lands.
func (s *Session) CreateQuestion(ctx context.Context, content string) error {
	s.mu.Lock()
	s.questionDraft = domain.QuestionDraft{Content: content}
	room := s.selected
	s.mu.Unlock()

	if !s.questionReady(content) {
		s.fail(ctx, "create question", fmt.Errorf("%w: question is empty", port.ErrInvalidInput))
		return port.ErrInvalidInput
	}
	if room == nil {
		s.fail(ctx, "create question", port.ErrNoRoomSelected)
		return port.ErrNoRoomSelected
	}
	roomID := room.ID

	s.setLoading(ctx, true)
	defer s.setLoading(ctx, false)

	if err := s.api.CreateQuestion(ctx, roomID, content); err != nil {
		s.fail(ctx, "create question", err)
		return err
	}

	s.mu.Lock()
	s.questionDraft = domain.QuestionDraft{}
	s.notice = nil
	s.mu.Unlock()
	slog.Info("question created", slog.String("sessionId", s.id), slog.String("roomId", roomID))

	s.refetchRoom(ctx, roomID)
	return nil
}

// UploadAudio sends an audio file for the selected room and triggers the same refetch
// as a text question. The file type is not checked here.
func (s *Session) UploadAudio(ctx context.Context, file port.AudioFile) error {
	s.mu.Lock()
	room := s.selected
	s.mu.Unlock()

	if room == nil {
		s.fail(ctx, "upload audio", port.ErrNoRoomSelected)
		return port.ErrNoRoomSelected
	}
	if file.Content == nil || strings.TrimSpace(file.Filename) == "" {
		s.fail(ctx, "upload audio", fmt.Errorf("%w: no file chosen", port.ErrInvalidInput))
		return port.ErrInvalidInput
	}
	roomID := room.ID

	s.setLoading(ctx, true)
	defer s.setLoading(ctx, false)

	result, err := s.api.UploadAudio(ctx, roomID, file)
	if err != nil {
		hint := ""
		if errors.Is(err, port.ErrBackendRejected) && !domain.AdvertisedAudio(file.Filename) {
			hint = " Supported formats: " + domain.AudioAccept() + "."
		}
		s.failWithHint(ctx, "upload audio", err, hint)
		return err
	}

	s.mu.Lock()
	s.notice = nil
	if result != nil && strings.TrimSpace(result.TranscribedText) != "" {
		s.notice = &domain.Notice{Kind: domain.NoticeInfo, Text: "Transcribed: " + strings.TrimSpace(result.TranscribedText)}
	}
	s.mu.Unlock()
	slog.Info("audio uploaded", slog.String("sessionId", s.id), slog.String("roomId", roomID), slog.String("filename", file.Filename))

	s.refetchRoom(ctx, roomID)
	return nil
}

// RefreshRooms replaces the cached room list with the backend's.
func (s *Session) RefreshRooms(ctx context.Context) error {
	rooms, err := s.api.ListRooms(ctx)
	if err != nil {
		s.fail(ctx, "list rooms", err)
		return err
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}
	s.mu.Lock()
	s.rooms = rooms
	s.mu.Unlock()
	s.publish(ctx)
	return nil
}

// RefreshQuestions replaces the cached question list with the backend's list for roomID.
func (s *Session) RefreshQuestions(ctx context.Context, roomID string) error {
	questions, err := s.api.ListQuestions(ctx, roomID)
	if err != nil {
		s.fail(ctx, "list questions", err)
		return err
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	s.mu.Lock()
	s.questions = questions
	s.mu.Unlock()
	s.publish(ctx)
	return nil
}

// Refresh reloads the room list and, when roomID is empty or matches the selected room,
// the question list. Used for backend events.
func (s *Session) Refresh(ctx context.Context, roomID string) {
	s.mu.Lock()
	selected := ""
	if s.selected != nil {
		selected = s.selected.ID
	}
	s.mu.Unlock()

	target := strings.TrimSpace(roomID)
	if selected != "" && (target == "" || target == selected) {
		s.refetchRoom(ctx, selected)
		return
	}
	_ = s.RefreshRooms(ctx)
}

// refetchRoom runs the question and room refetches independently; whichever finishes
// last wins its own slice of state.
func (s *Session) refetchRoom(ctx context.Context, roomID string) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.RefreshQuestions(ctx, roomID)
	}()
	go func() {
		defer wg.Done()
		_ = s.RefreshRooms(ctx)
	}()
	wg.Wait()
}

// Touch records activity for idle sweeping.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

// LastSeen returns the time of the last recorded activity.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) questionReady(content string) bool {
	return domain.QuestionDraft{Content: content}.Ready()
}

func (s *Session) setLoading(ctx context.Context, loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.publish(ctx)
}

// Reject records a failure detected outside the session, such as an oversized
// upload, and returns err.
func (s *Session) Reject(ctx context.Context, op string, err error) error {
	s.fail(ctx, op, err)
	return err
}

func (s *Session) fail(ctx context.Context, op string, err error) {
	s.failWithHint(ctx, op, err, "")
}

func (s *Session) failWithHint(ctx context.Context, op string, err error, hint string) {
	slog.Warn("session operation failed", slog.String("sessionId", s.id), slog.String("op", op), slog.Any("error", err))
	s.mu.Lock()
	s.notice = &domain.Notice{Kind: domain.NoticeError, Text: describeFailure(op, err) + hint}
	s.mu.Unlock()
	s.publish(ctx)
}

func (s *Session) publish(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, domain.NewViewMessage(s.View(), s.now()))
}

func describeFailure(op string, err error) string {
	var statusErr *port.StatusError
	switch {
	case errors.Is(err, port.ErrUploadTooLarge):
		return fmt.Sprintf("Could not %s: the file is too large.", op)
	case errors.Is(err, port.ErrInvalidInput):
		return fmt.Sprintf("Could not %s: required fields are empty.", op)
	case errors.Is(err, port.ErrNoRoomSelected):
		return fmt.Sprintf("Could not %s: select a room first.", op)
	case errors.Is(err, port.ErrUnknownRoom):
		return fmt.Sprintf("Could not %s: the room no longer exists.", op)
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Could not %s: the backend rejected the request (status %d).", op, statusErr.Status)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Could not %s: the backend timed out.", op)
	case errors.Is(err, port.ErrBackendUnavailable):
		return fmt.Sprintf("Could not %s: the backend is unreachable.", op)
	default:
		return fmt.Sprintf("Could not %s.", op)
	}
}
