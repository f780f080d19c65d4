package port

import (
	"context"
	"errors"
	"fmt"
	"io"

	"askRoomWeb/internal/modules/rooms/domain"
)

var (
	// ErrInvalidInput is returned when a form is submitted with blank required fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoRoomSelected is returned by room-scoped operations before a room is selected.
	ErrNoRoomSelected = errors.New("no room selected")
	// ErrUnknownRoom indicates the room is not part of the cached room list.
	ErrUnknownRoom = errors.New("unknown room")
	// ErrUploadTooLarge is the invalid input of an upload over the size limit.
	ErrUploadTooLarge = fmt.Errorf("%w: upload too large", ErrInvalidInput)
	// ErrBackendRejected indicates the backend answered with a non-success status.
	ErrBackendRejected = errors.New("backend rejected request")
	// ErrBackendUnavailable indicates the backend could not be reached.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// StatusError carries the status and body excerpt of a rejected backend call.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend responded %d", e.Status)
	}
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrBackendRejected }

// AudioFile is an audio upload handed to the backend as-is.
type AudioFile struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// RoomsAPI is the backend contract consumed by sessions.
type RoomsAPI interface {
	Health(ctx context.Context) (*domain.Health, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	CreateRoom(ctx context.Context, name, description string) error
	ListQuestions(ctx context.Context, roomID string) ([]domain.Question, error)
	CreateQuestion(ctx context.Context, roomID, content string) error
	UploadAudio(ctx context.Context, roomID string, file AudioFile) (*domain.AudioUploadResult, error)
}
