package usecase

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"askRoomWeb/internal/modules/rooms/application/port"
	"askRoomWeb/internal/modules/rooms/domain"
)

// MockRoomsAPI is a testify mock of port.RoomsAPI.
type MockRoomsAPI struct {
	mock.Mock
}

func (m *MockRoomsAPI) Health(ctx context.Context) (*domain.Health, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Health), args.Error(1)
}

func (m *MockRoomsAPI) ListRooms(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockRoomsAPI) CreateRoom(ctx context.Context, name, description string) error {
	args := m.Called(ctx, name, description)
	return args.Error(0)
}

func (m *MockRoomsAPI) ListQuestions(ctx context.Context, roomID string) ([]domain.Question, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockRoomsAPI) CreateQuestion(ctx context.Context, roomID, content string) error {
	args := m.Called(ctx, roomID, content)
	return args.Error(0)
}

func (m *MockRoomsAPI) UploadAudio(ctx context.Context, roomID string, file port.AudioFile) (*domain.AudioUploadResult, error) {
	if file.Content != nil {
		_, _ = io.Copy(io.Discard, file.Content)
	}
	args := m.Called(ctx, roomID, file.Filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AudioUploadResult), args.Error(1)
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []*domain.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg *domain.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingPublisher) last() *domain.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.messages) == 0 {
		return nil
	}
	return p.messages[len(p.messages)-1]
}

var _ port.RoomsAPI = (*MockRoomsAPI)(nil)
