package port

import (
	"context"

	"askRoomWeb/internal/modules/rooms/domain"
)

// ViewPublisher pushes messages to the browsers attached to a session.
type ViewPublisher interface {
	Publish(ctx context.Context, msg *domain.Message)
}

// TopicHandler is implemented by handlers registered per broker topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}

// Refresher reloads cached state for sessions affected by a room; an empty roomID
// means every selected room.
type Refresher interface {
	RefreshAll(ctx context.Context, roomID string)
}
