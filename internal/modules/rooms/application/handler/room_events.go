package handler

import (
	"context"
	"log/slog"
	"strings"

	"askRoomWeb/internal/modules/rooms/application/port"
	"askRoomWeb/internal/modules/rooms/domain"
)

// RoomEventsHandler turns backend room/question events from one broker topic into the
// refetch pattern of the affected sessions. Actions outside allowedActions are ignored.
type RoomEventsHandler struct {
	topic          string
	allowedActions map[string]struct{}
	refresher      port.Refresher
}

func NewRoomEventsHandler(topic string, allowedActions []string, refresher port.Refresher) *RoomEventsHandler {
	actionSet := make(map[string]struct{}, len(allowedActions))
	for _, a := range allowedActions {
		if v := strings.TrimSpace(strings.ToLower(a)); v != "" {
			actionSet[v] = struct{}{}
		}
	}
	return &RoomEventsHandler{
		topic:          strings.TrimSpace(topic),
		allowedActions: actionSet,
		refresher:      refresher,
	}
}

func (h *RoomEventsHandler) Topic() string { return h.topic }

func (h *RoomEventsHandler) Handle(ctx context.Context, msg *domain.Message) error {
	if msg == nil || h.refresher == nil {
		return nil
	}
	if len(h.allowedActions) > 0 {
		if _, ok := h.allowedActions[strings.ToLower(strings.TrimSpace(msg.Action))]; !ok {
			slog.Debug("room event ignored", slog.String("topic", h.topic), slog.String("action", msg.Action))
			return nil
		}
	}
	roomID := msg.RoomID()
	slog.Info("room event refresh", slog.String("topic", h.topic), slog.String("entity", msg.Entity), slog.String("action", msg.Action), slog.String("roomId", roomID))
	h.refresher.RefreshAll(ctx, roomID)
	return nil
}

var _ port.TopicHandler = (*RoomEventsHandler)(nil)
