package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"askRoomWeb/internal/modules/rooms/domain"
)

// Command is a client-initiated websocket message.
type Command struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CommandHandler func(ctx context.Context, client *Client, cmd Command)

// CommandProcessor answers ping locally and hands everything else to the fallback
// handler on its own goroutine, bounded by a timeout.
type CommandProcessor struct {
	handlers        map[string]CommandHandler
	fallback        CommandHandler
	fallbackTimeout time.Duration
}

func NewCommandProcessor(fallback CommandHandler) *CommandProcessor {
	processor := &CommandProcessor{
		handlers:        make(map[string]CommandHandler),
		fallback:        fallback,
		fallbackTimeout: 30 * time.Second,
	}
	processor.Register("ping", processor.handlePing)
	return processor
}

func (p *CommandProcessor) Register(action string, handler CommandHandler) {
	if handler == nil {
		return
	}
	key := normalizeAction(action)
	if key == "" {
		return
	}
	p.handlers[key] = handler
}

func (p *CommandProcessor) Process(client *Client, cmd Command) {
	if client == nil {
		return
	}
	action := normalizeAction(cmd.Action)
	if action == "" {
		return
	}
	cmd.Action = action

	if handler, ok := p.handlers[action]; ok {
		handler(context.Background(), client, cmd)
		return
	}
	if p.fallback == nil {
		slog.Debug("ws command ignored", slog.String("sessionId", client.sessionID), slog.String("action", action))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.fallbackTimeout)
	go func() {
		defer cancel()
		p.fallback(ctx, client, cmd)
	}()
}

func (p *CommandProcessor) handlePing(_ context.Context, client *Client, _ Command) {
	client.SendMessage(&domain.Message{
		Topic:     "system.pong",
		Entity:    "system",
		Action:    "pong",
		SessionID: client.sessionID,
		Timestamp: time.Now().UTC(),
	})
}

func normalizeAction(action string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(action)), "-", "_")
}
