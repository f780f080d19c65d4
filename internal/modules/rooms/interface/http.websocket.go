package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"askRoomWeb/internal/modules/rooms/application/usecase"
	"askRoomWeb/internal/modules/rooms/domain"
	"askRoomWeb/internal/modules/rooms/infrastructure"
	"askRoomWeb/internal/shared/auth"
)

const topicSessionError = "session.error"

var upgrader = websocket.Upgrader{
	CheckOrigin: sameOrigin,
}

// sameOrigin accepts requests without an Origin header (non-browser clients) and
// browser requests whose Origin host matches the Host header.
func sameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// NewWebsocketHandler exposes /ws: it validates the session cookie, attaches the
// connection to the hub and streams the session's views.
func NewWebsocketHandler(
	hub *infrastructure.Hub,
	store *usecase.SessionStore,
	signer auth.TokenValidator,
	cookieName string,
	buffer int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := c.Logger()
		peerIP := c.RealIP()

		if !sameOrigin(c.Request()) {
			slog.Warn("ws handler origin rejected", slog.String("origin", c.Request().Header.Get("Origin")), slog.String("ip", peerIP))
			logger.Warnf("ws rejected: cross origin %s ip=%s", c.Request().Header.Get("Origin"), peerIP)
			return echo.NewHTTPError(http.StatusForbidden, "origin not allowed")
		}

		token := auth.ExtractSessionToken(c.Request(), cookieName)
		claims, err := signer.Validate(token)
		if err != nil {
			status := http.StatusUnauthorized
			message := "invalid session"
			if errors.Is(err, auth.ErrMissingToken) {
				status = http.StatusBadRequest
				message = "missing session"
			}
			slog.Warn("ws handler session rejected", slog.Int("status", status), slog.String("ip", peerIP), slog.Any("error", err))
			logger.Warnf("ws rejected: %s ip=%s: %v", message, peerIP, err)
			return echo.NewHTTPError(status, message)
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
		session, _ := store.Open(ctx, claims.SessionID)
		cancel()

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("ws handler upgrade failed", slog.String("sessionId", session.ID()), slog.Any("error", err))
			logger.Errorf("ws upgrade failed session=%s ip=%s: %v", session.ID(), peerIP, err)
			return err
		}

		client := infrastructure.NewClient(hub, conn, session.ID(), buffer, newSessionCommandHandler(session))
		hub.AttachClient(client)

		go client.WritePump()
		go client.ReadPump()

		now := time.Now().UTC()
		client.SendMessage(&domain.Message{
			Topic:     "system.connected",
			Entity:    "system",
			Action:    "connected",
			SessionID: session.ID(),
			Metadata:  map[string]string{"sessionId": session.ID()},
			Timestamp: now,
		})
		client.SendMessage(domain.NewViewMessage(session.View(), now))

		slog.Info("ws handler connected", slog.String("sessionId", session.ID()), slog.String("ip", peerIP))
		logger.Infof("ws connected session=%s ip=%s", session.ID(), peerIP)
		return nil
	}
}

type selectRoomPayload struct {
	RoomID string `json:"roomId"`
}

type createQuestionPayload struct {
	Content string `json:"content"`
}

// newSessionCommandHandler drives session operations from websocket commands. Views
// reach the client through the hub, so successful commands send nothing directly.
func newSessionCommandHandler(session *usecase.Session) infrastructure.CommandHandler {
	return func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		session.Touch()
		switch cmd.Action {
		case "select_room":
			var payload selectRoomPayload
			if !decodePayload(client, cmd, &payload) {
				return
			}
			_ = session.SelectRoom(ctx, payload.RoomID)
		case "create_question":
			var payload createQuestionPayload
			if !decodePayload(client, cmd, &payload) {
				return
			}
			_ = session.CreateQuestion(ctx, payload.Content)
		case "create_room":
			var payload domain.RoomDraft
			if !decodePayload(client, cmd, &payload) {
				return
			}
			_ = session.CreateRoom(ctx, payload)
		case "toggle_create_room":
			session.ToggleCreateRoom(ctx)
		case "cancel_create_room":
			session.CancelCreateRoom(ctx)
		case "refresh":
			session.Refresh(ctx, "")
		default:
			slog.Debug("ws handler unknown action", slog.String("sessionId", session.ID()), slog.String("action", cmd.Action))
			sendCommandError(client, cmd.Action, "unsupported action")
		}
	}
}

func decodePayload(client *infrastructure.Client, cmd infrastructure.Command, target any) bool {
	if len(cmd.Payload) == 0 {
		return true
	}
	if err := json.Unmarshal(cmd.Payload, target); err != nil {
		slog.Warn("ws handler payload decode failed", slog.String("sessionId", client.SessionID()), slog.String("action", cmd.Action), slog.Any("error", err))
		sendCommandError(client, cmd.Action, "invalid payload")
		return false
	}
	return true
}

func sendCommandError(client *infrastructure.Client, action, reason string) {
	metadata := map[string]string{"action": action}
	if strings.TrimSpace(reason) != "" {
		metadata["reason"] = reason
	}
	client.SendMessage(&domain.Message{
		Topic:     topicSessionError,
		Entity:    "session",
		Action:    "error",
		SessionID: client.SessionID(),
		Metadata:  metadata,
		Data:      map[string]string{"error": reason},
		Timestamp: time.Now().UTC(),
	})
}
