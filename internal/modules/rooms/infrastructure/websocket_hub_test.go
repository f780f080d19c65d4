package infrastructure

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"askRoomWeb/internal/modules/rooms/domain"
)

func receive(t *testing.T, c *Client) *domain.Message {
	t.Helper()
	select {
	case data, ok := <-c.Messages():
		if !ok {
			t.Fatalf("client channel closed")
		}
		var msg domain.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		return &msg
	case <-time.After(time.Second):
		t.Fatalf("no message received")
	}
	return nil
}

func TestHubPublish_RoutesBySession(t *testing.T) {
	hub := NewHub()
	alice := NewClient(hub, nil, "alice", 4, nil)
	bob := NewClient(hub, nil, "bob", 4, nil)
	hub.AttachClient(alice)
	hub.AttachClient(bob)

	hub.Publish(context.Background(), domain.NewViewMessage(domain.View{SessionID: "alice"}, time.Now()))

	msg := receive(t, alice)
	if msg.Topic != domain.TopicSessionView || msg.SessionID != "alice" {
		t.Fatalf("unexpected message %+v", msg)
	}
	select {
	case <-bob.Messages():
		t.Fatalf("bob must not receive alice's view")
	default:
	}
}

func TestHubPublish_UnboundMessageReachesEveryone(t *testing.T) {
	hub := NewHub()
	a := NewClient(hub, nil, "a", 4, nil)
	b := NewClient(hub, nil, "b", 4, nil)
	hub.AttachClient(a)
	hub.AttachClient(b)

	hub.Publish(context.Background(), &domain.Message{Topic: "system.notice"})

	receive(t, a)
	receive(t, b)
}

func TestHubPublish_DetachesSlowClients(t *testing.T) {
	hub := NewHub()
	slow := NewClient(hub, nil, "s", 1, nil)
	hub.AttachClient(slow)

	msg := &domain.Message{Topic: domain.TopicSessionView, SessionID: "s"}
	hub.Publish(context.Background(), msg)
	hub.Publish(context.Background(), msg)

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount("s") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected slow client to be detached")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCommandProcessor_PingAndFallback(t *testing.T) {
	hub := NewHub()
	var (
		mu     sync.Mutex
		seen   []string
		called = make(chan struct{}, 1)
	)
	client := NewClient(hub, nil, "s", 4, func(_ context.Context, _ *Client, cmd Command) {
		mu.Lock()
		seen = append(seen, cmd.Action)
		mu.Unlock()
		called <- struct{}{}
	})

	client.commands.Process(client, Command{Action: " PING "})
	if msg := receive(t, client); msg.Topic != "system.pong" {
		t.Fatalf("expected pong, got %s", msg.Topic)
	}

	client.commands.Process(client, Command{Action: "Select-Room"})
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatalf("fallback not invoked")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != "select_room" {
		t.Fatalf("unexpected fallback actions %v", seen)
	}
}

type stubTopicHandler struct {
	topic string
	got   []*domain.Message
}

func (s *stubTopicHandler) Topic() string { return s.topic }

func (s *stubTopicHandler) Handle(_ context.Context, msg *domain.Message) error {
	s.got = append(s.got, msg)
	return nil
}

func TestHandlerRegistryDispatch(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &stubTopicHandler{topic: "rooms.events"}
	registry.Register(handler)

	if err := registry.Dispatch(context.Background(), &domain.Message{Topic: "rooms.events"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := registry.Dispatch(context.Background(), &domain.Message{Topic: "other"}); err != nil {
		t.Fatalf("dispatch unknown: %v", err)
	}
	if len(handler.got) != 1 {
		t.Fatalf("expected 1 dispatched message, got %d", len(handler.got))
	}
	if topics := registry.Topics(); len(topics) != 1 || topics[0] != "rooms.events" {
		t.Fatalf("unexpected topics %v", topics)
	}
}
