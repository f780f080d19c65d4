package broker

import (
	"context"
	"testing"
)

func TestDecodeMessage_JSONEvent(t *testing.T) {
	msg := decodeMessage("askroom.events", []byte(`{"entity":"questions","action":"answered","resourceId":"q1","roomId":"r1"}`))

	if msg.Topic != "askroom.events" {
		t.Fatalf("expected broker topic to be kept, got %s", msg.Topic)
	}
	if msg.Entity != "questions" || msg.Action != "answered" || msg.ResourceID != "q1" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if got := msg.RoomID(); got != "r1" {
		t.Fatalf("expected room r1, got %q", got)
	}
}

func TestDecodeMessage_MetadataRoomWins(t *testing.T) {
	msg := decodeMessage("t", []byte(`{"entity":"answers","action":"created","roomId":"r1","metadata":{"roomId":"r2"}}`))
	if got := msg.RoomID(); got != "r2" {
		t.Fatalf("expected metadata room r2, got %q", got)
	}
}

func TestDecodeMessage_NonJSONInfersFromTopic(t *testing.T) {
	msg := decodeMessage("backend.rooms.created", []byte("r7"))
	if msg.Entity != "rooms" || msg.Action != "created" {
		t.Fatalf("unexpected inference %+v", msg)
	}
	if msg.Data != "r7" {
		t.Fatalf("expected raw payload as data, got %v", msg.Data)
	}
}

func TestDecodeMessage_JSONWithoutEntityUsesTopic(t *testing.T) {
	msg := decodeMessage("rooms.created", []byte(`{"resourceId":"r3"}`))
	if msg.Entity != "rooms" || msg.Action != "created" {
		t.Fatalf("unexpected inference %+v", msg)
	}
	if got := msg.RoomID(); got != "r3" {
		t.Fatalf("expected r3, got %q", got)
	}
}

func TestStartKafkaConsumers_DisabledWithoutBrokers(t *testing.T) {
	if n := StartKafkaConsumers(context.Background(), nil, nil, "g", []string{"a"}); n != 0 {
		t.Fatalf("expected no consumers, got %d", n)
	}
	if n := StartKafkaConsumers(context.Background(), nil, []string{"localhost:9092"}, "g", nil); n != 0 {
		t.Fatalf("expected no consumers, got %d", n)
	}
}
