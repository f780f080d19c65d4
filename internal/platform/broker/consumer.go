package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"askRoomWeb/internal/modules/rooms/domain"
)

// KafkaConsumer reads backend room events from a single topic.
type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID string, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

// Consume blocks until ctx is cancelled, handing every decoded message to handler.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(*domain.Message) error) error {
	defer c.reader.Close()
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}
		msg := decodeMessage(m.Topic, m.Value)
		slog.Info("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("entity", msg.Entity),
			slog.String("action", msg.Action),
			slog.String("resourceId", msg.ResourceID),
		)
		if err := handler(msg); err != nil {
			slog.Warn("kafka handler error", slog.Any("error", err))
		}
	}
}

type rawEvent struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	RoomID     string            `json:"roomId"`
	Metadata   map[string]string `json:"metadata"`
	Data       any               `json:"data"`
}

// decodeMessage keeps the broker topic as the routing key. Payloads that are not JSON
// events fall back to entity and action inferred from a "<entity>.<action>" topic.
func decodeMessage(topic string, value []byte) *domain.Message {
	msg := &domain.Message{Topic: topic, Timestamp: time.Now().UTC()}

	var event rawEvent
	if err := json.Unmarshal(value, &event); err != nil {
		entity, action := inferEntityActionFromTopic(topic)
		msg.Entity = entity
		msg.Action = action
		msg.Data = string(value)
		return msg
	}

	inferredEntity, inferredAction := inferEntityActionFromTopic(topic)
	msg.Entity = firstNonEmpty(event.Entity, inferredEntity)
	msg.Action = firstNonEmpty(event.Action, inferredAction)
	msg.ResourceID = strings.TrimSpace(event.ResourceID)
	msg.Metadata = event.Metadata
	msg.Data = event.Data
	if roomID := strings.TrimSpace(event.RoomID); roomID != "" {
		if msg.Metadata == nil {
			msg.Metadata = map[string]string{}
		}
		if _, ok := msg.Metadata["roomId"]; !ok {
			msg.Metadata["roomId"] = roomID
		}
	}
	return msg
}

func inferEntityActionFromTopic(topic string) (string, string) {
	parts := strings.Split(topic, ".")
	if len(parts) >= 2 {
		entity := strings.TrimSpace(parts[len(parts)-2])
		action := strings.TrimSpace(parts[len(parts)-1])
		if entity != "" && action != "" {
			return entity, action
		}
	}
	if entity := strings.TrimSpace(topic); entity != "" {
		return entity, "unknown"
	}
	return "", "unknown"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
