package broker

import (
	"context"
	"log/slog"

	"askRoomWeb/internal/modules/rooms/domain"
)

// Dispatcher routes a consumed message to its topic handler.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg *domain.Message) error
}

// StartKafkaConsumers launches one consumer per topic. Without brokers it does nothing,
// so the UI still works against a backend that publishes no events.
func StartKafkaConsumers(
	ctx context.Context,
	dispatcher Dispatcher,
	brokers []string,
	groupID string,
	topics []string,
) int {
	if len(brokers) == 0 || len(topics) == 0 {
		slog.Info("kafka consumers disabled", slog.Int("brokers", len(brokers)), slog.Int("topics", len(topics)))
		return 0
	}
	for _, topic := range topics {
		go func(tp string) {
			consumer := NewKafkaConsumer(brokers, groupID, tp)
			err := consumer.Consume(ctx, func(msg *domain.Message) error {
				return dispatcher.Dispatch(ctx, msg)
			})
			slog.Info("kafka consumer stopped", slog.String("topic", tp), slog.Any("reason", err))
		}(topic)
	}
	return len(topics)
}
