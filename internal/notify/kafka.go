package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jewelcore/internal/config"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Event type keys carried on each message.
const (
	eventOrderConfirmed        = "order.confirmed"
	eventQuotationRejected     = "quotation.rejected"
	eventConfirmationRequested = "quotation.confirmation_requested"
)

const publishTimeout = 5 * time.Second

// kafkaNotifier publishes notification events to a Kafka topic.
type kafkaNotifier struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewKafkaNotifier creates a Kafka-backed notifier.
func NewKafkaNotifier(cfg config.KafkaConfig, logger zerolog.Logger) Notifier {
	return &kafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
		logger: logger.With().Str("component", "kafka-notifier").Logger(),
	}
}

func (n *kafkaNotifier) publish(ctx context.Context, eventType, key string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	n.logger.Debug().Str("event_type", eventType).Str("key", key).Msg("notification published")

	return nil
}

func (n *kafkaNotifier) OrderConfirmed(ctx context.Context, ev OrderConfirmedEvent) error {
	return n.publish(ctx, eventOrderConfirmed, ev.OrderID.String(), ev)
}

func (n *kafkaNotifier) QuotationRejected(ctx context.Context, ev QuotationRejectedEvent) error {
	return n.publish(ctx, eventQuotationRejected, ev.GroupID.String(), ev)
}

func (n *kafkaNotifier) ConfirmationRequested(ctx context.Context, ev ConfirmationRequestedEvent) error {
	return n.publish(ctx, eventConfirmationRequested, ev.GroupID.String(), ev)
}

func (n *kafkaNotifier) Close() error {
	return n.writer.Close()
}
