package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dexotix/internal/shared/config"
	"dexotix/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// EventProducer publishes booking and payment lifecycle envelopes. It
// satisfies both the bookings and payments publisher interfaces.
type EventProducer interface {
	PublishBookingEvent(ctx context.Context, eventType string, payload interface{}) error
	PublishPaymentEvent(ctx context.Context, eventType string, payload interface{}) error
	Close() error
	HealthCheck(ctx context.Context) error
}

type kafkaEventProducer struct {
	producer sarama.SyncProducer
	cfg      config.KafkaConfig
}

// NewKafkaEventProducer creates a synchronous idempotent producer. Events are
// small and infrequent relative to Kafka's capacity, so sync sends keep the
// error handling simple.
func NewKafkaEventProducer(cfg config.KafkaConfig) (EventProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaEventProducer{producer: producer, cfg: cfg}, nil
}

func (p *kafkaEventProducer) PublishBookingEvent(ctx context.Context, eventType string, payload interface{}) error {
	return p.publish(p.cfg.NotificationTopic, eventType, payload)
}

func (p *kafkaEventProducer) PublishPaymentEvent(ctx context.Context, eventType string, payload interface{}) error {
	return p.publish(p.cfg.PaymentTopic, eventType, payload)
}

func (p *kafkaEventProducer) publish(topic, eventType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		ID:         uuid.New(),
		Type:       eventType,
		Payload:    raw,
		OccurredAt: time.Now(),
	}
	value, err := envelope.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(envelope.ID.String()),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
		},
		Timestamp: envelope.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send event to Kafka: %w", err)
	}

	logger.GetDefault().Debug("Event published",
		"topic", topic, "type", eventType, "partition", fmt.Sprintf("%d", partition), "offset", fmt.Sprintf("%d", offset))
	return nil
}

func (p *kafkaEventProducer) Close() error {
	return p.producer.Close()
}

func (p *kafkaEventProducer) HealthCheck(ctx context.Context) error {
	if p.producer == nil {
		return fmt.Errorf("producer not initialized")
	}
	return nil
}

// noopProducer is used when Kafka is disabled; events are logged and dropped.
type noopProducer struct{}

func NewNoopProducer() EventProducer {
	return &noopProducer{}
}

func (noopProducer) PublishBookingEvent(ctx context.Context, eventType string, payload interface{}) error {
	logger.GetDefault().Debug("Kafka disabled, dropping booking event", "type", eventType)
	return nil
}

func (noopProducer) PublishPaymentEvent(ctx context.Context, eventType string, payload interface{}) error {
	logger.GetDefault().Debug("Kafka disabled, dropping payment event", "type", eventType)
	return nil
}

func (noopProducer) Close() error                        { return nil }
func (noopProducer) HealthCheck(ctx context.Context) error { return nil }
