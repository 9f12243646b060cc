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

// BookingRecipient is what the composer needs to address an email.
type BookingRecipient struct {
	Email      string
	Name       string
	BookingRef string
}

// RecipientResolver looks up the user behind a booking. Implemented in the
// server wiring over the bookings and users tables.
type RecipientResolver interface {
	ResolveBooking(ctx context.Context, bookingID uuid.UUID) (*BookingRecipient, error)
}

type Consumer interface {
	Start(ctx context.Context, numWorkers int) error
	Stop() error
}

type kafkaConsumer struct {
	group        sarama.ConsumerGroup
	dlq          sarama.SyncProducer
	cfg          config.KafkaConfig
	emailService EmailService
	resolver     RecipientResolver
	topics       []string
	cancel       context.CancelFunc

	maxRetries int
	backoff    time.Duration
}

func NewKafkaConsumer(cfg config.KafkaConfig, emailService EmailService, resolver RecipientResolver) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.MaxProcessingTime = 5 * time.Minute
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	// A small dedicated producer for the dead-letter topic.
	dlqConfig := sarama.NewConfig()
	dlqConfig.Producer.Return.Successes = true
	dlqConfig.Producer.RequiredAcks = sarama.WaitForAll
	dlq, err := sarama.NewSyncProducer(cfg.Brokers, dlqConfig)
	if err != nil {
		group.Close()
		return nil, fmt.Errorf("failed to create DLQ producer: %w", err)
	}

	return &kafkaConsumer{
		group:        group,
		dlq:          dlq,
		cfg:          cfg,
		emailService: emailService,
		resolver:     resolver,
		topics:       []string{cfg.NotificationTopic, cfg.PaymentTopic},
		maxRetries:   3,
		backoff:      time.Second,
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context, numWorkers int) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.group.Errors() {
			logger.GetDefault().Error("Consumer group error", "error", err.Error())
		}
	}()

	for i := 0; i < numWorkers; i++ {
		go c.runWorker(ctx, i)
	}

	logger.GetDefault().Info("Notification consumers started",
		"workers", fmt.Sprintf("%d", numWorkers), "topics", fmt.Sprintf("%v", c.topics))
	return nil
}

func (c *kafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &envelopeHandler{consumer: c, workerID: workerID}
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.group.Consume(ctx, c.topics, handler); err != nil {
				logger.GetDefault().Error("Consumer worker error",
					"worker", fmt.Sprintf("%d", workerID), "error", err.Error())
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *kafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return c.dlq.Close()
}

type envelopeHandler struct {
	consumer *kafkaConsumer
	workerID int
}

func (h *envelopeHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *envelopeHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *envelopeHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				logger.GetDefault().Error("Failed to process event, sending to DLQ",
					"worker", fmt.Sprintf("%d", h.workerID), "error", err.Error())
				h.consumer.sendToDLQ(message, err)
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *envelopeHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var envelope EventEnvelope
	if err := json.Unmarshal(message.Value, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	notification, err := h.consumer.composeEmail(ctx, &envelope)
	if err != nil {
		return err
	}
	if notification == nil {
		// Event type carries no email.
		return nil
	}

	return h.sendWithRetry(ctx, notification)
}

func (h *envelopeHandler) sendWithRetry(ctx context.Context, notification *EmailNotification) error {
	maxRetries := h.consumer.maxRetries
	backoff := h.consumer.backoff

	notification.Status = NotificationStatusSending
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := h.consumer.emailService.SendNotification(ctx, notification)
		if err == nil {
			notification.MarkSent()
			return nil
		}

		notification.RetryCount = attempt + 1
		if attempt == maxRetries {
			notification.MarkFailed(err)
			return err
		}

		delay := backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// composeEmail maps an event envelope onto a templated email, or nil when the
// event type is not user-facing.
func (c *kafkaConsumer) composeEmail(ctx context.Context, envelope *EventEnvelope) (*EmailNotification, error) {
	switch envelope.Type {
	case "booking.confirmed":
		var payload bookingEventPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode booking payload: %w", err)
		}
		return c.bookingEmail(ctx, payload, NotificationBookingConfirmed,
			"Your Dexotix booking is confirmed", TemplateBookingConfirmed)

	case "booking.cancelled":
		var payload bookingEventPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode booking payload: %w", err)
		}
		return c.bookingEmail(ctx, payload, NotificationBookingCancelled,
			"Your Dexotix booking was cancelled", TemplateBookingCancelled)

	case "payment.failed", "payment.refunded":
		var payload paymentEventPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode payment payload: %w", err)
		}
		return c.paymentEmail(ctx, envelope.Type, payload)

	default:
		// booking.created and payment.captured are folded into the
		// confirmation email; other types are audit-only.
		return nil, nil
	}
}

func (c *kafkaConsumer) bookingEmail(ctx context.Context, payload bookingEventPayload, notifType NotificationType, subject, templateName string) (*EmailNotification, error) {
	bookingID, err := uuid.Parse(payload.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID in payload: %w", err)
	}

	recipient, err := c.resolver.ResolveBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}

	return &EmailNotification{
		ID:             uuid.New(),
		Type:           notifType,
		RecipientEmail: recipient.Email,
		RecipientName:  recipient.Name,
		Subject:        subject,
		TemplateName:   templateName,
		TemplateData: map[string]interface{}{
			"BookingRef":  recipient.BookingRef,
			"TicketCount": payload.TicketCount,
			"TotalPrice":  payload.TotalPrice,
		},
		BookingID: &bookingID,
		Status:    NotificationStatusQueued,
		CreatedAt: time.Now(),
	}, nil
}

func (c *kafkaConsumer) paymentEmail(ctx context.Context, eventType string, payload paymentEventPayload) (*EmailNotification, error) {
	bookingID, err := uuid.Parse(payload.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID in payload: %w", err)
	}

	recipient, err := c.resolver.ResolveBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}

	notifType := NotificationPaymentFailed
	subject := "Your Dexotix payment failed"
	templateName := TemplatePaymentFailed
	if eventType == "payment.refunded" {
		notifType = NotificationPaymentRefunded
		subject = "Your Dexotix refund is on its way"
		templateName = TemplatePaymentRefunded
	}

	return &EmailNotification{
		ID:             uuid.New(),
		Type:           notifType,
		RecipientEmail: recipient.Email,
		RecipientName:  recipient.Name,
		Subject:        subject,
		TemplateName:   templateName,
		TemplateData: map[string]interface{}{
			"BookingID": recipient.BookingRef,
			"Amount":    float64(payload.AmountPaise) / 100,
		},
		BookingID: &bookingID,
		Status:    NotificationStatusQueued,
		CreatedAt: time.Now(),
	}, nil
}

func (c *kafkaConsumer) sendToDLQ(message *sarama.ConsumerMessage, cause error) {
	dlqMessage := &sarama.ProducerMessage{
		Topic: c.cfg.DeadLetterTopic,
		Key:   sarama.ByteEncoder(message.Key),
		Value: sarama.ByteEncoder(message.Value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("origin_topic"), Value: []byte(message.Topic)},
			{Key: []byte("error"), Value: []byte(cause.Error())},
		},
	}
	if _, _, err := c.dlq.SendMessage(dlqMessage); err != nil {
		logger.GetDefault().Error("Failed to publish to dead-letter topic",
			"topic", c.cfg.DeadLetterTopic, "error", err.Error())
	}
}
