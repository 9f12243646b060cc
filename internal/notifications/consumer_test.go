package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	recipient *BookingRecipient
	lookups   int
}

func (r *fakeResolver) ResolveBooking(ctx context.Context, bookingID uuid.UUID) (*BookingRecipient, error) {
	r.lookups++
	return r.recipient, nil
}

func newTestEnvelope(t *testing.T, eventType string, payload interface{}) *EventEnvelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return &EventEnvelope{
		ID:         uuid.New(),
		Type:       eventType,
		Payload:    raw,
		OccurredAt: time.Now(),
	}
}

func TestComposeEmailBookingConfirmed(t *testing.T) {
	bookingID := uuid.New()
	resolver := &fakeResolver{recipient: &BookingRecipient{
		Email:      "asha.verma@example.com",
		Name:       "Asha Verma",
		BookingRef: "DTX-20260829-ABCDEF",
	}}
	consumer := &kafkaConsumer{resolver: resolver}

	envelope := newTestEnvelope(t, "booking.confirmed", bookingEventPayload{
		ID:          bookingID.String(),
		BookingRef:  "DTX-20260829-ABCDEF",
		TicketCount: 3,
		TotalPrice:  2090,
		Status:      "CONFIRMED",
	})

	notification, err := consumer.composeEmail(context.Background(), envelope)
	require.NoError(t, err)
	require.NotNil(t, notification)

	assert.Equal(t, NotificationBookingConfirmed, notification.Type)
	assert.Equal(t, TemplateBookingConfirmed, notification.TemplateName)
	assert.Equal(t, "asha.verma@example.com", notification.RecipientEmail)
	assert.Equal(t, "DTX-20260829-ABCDEF", notification.TemplateData["BookingRef"])
	assert.Equal(t, 3, notification.TemplateData["TicketCount"])
	require.NotNil(t, notification.BookingID)
	assert.Equal(t, bookingID, *notification.BookingID)
	assert.Equal(t, NotificationStatusQueued, notification.Status)
}

func TestComposeEmailPaymentRefunded(t *testing.T) {
	bookingID := uuid.New()
	resolver := &fakeResolver{recipient: &BookingRecipient{
		Email:      "rohan.iyer@example.com",
		Name:       "Rohan Iyer",
		BookingRef: "DTX-20260829-XYZ123",
	}}
	consumer := &kafkaConsumer{resolver: resolver}

	envelope := newTestEnvelope(t, "payment.refunded", paymentEventPayload{
		ID:          uuid.New().String(),
		BookingID:   bookingID.String(),
		AmountPaise: 110000,
		Currency:    "INR",
		Status:      "REFUNDED",
	})

	notification, err := consumer.composeEmail(context.Background(), envelope)
	require.NoError(t, err)
	require.NotNil(t, notification)

	assert.Equal(t, NotificationPaymentRefunded, notification.Type)
	assert.Equal(t, TemplatePaymentRefunded, notification.TemplateName)
	assert.Equal(t, 1100.0, notification.TemplateData["Amount"])
	assert.Equal(t, "DTX-20260829-XYZ123", notification.TemplateData["BookingID"])
}

func TestComposeEmailSkipsAuditOnlyEvents(t *testing.T) {
	resolver := &fakeResolver{}
	consumer := &kafkaConsumer{resolver: resolver}

	for _, eventType := range []string{"booking.created", "payment.captured", "something.else"} {
		envelope := newTestEnvelope(t, eventType, bookingEventPayload{ID: uuid.New().String()})
		notification, err := consumer.composeEmail(context.Background(), envelope)
		require.NoError(t, err)
		assert.Nil(t, notification, "event type %s should not produce an email", eventType)
	}
	assert.Zero(t, resolver.lookups)
}

func TestComposeEmailRejectsMalformedBookingID(t *testing.T) {
	consumer := &kafkaConsumer{resolver: &fakeResolver{}}

	envelope := newTestEnvelope(t, "booking.confirmed", bookingEventPayload{ID: "not-a-uuid"})
	notification, err := consumer.composeEmail(context.Background(), envelope)
	assert.Error(t, err)
	assert.Nil(t, notification)
}
