package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "BOOKING_CREATED"
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationPaymentCaptured  NotificationType = "PAYMENT_CAPTURED"
	NotificationPaymentFailed    NotificationType = "PAYMENT_FAILED"
	NotificationPaymentRefunded  NotificationType = "PAYMENT_REFUNDED"
)

type NotificationStatus string

const (
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSending NotificationStatus = "SENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// EventEnvelope is the wire format published for every booking or payment
// lifecycle event. The consumer turns envelopes into emails.
type EventEnvelope struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"` // e.g. "booking.confirmed"
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func (e *EventEnvelope) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EmailNotification is the unit of work the email worker processes.
type EmailNotification struct {
	ID       uuid.UUID        `json:"id"`
	Type     NotificationType `json:"type"`

	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`

	Subject      string                 `json:"subject"`
	TemplateName string                 `json:"template_name"`
	TemplateData map[string]interface{} `json:"template_data"`

	BookingID *uuid.UUID `json:"booking_id,omitempty"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

func (n *EmailNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// GetPartitionKey routes all messages for one recipient to the same partition
// so their emails stay ordered.
func (n *EmailNotification) GetPartitionKey() string {
	if n.RecipientEmail != "" {
		return n.RecipientEmail
	}
	return n.ID.String()
}

func (n *EmailNotification) MarkSent() {
	now := time.Now()
	n.Status = NotificationStatusSent
	n.SentAt = &now
}

func (n *EmailNotification) MarkFailed(err error) {
	n.Status = NotificationStatusFailed
	msg := err.Error()
	n.LastError = &msg
}

// bookingEventPayload is the subset of the booking response the consumer needs
// to compose an email.
type bookingEventPayload struct {
	ID          string  `json:"id"`
	BookingRef  string  `json:"booking_ref"`
	TicketCount int     `json:"ticket_count"`
	TotalPrice  float64 `json:"total_price"`
	Status      string  `json:"status"`
}

// paymentEventPayload mirrors payments.PaymentResponse.
type paymentEventPayload struct {
	ID          string `json:"id"`
	BookingID   string `json:"booking_id"`
	AmountPaise int64  `json:"amount_paise"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
}
