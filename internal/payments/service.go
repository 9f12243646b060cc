package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"dexotix/internal/bookings"
	"dexotix/internal/pricing"
	"dexotix/internal/shared/config"
	"dexotix/pkg/logger"
	"dexotix/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrPaymentNotOwned    = errors.New("payment belongs to another user")
	ErrBookingNotPayable  = errors.New("booking is not awaiting payment")
	ErrPriceMismatch      = errors.New("reconciled total does not match the stored booking total")
	ErrInvalidSignature   = errors.New("payment signature verification failed")
	ErrNoRefundablePaid   = errors.New("booking has no captured payment to refund")
	ErrWebhookUnverified  = errors.New("webhook signature verification failed")
	ErrUnknownWebhookType = errors.New("unhandled webhook event type")
)

// BookingService is the slice of the bookings service payments drives.
type BookingService interface {
	GetBookingRecord(ctx context.Context, bookingID uuid.UUID) (*bookings.Booking, error)
	ReconcileStored(ctx context.Context, bookingID uuid.UUID) (pricing.ReconciledTotal, error)
	MarkConfirmed(ctx context.Context, bookingID uuid.UUID) error
}

// EventPublisher publishes payment lifecycle events for async consumers.
type EventPublisher interface {
	PublishPaymentEvent(ctx context.Context, eventType string, payload interface{}) error
}

type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, userID uuid.UUID, req VerifyPaymentRequest) (*PaymentResponse, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	GetPayment(ctx context.Context, paymentID, userID uuid.UUID, isAdmin bool) (*PaymentResponse, error)

	// RefundBooking refunds the captured payment for a booking and returns the
	// refunded amount in rupees. Used by the cancellation workflow.
	RefundBooking(ctx context.Context, bookingID uuid.UUID) (float64, error)
}

type service struct {
	repo      Repository
	bookings  BookingService
	gateway   Gateway
	publisher EventPublisher
	metrics   *metrics.Metrics
	cfg       config.PaymentConfig
}

func NewService(repo Repository, bookingService BookingService, gateway Gateway, publisher EventPublisher, m *metrics.Metrics, cfg config.PaymentConfig) Service {
	return &service{
		repo:      repo,
		bookings:  bookingService,
		gateway:   gateway,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
	}
}

// priceTolerance absorbs float representation noise when comparing the
// re-reconciled total against the stored one.
const priceTolerance = 0.005

func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*CreateOrderResponse, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}

	booking, err := s.bookings.GetBookingRecord(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrPaymentNotOwned
	}
	if booking.Status != bookings.StatusPending {
		return nil, ErrBookingNotPayable
	}

	// The reconciler is deterministic and idempotent, so re-running it over the
	// stored lines must reproduce the totals persisted at checkout. A mismatch
	// means the rows were tampered with between checkout and payment.
	total, err := s.bookings.ReconcileStored(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("reconciliation failed: %w", err)
	}
	if math.Abs(total.TotalPrice-booking.TotalPrice) > priceTolerance || total.TicketCount != booking.TicketCount {
		if s.metrics != nil {
			s.metrics.PriceMismatches.Inc()
		}
		logger.GetDefault().Error("Booking total mismatch at payment time",
			"booking_id", bookingID.String(),
			"stored_total", fmt.Sprintf("%.2f", booking.TotalPrice),
			"reconciled_total", fmt.Sprintf("%.2f", total.TotalPrice))
		return nil, ErrPriceMismatch
	}

	amountPaise := int64(math.Round(total.TotalPrice * 100))

	// Reuse an open order instead of creating a duplicate at the gateway.
	if existing, err := s.repo.GetActiveByBookingID(ctx, bookingID); err == nil {
		if existing.Status == PaymentPaid {
			return nil, ErrBookingNotPayable
		}
		if existing.AmountPaise == amountPaise {
			return s.orderResponse(existing, booking.BookingRef), nil
		}
	}

	orderID, err := s.gateway.CreateOrder(ctx, amountPaise, s.cfg.Currency, booking.BookingRef)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	payment := &Payment{
		ID:             uuid.New(),
		BookingID:      bookingID,
		UserID:         userID,
		AmountPaise:    amountPaise,
		Currency:       s.cfg.Currency,
		Status:         PaymentCreated,
		Provider:       s.gateway.Provider(),
		GatewayOrderID: orderID,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to persist payment: %w", err)
	}

	logger.GetDefault().LogPaymentEvent(ctx, "order_created", payment.ID.String(), bookingID.String(), total.TotalPrice)
	return s.orderResponse(payment, booking.BookingRef), nil
}

func (s *service) orderResponse(payment *Payment, bookingRef string) *CreateOrderResponse {
	return &CreateOrderResponse{
		PaymentID:   payment.ID.String(),
		OrderID:     payment.GatewayOrderID,
		AmountPaise: payment.AmountPaise,
		Currency:    payment.Currency,
		KeyID:       s.cfg.KeyID,
		BookingRef:  bookingRef,
	}
}

func (s *service) VerifyPayment(ctx context.Context, userID uuid.UUID, req VerifyPaymentRequest) (*PaymentResponse, error) {
	payment, err := s.getByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, ErrPaymentNotOwned
	}

	if !s.gateway.VerifyPaymentSignature(req.OrderID, req.PaymentID, req.Signature) {
		if s.metrics != nil {
			s.metrics.PaymentsFailed.Inc()
		}
		_ = s.repo.Update(ctx, payment.ID, map[string]interface{}{
			"status":         PaymentFailed,
			"failure_reason": "signature verification failed",
		})
		return nil, ErrInvalidSignature
	}

	return s.capture(ctx, payment, req.PaymentID)
}

// capture marks the payment PAID and confirms the booking. Safe to call twice
// for the same payment; the second call is a no-op.
func (s *service) capture(ctx context.Context, payment *Payment, gatewayPaymentID string) (*PaymentResponse, error) {
	if payment.Status != PaymentPaid {
		if err := s.repo.Update(ctx, payment.ID, map[string]interface{}{
			"status":             PaymentPaid,
			"gateway_payment_id": gatewayPaymentID,
		}); err != nil {
			return nil, fmt.Errorf("failed to update payment: %w", err)
		}
		payment.Status = PaymentPaid
		payment.GatewayPaymentID = gatewayPaymentID
	}

	if err := s.bookings.MarkConfirmed(ctx, payment.BookingID); err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}

	if s.metrics != nil {
		s.metrics.PaymentsVerified.Inc()
	}
	logger.GetDefault().LogPaymentEvent(ctx, "payment_captured", payment.ID.String(), payment.BookingID.String(), float64(payment.AmountPaise)/100)
	s.publish(ctx, "payment.captured", payment)

	resp := payment.ToResponse()
	return &resp, nil
}

func (s *service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.gateway.VerifyWebhookSignature(body, signature) {
		return ErrWebhookUnverified
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	entity := event.Payload.Payment.Entity
	switch event.Event {
	case "payment.captured":
		payment, err := s.getByOrderID(ctx, entity.OrderID)
		if err != nil {
			return err
		}
		_, err = s.capture(ctx, payment, entity.ID)
		return err

	case "payment.failed":
		payment, err := s.getByOrderID(ctx, entity.OrderID)
		if err != nil {
			return err
		}
		if payment.Status == PaymentPaid {
			// A failure event racing a successful capture is ignored.
			return nil
		}
		if s.metrics != nil {
			s.metrics.PaymentsFailed.Inc()
		}
		s.publish(ctx, "payment.failed", payment)
		return s.repo.Update(ctx, payment.ID, map[string]interface{}{
			"status":             PaymentFailed,
			"gateway_payment_id": entity.ID,
			"failure_reason":     entity.ErrorDescription,
		})

	default:
		return ErrUnknownWebhookType
	}
}

func (s *service) RefundBooking(ctx context.Context, bookingID uuid.UUID) (float64, error) {
	payment, err := s.repo.GetPaidByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNoRefundablePaid
		}
		return 0, fmt.Errorf("failed to find payment: %w", err)
	}

	refundID, err := s.gateway.Refund(ctx, payment.GatewayPaymentID, payment.AmountPaise)
	if err != nil {
		return 0, fmt.Errorf("gateway refund failed: %w", err)
	}

	if err := s.repo.Update(ctx, payment.ID, map[string]interface{}{
		"status":            PaymentRefunded,
		"gateway_refund_id": refundID,
	}); err != nil {
		return 0, fmt.Errorf("failed to record refund: %w", err)
	}

	amount := float64(payment.AmountPaise) / 100
	logger.GetDefault().LogPaymentEvent(ctx, "payment_refunded", payment.ID.String(), bookingID.String(), amount)
	s.publish(ctx, "payment.refunded", payment)
	return amount, nil
}

func (s *service) GetPayment(ctx context.Context, paymentID, userID uuid.UUID, isAdmin bool) (*PaymentResponse, error) {
	payment, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if !isAdmin && payment.UserID != userID {
		return nil, ErrPaymentNotOwned
	}

	resp := payment.ToResponse()
	return &resp, nil
}

func (s *service) getByOrderID(ctx context.Context, orderID string) (*Payment, error) {
	payment, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return payment, nil
}

func (s *service) publish(ctx context.Context, eventType string, payment *Payment) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPaymentEvent(ctx, eventType, payment.ToResponse()); err != nil {
		logger.GetDefault().Warn("Failed to publish payment event",
			"type", eventType, "payment_id", payment.ID.String(), "error", err.Error())
	}
}
