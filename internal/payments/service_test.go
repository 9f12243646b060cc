package payments

import (
	"context"
	"encoding/json"
	"testing"

	"dexotix/internal/bookings"
	"dexotix/internal/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakePaymentRepo struct {
	payments map[uuid.UUID]*Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*Payment)}
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *Payment) error {
	r.payments[payment.ID] = payment
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *payment
	return &copied, nil
}

func (r *fakePaymentRepo) GetByOrderID(ctx context.Context, orderID string) (*Payment, error) {
	for _, p := range r.payments {
		if p.GatewayOrderID == orderID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) GetActiveByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	for _, p := range r.payments {
		if p.BookingID == bookingID && (p.Status == PaymentCreated || p.Status == PaymentPaid) {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) GetPaidByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	for _, p := range r.payments {
		if p.BookingID == bookingID && p.Status == PaymentPaid {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	payment, ok := r.payments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"]; ok {
		payment.Status = status.(PaymentStatus)
	}
	if pid, ok := updates["gateway_payment_id"]; ok {
		payment.GatewayPaymentID = pid.(string)
	}
	if rid, ok := updates["gateway_refund_id"]; ok {
		payment.GatewayRefundID = rid.(string)
	}
	if reason, ok := updates["failure_reason"]; ok {
		payment.FailureReason = reason.(string)
	}
	return nil
}

type fakeBookingService struct {
	booking    *bookings.Booking
	reconciled pricing.ReconciledTotal
	confirmed  []uuid.UUID
}

func (s *fakeBookingService) GetBookingRecord(ctx context.Context, bookingID uuid.UUID) (*bookings.Booking, error) {
	if s.booking == nil || s.booking.ID != bookingID {
		return nil, bookings.ErrBookingNotFound
	}
	return s.booking, nil
}

func (s *fakeBookingService) ReconcileStored(ctx context.Context, bookingID uuid.UUID) (pricing.ReconciledTotal, error) {
	return s.reconciled, nil
}

func (s *fakeBookingService) MarkConfirmed(ctx context.Context, bookingID uuid.UUID) error {
	s.confirmed = append(s.confirmed, bookingID)
	return nil
}

type paymentFixture struct {
	repo           *fakePaymentRepo
	bookingService *fakeBookingService
	service        Service

	userID    uuid.UUID
	bookingID uuid.UUID
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	f := &paymentFixture{
		repo:      newFakePaymentRepo(),
		userID:    uuid.New(),
		bookingID: uuid.New(),
	}
	f.bookingService = &fakeBookingService{
		booking: &bookings.Booking{
			ID:             f.bookingID,
			UserID:         f.userID,
			TicketCount:    2,
			BasePrice:      1000,
			ConvenienceFee: 100,
			TotalPrice:     1100,
			Status:         bookings.StatusPending,
			BookingRef:     "DTX-20260829-ABCDEF",
		},
		reconciled: pricing.ReconciledTotal{
			TicketCount:    2,
			BasePrice:      1000,
			ConvenienceFee: 100,
			TotalPrice:     1100,
		},
	}
	cfg := testGatewayConfig()
	f.service = NewService(f.repo, f.bookingService, NewGateway(cfg), nil, nil, cfg)
	return f
}

func TestCreateOrder(t *testing.T) {
	f := newPaymentFixture(t)

	order, err := f.service.CreateOrder(context.Background(), f.userID, CreateOrderRequest{BookingID: f.bookingID.String()})
	require.NoError(t, err)

	assert.Equal(t, int64(110000), order.AmountPaise)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_test_key", order.KeyID)
	assert.Equal(t, "DTX-20260829-ABCDEF", order.BookingRef)
	assert.NotEmpty(t, order.OrderID)
}

func TestCreateOrderReusesOpenOrder(t *testing.T) {
	f := newPaymentFixture(t)

	first, err := f.service.CreateOrder(context.Background(), f.userID, CreateOrderRequest{BookingID: f.bookingID.String()})
	require.NoError(t, err)

	second, err := f.service.CreateOrder(context.Background(), f.userID, CreateOrderRequest{BookingID: f.bookingID.String()})
	require.NoError(t, err)

	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Len(t, f.repo.payments, 1)
}

func TestCreateOrderRejectsMismatchedTotal(t *testing.T) {
	f := newPaymentFixture(t)
	// Simulate tampered line items: re-reconciliation disagrees with the
	// stored booking total.
	f.bookingService.reconciled.TotalPrice = 550

	_, err := f.service.CreateOrder(context.Background(), f.userID, CreateOrderRequest{BookingID: f.bookingID.String()})
	assert.ErrorIs(t, err, ErrPriceMismatch)
	assert.Empty(t, f.repo.payments)
}

func TestCreateOrderOwnership(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.service.CreateOrder(context.Background(), uuid.New(), CreateOrderRequest{BookingID: f.bookingID.String()})
	assert.ErrorIs(t, err, ErrPaymentNotOwned)
}

func TestCreateOrderRequiresPendingBooking(t *testing.T) {
	f := newPaymentFixture(t)
	f.bookingService.booking.Status = bookings.StatusConfirmed

	_, err := f.service.CreateOrder(context.Background(), f.userID, CreateOrderRequest{BookingID: f.bookingID.String()})
	assert.ErrorIs(t, err, ErrBookingNotPayable)
}

func TestVerifyPaymentConfirmsBooking(t *testing.T) {
	f := newPaymentFixture(t)

	order, err := f.service.CreateOrder(context.Background(), f.userID, CreateOrderRequest{BookingID: f.bookingID.String()})
	require.NoError(t, err)

	signature := signPayload("secret", []byte(order.OrderID+"|pay_001"))
	resp, err := f.service.VerifyPayment(context.Background(), f.userID, VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_001",
		Signature: signature,
	})
	require.NoError(t, err)

	assert.Equal(t, string(PaymentPaid), resp.Status)
	assert.Equal(t, []uuid.UUID{f.bookingID}, f.bookingService.confirmed)
}

func TestVerifyPaymentBadSignature(t *testing.T) {
	f := newPaymentFixture(t)

	order, err := f.service.CreateOrder(context.Background(), f.userID, CreateOrderRequest{BookingID: f.bookingID.String()})
	require.NoError(t, err)

	_, err = f.service.VerifyPayment(context.Background(), f.userID, VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_001",
		Signature: "forged",
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, f.bookingService.confirmed)

	paymentID := uuid.MustParse(order.PaymentID)
	assert.Equal(t, PaymentFailed, f.repo.payments[paymentID].Status)
}

func TestWebhookCapture(t *testing.T) {
	f := newPaymentFixture(t)

	order, err := f.service.CreateOrder(context.Background(), f.userID, CreateOrderRequest{BookingID: f.bookingID.String()})
	require.NoError(t, err)

	body, err := json.Marshal(map[string]interface{}{
		"event": "payment.captured",
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":       "pay_wh_001",
					"order_id": order.OrderID,
					"status":   "captured",
				},
			},
		},
	})
	require.NoError(t, err)

	signature := signPayload("whsecret", body)
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, signature))

	paymentID := uuid.MustParse(order.PaymentID)
	assert.Equal(t, PaymentPaid, f.repo.payments[paymentID].Status)
	assert.Equal(t, []uuid.UUID{f.bookingID}, f.bookingService.confirmed)

	// Redelivery of the same webhook stays idempotent.
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, signature))
	assert.Equal(t, PaymentPaid, f.repo.payments[paymentID].Status)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newPaymentFixture(t)

	err := f.service.HandleWebhook(context.Background(), []byte(`{"event":"payment.captured"}`), "forged")
	assert.ErrorIs(t, err, ErrWebhookUnverified)
}

func TestRefundBooking(t *testing.T) {
	f := newPaymentFixture(t)

	order, err := f.service.CreateOrder(context.Background(), f.userID, CreateOrderRequest{BookingID: f.bookingID.String()})
	require.NoError(t, err)

	signature := signPayload("secret", []byte(order.OrderID+"|pay_001"))
	_, err = f.service.VerifyPayment(context.Background(), f.userID, VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_001",
		Signature: signature,
	})
	require.NoError(t, err)

	amount, err := f.service.RefundBooking(context.Background(), f.bookingID)
	require.NoError(t, err)
	assert.Equal(t, 1100.0, amount)

	paymentID := uuid.MustParse(order.PaymentID)
	assert.Equal(t, PaymentRefunded, f.repo.payments[paymentID].Status)
}

func TestRefundWithoutCapturedPayment(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.service.RefundBooking(context.Background(), f.bookingID)
	assert.ErrorIs(t, err, ErrNoRefundablePaid)
}
