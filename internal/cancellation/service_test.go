package cancellation

import (
	"context"
	"testing"

	"dexotix/internal/bookings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCancellationRepo struct {
	items map[uuid.UUID]*Cancellation
}

func newFakeCancellationRepo() *fakeCancellationRepo {
	return &fakeCancellationRepo{items: make(map[uuid.UUID]*Cancellation)}
}

func (r *fakeCancellationRepo) Create(ctx context.Context, c *Cancellation) error {
	r.items[c.ID] = c
	return nil
}

func (r *fakeCancellationRepo) GetByID(ctx context.Context, id uuid.UUID) (*Cancellation, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCancellationRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error) {
	for _, c := range r.items {
		if c.BookingID == bookingID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCancellationRepo) GetPending(ctx context.Context) ([]Cancellation, error) {
	var out []Cancellation
	for _, c := range r.items {
		if c.Status == CancellationRequested {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCancellationRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]Cancellation, error) {
	var out []Cancellation
	for _, c := range r.items {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCancellationRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	c, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"]; ok {
		c.Status = status.(CancellationStatus)
	}
	if amount, ok := updates["refund_amount"]; ok {
		c.RefundAmount = amount.(float64)
	}
	return nil
}

type fakeWorkflowBookings struct {
	booking   *bookings.Booking
	cancelled []uuid.UUID
}

func (s *fakeWorkflowBookings) GetBookingRecord(ctx context.Context, bookingID uuid.UUID) (*bookings.Booking, error) {
	if s.booking == nil || s.booking.ID != bookingID {
		return nil, bookings.ErrBookingNotFound
	}
	return s.booking, nil
}

func (s *fakeWorkflowBookings) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) error {
	s.cancelled = append(s.cancelled, bookingID)
	return nil
}

type fakeRefunds struct {
	refunded []uuid.UUID
	amount   float64
}

func (s *fakeRefunds) RefundBooking(ctx context.Context, bookingID uuid.UUID) (float64, error) {
	s.refunded = append(s.refunded, bookingID)
	return s.amount, nil
}

func TestCancellationWorkflow(t *testing.T) {
	userID := uuid.New()
	adminID := uuid.New()
	bookingID := uuid.New()

	repo := newFakeCancellationRepo()
	bookingService := &fakeWorkflowBookings{booking: &bookings.Booking{
		ID:     bookingID,
		UserID: userID,
		Status: bookings.StatusConfirmed,
	}}
	refunds := &fakeRefunds{amount: 1100}
	svc := NewService(repo, bookingService, refunds)

	req, err := svc.RequestCancellation(context.Background(), userID, RequestCancellationRequest{
		BookingID: bookingID.String(),
		Reason:    "Can no longer attend",
	})
	require.NoError(t, err)
	assert.Equal(t, string(CancellationRequested), req.Status)

	// Duplicate requests for the same booking are rejected.
	_, err = svc.RequestCancellation(context.Background(), userID, RequestCancellationRequest{
		BookingID: bookingID.String(),
		Reason:    "Asking again",
	})
	assert.ErrorIs(t, err, ErrAlreadyRequested)

	approved, err := svc.ApproveCancellation(context.Background(), uuid.MustParse(req.ID), adminID, ProcessCancellationRequest{AdminNote: "ok"})
	require.NoError(t, err)
	assert.Equal(t, string(CancellationApproved), approved.Status)
	assert.Equal(t, 1100.0, approved.RefundAmount)
	assert.Equal(t, []uuid.UUID{bookingID}, refunds.refunded)
	assert.Equal(t, []uuid.UUID{bookingID}, bookingService.cancelled)

	// Processing twice fails.
	_, err = svc.ApproveCancellation(context.Background(), uuid.MustParse(req.ID), adminID, ProcessCancellationRequest{})
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestRequestCancellationRequiresConfirmedBooking(t *testing.T) {
	userID := uuid.New()
	bookingID := uuid.New()

	bookingService := &fakeWorkflowBookings{booking: &bookings.Booking{
		ID:     bookingID,
		UserID: userID,
		Status: bookings.StatusPending,
	}}
	svc := NewService(newFakeCancellationRepo(), bookingService, &fakeRefunds{})

	_, err := svc.RequestCancellation(context.Background(), userID, RequestCancellationRequest{
		BookingID: bookingID.String(),
		Reason:    "Changed my mind",
	})
	assert.ErrorIs(t, err, ErrNotRefundable)
}

func TestRequestCancellationOwnership(t *testing.T) {
	bookingID := uuid.New()

	bookingService := &fakeWorkflowBookings{booking: &bookings.Booking{
		ID:     bookingID,
		UserID: uuid.New(),
		Status: bookings.StatusConfirmed,
	}}
	svc := NewService(newFakeCancellationRepo(), bookingService, &fakeRefunds{})

	_, err := svc.RequestCancellation(context.Background(), uuid.New(), RequestCancellationRequest{
		BookingID: bookingID.String(),
		Reason:    "Not my booking",
	})
	assert.ErrorIs(t, err, bookings.ErrBookingNotOwned)
}

func TestRejectCancellationDoesNotRefund(t *testing.T) {
	userID := uuid.New()
	adminID := uuid.New()
	bookingID := uuid.New()

	repo := newFakeCancellationRepo()
	bookingService := &fakeWorkflowBookings{booking: &bookings.Booking{
		ID:     bookingID,
		UserID: userID,
		Status: bookings.StatusConfirmed,
	}}
	refunds := &fakeRefunds{amount: 1100}
	svc := NewService(repo, bookingService, refunds)

	req, err := svc.RequestCancellation(context.Background(), userID, RequestCancellationRequest{
		BookingID: bookingID.String(),
		Reason:    "Can no longer attend",
	})
	require.NoError(t, err)

	rejected, err := svc.RejectCancellation(context.Background(), uuid.MustParse(req.ID), adminID, ProcessCancellationRequest{AdminNote: "no-show policy"})
	require.NoError(t, err)
	assert.Equal(t, string(CancellationRejected), rejected.Status)
	assert.Empty(t, refunds.refunded)
	assert.Empty(t, bookingService.cancelled)
}
