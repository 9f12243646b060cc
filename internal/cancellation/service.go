package cancellation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dexotix/internal/bookings"
	"dexotix/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCancellationNotFound = errors.New("cancellation request not found")
	ErrAlreadyRequested     = errors.New("a cancellation request already exists for this booking")
	ErrAlreadyProcessed     = errors.New("cancellation request has already been processed")
	ErrNotRefundable        = errors.New("only confirmed bookings need a refund request")
)

// BookingService is the slice of the bookings service the workflow drives.
type BookingService interface {
	GetBookingRecord(ctx context.Context, bookingID uuid.UUID) (*bookings.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) error
}

// RefundService issues the gateway refund when a request is approved.
type RefundService interface {
	RefundBooking(ctx context.Context, bookingID uuid.UUID) (float64, error)
}

type Service interface {
	RequestCancellation(ctx context.Context, userID uuid.UUID, req RequestCancellationRequest) (*CancellationResponse, error)
	GetMyCancellations(ctx context.Context, userID uuid.UUID) ([]CancellationResponse, error)
	GetPendingCancellations(ctx context.Context) ([]CancellationResponse, error)
	ApproveCancellation(ctx context.Context, id, adminID uuid.UUID, req ProcessCancellationRequest) (*CancellationResponse, error)
	RejectCancellation(ctx context.Context, id, adminID uuid.UUID, req ProcessCancellationRequest) (*CancellationResponse, error)
}

type service struct {
	repo     Repository
	bookings BookingService
	refunds  RefundService
}

func NewService(repo Repository, bookingService BookingService, refunds RefundService) Service {
	return &service{
		repo:     repo,
		bookings: bookingService,
		refunds:  refunds,
	}
}

func (s *service) RequestCancellation(ctx context.Context, userID uuid.UUID, req RequestCancellationRequest) (*CancellationResponse, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}

	booking, err := s.bookings.GetBookingRecord(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, bookings.ErrBookingNotOwned
	}
	// Unpaid bookings are cancelled directly; the workflow exists for refunds.
	if booking.Status != bookings.StatusConfirmed {
		return nil, ErrNotRefundable
	}

	if _, err := s.repo.GetByBookingID(ctx, bookingID); err == nil {
		return nil, ErrAlreadyRequested
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing request: %w", err)
	}

	cancellation := &Cancellation{
		ID:        uuid.New(),
		BookingID: bookingID,
		UserID:    userID,
		Reason:    req.Reason,
		Status:    CancellationRequested,
	}
	if err := s.repo.Create(ctx, cancellation); err != nil {
		return nil, fmt.Errorf("failed to create cancellation request: %w", err)
	}

	resp := cancellation.ToResponse()
	return &resp, nil
}

func (s *service) GetMyCancellations(ctx context.Context, userID uuid.UUID) ([]CancellationResponse, error) {
	cancellations, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cancellation requests: %w", err)
	}
	return toResponses(cancellations), nil
}

func (s *service) GetPendingCancellations(ctx context.Context) ([]CancellationResponse, error) {
	cancellations, err := s.repo.GetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return toResponses(cancellations), nil
}

func (s *service) ApproveCancellation(ctx context.Context, id, adminID uuid.UUID, req ProcessCancellationRequest) (*CancellationResponse, error) {
	cancellation, err := s.getRequested(ctx, id)
	if err != nil {
		return nil, err
	}

	refundAmount, err := s.refunds.RefundBooking(ctx, cancellation.BookingID)
	if err != nil {
		return nil, fmt.Errorf("refund failed: %w", err)
	}

	if err := s.bookings.CancelBooking(ctx, cancellation.BookingID, adminID, true); err != nil {
		// The refund already went out; record the approval anyway and surface
		// the inconsistency loudly.
		logger.GetDefault().Error("Refund issued but booking cancellation failed",
			"booking_id", cancellation.BookingID.String(), "error", err.Error())
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":        CancellationApproved,
		"refund_amount": refundAmount,
		"admin_note":    req.AdminNote,
		"processed_by":  adminID,
		"processed_at":  now,
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update cancellation request: %w", err)
	}

	cancellation.Status = CancellationApproved
	cancellation.RefundAmount = refundAmount
	cancellation.AdminNote = req.AdminNote
	cancellation.ProcessedBy = &adminID
	cancellation.ProcessedAt = &now

	resp := cancellation.ToResponse()
	return &resp, nil
}

func (s *service) RejectCancellation(ctx context.Context, id, adminID uuid.UUID, req ProcessCancellationRequest) (*CancellationResponse, error) {
	cancellation, err := s.getRequested(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       CancellationRejected,
		"admin_note":   req.AdminNote,
		"processed_by": adminID,
		"processed_at": now,
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update cancellation request: %w", err)
	}

	cancellation.Status = CancellationRejected
	cancellation.AdminNote = req.AdminNote
	cancellation.ProcessedBy = &adminID
	cancellation.ProcessedAt = &now

	resp := cancellation.ToResponse()
	return &resp, nil
}

func (s *service) getRequested(ctx context.Context, id uuid.UUID) (*Cancellation, error) {
	cancellation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCancellationNotFound
		}
		return nil, fmt.Errorf("failed to get cancellation request: %w", err)
	}
	if cancellation.Status != CancellationRequested {
		return nil, ErrAlreadyProcessed
	}
	return cancellation, nil
}

func toResponses(cancellations []Cancellation) []CancellationResponse {
	responses := make([]CancellationResponse, 0, len(cancellations))
	for i := range cancellations {
		responses = append(responses, cancellations[i].ToResponse())
	}
	return responses
}
