package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"dexotix/internal/events"
	"dexotix/internal/pricing"
	"dexotix/internal/seats"
	"dexotix/internal/venues"
	"dexotix/pkg/logger"
	"dexotix/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingNotOwned   = errors.New("booking belongs to another user")
	ErrEmptyBooking      = errors.New("booking has no tickets")
	ErrNotCancellable    = errors.New("booking cannot be cancelled in its current status")
	ErrUnknownCategory   = errors.New("unknown ticket category for this venue")
	ErrNoPricingPath     = errors.New("checkout requires tickets, a seat hold, or a fallback total")
	ErrOccurrenceClosed  = errors.New("occurrence is not open for booking")
	ErrHoldOccurrenceMix = errors.New("seat hold belongs to a different occurrence")
)

// SeatService is the slice of the seats service the checkout flow needs.
type SeatService interface {
	ValidateHold(ctx context.Context, holdID, userID string) (*seats.HoldValidationResult, error)
	HeldSeats(ctx context.Context, holdID string) (*seats.HoldDetails, []seats.HeldSeatInfo, error)
	ReleaseHold(ctx context.Context, holdID, userID string) error
}

// OccurrenceService is the slice of the events service the checkout flow needs.
type OccurrenceService interface {
	GetOccurrence(ctx context.Context, id uuid.UUID) (*events.EventOccurrence, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*events.EventResponse, error)
	ReserveOccurrenceCapacity(ctx context.Context, occurrenceID uuid.UUID, count int) error
	ReleaseOccurrenceCapacity(ctx context.Context, occurrenceID uuid.UUID, count int) error
}

// EventPublisher publishes booking lifecycle events for async consumers.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, payload interface{}) error
}

type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	GetAllBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) error

	// Hooks for the payment flow.
	MarkConfirmed(ctx context.Context, bookingID uuid.UUID) error
	ReconcileStored(ctx context.Context, bookingID uuid.UUID) (pricing.ReconciledTotal, error)
	GetBookingRecord(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
}

type service struct {
	repo        Repository
	seatService SeatService
	occurrences OccurrenceService
	venues      venues.Service
	publisher   EventPublisher
	metrics     *metrics.Metrics
	reconciler  *pricing.Reconciler
}

// fallbackObserver feeds quantity-default diagnostics into logs and metrics
// without touching reconciliation results.
type fallbackObserver struct {
	metrics *metrics.Metrics
}

func (o *fallbackObserver) QuantityDefaulted(path string, raw interface{}, resolved int) {
	logger.GetDefault().LogPricingFallback(context.Background(), path, raw, resolved)
	if o.metrics != nil {
		o.metrics.PricingFallbacks.WithLabelValues(path).Inc()
	}
}

func NewService(repo Repository, seatService SeatService, occurrences OccurrenceService, venueService venues.Service, publisher EventPublisher, m *metrics.Metrics) Service {
	return &service{
		repo:        repo,
		seatService: seatService,
		occurrences: occurrences,
		venues:      venueService,
		publisher:   publisher,
		metrics:     m,
		reconciler:  pricing.NewReconciler(&fallbackObserver{metrics: m}),
	}
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*BookingResponse, error) {
	occurrenceID, err := uuid.Parse(req.OccurrenceID)
	if err != nil {
		return nil, fmt.Errorf("invalid occurrence ID: %w", err)
	}

	occurrence, err := s.occurrences.GetOccurrence(ctx, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("occurrence lookup failed: %w", err)
	}
	if occurrence.Status != events.OccurrenceScheduled {
		return nil, ErrOccurrenceClosed
	}

	event, err := s.occurrences.GetEventByID(ctx, occurrence.EventID)
	if err != nil {
		return nil, fmt.Errorf("event lookup failed: %w", err)
	}

	var (
		tickets   []pricing.TicketSelection
		seatLines []pricing.SeatSelection
		fallback  pricing.FallbackTotal
		items     []BookingItem
		holdID    string
	)

	switch {
	case len(req.Tickets) > 0:
		tickets, err = s.repriceTickets(ctx, event, req.Tickets)
		if err != nil {
			return nil, err
		}

	case req.HoldID != "":
		holdID = req.HoldID
		seatLines, items, err = s.resolveHold(ctx, userID, holdID, occurrenceID)
		if err != nil {
			return nil, err
		}

	case req.Fallback != nil:
		fallback = *req.Fallback

	default:
		return nil, ErrNoPricingPath
	}

	total := s.reconciler.Reconcile(tickets, seatLines, fallback)
	if total.TicketCount == 0 {
		return nil, ErrEmptyBooking
	}

	// GA items are derived after reconciliation so stored quantities match
	// the normalized line quantities.
	if len(tickets) > 0 {
		for _, sel := range tickets {
			line := s.reconciler.PriceTicketSelection(sel)
			if line.Quantity == 0 {
				continue
			}
			items = append(items, BookingItem{
				ID:                 uuid.New(),
				OccurrenceID:       occurrenceID,
				CategoryName:       sel.CategoryName,
				Quantity:           line.Quantity,
				UnitBasePrice:      sel.BasePrice,
				UnitConvenienceFee: sel.ConvenienceFee,
				LineTotal:          line.LineTotal,
			})
		}
	}

	bookingRef, err := generateBookingReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	if err := s.occurrences.ReserveOccurrenceCapacity(ctx, occurrenceID, total.TicketCount); err != nil {
		return nil, fmt.Errorf("capacity reservation failed: %w", err)
	}

	booking := &Booking{
		ID:             uuid.New(),
		UserID:         userID,
		EventID:        occurrence.EventID,
		OccurrenceID:   occurrenceID,
		TicketCount:    total.TicketCount,
		BasePrice:      total.BasePrice,
		ConvenienceFee: total.ConvenienceFee,
		TotalPrice:     total.TotalPrice,
		Status:         StatusPending,
		BookingRef:     bookingRef,
		Items:          items,
	}
	for i := range booking.Items {
		booking.Items[i].BookingID = booking.ID
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if releaseErr := s.occurrences.ReleaseOccurrenceCapacity(ctx, occurrenceID, total.TicketCount); releaseErr != nil {
			logger.GetDefault().Error("Failed to release capacity after booking create failure",
				"occurrence_id", occurrenceID.String(), "error", releaseErr.Error())
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	// Seats are now protected by the PENDING booking rows; the Redis hold is
	// no longer needed.
	if holdID != "" {
		if err := s.seatService.ReleaseHold(ctx, holdID, userID.String()); err != nil {
			logger.GetDefault().Warn("Failed to release hold after checkout",
				"hold_id", holdID, "error", err.Error())
		}
	}

	s.publish(ctx, "booking.created", booking)

	resp := booking.ToResponse()
	return &resp, nil
}

// repriceTickets replaces client-sent prices with the venue's seat category
// prices; quantities are passed through raw for the reconciler to normalize.
func (s *service) repriceTickets(ctx context.Context, event *events.EventResponse, selections []pricing.TicketSelection) ([]pricing.TicketSelection, error) {
	venueID, err := uuid.Parse(event.VenueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue on event: %w", err)
	}

	categories, err := s.venues.PricingCategories(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat categories: %w", err)
	}
	byName := make(map[string]venues.SeatCategory, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
	}

	repriced := make([]pricing.TicketSelection, 0, len(selections))
	for _, sel := range selections {
		category, ok := byName[sel.CategoryName]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, sel.CategoryName)
		}
		repriced = append(repriced, pricing.TicketSelection{
			CategoryName:   sel.CategoryName,
			Quantity:       sel.Quantity,
			BasePrice:      category.BasePrice,
			ConvenienceFee: category.ConvenienceFee,
		})
	}
	return repriced, nil
}

func (s *service) resolveHold(ctx context.Context, userID uuid.UUID, holdID string, occurrenceID uuid.UUID) ([]pricing.SeatSelection, []BookingItem, error) {
	validation, err := s.seatService.ValidateHold(ctx, holdID, userID.String())
	if err != nil {
		return nil, nil, fmt.Errorf("hold validation failed: %w", err)
	}
	if !validation.Valid {
		return nil, nil, fmt.Errorf("hold is invalid: %s", validation.Reason)
	}

	details, heldSeats, err := s.seatService.HeldSeats(ctx, holdID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve held seats: %w", err)
	}
	if details.OccurrenceID != occurrenceID.String() {
		return nil, nil, ErrHoldOccurrenceMix
	}

	seatLines := make([]pricing.SeatSelection, 0, len(heldSeats))
	items := make([]BookingItem, 0, len(heldSeats))
	for _, held := range heldSeats {
		price := held.Price
		seatLines = append(seatLines, pricing.SeatSelection{
			SeatNumber: held.SeatNumber,
			Quantity:   1,
			Price:      &price,
			Category: &pricing.SeatCategoryRef{
				Name:           held.CategoryName,
				BasePrice:      held.Price,
				ConvenienceFee: held.ConvenienceFee,
			},
			ConvenienceFee: held.ConvenienceFee,
		})

		seatID, err := uuid.Parse(held.SeatID)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid seat ID in hold: %w", err)
		}
		items = append(items, BookingItem{
			ID:                 uuid.New(),
			OccurrenceID:       occurrenceID,
			SeatID:             &seatID,
			SeatNumber:         held.SeatNumber,
			CategoryName:       held.CategoryName,
			Quantity:           1,
			UnitBasePrice:      held.Price,
			UnitConvenienceFee: held.ConvenienceFee,
			LineTotal:          held.Price + held.ConvenienceFee,
		})
	}

	return seatLines, items, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*BookingResponse, error) {
	booking, err := s.getOwned(ctx, bookingID, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	normalizeQuery(&query)

	bookings, total, err := s.repo.GetUserBookings(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return paginate(bookings, total, query), nil
}

func (s *service) GetAllBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error) {
	normalizeQuery(&query)

	bookings, total, err := s.repo.GetAllBookings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return paginate(bookings, total, query), nil
}

func (s *service) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) error {
	booking, err := s.getOwned(ctx, bookingID, userID, isAdmin)
	if err != nil {
		return err
	}

	if !booking.Status.CanBeCancelled() {
		return ErrNotCancellable
	}

	now := time.Now()
	if err := s.repo.UpdateStatus(ctx, bookingID, StatusCancelled, &now); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if err := s.occurrences.ReleaseOccurrenceCapacity(ctx, booking.OccurrenceID, booking.TicketCount); err != nil {
		logger.GetDefault().Error("Failed to release capacity on cancellation",
			"booking_id", bookingID.String(), "error", err.Error())
	}

	if s.metrics != nil {
		s.metrics.BookingsCancelled.Inc()
	}
	logger.GetDefault().LogBookingCancelled(ctx, bookingID.String(), booking.UserID.String())
	s.publish(ctx, "booking.cancelled", booking)

	return nil
}

func (s *service) MarkConfirmed(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.GetBookingRecord(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status == StatusConfirmed {
		return nil
	}
	if booking.Status != StatusPending {
		return fmt.Errorf("booking %s cannot be confirmed from status %s", bookingID, booking.Status)
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, StatusConfirmed, nil); err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsConfirmed.Inc()
	}
	logger.GetDefault().LogBookingConfirmed(ctx, bookingID.String(), booking.UserID.String(), booking.TicketCount, booking.TotalPrice)
	s.publish(ctx, "booking.confirmed", booking)

	return nil
}

// ReconcileStored re-runs reconciliation over the persisted booking lines.
// Because the reconciler is deterministic, the result must match the stored
// totals; payments reject the order when it does not.
func (s *service) ReconcileStored(ctx context.Context, bookingID uuid.UUID) (pricing.ReconciledTotal, error) {
	booking, err := s.GetBookingRecord(ctx, bookingID)
	if err != nil {
		return pricing.ReconciledTotal{}, err
	}

	var tickets []pricing.TicketSelection
	var seatLines []pricing.SeatSelection

	for _, item := range booking.Items {
		if item.SeatID != nil {
			price := item.UnitBasePrice
			lineTotal := item.LineTotal
			sel := pricing.SeatSelection{
				SeatNumber: item.SeatNumber,
				Quantity:   item.Quantity,
				Price:      &price,
				Category: &pricing.SeatCategoryRef{
					Name:           item.CategoryName,
					BasePrice:      item.UnitBasePrice,
					ConvenienceFee: item.UnitConvenienceFee,
				},
				ConvenienceFee: item.UnitConvenienceFee,
			}
			// Preserve an authoritative override when the stored line total
			// deviates from unit math.
			expected := (item.UnitBasePrice + item.UnitConvenienceFee) * float64(item.Quantity)
			if math.Abs(expected-item.LineTotal) > 0.005 {
				sel.TotalPrice = &lineTotal
			}
			seatLines = append(seatLines, sel)
		} else {
			tickets = append(tickets, pricing.TicketSelection{
				CategoryName:   item.CategoryName,
				Quantity:       item.Quantity,
				BasePrice:      item.UnitBasePrice,
				ConvenienceFee: item.UnitConvenienceFee,
			})
		}
	}

	var fallback pricing.FallbackTotal
	if len(tickets) == 0 && len(seatLines) == 0 {
		fallback = pricing.FallbackTotal{
			Quantity:       booking.TicketCount,
			BasePrice:      booking.BasePrice,
			ConvenienceFee: booking.ConvenienceFee,
			TotalPrice:     booking.TotalPrice,
		}
	}

	return s.reconciler.Reconcile(tickets, seatLines, fallback), nil
}

func (s *service) GetBookingRecord(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (s *service) getOwned(ctx context.Context, bookingID, userID uuid.UUID, isAdmin bool) (*Booking, error) {
	booking, err := s.GetBookingRecord(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrBookingNotOwned
	}
	return booking, nil
}

func (s *service) publish(ctx context.Context, eventType string, booking *Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBookingEvent(ctx, eventType, booking.ToResponse()); err != nil {
		logger.GetDefault().Warn("Failed to publish booking event",
			"type", eventType, "booking_id", booking.ID.String(), "error", err.Error())
	}
}

func normalizeQuery(query *BookingListQuery) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 || query.Limit > 100 {
		query.Limit = 20
	}
}

func paginate(bookings []Booking, total int64, query BookingListQuery) *PaginatedBookings {
	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, bookings[i].ToResponse())
	}

	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))
	return &PaginatedBookings{
		Bookings:   responses,
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}
}

// generateBookingReference returns refs like DTX-20260829-QZPWXA.
func generateBookingReference() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("DTX-%s-%s", timestamp, string(randomPart)), nil
}
