package bookings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"dexotix/internal/events"
	"dexotix/internal/pricing"
	"dexotix/internal/seats"
	"dexotix/internal/venues"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	bookings   map[uuid.UUID]*Booking
	createErr  error
	lastStatus Status
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (r *fakeRepo) Create(ctx context.Context, booking *Booking) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeRepo) GetByRef(ctx context.Context, ref string) (*Booking, error) {
	for _, b := range r.bookings {
		if b.BookingRef == ref {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range r.bookings {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	var out []Booking
	for _, b := range r.bookings {
		if b.EventID == eventID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, cancelledAt *time.Time) error {
	booking, ok := r.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	booking.Status = status
	booking.CancelledAt = cancelledAt
	r.lastStatus = status
	return nil
}

type fakeSeatService struct {
	validation HoldValidation
	details    *seats.HoldDetails
	heldSeats  []seats.HeldSeatInfo
	released   []string
}

type HoldValidation struct {
	valid  bool
	reason string
}

func (s *fakeSeatService) ValidateHold(ctx context.Context, holdID, userID string) (*seats.HoldValidationResult, error) {
	return &seats.HoldValidationResult{Valid: s.validation.valid, Reason: s.validation.reason}, nil
}

func (s *fakeSeatService) HeldSeats(ctx context.Context, holdID string) (*seats.HoldDetails, []seats.HeldSeatInfo, error) {
	if s.details == nil {
		return nil, nil, errors.New("hold not found")
	}
	return s.details, s.heldSeats, nil
}

func (s *fakeSeatService) ReleaseHold(ctx context.Context, holdID, userID string) error {
	s.released = append(s.released, holdID)
	return nil
}

type fakeOccurrenceService struct {
	occurrence *events.EventOccurrence
	event      *events.EventResponse
	reserved   int
	releasedBy int
}

func (s *fakeOccurrenceService) GetOccurrence(ctx context.Context, id uuid.UUID) (*events.EventOccurrence, error) {
	if s.occurrence == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.occurrence, nil
}

func (s *fakeOccurrenceService) GetEventByID(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
	if s.event == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.event, nil
}

func (s *fakeOccurrenceService) ReserveOccurrenceCapacity(ctx context.Context, occurrenceID uuid.UUID, count int) error {
	s.reserved += count
	return nil
}

func (s *fakeOccurrenceService) ReleaseOccurrenceCapacity(ctx context.Context, occurrenceID uuid.UUID, count int) error {
	s.releasedBy += count
	return nil
}

// stubVenueService implements only PricingCategories; the embedded interface
// panics on anything else, which is what we want in these tests.
type stubVenueService struct {
	venues.Service
	categories []venues.SeatCategory
}

func (s *stubVenueService) PricingCategories(ctx context.Context, venueID uuid.UUID) ([]venues.SeatCategory, error) {
	return s.categories, nil
}

type capturedEvent struct {
	eventType string
}

type fakePublisher struct {
	events []capturedEvent
}

func (p *fakePublisher) PublishBookingEvent(ctx context.Context, eventType string, payload interface{}) error {
	p.events = append(p.events, capturedEvent{eventType: eventType})
	return nil
}

type fixture struct {
	repo        *fakeRepo
	seatService *fakeSeatService
	occurrences *fakeOccurrenceService
	publisher   *fakePublisher
	service     Service

	userID       uuid.UUID
	eventID      uuid.UUID
	venueID      uuid.UUID
	occurrenceID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:         newFakeRepo(),
		seatService:  &fakeSeatService{},
		publisher:    &fakePublisher{},
		userID:       uuid.New(),
		eventID:      uuid.New(),
		venueID:      uuid.New(),
		occurrenceID: uuid.New(),
	}
	f.occurrences = &fakeOccurrenceService{
		occurrence: &events.EventOccurrence{
			ID:            f.occurrenceID,
			EventID:       f.eventID,
			StartsAt:      time.Now().Add(24 * time.Hour),
			TotalCapacity: 100,
			Status:        events.OccurrenceScheduled,
		},
		event: &events.EventResponse{
			ID:      f.eventID.String(),
			VenueID: f.venueID.String(),
		},
	}
	venueService := &stubVenueService{categories: []venues.SeatCategory{
		{VenueID: f.venueID, Name: "VIP", BasePrice: 500, ConvenienceFee: 50},
		{VenueID: f.venueID, Name: "General", BasePrice: 200, ConvenienceFee: 20},
	}}
	f.service = NewService(f.repo, f.seatService, f.occurrences, venueService, f.publisher, nil)
	return f
}

func TestCheckoutWithTickets(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		Tickets: []pricing.TicketSelection{
			{CategoryName: "VIP", Quantity: "3", BasePrice: 1, ConvenienceFee: 1},
			{CategoryName: "General", Quantity: 2},
		},
	})
	require.NoError(t, err)

	// Client-sent prices are ignored; the venue's category prices apply.
	assert.Equal(t, 5, resp.TicketCount)
	assert.Equal(t, 1900.0, resp.BasePrice)
	assert.Equal(t, 190.0, resp.ConvenienceFee)
	assert.Equal(t, 2090.0, resp.TotalPrice)
	assert.Equal(t, string(StatusPending), resp.Status)
	assert.True(t, strings.HasPrefix(resp.BookingRef, "DTX-"))
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 5, f.occurrences.reserved)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "booking.created", f.publisher.events[0].eventType)
}

func TestCheckoutNormalizesMessyQuantities(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		Tickets: []pricing.TicketSelection{
			{CategoryName: "VIP", Quantity: " 2 tickets "},
			{CategoryName: "General", Quantity: nil},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TicketCount)
	// The nil-quantity line defaults to zero and produces no stored item.
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "VIP", resp.Items[0].CategoryName)
	assert.Equal(t, 2, resp.Items[0].Quantity)
}

func TestCheckoutUnknownCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		Tickets:      []pricing.TicketSelection{{CategoryName: "Balcony", Quantity: 2}},
	})
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Zero(t, f.occurrences.reserved)
}

func TestCheckoutRequiresAPricingPath(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
	})
	assert.ErrorIs(t, err, ErrNoPricingPath)
}

func TestCheckoutRejectsEmptyBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		Tickets:      []pricing.TicketSelection{{CategoryName: "VIP", Quantity: "soon"}},
	})
	assert.ErrorIs(t, err, ErrEmptyBooking)
	assert.Zero(t, f.occurrences.reserved)
	assert.Empty(t, f.repo.bookings)
}

func TestCheckoutClosedOccurrence(t *testing.T) {
	f := newFixture(t)
	f.occurrences.occurrence.Status = events.OccurrenceCancelled

	_, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		Tickets:      []pricing.TicketSelection{{CategoryName: "VIP", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrOccurrenceClosed)
}

func TestCheckoutWithHold(t *testing.T) {
	f := newFixture(t)
	seatID := uuid.New()
	f.seatService.validation = HoldValidation{valid: true}
	f.seatService.details = &seats.HoldDetails{
		HoldID:       "hold-1",
		UserID:       f.userID.String(),
		OccurrenceID: f.occurrenceID.String(),
		SeatIDs:      []string{seatID.String()},
	}
	f.seatService.heldSeats = []seats.HeldSeatInfo{
		{SeatID: seatID.String(), SeatNumber: "A1", CategoryName: "VIP", Price: 500, ConvenienceFee: 50},
	}

	resp, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		HoldID:       "hold-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.TicketCount)
	assert.Equal(t, 550.0, resp.TotalPrice)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "A1", resp.Items[0].SeatNumber)
	// The Redis hold is released once the PENDING rows protect the seats.
	assert.Equal(t, []string{"hold-1"}, f.seatService.released)
}

func TestCheckoutHoldOccurrenceMismatch(t *testing.T) {
	f := newFixture(t)
	f.seatService.validation = HoldValidation{valid: true}
	f.seatService.details = &seats.HoldDetails{
		HoldID:       "hold-1",
		UserID:       f.userID.String(),
		OccurrenceID: uuid.New().String(),
	}

	_, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		HoldID:       "hold-1",
	})
	assert.ErrorIs(t, err, ErrHoldOccurrenceMix)
	assert.Empty(t, f.seatService.released)
}

func TestCheckoutWithFallbackTotal(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		Fallback:     &pricing.FallbackTotal{Quantity: 2, BasePrice: 400, ConvenienceFee: 40, TotalPrice: 440},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TicketCount)
	assert.Equal(t, 440.0, resp.TotalPrice)
	assert.Empty(t, resp.Items)
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		Tickets:      []pricing.TicketSelection{{CategoryName: "VIP", Quantity: 2}},
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(resp.ID)

	err = f.service.CancelBooking(context.Background(), bookingID, f.userID, false)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, f.repo.lastStatus)
	assert.Equal(t, 2, f.occurrences.releasedBy)

	// A cancelled booking cannot be cancelled again.
	err = f.service.CancelBooking(context.Background(), bookingID, f.userID, false)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestCancelBookingOwnership(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		Tickets:      []pricing.TicketSelection{{CategoryName: "VIP", Quantity: 1}},
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(resp.ID)

	otherUser := uuid.New()
	err = f.service.CancelBooking(context.Background(), bookingID, otherUser, false)
	assert.ErrorIs(t, err, ErrBookingNotOwned)

	// Admins can cancel regardless of ownership.
	err = f.service.CancelBooking(context.Background(), bookingID, otherUser, true)
	assert.NoError(t, err)
}

func TestMarkConfirmedIsIdempotent(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		Tickets:      []pricing.TicketSelection{{CategoryName: "VIP", Quantity: 1}},
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(resp.ID)

	require.NoError(t, f.service.MarkConfirmed(context.Background(), bookingID))
	assert.Equal(t, StatusConfirmed, f.repo.bookings[bookingID].Status)

	// Second confirmation is a no-op, not an error.
	require.NoError(t, f.service.MarkConfirmed(context.Background(), bookingID))
}

func TestMarkConfirmedRejectsCancelled(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		Tickets:      []pricing.TicketSelection{{CategoryName: "VIP", Quantity: 1}},
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(resp.ID)

	require.NoError(t, f.service.CancelBooking(context.Background(), bookingID, f.userID, false))
	assert.Error(t, f.service.MarkConfirmed(context.Background(), bookingID))
}

func TestReconcileStoredMatchesCheckout(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		Tickets: []pricing.TicketSelection{
			{CategoryName: "VIP", Quantity: 2},
			{CategoryName: "General", Quantity: "3"},
		},
	})
	require.NoError(t, err)
	bookingID := uuid.MustParse(resp.ID)

	total, err := f.service.ReconcileStored(context.Background(), bookingID)
	require.NoError(t, err)

	assert.Equal(t, resp.TicketCount, total.TicketCount)
	assert.Equal(t, resp.BasePrice, total.BasePrice)
	assert.Equal(t, resp.ConvenienceFee, total.ConvenienceFee)
	assert.Equal(t, resp.TotalPrice, total.TotalPrice)
}

func TestReconcileStoredSeatBooking(t *testing.T) {
	f := newFixture(t)
	seatID := uuid.New()
	f.seatService.validation = HoldValidation{valid: true}
	f.seatService.details = &seats.HoldDetails{
		HoldID:       "hold-1",
		UserID:       f.userID.String(),
		OccurrenceID: f.occurrenceID.String(),
		SeatIDs:      []string{seatID.String()},
	}
	f.seatService.heldSeats = []seats.HeldSeatInfo{
		{SeatID: seatID.String(), SeatNumber: "A1", CategoryName: "VIP", Price: 500, ConvenienceFee: 50},
		{SeatID: uuid.New().String(), SeatNumber: "A2", CategoryName: "VIP", Price: 500, ConvenienceFee: 50},
	}

	resp, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		HoldID:       "hold-1",
	})
	require.NoError(t, err)

	total, err := f.service.ReconcileStored(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)

	assert.Equal(t, 2, total.TicketCount)
	assert.Equal(t, resp.TotalPrice, total.TotalPrice)
}

func TestReconcileStoredFallbackBooking(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.Checkout(context.Background(), f.userID, CheckoutRequest{
		OccurrenceID: f.occurrenceID.String(),
		Fallback:     &pricing.FallbackTotal{Quantity: 3, BasePrice: 900, ConvenienceFee: 90, TotalPrice: 990},
	})
	require.NoError(t, err)

	total, err := f.service.ReconcileStored(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)

	assert.Equal(t, 3, total.TicketCount)
	assert.Equal(t, 990.0, total.TotalPrice)
}

func TestGetBookingNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.GetBooking(context.Background(), uuid.New(), f.userID, false)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
