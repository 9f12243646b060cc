package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetOverviewMetrics(ctx context.Context) (*OverviewMetrics, error)
	GetTopEvents(ctx context.Context, limit int) ([]EventPerformance, error)
	GetDailyBookingStats(ctx context.Context, days int) ([]DailyBookingStat, error)
	GetEventAnalytics(ctx context.Context, eventID uuid.UUID) (*EventAnalytics, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOverviewMetrics(ctx context.Context) (*OverviewMetrics, error) {
	var m OverviewMetrics
	db := r.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&m.TotalEvents, db.Table("events")},
		{&m.PublishedEvents, db.Table("events").Where("status = ?", "published")},
		{&m.TotalVenues, db.Table("venues").Where("is_active = ?", true)},
		{&m.TotalUsers, db.Table("users")},
		{&m.TotalBookings, db.Table("bookings")},
		{&m.ConfirmedBookings, db.Table("bookings").Where("status = ?", "CONFIRMED")},
		{&m.PendingBookings, db.Table("bookings").Where("status = ?", "PENDING")},
		{&m.CancelledBookings, db.Table("bookings").Where("status = ?", "CANCELLED")},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count: %w", err)
		}
	}

	row := db.Table("bookings").
		Select("COALESCE(SUM(ticket_count), 0), COALESCE(SUM(total_price), 0), COALESCE(SUM(convenience_fee), 0)").
		Where("status = ?", "CONFIRMED").
		Row()
	if err := row.Scan(&m.TicketsSold, &m.TotalRevenue, &m.ConvenienceFees); err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	refundRow := db.Table("payments").
		Select("COALESCE(SUM(amount_paise), 0)").
		Where("status = ?", "REFUNDED").
		Row()
	var refundedPaise int64
	if err := refundRow.Scan(&refundedPaise); err != nil {
		return nil, fmt.Errorf("failed to aggregate refunds: %w", err)
	}
	m.RefundedAmount = float64(refundedPaise) / 100

	return &m, nil
}

func (r *repository) GetTopEvents(ctx context.Context, limit int) ([]EventPerformance, error) {
	var results []EventPerformance
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select(`events.id::text AS event_id,
			events.name AS event_name,
			venues.name AS venue_name,
			COALESCE(SUM(bookings.ticket_count), 0) AS tickets_sold,
			COALESCE(SUM(bookings.total_price), 0) AS revenue,
			COUNT(bookings.id) AS booking_count`).
		Joins("JOIN events ON events.id = bookings.event_id").
		Joins("JOIN venues ON venues.id = events.venue_id").
		Where("bookings.status = ?", "CONFIRMED").
		Group("events.id, events.name, venues.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank events: %w", err)
	}

	// Occupancy is derived from occurrence counters rather than join math to
	// keep the ranking query cheap.
	for i := range results {
		var capacity, booked int64
		row := r.db.WithContext(ctx).
			Table("event_occurrences").
			Select("COALESCE(SUM(total_capacity), 0), COALESCE(SUM(booked_count), 0)").
			Where("event_id = ?::uuid", results[i].EventID).
			Row()
		if err := row.Scan(&capacity, &booked); err != nil {
			continue
		}
		if capacity > 0 {
			results[i].OccupancyRate = float64(booked) / float64(capacity) * 100
		}
	}

	return results, nil
}

func (r *repository) GetDailyBookingStats(ctx context.Context, days int) ([]DailyBookingStat, error) {
	since := time.Now().AddDate(0, 0, -days)

	var results []DailyBookingStat
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select(`TO_CHAR(created_at, 'YYYY-MM-DD') AS date,
			COUNT(id) AS bookings,
			COALESCE(SUM(ticket_count), 0) AS tickets_sold,
			COALESCE(SUM(CASE WHEN status = 'CONFIRMED' THEN total_price ELSE 0 END), 0) AS revenue`).
		Where("created_at >= ?", since).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily stats: %w", err)
	}
	return results, nil
}

func (r *repository) GetEventAnalytics(ctx context.Context, eventID uuid.UUID) (*EventAnalytics, error) {
	db := r.db.WithContext(ctx)

	var eventName string
	row := db.Table("events").Select("name").Where("id = ?", eventID).Row()
	if err := row.Scan(&eventName); err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	result := &EventAnalytics{
		EventID:   eventID.String(),
		EventName: eventName,
	}

	statusCounts := []struct {
		dest   *int64
		status string
	}{
		{&result.ConfirmedBookings, "CONFIRMED"},
		{&result.CancelledBookings, "CANCELLED"},
	}
	if err := db.Table("bookings").Where("event_id = ?", eventID).Count(&result.TotalBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	for _, c := range statusCounts {
		if err := db.Table("bookings").Where("event_id = ? AND status = ?", eventID, c.status).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count bookings: %w", err)
		}
	}

	revenueRow := db.Table("bookings").
		Select("COALESCE(SUM(ticket_count), 0), COALESCE(SUM(total_price), 0), COALESCE(SUM(convenience_fee), 0)").
		Where("event_id = ? AND status = ?", eventID, "CONFIRMED").
		Row()
	if err := revenueRow.Scan(&result.TicketsSold, &result.Revenue, &result.ConvenienceFees); err != nil {
		return nil, fmt.Errorf("failed to aggregate event revenue: %w", err)
	}

	var occurrences []struct {
		ID            uuid.UUID
		StartsAt      time.Time
		TotalCapacity int
		BookedCount   int
	}
	if err := db.Table("event_occurrences").
		Select("id, starts_at, total_capacity, booked_count").
		Where("event_id = ?", eventID).
		Order("starts_at ASC").
		Scan(&occurrences).Error; err != nil {
		return nil, fmt.Errorf("failed to load occurrences: %w", err)
	}
	for _, occ := range occurrences {
		stat := OccurrenceStat{
			OccurrenceID:  occ.ID.String(),
			StartsAt:      occ.StartsAt,
			TotalCapacity: occ.TotalCapacity,
			BookedCount:   occ.BookedCount,
		}
		if occ.TotalCapacity > 0 {
			stat.OccupancyRate = float64(occ.BookedCount) / float64(occ.TotalCapacity) * 100
		}
		result.Occurrences = append(result.Occurrences, stat)
	}

	if err := db.Table("booking_items").
		Select(`booking_items.category_name,
			COALESCE(SUM(booking_items.quantity), 0) AS tickets_sold,
			COALESCE(SUM(booking_items.line_total), 0) AS revenue`).
		Joins("JOIN bookings ON bookings.id = booking_items.booking_id").
		Where("bookings.event_id = ? AND bookings.status = ?", eventID, "CONFIRMED").
		Group("booking_items.category_name").
		Order("revenue DESC").
		Scan(&result.CategoryBreakdown).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate category breakdown: %w", err)
	}

	return result, nil
}
