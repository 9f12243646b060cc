package analytics

import "time"

// DashboardAnalytics is the admin landing-page aggregate. All revenue figures
// come from the reconciled totals persisted on bookings, so they line up with
// what was actually charged.
type DashboardAnalytics struct {
	Overview      OverviewMetrics    `json:"overview"`
	TopEvents     []EventPerformance `json:"top_events"`
	DailyBookings []DailyBookingStat `json:"daily_bookings"`
	GeneratedAt   time.Time          `json:"generated_at"`
}

type OverviewMetrics struct {
	TotalEvents       int64   `json:"total_events"`
	PublishedEvents   int64   `json:"published_events"`
	TotalVenues       int64   `json:"total_venues"`
	TotalUsers        int64   `json:"total_users"`
	TotalBookings     int64   `json:"total_bookings"`
	ConfirmedBookings int64   `json:"confirmed_bookings"`
	PendingBookings   int64   `json:"pending_bookings"`
	CancelledBookings int64   `json:"cancelled_bookings"`
	TicketsSold       int64   `json:"tickets_sold"`
	TotalRevenue      float64 `json:"total_revenue"`
	ConvenienceFees   float64 `json:"convenience_fees"`
	RefundedAmount    float64 `json:"refunded_amount"`
}

type EventPerformance struct {
	EventID       string  `json:"event_id"`
	EventName     string  `json:"event_name"`
	VenueName     string  `json:"venue_name"`
	TicketsSold   int64   `json:"tickets_sold"`
	Revenue       float64 `json:"revenue"`
	BookingCount  int64   `json:"booking_count"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

type DailyBookingStat struct {
	Date        string  `json:"date"`
	Bookings    int64   `json:"bookings"`
	TicketsSold int64   `json:"tickets_sold"`
	Revenue     float64 `json:"revenue"`
}

// EventAnalytics is the per-event drill-down.
type EventAnalytics struct {
	EventID           string             `json:"event_id"`
	EventName         string             `json:"event_name"`
	TotalBookings     int64              `json:"total_bookings"`
	ConfirmedBookings int64              `json:"confirmed_bookings"`
	CancelledBookings int64              `json:"cancelled_bookings"`
	TicketsSold       int64              `json:"tickets_sold"`
	Revenue           float64            `json:"revenue"`
	ConvenienceFees   float64            `json:"convenience_fees"`
	Occurrences       []OccurrenceStat   `json:"occurrences"`
	CategoryBreakdown []CategoryRevenue  `json:"category_breakdown"`
}

type OccurrenceStat struct {
	OccurrenceID  string    `json:"occurrence_id"`
	StartsAt      time.Time `json:"starts_at"`
	TotalCapacity int       `json:"total_capacity"`
	BookedCount   int       `json:"booked_count"`
	OccupancyRate float64   `json:"occupancy_rate"`
}

type CategoryRevenue struct {
	CategoryName string  `json:"category_name"`
	TicketsSold  int64   `json:"tickets_sold"`
	Revenue      float64 `json:"revenue"`
}
