package bookings

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// CanBeCancelled reports whether a booking in this status may still be cancelled.
func (s Status) CanBeCancelled() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsActive reports whether the booking still occupies capacity and seats.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}
