package pricing

// TicketSelection represents one general-admission category line chosen by the buyer.
// Quantity is deliberately untyped: upstream producers send it as a JSON number, a
// string ("3", " 12 tickets "), or omit it entirely, and all of those must normalize
// without failing the checkout.
type TicketSelection struct {
	CategoryName   string  `json:"category_name"`
	Quantity       any     `json:"quantity,omitempty"`
	BasePrice      float64 `json:"base_price"`
	ConvenienceFee float64 `json:"convenience_fee"`
}

// SeatCategoryRef carries the seat-category pricing attached to a reserved seat.
// Used as the unit-price fallback when the selection has no explicit price.
type SeatCategoryRef struct {
	Name           string  `json:"name"`
	BasePrice      float64 `json:"base_price"`
	ConvenienceFee float64 `json:"convenience_fee"`
}

// SeatSelection represents one reserved seat or a seat bundle.
//
// SeatNumber may encode a bundled quantity with a trailing "x<N>" suffix
// (e.g. "General x4") when the producer had no structured quantity column.
// The structured Quantity field is preferred; the suffix is kept only as a
// backward-compatible fallback.
type SeatSelection struct {
	SeatNumber     string           `json:"seat_number"`
	Quantity       any              `json:"quantity,omitempty"`
	Price          *float64         `json:"price,omitempty"`
	Category       *SeatCategoryRef `json:"seat_category,omitempty"`
	ConvenienceFee float64          `json:"convenience_fee"`

	// TotalPrice, when present, is an authoritative precomputed line total and is
	// trusted verbatim over unit price x quantity.
	TotalPrice *float64 `json:"total_price,omitempty"`
}

// FallbackTotal is an opaque pre-computed total passed through by flows that
// carry no itemized selections.
type FallbackTotal struct {
	Quantity       int     `json:"quantity"`
	BasePrice      float64 `json:"base_price"`
	ConvenienceFee float64 `json:"convenience_fee"`
	TotalPrice     float64 `json:"total_price"`
}

// LinePricing is the priced result for a single selection line.
type LinePricing struct {
	Quantity  int     `json:"quantity"`
	BaseTotal float64 `json:"base_total"`
	FeeTotal  float64 `json:"fee_total"`
	LineTotal float64 `json:"line_total"`
}

// ReconciledTotal is the canonical quantity/price tuple used consistently across
// the checkout summary, the payment request and the persisted booking record.
// All fields are non-negative; TicketCount is an integer ticket count.
type ReconciledTotal struct {
	TicketCount    int     `json:"ticket_count"`
	BasePrice      float64 `json:"base_price"`
	ConvenienceFee float64 `json:"convenience_fee"`
	TotalPrice     float64 `json:"total_price"`
}
