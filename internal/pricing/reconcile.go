package pricing

import (
	"github.com/shopspring/decimal"
)

// Reconciler derives the canonical booking total from whichever selection shape
// the caller has. It is stateless apart from the optional diagnostics observer,
// so the same instance is shared by the checkout and payment services and both
// are guaranteed to agree on totals for identical input.
type Reconciler struct {
	obs Observer
}

// NewReconciler creates a reconciler. obs may be nil.
func NewReconciler(obs Observer) *Reconciler {
	return &Reconciler{obs: obs}
}

// PriceTicketSelection prices one general-admission line.
func (r *Reconciler) PriceTicketSelection(sel TicketSelection) LinePricing {
	qty := ticketQuantity(sel, r.obs)

	q := decimal.NewFromInt(int64(qty))
	base := clampNonNegative(decimal.NewFromFloat(sel.BasePrice)).Mul(q)
	fee := clampNonNegative(decimal.NewFromFloat(sel.ConvenienceFee)).Mul(q)

	return LinePricing{
		Quantity:  qty,
		BaseTotal: base.InexactFloat64(),
		FeeTotal:  fee.InexactFloat64(),
		LineTotal: base.Add(fee).InexactFloat64(),
	}
}

// PriceSeatSelection prices one reserved-seat line.
//
// The unit base price is resolved explicit price -> category base price -> 0.
// The unit fee is the explicit fee or 0; the category fallback applies to the
// base price only, so a seat with no explicit fee is priced fee-free even when
// its category carries one. When the selection carries a
// precomputed TotalPrice it is trusted verbatim as the line total, while the
// base/fee breakdown is still derived from unit price x quantity for display.
// The breakdown is intentionally NOT forced to sum to the override: producers
// that send TotalPrice own that number, and silently rewriting the breakdown
// would hide their inconsistency instead of surfacing it.
func (r *Reconciler) PriceSeatSelection(sel SeatSelection) LinePricing {
	qty := seatQuantity(sel, r.obs)

	unitBase := decimal.Zero
	switch {
	case sel.Price != nil:
		unitBase = clampNonNegative(decimal.NewFromFloat(*sel.Price))
	case sel.Category != nil:
		unitBase = clampNonNegative(decimal.NewFromFloat(sel.Category.BasePrice))
	}

	unitFee := clampNonNegative(decimal.NewFromFloat(sel.ConvenienceFee))

	q := decimal.NewFromInt(int64(qty))
	base := unitBase.Mul(q)
	fee := unitFee.Mul(q)

	line := base.Add(fee)
	if sel.TotalPrice != nil {
		line = clampNonNegative(decimal.NewFromFloat(*sel.TotalPrice))
	}

	return LinePricing{
		Quantity:  qty,
		BaseTotal: base.InexactFloat64(),
		FeeTotal:  fee.InexactFloat64(),
		LineTotal: line.InexactFloat64(),
	}
}

// Reconcile produces the canonical total for a booking.
//
// Strict precedence, never a merge: a non-empty ticket list wins, else a
// non-empty seat list, else the caller-supplied fallback verbatim. A caller
// populating both lists is a caller bug; ticket selections silently win.
// Total function: never panics, never yields NaN or a negative field.
func (r *Reconciler) Reconcile(tickets []TicketSelection, seats []SeatSelection, fallback FallbackTotal) ReconciledTotal {
	switch {
	case len(tickets) > 0:
		lines := make([]LinePricing, 0, len(tickets))
		for _, sel := range tickets {
			lines = append(lines, r.PriceTicketSelection(sel))
		}
		return sumLines(lines)

	case len(seats) > 0:
		lines := make([]LinePricing, 0, len(seats))
		for _, sel := range seats {
			lines = append(lines, r.PriceSeatSelection(sel))
		}
		return sumLines(lines)

	default:
		return ReconciledTotal{
			TicketCount:    NormalizeQuantity(fallback.Quantity),
			BasePrice:      clampNonNegative(decimal.NewFromFloat(fallback.BasePrice)).InexactFloat64(),
			ConvenienceFee: clampNonNegative(decimal.NewFromFloat(fallback.ConvenienceFee)).InexactFloat64(),
			TotalPrice:     clampNonNegative(decimal.NewFromFloat(fallback.TotalPrice)).InexactFloat64(),
		}
	}
}

// Reconcile is the package-level convenience form without diagnostics.
func Reconcile(tickets []TicketSelection, seats []SeatSelection, fallback FallbackTotal) ReconciledTotal {
	return NewReconciler(nil).Reconcile(tickets, seats, fallback)
}

func sumLines(lines []LinePricing) ReconciledTotal {
	count := 0
	base := decimal.Zero
	fee := decimal.Zero
	total := decimal.Zero

	for _, l := range lines {
		count += l.Quantity
		base = base.Add(decimal.NewFromFloat(l.BaseTotal))
		fee = fee.Add(decimal.NewFromFloat(l.FeeTotal))
		total = total.Add(decimal.NewFromFloat(l.LineTotal))
	}

	return ReconciledTotal{
		TicketCount:    count,
		BasePrice:      base.InexactFloat64(),
		ConvenienceFee: fee.InexactFloat64(),
		TotalPrice:     total.InexactFloat64(),
	}
}

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
