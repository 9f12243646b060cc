package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestReconcileGeneralAdmission(t *testing.T) {
	tickets := []TicketSelection{
		{CategoryName: "VIP", Quantity: "3", BasePrice: 500, ConvenienceFee: 50},
		{CategoryName: "General", Quantity: 2, BasePrice: 200, ConvenienceFee: 20},
	}

	got := Reconcile(tickets, nil, FallbackTotal{})

	assert.Equal(t, ReconciledTotal{
		TicketCount:    5,
		BasePrice:      1900,
		ConvenienceFee: 190,
		TotalPrice:     2090,
	}, got)
}

func TestReconcileReservedSeating(t *testing.T) {
	seats := []SeatSelection{
		{SeatNumber: "A1", Price: floatPtr(300), ConvenienceFee: 30},
		{SeatNumber: "General x4", Price: floatPtr(150), ConvenienceFee: 15},
	}

	got := Reconcile(nil, seats, FallbackTotal{})

	assert.Equal(t, ReconciledTotal{
		TicketCount:    5,
		BasePrice:      900,
		ConvenienceFee: 90,
		TotalPrice:     990,
	}, got)
}

func TestReconcileFallbackPassThrough(t *testing.T) {
	fallback := FallbackTotal{Quantity: 1, BasePrice: 100, ConvenienceFee: 10, TotalPrice: 110}

	got := Reconcile(nil, nil, fallback)

	assert.Equal(t, ReconciledTotal{
		TicketCount:    1,
		BasePrice:      100,
		ConvenienceFee: 10,
		TotalPrice:     110,
	}, got)
}

func TestReconcilePrecedenceTicketsWin(t *testing.T) {
	tickets := []TicketSelection{{CategoryName: "VIP", Quantity: 2, BasePrice: 500, ConvenienceFee: 50}}
	seats := []SeatSelection{{SeatNumber: "A1", Price: floatPtr(300), ConvenienceFee: 30}}
	fallback := FallbackTotal{Quantity: 9, BasePrice: 9999, ConvenienceFee: 999, TotalPrice: 10998}

	both := Reconcile(tickets, seats, fallback)
	ticketsOnly := Reconcile(tickets, nil, fallback)

	// Seat data and fallback are ignored whenever ticket selections exist.
	assert.Equal(t, ticketsOnly, both)
}

func TestReconcileIdempotence(t *testing.T) {
	build := func() ([]TicketSelection, []SeatSelection, FallbackTotal) {
		return []TicketSelection{
				{CategoryName: "VIP", Quantity: "3", BasePrice: 499.50, ConvenienceFee: 49.95},
				{CategoryName: "General", Quantity: nil, BasePrice: 200, ConvenienceFee: 20},
			},
			[]SeatSelection{{SeatNumber: "B2 x2", Price: floatPtr(120.25)}},
			FallbackTotal{Quantity: 1, BasePrice: 10, ConvenienceFee: 1, TotalPrice: 11}
	}

	// Fresh value-equal inputs on each call; results must be deeply identical.
	t1, s1, f1 := build()
	t2, s2, f2 := build()
	assert.Equal(t, Reconcile(t1, s1, f1), Reconcile(t2, s2, f2))
}

func TestReconcileNeverNegative(t *testing.T) {
	got := Reconcile(
		[]TicketSelection{
			{CategoryName: "Weird", Quantity: -4, BasePrice: -100, ConvenienceFee: -5},
			{CategoryName: "Broken", Quantity: "n/a", BasePrice: 300, ConvenienceFee: 30},
		},
		nil,
		FallbackTotal{},
	)

	assert.GreaterOrEqual(t, got.TicketCount, 0)
	assert.GreaterOrEqual(t, got.BasePrice, 0.0)
	assert.GreaterOrEqual(t, got.ConvenienceFee, 0.0)
	assert.GreaterOrEqual(t, got.TotalPrice, 0.0)
}

func TestReconcileTicketCountMatchesQuantitySum(t *testing.T) {
	tickets := []TicketSelection{
		{CategoryName: "A", Quantity: 1, BasePrice: 100, ConvenienceFee: 10},
		{CategoryName: "B", Quantity: "2", BasePrice: 250.50, ConvenienceFee: 25},
		{CategoryName: "C", Quantity: float64(3), BasePrice: 99.99, ConvenienceFee: 0},
	}

	got := Reconcile(tickets, nil, FallbackTotal{})

	assert.Equal(t, 6, got.TicketCount)
	assert.InDelta(t, got.BasePrice+got.ConvenienceFee, got.TotalPrice, 1e-9)
}

func TestReconcileExactDecimalAccumulation(t *testing.T) {
	// 0.1 + 0.2 style accumulation must not drift across repeated lines.
	tickets := make([]TicketSelection, 10)
	for i := range tickets {
		tickets[i] = TicketSelection{CategoryName: "GA", Quantity: 1, BasePrice: 0.1, ConvenienceFee: 0.2}
	}

	got := Reconcile(tickets, nil, FallbackTotal{})

	assert.Equal(t, 1.0, got.BasePrice)
	assert.Equal(t, 2.0, got.ConvenienceFee)
	assert.Equal(t, 3.0, got.TotalPrice)
}

func TestPriceSeatSelection(t *testing.T) {
	r := NewReconciler(nil)

	t.Run("explicit price wins over category price", func(t *testing.T) {
		got := r.PriceSeatSelection(SeatSelection{
			SeatNumber:     "A1",
			Price:          floatPtr(300),
			Category:       &SeatCategoryRef{Name: "Balcony", BasePrice: 500},
			ConvenienceFee: 30,
		})
		assert.Equal(t, LinePricing{Quantity: 1, BaseTotal: 300, FeeTotal: 30, LineTotal: 330}, got)
	})

	t.Run("category price is the base fallback only", func(t *testing.T) {
		// The category fallback covers the unit base price. The fee comes from
		// the explicit field alone, so a seat without one is fee-free even
		// when its category carries a fee.
		got := r.PriceSeatSelection(SeatSelection{
			SeatNumber: "B1",
			Category:   &SeatCategoryRef{Name: "Balcony", BasePrice: 500, ConvenienceFee: 50},
		})
		assert.Equal(t, LinePricing{Quantity: 1, BaseTotal: 500, FeeTotal: 0, LineTotal: 500}, got)
	})

	t.Run("explicit fee is used when present", func(t *testing.T) {
		got := r.PriceSeatSelection(SeatSelection{
			SeatNumber:     "B2",
			Price:          floatPtr(300),
			Category:       &SeatCategoryRef{Name: "Balcony", BasePrice: 500, ConvenienceFee: 50},
			ConvenienceFee: 30,
		})
		assert.Equal(t, LinePricing{Quantity: 1, BaseTotal: 300, FeeTotal: 30, LineTotal: 330}, got)
	})

	t.Run("no price information prices to zero without failing", func(t *testing.T) {
		got := r.PriceSeatSelection(SeatSelection{SeatNumber: "C1"})
		assert.Equal(t, LinePricing{Quantity: 1}, got)
	})

	t.Run("total price override is trusted verbatim", func(t *testing.T) {
		got := r.PriceSeatSelection(SeatSelection{
			SeatNumber:     "D1 x2",
			Price:          floatPtr(100),
			ConvenienceFee: 10,
			TotalPrice:     floatPtr(199), // producer-owned discount, breakdown stays unit-derived
		})
		require.Equal(t, 2, got.Quantity)
		assert.Equal(t, 200.0, got.BaseTotal)
		assert.Equal(t, 20.0, got.FeeTotal)
		assert.Equal(t, 199.0, got.LineTotal)
	})
}
