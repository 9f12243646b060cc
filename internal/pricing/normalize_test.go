package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuantity(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want int
	}{
		{"native int", 4, 4},
		{"native int64", int64(7), 7},
		{"json number", float64(3), 3},
		{"fractional json number truncates", 2.9, 2},
		{"negative int clamps to zero", -3, 0},
		{"negative json number clamps to zero", -1.5, 0},
		{"plain digit string", "3", 3},
		{"string with surrounding text", " 12 tickets ", 12},
		{"bundle-style string", "General x4", 4},
		{"x0 parses via digit stripping", "x0", 0},
		{"no digits at all", "abc", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"bool is not a quantity", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuantity(tt.raw))
		})
	}
}

func TestSeatQuantityFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		sel  SeatSelection
		want int
	}{
		{
			name: "structured numeric quantity wins over suffix",
			sel:  SeatSelection{SeatNumber: "General x4", Quantity: float64(2)},
			want: 2,
		},
		{
			name: "string quantity wins over suffix when positive",
			sel:  SeatSelection{SeatNumber: "General x4", Quantity: "3"},
			want: 3,
		},
		{
			name: "zero string quantity falls through to suffix",
			sel:  SeatSelection{SeatNumber: "General x4", Quantity: "x0"},
			want: 4,
		},
		{
			name: "suffix recovers bundled quantity",
			sel:  SeatSelection{SeatNumber: "General x4"},
			want: 4,
		},
		{
			name: "malformed suffix defaults to a single seat",
			sel:  SeatSelection{SeatNumber: "General x"},
			want: 1,
		},
		{
			name: "plain seat label is one physical seat",
			sel:  SeatSelection{SeatNumber: "A1"},
			want: 1,
		},
		{
			name: "uppercase X is not a bundle marker",
			sel:  SeatSelection{SeatNumber: "Balcony X4"},
			want: 1,
		},
		{
			name: "suffix must be end-anchored",
			sel:  SeatSelection{SeatNumber: "x4 front row"},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, seatQuantity(tt.sel, nil))
		})
	}
}

// recordingObserver captures fallback diagnostics for assertions.
type recordingObserver struct {
	events []string
}

func (o *recordingObserver) QuantityDefaulted(path string, raw any, resolved int) {
	o.events = append(o.events, path)
}

func TestObserverSeesDefaults(t *testing.T) {
	obs := &recordingObserver{}
	r := NewReconciler(obs)

	r.Reconcile(
		[]TicketSelection{{CategoryName: "VIP", Quantity: "abc", BasePrice: 100}},
		nil,
		FallbackTotal{},
	)
	r.Reconcile(nil, []SeatSelection{{SeatNumber: "A1"}}, FallbackTotal{})

	assert.Equal(t, []string{"ticket", "seat"}, obs.events)
}
