package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

// bundleSuffix matches a trailing "x<N>" bundle marker on a seat label,
// e.g. "General x4". Case-sensitive, end-anchored.
var bundleSuffix = regexp.MustCompile(`x(\d+)$`)

// Observer receives out-of-band diagnostics whenever a normalization falls back
// to its default instead of using the provided value. Implementations must not
// influence the computed result.
type Observer interface {
	QuantityDefaulted(path string, raw any, resolved int)
}

// NormalizeQuantity coerces an untyped quantity into a non-negative integer.
//
// Numbers are used as-is when >= 0, clamped to 0 otherwise. Strings have every
// non-digit character stripped and the remainder parsed base-10; an empty or
// negative result yields 0. Anything else (nil, bool, objects) yields 0.
// Never returns a negative value and never fails.
func NormalizeQuantity(raw any) int {
	switch v := raw.(type) {
	case int:
		if v < 0 {
			return 0
		}
		return v
	case int64:
		if v < 0 {
			return 0
		}
		return int(v)
	case float64:
		// JSON numbers decode as float64. Fractional parts are truncated.
		if v < 0 {
			return 0
		}
		return int(v)
	case string:
		return parseDigits(v)
	default:
		return 0
	}
}

// parseDigits strips every non-ASCII-digit character and parses the rest.
// "General x4" -> 4, " 12 tickets " -> 12, "abc" -> 0.
func parseDigits(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil || n < 0 {
		// Atoi overflows on absurdly long digit runs; treat as unparseable.
		return 0
	}
	return n
}

// seatQuantity resolves the ticket count for a reserved-seat selection.
//
// Fallback chain, first match wins: structured numeric quantity, digit-stripped
// string quantity (positive only), "x<N>" suffix on the seat label (positive
// only), then 1. A seat entry with no quantity at all is one physical seat,
// not zero tickets.
func seatQuantity(sel SeatSelection, obs Observer) int {
	switch v := sel.Quantity.(type) {
	case int, int64, float64:
		return NormalizeQuantity(v)
	case string:
		if n := parseDigits(v); n > 0 {
			return n
		}
	}

	if m := bundleSuffix.FindStringSubmatch(sel.SeatNumber); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}

	if obs != nil {
		obs.QuantityDefaulted("seat", sel.Quantity, 1)
	}
	return 1
}

// ticketQuantity resolves the ticket count for a general-admission line.
// A missing or malformed quantity means "nothing selected" on this path, so the
// default here is 0, unlike the seat path.
func ticketQuantity(sel TicketSelection, obs Observer) int {
	n := NormalizeQuantity(sel.Quantity)
	if n == 0 && obs != nil {
		obs.QuantityDefaulted("ticket", sel.Quantity, 0)
	}
	return n
}
