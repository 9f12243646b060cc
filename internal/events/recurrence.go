package events

import "time"

type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "DAILY"
	RecurrenceWeekly  RecurrenceType = "WEEKLY"
	RecurrenceMonthly RecurrenceType = "MONTHLY"
)

// RecurrenceRule describes how an event repeats.
type RecurrenceRule struct {
	Type     RecurrenceType
	Interval int
	EndDate  *time.Time
}

func (r RecurrenceRule) Valid() bool {
	switch r.Type {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
	default:
		return false
	}
	return r.Interval >= 1
}

// next returns the occurrence following t under the rule.
func (r RecurrenceRule) next(t time.Time) time.Time {
	switch r.Type {
	case RecurrenceDaily:
		return t.AddDate(0, 0, r.Interval)
	case RecurrenceWeekly:
		return t.AddDate(0, 0, 7*r.Interval)
	case RecurrenceMonthly:
		return t.AddDate(0, r.Interval, 0)
	}
	return t
}

// OccurrenceTimes expands a recurrence rule into concrete start times,
// beginning at start and stopping at whichever comes first: the rule's end
// date, the horizon, or the max count.
func OccurrenceTimes(start time.Time, rule RecurrenceRule, horizon time.Time, max int) []time.Time {
	if max < 1 {
		return nil
	}
	if !rule.Valid() {
		return []time.Time{start}
	}

	times := make([]time.Time, 0, max)
	for t := start; len(times) < max; t = rule.next(t) {
		if t.After(horizon) {
			break
		}
		if rule.EndDate != nil && t.After(*rule.EndDate) {
			break
		}
		times = append(times, t)
	}

	return times
}
