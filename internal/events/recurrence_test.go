package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 19, 0, 0, 0, time.UTC)
}

func TestOccurrenceTimesDaily(t *testing.T) {
	start := date(2026, time.March, 1)
	rule := RecurrenceRule{Type: RecurrenceDaily, Interval: 1}
	horizon := date(2026, time.March, 5)

	times := OccurrenceTimes(start, rule, horizon, 100)

	require.Len(t, times, 5)
	assert.Equal(t, start, times[0])
	assert.Equal(t, date(2026, time.March, 5), times[4])
}

func TestOccurrenceTimesWeeklyInterval(t *testing.T) {
	start := date(2026, time.March, 2)
	rule := RecurrenceRule{Type: RecurrenceWeekly, Interval: 2}
	horizon := date(2026, time.April, 30)

	times := OccurrenceTimes(start, rule, horizon, 100)

	require.NotEmpty(t, times)
	for i := 1; i < len(times); i++ {
		assert.Equal(t, 14*24*time.Hour, times[i].Sub(times[i-1]))
	}
}

func TestOccurrenceTimesMonthly(t *testing.T) {
	start := date(2026, time.January, 15)
	rule := RecurrenceRule{Type: RecurrenceMonthly, Interval: 1}
	horizon := date(2026, time.June, 30)

	times := OccurrenceTimes(start, rule, horizon, 100)

	require.Len(t, times, 6)
	assert.Equal(t, date(2026, time.June, 15), times[5])
}

func TestOccurrenceTimesEndDateWins(t *testing.T) {
	start := date(2026, time.March, 1)
	end := date(2026, time.March, 3)
	rule := RecurrenceRule{Type: RecurrenceDaily, Interval: 1, EndDate: &end}
	horizon := date(2026, time.December, 31)

	times := OccurrenceTimes(start, rule, horizon, 100)

	assert.Len(t, times, 3)
}

func TestOccurrenceTimesMaxCap(t *testing.T) {
	start := date(2026, time.March, 1)
	rule := RecurrenceRule{Type: RecurrenceDaily, Interval: 1}
	horizon := date(2027, time.March, 1)

	times := OccurrenceTimes(start, rule, horizon, 7)

	assert.Len(t, times, 7)
}

func TestOccurrenceTimesInvalidRuleYieldsSingle(t *testing.T) {
	start := date(2026, time.March, 1)
	rule := RecurrenceRule{Type: "YEARLY", Interval: 1}

	times := OccurrenceTimes(start, rule, date(2027, time.March, 1), 100)

	assert.Equal(t, []time.Time{start}, times)
}

func TestOccurrenceTimesZeroMax(t *testing.T) {
	start := date(2026, time.March, 1)
	rule := RecurrenceRule{Type: RecurrenceDaily, Interval: 1}

	assert.Nil(t, OccurrenceTimes(start, rule, date(2027, time.March, 1), 0))
}
