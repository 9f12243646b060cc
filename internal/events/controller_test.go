package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateEventRequest() CreateEventRequest {
	return CreateEventRequest{
		Name:          "Indie Fridays",
		VenueID:       uuid.New().String(),
		StartsAt:      time.Now().AddDate(0, 0, 7),
		TotalCapacity: 500,
	}
}

func TestCreateEventRequestValidation(t *testing.T) {
	c := NewController(nil)

	t.Run("non-recurring request passes", func(t *testing.T) {
		req := validCreateEventRequest()
		assert.NoError(t, c.validator.Struct(&req))
	})

	t.Run("recurring request with type and later end date passes", func(t *testing.T) {
		req := validCreateEventRequest()
		endDate := req.StartsAt.AddDate(0, 2, 0)
		req.IsRecurring = true
		req.RecurrenceType = string(RecurrenceWeekly)
		req.RecurrenceEndDate = &endDate
		assert.NoError(t, c.validator.Struct(&req))
	})

	t.Run("recurring request without a type fails", func(t *testing.T) {
		req := validCreateEventRequest()
		req.IsRecurring = true
		err := c.validator.Struct(&req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required_for_recurring")
	})

	t.Run("recurrence end date before the first occurrence fails", func(t *testing.T) {
		req := validCreateEventRequest()
		endDate := req.StartsAt.AddDate(0, 0, -1)
		req.IsRecurring = true
		req.RecurrenceType = string(RecurrenceDaily)
		req.RecurrenceEndDate = &endDate
		err := c.validator.Struct(&req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after_starts_at")
	})

	t.Run("tag rules still apply through the shared instance", func(t *testing.T) {
		req := validCreateEventRequest()
		req.Name = "ab"
		assert.Error(t, c.validator.Struct(&req))
	})
}
