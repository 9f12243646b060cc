package events

import (
	"errors"
	"net/http"
	"strconv"

	"dexotix/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterStructValidation(validateRecurrenceRequest, CreateEventRequest{})
	return &Controller{
		service:   service,
		validator: v,
	}
}

// validateRecurrenceRequest checks cross-field recurrence coherence that tag
// rules cannot express: a recurring event needs a recurrence type, and its end
// date must fall after the first occurrence.
func validateRecurrenceRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateEventRequest)
	if !req.IsRecurring {
		return
	}
	if req.RecurrenceType == "" {
		sl.ReportError(req.RecurrenceType, "recurrence_type", "RecurrenceType", "required_for_recurring", "")
	}
	if req.RecurrenceEndDate != nil && !req.RecurrenceEndDate.After(req.StartsAt) {
		sl.ReportError(req.RecurrenceEndDate, "recurrence_end_date", "RecurrenceEndDate", "after_starts_at", "")
	}
}

// GetAllEvents handles GET /api/v1/events
func (c *Controller) GetAllEvents(ctx *gin.Context) {
	var query EventListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.BadRequest(ctx, "Invalid query parameters", err)
		return
	}

	// Public browsing only sees published events; admins may filter freely.
	if role, _ := ctx.Get("user_role"); role != "ADMIN" {
		query.Status = string(StatusPublished)
	}

	result, err := c.service.GetAllEvents(ctx.Request.Context(), query)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list events", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Events retrieved successfully", result)
}

// GetEvent handles GET /api/v1/events/:id
func (c *Controller) GetEvent(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid event ID", err)
		return
	}

	event, err := c.service.GetEventByID(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.Error(ctx, http.StatusNotFound, "Event not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get event", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Event retrieved successfully", event)
}

// GetUpcomingEvents handles GET /api/v1/events/upcoming
func (c *Controller) GetUpcomingEvents(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	eventList, err := c.service.GetUpcomingEvents(ctx.Request.Context(), limit)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get upcoming events", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Upcoming events retrieved successfully", eventList)
}

// GetOccurrences handles GET /api/v1/events/:id/occurrences
func (c *Controller) GetOccurrences(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid event ID", err)
		return
	}

	occurrences, err := c.service.GetOccurrences(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get occurrences", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Occurrences retrieved successfully", occurrences)
}

// CreateEvent handles POST /api/v1/admin/events
func (c *Controller) CreateEvent(ctx *gin.Context) {
	adminID, ok := adminIDFromContext(ctx)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.BadRequest(ctx, "Validation failed", err)
		return
	}

	event, err := c.service.CreateEvent(ctx.Request.Context(), adminID, req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to create event", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Event created successfully", event)
}

// UpdateEvent handles PUT /api/v1/admin/events/:id
func (c *Controller) UpdateEvent(ctx *gin.Context) {
	adminID, ok := adminIDFromContext(ctx)
	if !ok {
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid event ID", err)
		return
	}

	var req UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	event, err := c.service.UpdateEvent(ctx.Request.Context(), eventID, adminID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			response.Error(ctx, http.StatusNotFound, "Event not found", nil)
		case errors.Is(err, ErrEventNotEditable):
			response.Error(ctx, http.StatusConflict, "Event cannot be modified", err.Error())
		default:
			response.Error(ctx, http.StatusBadRequest, "Failed to update event", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Event updated successfully", event)
}

// DeleteEvent handles DELETE /api/v1/admin/events/:id
func (c *Controller) DeleteEvent(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid event ID", err)
		return
	}

	if err := c.service.DeleteEvent(ctx.Request.Context(), eventID); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.Error(ctx, http.StatusNotFound, "Event not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to delete event", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Event deleted successfully", nil)
}

// GenerateOccurrences handles POST /api/v1/admin/events/:id/occurrences/generate
func (c *Controller) GenerateOccurrences(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid event ID", err)
		return
	}

	created, err := c.service.GenerateOccurrences(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.Error(ctx, http.StatusNotFound, "Event not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to generate occurrences", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Occurrences generated successfully", gin.H{"created": created})
}

// CancelOccurrence handles POST /api/v1/admin/occurrences/:id/cancel
func (c *Controller) CancelOccurrence(ctx *gin.Context) {
	occurrenceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid occurrence ID", err)
		return
	}

	if err := c.service.CancelOccurrence(ctx.Request.Context(), occurrenceID); err != nil {
		if errors.Is(err, ErrOccurrenceNotFound) {
			response.Error(ctx, http.StatusNotFound, "Occurrence not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to cancel occurrence", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Occurrence cancelled successfully", nil)
}

func adminIDFromContext(ctx *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return uuid.Nil, false
	}

	userIDStr, ok := userIDInterface.(string)
	if !ok {
		response.Error(ctx, http.StatusInternalServerError, "Invalid user ID format", nil)
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.BadRequest(ctx, "Invalid user ID", err)
		return uuid.Nil, false
	}

	return userID, true
}
