package bookings

import (
	"errors"
	"net/http"

	"dexotix/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Checkout handles POST /api/v1/bookings
func (c *Controller) Checkout(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	booking, err := c.service.Checkout(ctx.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoPricingPath), errors.Is(err, ErrEmptyBooking), errors.Is(err, ErrUnknownCategory):
			response.Error(ctx, http.StatusBadRequest, "Invalid checkout request", err.Error())
		case errors.Is(err, ErrOccurrenceClosed), errors.Is(err, ErrHoldOccurrenceMix):
			response.Error(ctx, http.StatusConflict, "Checkout rejected", err.Error())
		default:
			response.Error(ctx, http.StatusBadRequest, "Failed to create booking", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Booking created successfully", booking)
}

// GetMyBookings handles GET /api/v1/bookings
func (c *Controller) GetMyBookings(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.BadRequest(ctx, "Invalid query parameters", err)
		return
	}

	result, err := c.service.GetUserBookings(ctx.Request.Context(), userID, query)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list bookings", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully", result)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid booking ID", err)
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID, userID, isAdmin(ctx))
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrBookingNotOwned):
			response.Error(ctx, http.StatusForbidden, "Booking belongs to another user", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to get booking", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved successfully", booking)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid booking ID", err)
		return
	}

	if err := c.service.CancelBooking(ctx.Request.Context(), bookingID, userID, isAdmin(ctx)); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrBookingNotOwned):
			response.Error(ctx, http.StatusForbidden, "Booking belongs to another user", nil)
		case errors.Is(err, ErrNotCancellable):
			response.Error(ctx, http.StatusConflict, "Booking cannot be cancelled", err.Error())
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to cancel booking", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Booking cancelled successfully", nil)
}

// GetAllBookings handles GET /api/v1/admin/bookings
func (c *Controller) GetAllBookings(ctx *gin.Context) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.BadRequest(ctx, "Invalid query parameters", err)
		return
	}

	result, err := c.service.GetAllBookings(ctx.Request.Context(), query)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list bookings", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully", result)
}

func isAdmin(ctx *gin.Context) bool {
	role, _ := ctx.Get("user_role")
	roleStr, _ := role.(string)
	return roleStr == "ADMIN"
}

func userIDFromContext(ctx *gin.Context) (uuid.UUID, bool) {
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
