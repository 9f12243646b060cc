package cancellation

import (
	"context"
	"errors"
	"net/http"

	"dexotix/internal/bookings"
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

// RequestCancellation handles POST /api/v1/cancellations
func (c *Controller) RequestCancellation(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var req RequestCancellationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	cancellation, err := c.service.RequestCancellation(ctx.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, bookings.ErrBookingNotOwned):
			response.Error(ctx, http.StatusForbidden, "Booking belongs to another user", nil)
		case errors.Is(err, ErrNotRefundable):
			response.Error(ctx, http.StatusConflict, "Only confirmed bookings need a refund request", nil)
		case errors.Is(err, ErrAlreadyRequested):
			response.Error(ctx, http.StatusConflict, "Cancellation already requested", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to request cancellation", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Cancellation requested successfully", cancellation)
}

// GetMyCancellations handles GET /api/v1/cancellations
func (c *Controller) GetMyCancellations(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	cancellations, err := c.service.GetMyCancellations(ctx.Request.Context(), userID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list cancellation requests", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Cancellation requests retrieved successfully", cancellations)
}

// GetPendingCancellations handles GET /api/v1/admin/cancellations
func (c *Controller) GetPendingCancellations(ctx *gin.Context) {
	cancellations, err := c.service.GetPendingCancellations(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list pending requests", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Pending cancellation requests retrieved successfully", cancellations)
}

// ApproveCancellation handles POST /api/v1/admin/cancellations/:id/approve
func (c *Controller) ApproveCancellation(ctx *gin.Context) {
	c.process(ctx, c.service.ApproveCancellation, "Cancellation approved successfully")
}

// RejectCancellation handles POST /api/v1/admin/cancellations/:id/reject
func (c *Controller) RejectCancellation(ctx *gin.Context) {
	c.process(ctx, c.service.RejectCancellation, "Cancellation rejected successfully")
}

type processFunc func(ctx context.Context, id, adminID uuid.UUID, req ProcessCancellationRequest) (*CancellationResponse, error)

func (c *Controller) process(ctx *gin.Context, fn processFunc, message string) {
	adminID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid cancellation ID", err)
		return
	}

	var req ProcessCancellationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	cancellation, err := fn(ctx.Request.Context(), id, adminID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCancellationNotFound):
			response.Error(ctx, http.StatusNotFound, "Cancellation request not found", nil)
		case errors.Is(err, ErrAlreadyProcessed):
			response.Error(ctx, http.StatusConflict, "Cancellation request already processed", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to process cancellation", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, message, cancellation)
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
