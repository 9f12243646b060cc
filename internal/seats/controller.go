package seats

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

// GetSeatMap handles GET /api/v1/venues/:id/seat-map?occurrence_id=xxx
func (c *Controller) GetSeatMap(ctx *gin.Context) {
	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid venue ID", err)
		return
	}

	occurrenceID, err := uuid.Parse(ctx.Query("occurrence_id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid or missing occurrence_id", err)
		return
	}

	seatMap, err := c.service.GetSeatMap(ctx.Request.Context(), venueID, occurrenceID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get seat map", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Seat map retrieved successfully", seatMap)
}

// GetSeat handles GET /api/v1/seats/:id
func (c *Controller) GetSeat(ctx *gin.Context) {
	seatID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid seat ID", err)
		return
	}

	seat, err := c.service.GetSeatByID(ctx.Request.Context(), seatID)
	if err != nil {
		if errors.Is(err, ErrSeatNotFound) {
			response.Error(ctx, http.StatusNotFound, "Seat not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get seat", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Seat retrieved successfully", seat)
}

// HoldSeats handles POST /api/v1/seats/hold
func (c *Controller) HoldSeats(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var req SeatHoldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	hold, err := c.service.HoldSeats(ctx.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrSeatUnavailable) || errors.Is(err, ErrSeatNotFound) {
			response.Error(ctx, http.StatusConflict, "Seats unavailable", err.Error())
			return
		}
		response.Error(ctx, http.StatusBadRequest, "Failed to hold seats", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Seats held successfully", hold)
}

// ReleaseHold handles DELETE /api/v1/seats/hold/:holdId
func (c *Controller) ReleaseHold(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	holdID := ctx.Param("holdId")
	if err := c.service.ReleaseHold(ctx.Request.Context(), holdID, userID); err != nil {
		switch {
		case errors.Is(err, ErrHoldNotFound):
			response.Error(ctx, http.StatusNotFound, "Hold not found", nil)
		case errors.Is(err, ErrHoldNotOwned):
			response.Error(ctx, http.StatusForbidden, "Hold belongs to another user", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to release hold", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Hold released successfully", nil)
}

// ValidateHold handles GET /api/v1/seats/hold/:holdId/validate
func (c *Controller) ValidateHold(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	result, err := c.service.ValidateHold(ctx.Request.Context(), ctx.Param("holdId"), userID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to validate hold", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Hold validation result", result)
}

// ExtendHold handles POST /api/v1/seats/hold/:holdId/extend
func (c *Controller) ExtendHold(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var req ExtendHoldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	if err := c.service.ExtendHold(ctx.Request.Context(), ctx.Param("holdId"), userID, req.Seconds); err != nil {
		switch {
		case errors.Is(err, ErrHoldNotFound):
			response.Error(ctx, http.StatusNotFound, "Hold not found", nil)
		case errors.Is(err, ErrHoldNotOwned):
			response.Error(ctx, http.StatusForbidden, "Hold belongs to another user", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to extend hold", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Hold extended successfully", nil)
}

// GetMyHolds handles GET /api/v1/seats/holds
func (c *Controller) GetMyHolds(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	holds, err := c.service.GetUserHolds(ctx.Request.Context(), userID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get holds", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Holds retrieved successfully", holds)
}

// CreateSeats handles POST /api/v1/admin/venues/:id/seats
func (c *Controller) CreateSeats(ctx *gin.Context) {
	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid venue ID", err)
		return
	}

	var req CreateSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	created, err := c.service.CreateSeats(ctx.Request.Context(), venueID, req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to create seats", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Seats created successfully", gin.H{"created": created})
}

// UpdateSeat handles PUT /api/v1/admin/seats/:id
func (c *Controller) UpdateSeat(ctx *gin.Context) {
	seatID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid seat ID", err)
		return
	}

	var req UpdateSeatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	seat, err := c.service.UpdateSeat(ctx.Request.Context(), seatID, req)
	if err != nil {
		if errors.Is(err, ErrSeatNotFound) {
			response.Error(ctx, http.StatusNotFound, "Seat not found", nil)
			return
		}
		response.Error(ctx, http.StatusBadRequest, "Failed to update seat", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Seat updated successfully", seat)
}

// DeleteSeat handles DELETE /api/v1/admin/seats/:id
func (c *Controller) DeleteSeat(ctx *gin.Context) {
	seatID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid seat ID", err)
		return
	}

	if err := c.service.DeleteSeat(ctx.Request.Context(), seatID); err != nil {
		if errors.Is(err, ErrSeatNotFound) {
			response.Error(ctx, http.StatusNotFound, "Seat not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to delete seat", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Seat deleted successfully", nil)
}

func userIDFromContext(ctx *gin.Context) (string, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return "", false
	}

	userID, ok := userIDInterface.(string)
	if !ok {
		response.Error(ctx, http.StatusInternalServerError, "Invalid user ID format", nil)
		return "", false
	}

	return userID, true
}
