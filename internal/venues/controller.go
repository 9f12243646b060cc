package venues

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

// ListVenues handles GET /api/v1/venues
func (c *Controller) ListVenues(ctx *gin.Context) {
	var filters VenueFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.BadRequest(ctx, "Invalid query parameters", err)
		return
	}

	result, err := c.service.ListVenues(ctx.Request.Context(), filters)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list venues", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Venues retrieved successfully", result)
}

// GetVenue handles GET /api/v1/venues/:id
func (c *Controller) GetVenue(ctx *gin.Context) {
	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid venue ID", err)
		return
	}

	venue, err := c.service.GetVenue(ctx.Request.Context(), venueID)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			response.Error(ctx, http.StatusNotFound, "Venue not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get venue", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Venue retrieved successfully", venue)
}

// CreateVenue handles POST /api/v1/admin/venues
func (c *Controller) CreateVenue(ctx *gin.Context) {
	adminID, ok := adminIDFromContext(ctx)
	if !ok {
		return
	}

	var req CreateVenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	venue, err := c.service.CreateVenue(ctx.Request.Context(), adminID, req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to create venue", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Venue created successfully", venue)
}

// UpdateVenue handles PUT /api/v1/admin/venues/:id
func (c *Controller) UpdateVenue(ctx *gin.Context) {
	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid venue ID", err)
		return
	}

	var req UpdateVenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	venue, err := c.service.UpdateVenue(ctx.Request.Context(), venueID, req)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			response.Error(ctx, http.StatusNotFound, "Venue not found", nil)
			return
		}
		response.Error(ctx, http.StatusBadRequest, "Failed to update venue", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Venue updated successfully", venue)
}

// DeleteVenue handles DELETE /api/v1/admin/venues/:id
func (c *Controller) DeleteVenue(ctx *gin.Context) {
	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid venue ID", err)
		return
	}

	if err := c.service.DeleteVenue(ctx.Request.Context(), venueID); err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			response.Error(ctx, http.StatusNotFound, "Venue not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to delete venue", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Venue deleted successfully", nil)
}

// GetSeatCategories handles GET /api/v1/venues/:id/seat-categories
func (c *Controller) GetSeatCategories(ctx *gin.Context) {
	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid venue ID", err)
		return
	}

	categories, err := c.service.GetSeatCategories(ctx.Request.Context(), venueID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get seat categories", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Seat categories retrieved successfully", categories)
}

// CreateSeatCategory handles POST /api/v1/admin/venues/:id/seat-categories
func (c *Controller) CreateSeatCategory(ctx *gin.Context) {
	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid venue ID", err)
		return
	}

	var req CreateSeatCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	category, err := c.service.CreateSeatCategory(ctx.Request.Context(), venueID, req)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			response.Error(ctx, http.StatusNotFound, "Venue not found", nil)
			return
		}
		response.Error(ctx, http.StatusBadRequest, "Failed to create seat category", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Seat category created successfully", category)
}

// UpdateSeatCategory handles PUT /api/v1/admin/seat-categories/:id
func (c *Controller) UpdateSeatCategory(ctx *gin.Context) {
	categoryID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid seat category ID", err)
		return
	}

	var req UpdateSeatCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	category, err := c.service.UpdateSeatCategory(ctx.Request.Context(), categoryID, req)
	if err != nil {
		if errors.Is(err, ErrSeatCategoryNotFound) {
			response.Error(ctx, http.StatusNotFound, "Seat category not found", nil)
			return
		}
		response.Error(ctx, http.StatusBadRequest, "Failed to update seat category", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Seat category updated successfully", category)
}

// DeleteSeatCategory handles DELETE /api/v1/admin/seat-categories/:id
func (c *Controller) DeleteSeatCategory(ctx *gin.Context) {
	categoryID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid seat category ID", err)
		return
	}

	if err := c.service.DeleteSeatCategory(ctx.Request.Context(), categoryID); err != nil {
		if errors.Is(err, ErrSeatCategoryNotFound) {
			response.Error(ctx, http.StatusNotFound, "Seat category not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to delete seat category", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Seat category deleted successfully", nil)
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
