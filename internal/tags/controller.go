package tags

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

// GetActiveTags handles GET /api/v1/tags
func (c *Controller) GetActiveTags(ctx *gin.Context) {
	tagList, err := c.service.GetActiveTags(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list tags", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Tags retrieved successfully", tagList)
}

// GetTagBySlug handles GET /api/v1/tags/:slug
func (c *Controller) GetTagBySlug(ctx *gin.Context) {
	tag, err := c.service.GetTagBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrTagNotFound) {
			response.Error(ctx, http.StatusNotFound, "Tag not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get tag", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Tag retrieved successfully", tag)
}

// GetTag handles GET /api/v1/admin/tags/:id
func (c *Controller) GetTag(ctx *gin.Context) {
	tagID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid tag ID", err)
		return
	}

	tag, err := c.service.GetTagByID(ctx.Request.Context(), tagID)
	if err != nil {
		if errors.Is(err, ErrTagNotFound) {
			response.Error(ctx, http.StatusNotFound, "Tag not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get tag", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Tag retrieved successfully", tag)
}

// CreateTag handles POST /api/v1/admin/tags
func (c *Controller) CreateTag(ctx *gin.Context) {
	adminID, ok := adminIDFromContext(ctx)
	if !ok {
		return
	}

	var req CreateTagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	tag, err := c.service.CreateTag(ctx.Request.Context(), adminID, req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to create tag", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Tag created successfully", tag)
}

// UpdateTag handles PUT /api/v1/admin/tags/:id
func (c *Controller) UpdateTag(ctx *gin.Context) {
	adminID, ok := adminIDFromContext(ctx)
	if !ok {
		return
	}

	tagID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid tag ID", err)
		return
	}

	var req UpdateTagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	tag, err := c.service.UpdateTag(ctx.Request.Context(), tagID, adminID, req)
	if err != nil {
		if errors.Is(err, ErrTagNotFound) {
			response.Error(ctx, http.StatusNotFound, "Tag not found", nil)
			return
		}
		response.Error(ctx, http.StatusBadRequest, "Failed to update tag", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Tag updated successfully", tag)
}

// DeleteTag handles DELETE /api/v1/admin/tags/:id
func (c *Controller) DeleteTag(ctx *gin.Context) {
	tagID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid tag ID", err)
		return
	}

	if err := c.service.DeleteTag(ctx.Request.Context(), tagID); err != nil {
		if errors.Is(err, ErrTagNotFound) {
			response.Error(ctx, http.StatusNotFound, "Tag not found", nil)
			return
		}
		response.Error(ctx, http.StatusBadRequest, "Failed to delete tag", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Tag deleted successfully", nil)
}

// adminIDFromContext extracts the authenticated admin's UUID set by the JWT middleware.
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
