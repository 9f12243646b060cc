package auth

import (
	"errors"
	"net/http"

	"dexotix/internal/shared/utils/response"
	"dexotix/internal/users"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Register handles POST /api/v1/auth/register
func (c *Controller) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	resp, err := c.service.Register(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			response.Error(ctx, http.StatusConflict, "User with this email already exists", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to register user", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "User registered successfully", resp)
}

// Login handles POST /api/v1/auth/login
func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(ctx, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to login", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Login successful", resp)
}

// RefreshToken handles POST /api/v1/auth/refresh
func (c *Controller) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	tokens, err := c.service.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionRevoked):
			response.Error(ctx, http.StatusUnauthorized, "Session has been logged out", nil)
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUserNotFound):
			response.Error(ctx, http.StatusUnauthorized, "Invalid refresh token", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to refresh token", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Token refreshed successfully", tokens)
}

// Logout handles POST /api/v1/auth/logout
func (c *Controller) Logout(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	if err := c.service.Logout(ctx.Request.Context(), userID); err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to logout", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Logged out successfully", nil)
}

// ChangePassword handles PUT /api/v1/auth/change-password
func (c *Controller) ChangePassword(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	if err := c.service.ChangePassword(ctx.Request.Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(ctx, http.StatusUnauthorized, "Current password is incorrect", nil)
		case errors.Is(err, ErrUserNotFound):
			response.Error(ctx, http.StatusNotFound, "User not found", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to change password", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Password changed successfully", nil)
}

// GetMe handles GET /api/v1/auth/me
func (c *Controller) GetMe(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	profile, err := c.service.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(ctx, http.StatusNotFound, "User not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get profile", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Profile retrieved successfully", profile)
}

// UpdateMe handles PUT /api/v1/auth/me
func (c *Controller) UpdateMe(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var req users.ProfileUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	profile, err := c.service.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(ctx, http.StatusNotFound, "User not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to update profile", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Profile updated successfully", profile)
}

func userIDFromContext(ctx *gin.Context) (string, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return "", false
	}

	userID, ok := userIDInterface.(string)
	if !ok || userID == "" {
		response.Error(ctx, http.StatusInternalServerError, "Invalid user ID format", nil)
		return "", false
	}

	return userID, true
}
