package payments

import (
	"errors"
	"io"
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

// CreateOrder handles POST /api/v1/payments/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	order, err := c.service.CreateOrder(ctx.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotOwned):
			response.Error(ctx, http.StatusForbidden, "Booking belongs to another user", nil)
		case errors.Is(err, ErrBookingNotPayable):
			response.Error(ctx, http.StatusConflict, "Booking is not awaiting payment", nil)
		case errors.Is(err, ErrPriceMismatch):
			response.Error(ctx, http.StatusConflict, "Booking total could not be verified", nil)
		default:
			response.Error(ctx, http.StatusBadRequest, "Failed to create payment order", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Payment order created successfully", order)
}

// VerifyPayment handles POST /api/v1/payments/verify
func (c *Controller) VerifyPayment(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var req VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err)
		return
	}

	payment, err := c.service.VerifyPayment(ctx.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			response.Error(ctx, http.StatusNotFound, "Payment not found", nil)
		case errors.Is(err, ErrPaymentNotOwned):
			response.Error(ctx, http.StatusForbidden, "Payment belongs to another user", nil)
		case errors.Is(err, ErrInvalidSignature):
			response.Error(ctx, http.StatusBadRequest, "Payment verification failed", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to verify payment", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Payment verified successfully", payment)
}

// Webhook handles POST /api/v1/payments/webhook. The gateway authenticates via
// the signature header, not a JWT.
func (c *Controller) Webhook(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, 1<<20))
	if err != nil {
		response.BadRequest(ctx, "Failed to read webhook body", err)
		return
	}

	signature := ctx.GetHeader("X-Razorpay-Signature")
	if err := c.service.HandleWebhook(ctx.Request.Context(), body, signature); err != nil {
		switch {
		case errors.Is(err, ErrWebhookUnverified):
			response.Error(ctx, http.StatusUnauthorized, "Webhook signature invalid", nil)
		case errors.Is(err, ErrUnknownWebhookType):
			// Acknowledge events we do not consume so the gateway stops retrying.
			response.Success(ctx, http.StatusOK, "Event ignored", nil)
		case errors.Is(err, ErrPaymentNotFound):
			response.Error(ctx, http.StatusNotFound, "Payment not found", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to process webhook", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Webhook processed", nil)
}

// GetPayment handles GET /api/v1/payments/:id
func (c *Controller) GetPayment(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	paymentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid payment ID", err)
		return
	}

	payment, err := c.service.GetPayment(ctx.Request.Context(), paymentID, userID, isAdmin(ctx))
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			response.Error(ctx, http.StatusNotFound, "Payment not found", nil)
		case errors.Is(err, ErrPaymentNotOwned):
			response.Error(ctx, http.StatusForbidden, "Payment belongs to another user", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to get payment", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Payment retrieved successfully", payment)
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
