package payments

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentCreated  PaymentStatus = "CREATED"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Payment tracks one gateway order for a booking. AmountPaise is the reconciled
// booking total in the currency's smallest unit, which is what the gateway
// expects.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	AmountPaise int64         `gorm:"not null" json:"amount_paise"`
	Currency    string        `gorm:"type:varchar(3);not null" json:"currency"`
	Status      PaymentStatus `gorm:"type:varchar(20);default:'CREATED'" json:"status"`
	Provider    string        `gorm:"type:varchar(20);not null" json:"provider"`

	GatewayOrderID   string `gorm:"index" json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
	GatewayRefundID  string `json:"gateway_refund_id,omitempty"`
	FailureReason    string `json:"failure_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

type CreateOrderRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
}

// CreateOrderResponse carries everything the frontend checkout widget needs.
type CreateOrderResponse struct {
	PaymentID   string `json:"payment_id"`
	OrderID     string `json:"order_id"`
	AmountPaise int64  `json:"amount_paise"`
	Currency    string `json:"currency"`
	KeyID       string `json:"key_id"`
	BookingRef  string `json:"booking_ref"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

type PaymentResponse struct {
	ID               string    `json:"id"`
	BookingID        string    `json:"booking_id"`
	AmountPaise      int64     `json:"amount_paise"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	Provider         string    `json:"provider"`
	GatewayOrderID   string    `json:"gateway_order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:               p.ID.String(),
		BookingID:        p.BookingID.String(),
		AmountPaise:      p.AmountPaise,
		Currency:         p.Currency,
		Status:           string(p.Status),
		Provider:         p.Provider,
		GatewayOrderID:   p.GatewayOrderID,
		GatewayPaymentID: p.GatewayPaymentID,
		CreatedAt:        p.CreatedAt,
	}
}

// webhookEvent mirrors the subset of the Razorpay webhook envelope we consume.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				Status           string `json:"status"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}
