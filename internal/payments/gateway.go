package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dexotix/internal/shared/config"
)

// Gateway abstracts the payment provider. Signature checks are pure so the
// SIMULATED provider behaves exactly like the real one minus the HTTP calls.
type Gateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (string, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
	Refund(ctx context.Context, gatewayPaymentID string, amountPaise int64) (string, error)
	Provider() string
}

func NewGateway(cfg config.PaymentConfig) Gateway {
	if cfg.Provider == "RAZORPAY" {
		return &razorpayGateway{
			cfg: cfg,
			client: &http.Client{
				Timeout: cfg.Timeout,
			},
		}
	}
	return &simulatedGateway{cfg: cfg}
}

// signPayload computes the hex HMAC-SHA256 Razorpay uses for both payment and
// webhook signatures.
func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func signatureMatches(expected, got string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

type razorpayGateway struct {
	cfg    config.PaymentConfig
	client *http.Client
}

func (g *razorpayGateway) Provider() string { return "RAZORPAY" }

func (g *razorpayGateway) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway order creation failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var order struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &order); err != nil {
		return "", fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("gateway returned no order ID")
	}
	return order.ID, nil
}

func (g *razorpayGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	expected := signPayload(g.cfg.KeySecret, []byte(orderID+"|"+paymentID))
	return signatureMatches(expected, signature)
}

func (g *razorpayGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	expected := signPayload(g.cfg.WebhookSecret, body)
	return signatureMatches(expected, signature)
}

func (g *razorpayGateway) Refund(ctx context.Context, gatewayPaymentID string, amountPaise int64) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"amount": amountPaise,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/payments/%s/refund", g.cfg.BaseURL, gatewayPaymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway refund failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var refund struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &refund); err != nil {
		return "", fmt.Errorf("failed to decode refund response: %w", err)
	}
	return refund.ID, nil
}

// simulatedGateway signs with the same HMAC scheme as Razorpay so the verify
// flow can be exercised end to end in development.
type simulatedGateway struct {
	cfg config.PaymentConfig
}

func (g *simulatedGateway) Provider() string { return "SIMULATED" }

func (g *simulatedGateway) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (string, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return "order_sim_" + hex.EncodeToString(suffix), nil
}

func (g *simulatedGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	expected := signPayload(g.cfg.KeySecret, []byte(orderID+"|"+paymentID))
	return signatureMatches(expected, signature)
}

func (g *simulatedGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	expected := signPayload(g.cfg.WebhookSecret, body)
	return signatureMatches(expected, signature)
}

func (g *simulatedGateway) Refund(ctx context.Context, gatewayPaymentID string, amountPaise int64) (string, error) {
	return "rfnd_sim_" + fmt.Sprintf("%d", time.Now().UnixNano()), nil
}
