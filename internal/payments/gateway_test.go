package payments

import (
	"context"
	"strings"
	"testing"

	"dexotix/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGatewayConfig() config.PaymentConfig {
	return config.PaymentConfig{
		Provider:      "SIMULATED",
		KeyID:         "rzp_test_key",
		KeySecret:     "secret",
		WebhookSecret: "whsecret",
		Currency:      "INR",
	}
}

func TestSignPayloadIsDeterministic(t *testing.T) {
	a := signPayload("secret", []byte("order_123|pay_456"))
	b := signPayload("secret", []byte("order_123|pay_456"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	assert.NotEqual(t, a, signPayload("other", []byte("order_123|pay_456")))
	assert.NotEqual(t, a, signPayload("secret", []byte("order_123|pay_457")))
}

func TestSimulatedGatewayRoundTrip(t *testing.T) {
	gw := NewGateway(testGatewayConfig())
	assert.Equal(t, "SIMULATED", gw.Provider())

	orderID, err := gw.CreateOrder(context.Background(), 209000, "INR", "DTX-20260829-ABCDEF")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(orderID, "order_sim_"))

	signature := signPayload("secret", []byte(orderID+"|pay_001"))
	assert.True(t, gw.VerifyPaymentSignature(orderID, "pay_001", signature))
	assert.False(t, gw.VerifyPaymentSignature(orderID, "pay_001", "bogus"))
	assert.False(t, gw.VerifyPaymentSignature(orderID, "pay_002", signature))
}

func TestWebhookSignature(t *testing.T) {
	gw := NewGateway(testGatewayConfig())
	body := []byte(`{"event":"payment.captured"}`)

	signature := signPayload("whsecret", body)
	assert.True(t, gw.VerifyWebhookSignature(body, signature))
	assert.False(t, gw.VerifyWebhookSignature([]byte(`{"event":"tampered"}`), signature))
}

func TestRazorpayGatewaySelection(t *testing.T) {
	cfg := testGatewayConfig()
	cfg.Provider = "RAZORPAY"
	gw := NewGateway(cfg)
	assert.Equal(t, "RAZORPAY", gw.Provider())
}
