package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func signGlamPay(key, bookingID, status, grossAmount string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(bookingID))
	mac.Write([]byte(status))
	mac.Write([]byte(grossAmount))
	return hex.EncodeToString(mac.Sum(nil))
}

func glamPayBody(t *testing.T, key, bookingID, status, grossAmount string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"booking_id":         bookingID,
		"transaction_status": status,
		"gross_amount":       grossAmount,
		"signature":          signGlamPay(key, bookingID, status, grossAmount),
	})
	require.NoError(t, err)
	return body
}

func TestGlamPayVerifyWebhookSettlement(t *testing.T) {
	g := GlamPay{ServerKey: "server-key"}
	body := glamPayBody(t, "server-key", "b-123", "settlement", "108.95")

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook/glampay", bytes.NewReader(body))
	result, err := g.VerifyWebhook(req, body)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, "b-123", result.BookingID)
	require.Equal(t, StatusPaid, result.Status)
	require.True(t, result.Amount.Equal(mustDecimal(t, "108.95")))
}

func TestGlamPayVerifyWebhookRejectsBadSignature(t *testing.T) {
	g := GlamPay{ServerKey: "server-key"}
	body := glamPayBody(t, "wrong-key", "b-123", "settlement", "108.95")

	result, err := g.VerifyWebhook(httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)), body)
	require.NoError(t, err)
	require.False(t, result.Valid)
}

func TestGlamPayVerifyWebhookRejectsTamperedAmount(t *testing.T) {
	g := GlamPay{ServerKey: "server-key"}
	body := glamPayBody(t, "server-key", "b-123", "settlement", "108.95")
	tampered := bytes.Replace(body, []byte("108.95"), []byte("1.00"), 1)

	result, err := g.VerifyWebhook(httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(tampered)), tampered)
	require.NoError(t, err)
	require.False(t, result.Valid)
}

func TestGlamPayVerifyWebhookRejectsGarbage(t *testing.T) {
	g := GlamPay{ServerKey: "server-key"}
	result, err := g.VerifyWebhook(httptest.NewRequest(http.MethodPost, "/", nil), []byte("{not json"))
	require.NoError(t, err)
	require.False(t, result.Valid)
}

func TestGlamPayStatusMapping(t *testing.T) {
	cases := map[string]string{
		"capture":    StatusPaid,
		"settlement": StatusPaid,
		"Success":    StatusPaid,
		"deny":       StatusFailed,
		"cancel":     StatusFailed,
		"expire":     StatusExpired,
		"refund":     StatusRefunded,
		"pending":    StatusPending,
		"mystery":    StatusPending,
	}
	for raw, want := range cases {
		require.Equal(t, want, normaliseStatus(raw), raw)
	}
}

func TestGlamPayCreateIntentDeterministic(t *testing.T) {
	g := GlamPay{Sandbox: true}
	resp, err := g.CreateIntent(context.Background(), IntentRequest{
		BookingID: "b-123",
		ExpiresIn: 30 * time.Minute,
	})
	require.NoError(t, err)
	require.Equal(t, "glampay", resp.Gateway)
	require.Equal(t, "GP-b-123", resp.Token)
	require.Equal(t, "https://pay.sandbox.glampay.example/checkout/GP-b-123", resp.RedirectURL)

	_, err = g.CreateIntent(context.Background(), IntentRequest{})
	require.Error(t, err)
}
