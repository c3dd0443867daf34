package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GlamPay implements Provider for the platform's reference gateway. Intents
// are synthesised deterministically so the rest of the flow can be exercised
// without a network call; webhook signatures are verified for real.
type GlamPay struct {
	ServerKey string
	BaseURL   string
	Sandbox   bool
}

// Name identifies the gateway in payment rows and webhook routes.
func (GlamPay) Name() string { return "glampay" }

// CreateIntent issues a hosted-checkout style intent for the booking.
func (g GlamPay) CreateIntent(_ context.Context, req IntentRequest) (IntentResponse, error) {
	if strings.TrimSpace(req.BookingID) == "" {
		return IntentResponse{}, errors.New("booking id is required")
	}
	token := "GP-" + req.BookingID
	expiresAt := time.Now().Add(req.ExpiresIn)
	return IntentResponse{
		Gateway:     g.Name(),
		Token:       token,
		RedirectURL: fmt.Sprintf("%s/checkout/%s", strings.TrimRight(g.host(), "/"), token),
		ExpiresAt:   expiresAt.Unix(),
	}, nil
}

func (g GlamPay) host() string {
	host := strings.TrimSpace(g.BaseURL)
	if host == "" {
		if g.Sandbox {
			return "https://pay.sandbox.glampay.example"
		}
		return "https://pay.glampay.example"
	}
	return host
}

// VerifyWebhook validates the GlamPay signature and normalises the payload.
// Malformed payloads and bad signatures come back with Valid=false rather
// than an error so the handler can answer 401 instead of 500.
func (g GlamPay) VerifyWebhook(_ *http.Request, body []byte) (WebhookVerifyResult, error) {
	var payload struct {
		BookingID   string `json:"booking_id"`
		Status      string `json:"transaction_status"`
		GrossAmount string `json:"gross_amount"`
		Signature   string `json:"signature"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return WebhookVerifyResult{Valid: false, Err: err}, nil
	}
	if payload.BookingID == "" {
		return WebhookVerifyResult{Valid: false, Err: errors.New("missing booking id")}, nil
	}

	expected := g.computeSignature(payload.BookingID, payload.Status, payload.GrossAmount)
	provided := strings.TrimSpace(payload.Signature)
	if expected == "" || provided == "" || !hmac.Equal([]byte(expected), []byte(provided)) {
		return WebhookVerifyResult{Valid: false, Err: errors.New("invalid signature")}, nil
	}

	amount := decimal.Zero
	if trimmed := strings.TrimSpace(payload.GrossAmount); trimmed != "" {
		parsed, err := decimal.NewFromString(trimmed)
		if err != nil {
			return WebhookVerifyResult{Valid: false, Err: err}, nil
		}
		amount = parsed
	}

	return WebhookVerifyResult{
		Valid:      true,
		BookingID:  payload.BookingID,
		Amount:     amount,
		Status:     normaliseStatus(payload.Status),
		RawPayload: body,
	}, nil
}

func (g GlamPay) computeSignature(bookingID, status, grossAmount string) string {
	key := strings.TrimSpace(g.ServerKey)
	if key == "" {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(bookingID))
	mac.Write([]byte(status))
	mac.Write([]byte(grossAmount))
	return hex.EncodeToString(mac.Sum(nil))
}

func normaliseStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "capture", "settlement", "paid", "success":
		return StatusPaid
	case "deny", "cancel", "failed":
		return StatusFailed
	case "expire", "expired":
		return StatusExpired
	case "refund", "refunded":
		return StatusRefunded
	default:
		return StatusPending
	}
}
