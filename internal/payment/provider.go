package payment

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// IntentRequest captures the information required to open a payment intent
// with a gateway.
type IntentRequest struct {
	BookingID       string
	Amount          decimal.Decimal
	Currency        string
	ExpiresIn       time.Duration
	CallbackBaseURL string
}

// IntentResponse is the minimal gateway answer needed to persist an intent.
type IntentResponse struct {
	Gateway     string
	Token       string
	RedirectURL string
	ExpiresAt   int64
}

// WebhookVerifyResult contains the normalised data extracted from a webhook
// notification after signature verification.
type WebhookVerifyResult struct {
	Valid      bool
	BookingID  string
	Amount     decimal.Decimal
	Status     string
	RawPayload []byte
	Err        error
}

// Provider abstracts the operations required from an upstream payment gateway.
type Provider interface {
	Name() string
	CreateIntent(ctx context.Context, req IntentRequest) (IntentResponse, error)
	VerifyWebhook(r *http.Request, body []byte) (WebhookVerifyResult, error)
}
