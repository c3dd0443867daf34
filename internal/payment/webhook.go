package payment

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-glam/internal/audit"
	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
	"github.com/noah-isme/backend-glam/internal/events"
	"github.com/noah-isme/backend-glam/internal/obs"
	"github.com/noah-isme/backend-glam/internal/promo"
)

// Webhook confirms bookings from gateway callbacks. Booking transition and
// promotion redemption commit in one transaction; this is the boundary where
// the preview/commit race on usage limits is resolved.
type Webhook struct {
	Q         *dbgen.Queries
	Pool      *pgxpool.Pool
	Providers map[string]Provider
	Replay    *redis.Client
	ReplayTTL time.Duration
	Events    *events.Bus
	Audit     *audit.Service
	Log       zerolog.Logger
	Now       func() time.Time
}

// Handle processes a gateway callback for the named provider.
func (h Webhook) Handle(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil || h.Pool == nil || len(h.Providers) == 0 {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_NOT_CONFIGURED", "webhook unavailable", nil)
		return
	}
	gateway := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "gateway")))
	provider, ok := h.Providers[gateway]
	if !ok {
		common.JSONError(w, http.StatusNotFound, "GATEWAY_NOT_SUPPORTED", "unknown gateway", nil)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to read payload", nil)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	result, err := provider.VerifyWebhook(r, body)
	if err != nil {
		h.count(gateway, "verify_error")
		common.JSONError(w, http.StatusBadRequest, "WEBHOOK_INVALID", err.Error(), nil)
		return
	}
	if !result.Valid {
		h.count(gateway, "invalid_signature")
		common.JSONError(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "signature verification failed", nil)
		return
	}
	if h.Replay != nil && h.ReplayTTL > 0 {
		sum := sha256.Sum256(body)
		key := fmt.Sprintf("glam:wh:%s:%s", gateway, hex.EncodeToString(sum[:]))
		fresh, err := h.Replay.SetNX(r.Context(), key, "1", h.ReplayTTL).Result()
		if err != nil {
			common.JSONError(w, http.StatusInternalServerError, "REPLAY_STORE_ERROR", err.Error(), nil)
			return
		}
		if !fresh {
			h.count(gateway, "replay")
			common.JSONError(w, http.StatusConflict, "REPLAY", "duplicate webhook", nil)
			return
		}
	}
	if result.RawPayload == nil {
		result.RawPayload = body
	}
	bookingID, err := parseUUIDParamString(result.BookingID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BOOKING_ID", "invalid booking identifier", nil)
		return
	}

	ctx := r.Context()
	tx, err := h.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "TX_ERROR", err.Error(), nil)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()
	qtx := h.Q.WithTx(tx)

	booking, err := qtx.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "BOOKING_NOT_FOUND", "booking not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "BOOKING_FETCH_ERROR", err.Error(), nil)
		return
	}
	payment, err := qtx.GetPaymentByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "PAYMENT_NOT_FOUND", "payment not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_FETCH_ERROR", err.Error(), nil)
		return
	}
	if result.Amount.IsPositive() && !result.Amount.Equal(common.DecimalFromNumeric(payment.Amount)) {
		h.count(gateway, "amount_mismatch")
		common.JSONError(w, http.StatusBadRequest, "AMOUNT_MISMATCH", "gateway amount mismatch", nil)
		return
	}

	shouldConfirm := result.Status == StatusPaid && payment.Status != StatusPaid && booking.Status == "pending_payment"

	if _, err := qtx.UpdatePaymentStatus(ctx, dbgen.UpdatePaymentStatusParams{
		BookingID:   bookingID,
		Status:      result.Status,
		ExternalRef: toNullableText(result.BookingID),
		Payload:     result.RawPayload,
	}); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_UPDATE_ERROR", err.Error(), nil)
		return
	}

	var confirmed bool
	var cancelled bool
	var redemptionExhausted bool
	switch result.Status {
	case StatusPaid:
		if shouldConfirm {
			updated, err := qtx.TransitionBookingStatus(ctx, dbgen.TransitionBookingStatusParams{
				ID:         bookingID,
				PrevStatus: "pending_payment",
				NextStatus: "confirmed",
			})
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					// Lost the race against another transition; nothing to settle.
					break
				}
				common.JSONError(w, http.StatusInternalServerError, "BOOKING_UPDATE_ERROR", err.Error(), nil)
				return
			}
			booking = updated
			confirmed = true
			if booking.PromotionID.Valid {
				redemptionExhausted, err = h.redeem(ctx, qtx, booking)
				if err != nil {
					common.JSONError(w, http.StatusInternalServerError, "REDEMPTION_ERROR", err.Error(), nil)
					return
				}
			}
		}
	case StatusFailed:
		if booking.Status == "pending_payment" {
			if updated, err := qtx.TransitionBookingStatus(ctx, dbgen.TransitionBookingStatusParams{
				ID:         bookingID,
				PrevStatus: "pending_payment",
				NextStatus: "cancelled",
			}); err == nil {
				booking = updated
				cancelled = true
			}
		}
	case StatusExpired:
		if booking.Status == "pending_payment" {
			if updated, err := qtx.TransitionBookingStatus(ctx, dbgen.TransitionBookingStatusParams{
				ID:         bookingID,
				PrevStatus: "pending_payment",
				NextStatus: "expired",
			}); err == nil {
				booking = updated
				cancelled = true
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "TX_COMMIT_ERROR", err.Error(), nil)
		return
	}

	h.count(gateway, strings.ToLower(result.Status))
	if confirmed && obs.BookingsConfirmedTotal != nil {
		obs.BookingsConfirmedTotal.Inc()
	}
	if redemptionExhausted {
		h.Log.Warn().
			Str("booking_id", result.BookingID).
			Str("promotion_id", uuidString(booking.PromotionID)).
			Msg("promotion usage exhausted at confirmation; quoted discount honoured")
		h.recordExhaustedAudit(r, booking)
	}

	h.emit(ctx, booking, result.Status, confirmed, cancelled)
	w.WriteHeader(http.StatusNoContent)
}

// redeem settles the booking's promotion inside the confirmation transaction.
// Usage exhaustion does not fail the webhook: the customer was quoted this
// price, so the booking confirms and the shortfall is the platform's.
func (h Webhook) redeem(ctx context.Context, qtx *dbgen.Queries, booking dbgen.Booking) (exhausted bool, err error) {
	svc := promo.Service{Q: qtx, Now: h.Now}
	err = svc.Redeem(ctx, booking.PromotionID, booking.ID, booking.CustomerID, common.DecimalFromNumeric(booking.PromotionDiscountAmount))
	switch {
	case err == nil:
		if obs.PromoRedemptionsTotal != nil {
			obs.PromoRedemptionsTotal.WithLabelValues("committed").Inc()
		}
		return false, nil
	case errors.Is(err, promo.ErrUsageExhausted):
		if obs.PromoRedemptionsTotal != nil {
			obs.PromoRedemptionsTotal.WithLabelValues("exhausted").Inc()
		}
		return true, nil
	default:
		if obs.PromoRedemptionsTotal != nil {
			obs.PromoRedemptionsTotal.WithLabelValues("error").Inc()
		}
		return false, err
	}
}

func (h Webhook) recordExhaustedAudit(r *http.Request, booking dbgen.Booking) {
	if h.Audit == nil {
		return
	}
	meta := []byte(fmt.Sprintf(`{"promotionId":%q,"discount":%q}`,
		uuidString(booking.PromotionID),
		common.DecimalFromNumeric(booking.PromotionDiscountAmount).StringFixed(2)))
	if err := h.Audit.Record(r.Context(), audit.Actor{Kind: audit.ActorKindSystem}, "promo.usage_exhausted", "booking", uuidString(booking.ID), r, http.StatusNoContent, meta); err != nil {
		h.Log.Error().Err(err).Msg("record exhausted-promotion audit")
	}
}

func (h Webhook) emit(ctx context.Context, booking dbgen.Booking, status string, confirmed, cancelled bool) {
	if h.Events == nil {
		return
	}
	payload := map[string]any{
		"bookingId":   uuidString(booking.ID),
		"customerId":  uuidString(booking.CustomerID),
		"providerId":  uuidString(booking.ProviderID),
		"status":      booking.Status,
		"totalAmount": common.DecimalFromNumeric(booking.TotalAmount).StringFixed(2),
		"currency":    booking.Currency,
	}
	switch {
	case confirmed:
		_, _ = h.Events.Emit(ctx, events.TopicBookingConfirmed, booking.ID, payload)
		if booking.PromotionID.Valid {
			_, _ = h.Events.Emit(ctx, events.TopicPromoRedeemed, booking.ID, map[string]any{
				"bookingId":   uuidString(booking.ID),
				"promotionId": uuidString(booking.PromotionID),
				"discount":    common.DecimalFromNumeric(booking.PromotionDiscountAmount).StringFixed(2),
			})
		}
	case status == StatusFailed || status == StatusExpired:
		_, _ = h.Events.Emit(ctx, events.TopicPaymentFailed, booking.ID, payload)
		if cancelled {
			_, _ = h.Events.Emit(ctx, events.TopicBookingCancelled, booking.ID, payload)
		}
	}
}

func (h Webhook) count(gateway, result string) {
	if obs.PaymentWebhookTotal != nil {
		obs.PaymentWebhookTotal.WithLabelValues(gateway, result).Inc()
	}
}
