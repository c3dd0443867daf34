package promo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
	"github.com/noah-isme/backend-glam/internal/pricing"
)

// ErrUsageExhausted reports that a promotion hit its usage limit at
// redemption time. Callers decide whether that blocks the surrounding flow.
var ErrUsageExhausted = errors.New("promo: usage limit exhausted")

// Querier is the subset of generated queries the promotion service needs.
type Querier interface {
	GetPromotionByCode(ctx context.Context, code string) (dbgen.Promotion, error)
	GetRedemptionByBooking(ctx context.Context, arg dbgen.GetRedemptionByBookingParams) (dbgen.PromotionRedemption, error)
	RedeemPromotion(ctx context.Context, id pgtype.UUID) (dbgen.RedeemPromotionRow, error)
	InsertPromotionRedemption(ctx context.Context, arg dbgen.InsertPromotionRedemptionParams) error
}

// PreviewResult reports whether a code would apply to a booking shape and
// for how much, without touching usage counters.
type PreviewResult struct {
	Code     string          `json:"code"`
	Eligible bool            `json:"eligible"`
	Reason   string          `json:"reason,omitempty"`
	Discount decimal.Decimal `json:"discount"`
}

// Service evaluates and settles promotions. Redeem is meant to run inside
// the payment confirmation transaction with a tx-bound querier so the usage
// counter and the redemption record commit together.
type Service struct {
	Q   Querier
	Now func() time.Time
}

// Preview dry-runs a promotion code against a subtotal and location scope.
// Ineligibility is reported in the result, not as an error; errors are
// reserved for store failures.
func (s *Service) Preview(ctx context.Context, code string, subtotal decimal.Decimal, locType pricing.LocationType, locationID *uuid.UUID) (PreviewResult, error) {
	if s == nil || s.Q == nil {
		return PreviewResult{}, errors.New("promo: service not configured")
	}
	normalized := pricing.NormalizeCode(code)
	result := PreviewResult{Code: normalized, Discount: decimal.Zero}
	if normalized == "" {
		result.Reason = "code_required"
		return result, nil
	}
	row, err := s.Q.GetPromotionByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			result.Reason = "not_found"
			return result, nil
		}
		return PreviewResult{}, fmt.Errorf("promo: load promotion: %w", err)
	}
	rule := pricing.PromotionFromModel(row)
	if err := rule.Validate(s.now(), subtotal, locType, locationID); err != nil {
		result.Reason = reasonFor(err)
		return result, nil
	}
	discount := rule.Discount(subtotal)
	if !discount.IsPositive() {
		result.Reason = "no_discount"
		return result, nil
	}
	result.Eligible = true
	result.Discount = discount
	return result, nil
}

// Redeem settles a promotion for a booking: it increments the usage counter
// only while the limit still has headroom and records the redemption.
// Settling the same booking twice is a no-op so webhook retries stay safe.
func (s *Service) Redeem(ctx context.Context, promotionID, bookingID, customerID pgtype.UUID, discount decimal.Decimal) error {
	if s == nil || s.Q == nil {
		return errors.New("promo: service not configured")
	}
	if !promotionID.Valid || !bookingID.Valid {
		return errors.New("promo: promotion and booking ids are required")
	}
	_, err := s.Q.GetRedemptionByBooking(ctx, dbgen.GetRedemptionByBookingParams{
		BookingID:   bookingID,
		PromotionID: promotionID,
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("promo: check redemption: %w", err)
	}
	if _, err := s.Q.RedeemPromotion(ctx, promotionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUsageExhausted
		}
		return fmt.Errorf("promo: increment usage: %w", err)
	}
	if err := s.Q.InsertPromotionRedemption(ctx, dbgen.InsertPromotionRedemptionParams{
		PromotionID:    promotionID,
		BookingID:      bookingID,
		CustomerID:     customerID,
		DiscountAmount: common.NumericFromDecimal(discount),
	}); err != nil {
		return fmt.Errorf("promo: record redemption: %w", err)
	}
	return nil
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, pricing.ErrPromotionInactive):
		return "not_active"
	case errors.Is(err, pricing.ErrPromotionExpired):
		return "expired"
	case errors.Is(err, pricing.ErrUsageLimitReached):
		return "usage_limit_reached"
	case errors.Is(err, pricing.ErrMinPurchaseUnmet):
		return "min_purchase_not_met"
	case errors.Is(err, pricing.ErrLocationMismatch):
		return "location_mismatch"
	default:
		return "not_eligible"
	}
}
