package pricing

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrPromotionNotFound is returned by stores when no promotion carries the code.
	ErrPromotionNotFound = errors.New("promotion not found")
	// ErrPromotionInactive is returned when the promotion is disabled or not yet started.
	ErrPromotionInactive = errors.New("promotion not active")
	// ErrPromotionExpired is returned when the promotion window has closed.
	ErrPromotionExpired = errors.New("promotion expired")
	// ErrUsageLimitReached indicates the promotion exhausted its global quota.
	ErrUsageLimitReached = errors.New("promotion usage limit reached")
	// ErrMinPurchaseUnmet indicates the subtotal did not meet the promotion requirement.
	ErrMinPurchaseUnmet = errors.New("promotion minimum purchase not met")
	// ErrLocationMismatch indicates a location-scoped promotion does not cover the booking.
	ErrLocationMismatch = errors.New("promotion not valid at this location")
	// ErrNotEligible covers promotions that pass the checks but yield no discount.
	ErrNotEligible = errors.New("promotion not eligible")
)

// NormalizeCode canonicalizes a promo code for lookup. Codes are stored
// uppercase, so lookups are effectively case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate reports why the promotion cannot be applied at the given
// instant, subtotal, and booking location. A nil return means eligible.
// The window is inclusive on both ends; unset bounds are unbounded.
func (p Promotion) Validate(now time.Time, subtotal decimal.Decimal, locType LocationType, locationID *uuid.UUID) error {
	if !p.IsActive {
		return ErrPromotionInactive
	}
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return ErrPromotionInactive
	}
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return ErrPromotionExpired
	}
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return ErrUsageLimitReached
	}
	if p.MinPurchaseAmount != nil && subtotal.LessThan(*p.MinPurchaseAmount) {
		return ErrMinPurchaseUnmet
	}
	if p.LocationID != nil {
		// Scoped promotions only match salon bookings at that exact
		// location. At-home bookings never match a scoped promotion.
		if locType != AtSalon || locationID == nil || *locationID != *p.LocationID {
			return ErrLocationMismatch
		}
	}
	return nil
}

// Discount computes the promotion's discount against the subtotal,
// capped at MaxDiscountAmount when set and clamped to [0, subtotal].
func (p Promotion) Discount(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	var discount decimal.Decimal
	switch p.Type {
	case PromotionPercentage:
		discount = percentOf(subtotal, p.Value)
	case PromotionFixed:
		discount = Round2(p.Value)
	default:
		return decimal.Zero
	}
	if p.MaxDiscountAmount != nil && discount.GreaterThan(*p.MaxDiscountAmount) {
		discount = Round2(*p.MaxDiscountAmount)
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}
