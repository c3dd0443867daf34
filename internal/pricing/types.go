package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocationType distinguishes where a booked service is performed.
type LocationType string

const (
	// AtSalon marks bookings performed at a registered salon location.
	AtSalon LocationType = "at_salon"
	// AtHome marks bookings performed at the customer's address.
	AtHome LocationType = "at_home"
)

// Promotion discount kinds.
const (
	PromotionPercentage = "percentage"
	PromotionFixed      = "fixed"
)

// Fee config kinds.
const (
	FeePercentage  = "percentage"
	FeeFixedAmount = "fixed_amount"
)

// Input carries everything a single pricing computation needs from the caller.
// It is constructed fresh per booking or offer attempt and never mutated.
type Input struct {
	BasePrice     decimal.Decimal
	TravelFee     decimal.Decimal
	Currency      string
	ProviderID    uuid.UUID
	CustomerID    uuid.UUID
	TipAmount     *decimal.Decimal
	PromotionCode *string
	LocationType  LocationType
	LocationID    *uuid.UUID
}

// Result is the full pricing breakdown. The caller persists it on the
// booking or offer record; the engine itself stores nothing.
type Result struct {
	Subtotal                decimal.Decimal
	TravelFee               decimal.Decimal
	PromotionID             *uuid.UUID
	PromotionDiscountAmount decimal.Decimal
	DiscountAmount          decimal.Decimal
	TaxRate                 decimal.Decimal
	TaxAmount               decimal.Decimal
	ServiceFeePercentage    decimal.Decimal
	ServiceFeeAmount        decimal.Decimal
	TipAmount               decimal.Decimal
	TotalAmount             decimal.Decimal
	CommissionBase          decimal.Decimal
}

// Promotion is the read-only snapshot evaluated against a booking subtotal.
// usage_count increments happen at redemption commit, never here.
type Promotion struct {
	ID                uuid.UUID
	Code              string
	Type              string
	Value             decimal.Decimal
	MinPurchaseAmount *decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	ValidFrom         *time.Time
	ValidUntil        *time.Time
	UsageLimit        *int32
	UsageCount        int32
	IsActive          bool
	LocationID        *uuid.UUID
}

// FeeConfig describes a provider-scoped platform service fee.
type FeeConfig struct {
	ID               uuid.UUID
	FeeType          string
	FeePercentage    *decimal.Decimal
	FeeFixedAmount   *decimal.Decimal
	MinBookingAmount *decimal.Decimal
	MaxFeeAmount     *decimal.Decimal
	IsActive         bool
}

// ProviderProfile is the per-provider configuration snapshot re-read on
// every computation so settings changes apply to the next attempt.
type ProviderProfile struct {
	TaxRatePercent *decimal.Decimal
	TipsEnabled    bool
	FeeConfigID    *uuid.UUID
}

// PlatformDefaults carries the platform-wide fallback configuration.
type PlatformDefaults struct {
	TaxRatePercent *decimal.Decimal
	FeeType        *string
	FeePercentage  *decimal.Decimal
	FeeFixedAmount *decimal.Decimal
}
