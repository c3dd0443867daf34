package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConfigLookupError wraps a failed read against one of the engine's
// configuration sources. It propagates to the caller unmodified; the
// engine never retries.
type ConfigLookupError struct {
	Source string
	Err    error
}

func (e *ConfigLookupError) Error() string {
	return fmt.Sprintf("pricing: %s lookup failed: %v", e.Source, e.Err)
}

func (e *ConfigLookupError) Unwrap() error { return e.Err }

// ProfileStore loads the provider configuration snapshot.
type ProfileStore interface {
	ProviderProfile(ctx context.Context, providerID uuid.UUID) (ProviderProfile, error)
}

// PromotionStore looks up promotions by normalized code. Implementations
// return ErrPromotionNotFound when no promotion carries the code.
type PromotionStore interface {
	PromotionByCode(ctx context.Context, code string) (Promotion, error)
}

// FeeConfigStore loads fee configurations by id. Implementations return
// ErrFeeConfigNotFound for dangling references.
type FeeConfigStore interface {
	FeeConfigByID(ctx context.Context, id uuid.UUID) (FeeConfig, error)
}

// SettingsStore loads the platform-wide defaults row.
type SettingsStore interface {
	PlatformDefaults(ctx context.Context) (PlatformDefaults, error)
}

// ErrFeeConfigNotFound is returned by stores for dangling fee config references.
var ErrFeeConfigNotFound = errors.New("fee config not found")

// Engine computes the full pricing breakdown for a booking attempt. It
// is stateless and side-effect free beyond its read-only lookups;
// concurrent computations share nothing.
type Engine struct {
	Profiles   ProfileStore
	Promotions PromotionStore
	FeeConfigs FeeConfigStore
	Settings   SettingsStore
	Now        func() time.Time
}

// Compute runs the ordered pricing algorithm. Tax and fee are based on
// the post-discount subtotal, so the steps must not be reordered. The
// first configuration lookup failure aborts the computation; ineligible
// or unknown promotion codes do not.
func (e *Engine) Compute(ctx context.Context, in Input) (Result, error) {
	if e == nil || e.Profiles == nil || e.Promotions == nil || e.FeeConfigs == nil || e.Settings == nil {
		return Result{}, errors.New("pricing engine not configured")
	}

	base := NonNegative(in.BasePrice)
	travel := NonNegative(in.TravelFee)
	subtotalBefore := base.Add(travel)

	profile, err := e.Profiles.ProviderProfile(ctx, in.ProviderID)
	if err != nil {
		return Result{}, &ConfigLookupError{Source: "provider profile", Err: err}
	}

	tip := decimal.Zero
	if profile.TipsEnabled && in.TipAmount != nil {
		tip = Round2(NonNegative(*in.TipAmount))
	}

	promotionID, discount, err := e.evaluatePromotion(ctx, in, subtotalBefore)
	if err != nil {
		return Result{}, err
	}

	subtotalAfter := NonNegative(subtotalBefore.Sub(discount))

	defaults, err := e.Settings.PlatformDefaults(ctx)
	if err != nil {
		return Result{}, &ConfigLookupError{Source: "platform settings", Err: err}
	}

	taxRate := ResolveTaxRate(profile.TaxRatePercent, defaults.TaxRatePercent)
	taxAmount := percentOf(subtotalAfter, taxRate)

	fee, err := e.resolveServiceFee(ctx, profile.FeeConfigID, defaults, subtotalAfter)
	if err != nil {
		return Result{}, err
	}

	total := Round2(subtotalAfter.Add(taxAmount).Add(fee.Amount).Add(tip))

	return Result{
		Subtotal:                subtotalBefore,
		TravelFee:               travel,
		PromotionID:             promotionID,
		PromotionDiscountAmount: discount,
		// Promotions are the only discount source today.
		DiscountAmount:       discount,
		TaxRate:              taxRate,
		TaxAmount:            taxAmount,
		ServiceFeePercentage: fee.Percentage,
		ServiceFeeAmount:     fee.Amount,
		TipAmount:            tip,
		TotalAmount:          total,
		CommissionBase:       subtotalAfter,
	}, nil
}

// evaluatePromotion resolves a promo code to a discount. Unknown and
// ineligible codes resolve to no discount without error so a stale code
// never blocks checkout; store failures propagate.
func (e *Engine) evaluatePromotion(ctx context.Context, in Input, subtotal decimal.Decimal) (*uuid.UUID, decimal.Decimal, error) {
	if in.PromotionCode == nil {
		return nil, decimal.Zero, nil
	}
	code := NormalizeCode(*in.PromotionCode)
	if code == "" {
		return nil, decimal.Zero, nil
	}
	promo, err := e.Promotions.PromotionByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrPromotionNotFound) {
			return nil, decimal.Zero, nil
		}
		return nil, decimal.Zero, &ConfigLookupError{Source: "promotion", Err: err}
	}
	if err := promo.Validate(e.now(), subtotal, in.LocationType, in.LocationID); err != nil {
		return nil, decimal.Zero, nil
	}
	discount := promo.Discount(subtotal)
	if !discount.IsPositive() {
		return nil, decimal.Zero, nil
	}
	id := promo.ID
	return &id, discount, nil
}

// resolveServiceFee applies the provider config first and falls back to
// the platform defaults only when the provider layer quotes exactly
// zero, including the no-config and below-minimum cases.
func (e *Engine) resolveServiceFee(ctx context.Context, feeConfigID *uuid.UUID, defaults PlatformDefaults, subtotal decimal.Decimal) (FeeQuote, error) {
	if feeConfigID != nil {
		cfg, err := e.FeeConfigs.FeeConfigByID(ctx, *feeConfigID)
		switch {
		case err == nil:
			if quote := cfg.Quote(subtotal); !quote.Amount.IsZero() {
				return quote, nil
			}
		case errors.Is(err, ErrFeeConfigNotFound):
			// Dangling reference behaves like no config at all.
		default:
			return FeeQuote{}, &ConfigLookupError{Source: "fee config", Err: err}
		}
	}
	return defaults.Fee(subtotal), nil
}

func (e *Engine) now() time.Time {
	if e != nil && e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
