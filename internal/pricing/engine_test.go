package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubStores struct {
	profile     ProviderProfile
	profileErr  error
	promos      map[string]Promotion
	promoErr    error
	feeConfigs  map[uuid.UUID]FeeConfig
	feeErr      error
	defaults    PlatformDefaults
	defaultsErr error
}

func (s *stubStores) ProviderProfile(ctx context.Context, providerID uuid.UUID) (ProviderProfile, error) {
	if s.profileErr != nil {
		return ProviderProfile{}, s.profileErr
	}
	return s.profile, nil
}

func (s *stubStores) PromotionByCode(ctx context.Context, code string) (Promotion, error) {
	if s.promoErr != nil {
		return Promotion{}, s.promoErr
	}
	promo, ok := s.promos[code]
	if !ok {
		return Promotion{}, ErrPromotionNotFound
	}
	return promo, nil
}

func (s *stubStores) FeeConfigByID(ctx context.Context, id uuid.UUID) (FeeConfig, error) {
	if s.feeErr != nil {
		return FeeConfig{}, s.feeErr
	}
	cfg, ok := s.feeConfigs[id]
	if !ok {
		return FeeConfig{}, ErrFeeConfigNotFound
	}
	return cfg, nil
}

func (s *stubStores) PlatformDefaults(ctx context.Context) (PlatformDefaults, error) {
	if s.defaultsErr != nil {
		return PlatformDefaults{}, s.defaultsErr
	}
	return s.defaults, nil
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newEngine(s *stubStores) *Engine {
	return &Engine{
		Profiles:   s,
		Promotions: s,
		FeeConfigs: s,
		Settings:   s,
		Now:        func() time.Time { return testNow },
	}
}

func TestComputeTaxAndPercentageFee(t *testing.T) {
	feeID := uuid.New()
	stores := &stubStores{
		profile: ProviderProfile{TaxRatePercent: decPtr("15"), TipsEnabled: true, FeeConfigID: &feeID},
		feeConfigs: map[uuid.UUID]FeeConfig{
			feeID: {ID: feeID, FeeType: FeePercentage, FeePercentage: decPtr("10"), IsActive: true},
		},
	}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:  dec("100"),
		ProviderID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "subtotal", res.Subtotal, "100")
	assertDecimal(t, "tax amount", res.TaxAmount, "15.00")
	assertDecimal(t, "service fee amount", res.ServiceFeeAmount, "10.00")
	assertDecimal(t, "service fee percentage", res.ServiceFeePercentage, "10")
	assertDecimal(t, "total", res.TotalAmount, "125.00")
	assertDecimal(t, "commission base", res.CommissionBase, "100")
}

func TestComputePercentageDiscountCapped(t *testing.T) {
	promoID := uuid.New()
	stores := &stubStores{
		profile: ProviderProfile{TipsEnabled: true},
		promos: map[string]Promotion{
			"HALF": {
				ID:                promoID,
				Code:              "HALF",
				Type:              PromotionPercentage,
				Value:             dec("50"),
				MaxDiscountAmount: decPtr("60"),
				IsActive:          true,
			},
		},
	}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:     dec("200"),
		ProviderID:    uuid.New(),
		PromotionCode: strPtr("half"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PromotionID == nil || *res.PromotionID != promoID {
		t.Fatalf("expected promotion %s applied, got %v", promoID, res.PromotionID)
	}
	assertDecimal(t, "discount", res.DiscountAmount, "60")
	assertDecimal(t, "total", res.TotalAmount, "140.00")
	assertDecimal(t, "commission base", res.CommissionBase, "140")
}

func TestComputeExpiredPromotionIgnored(t *testing.T) {
	expired := testNow.Add(-24 * time.Hour)
	stores := &stubStores{
		profile: ProviderProfile{TipsEnabled: true},
		promos: map[string]Promotion{
			"OLD": {ID: uuid.New(), Code: "OLD", Type: PromotionFixed, Value: dec("10"), IsActive: true, ValidUntil: &expired},
		},
	}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:     dec("100"),
		ProviderID:    uuid.New(),
		PromotionCode: strPtr("OLD"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PromotionID != nil {
		t.Fatalf("expected no promotion applied, got %v", res.PromotionID)
	}
	assertDecimal(t, "discount", res.DiscountAmount, "0")
	assertDecimal(t, "total", res.TotalAmount, "100.00")
}

func TestComputeUnknownCodeIgnored(t *testing.T) {
	stores := &stubStores{profile: ProviderProfile{TipsEnabled: true}}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:     dec("80"),
		ProviderID:    uuid.New(),
		PromotionCode: strPtr("NOPE"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PromotionID != nil {
		t.Fatalf("expected no promotion applied, got %v", res.PromotionID)
	}
	assertDecimal(t, "total", res.TotalAmount, "80.00")
}

func TestComputePromotionStoreFailure(t *testing.T) {
	stores := &stubStores{
		profile:  ProviderProfile{TipsEnabled: true},
		promoErr: errors.New("connection refused"),
	}
	_, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:     dec("80"),
		ProviderID:    uuid.New(),
		PromotionCode: strPtr("ANY"),
	})
	var lookupErr *ConfigLookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected ConfigLookupError, got %v", err)
	}
	if lookupErr.Source != "promotion" {
		t.Fatalf("expected promotion source, got %q", lookupErr.Source)
	}
}

func TestComputeProviderLookupFailure(t *testing.T) {
	stores := &stubStores{profileErr: ErrProviderNotFound}
	_, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:  dec("80"),
		ProviderID: uuid.New(),
	})
	var lookupErr *ConfigLookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected ConfigLookupError, got %v", err)
	}
	if !errors.Is(err, ErrProviderNotFound) {
		t.Fatalf("expected provider-not-found in chain, got %v", err)
	}
}

func TestComputeScopedPromotionAtHome(t *testing.T) {
	locID := uuid.New()
	stores := &stubStores{
		profile: ProviderProfile{TipsEnabled: true},
		promos: map[string]Promotion{
			"SALON": {ID: uuid.New(), Code: "SALON", Type: PromotionFixed, Value: dec("10"), IsActive: true, LocationID: &locID},
		},
	}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:     dec("100"),
		ProviderID:    uuid.New(),
		PromotionCode: strPtr("SALON"),
		LocationType:  AtHome,
		LocationID:    &locID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PromotionID != nil {
		t.Fatal("scoped promotion must not apply to at-home bookings")
	}
	assertDecimal(t, "total", res.TotalAmount, "100.00")
}

func TestComputeScopedPromotionAtSalon(t *testing.T) {
	locID := uuid.New()
	stores := &stubStores{
		profile: ProviderProfile{TipsEnabled: true},
		promos: map[string]Promotion{
			"SALON": {ID: uuid.New(), Code: "SALON", Type: PromotionFixed, Value: dec("10"), IsActive: true, LocationID: &locID},
		},
	}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:     dec("100"),
		ProviderID:    uuid.New(),
		PromotionCode: strPtr("SALON"),
		LocationType:  AtSalon,
		LocationID:    &locID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PromotionID == nil {
		t.Fatal("expected scoped promotion to apply at its salon")
	}
	assertDecimal(t, "total", res.TotalAmount, "90.00")
}

func TestComputeProviderFeeBelowMinimumFallsBack(t *testing.T) {
	feeID := uuid.New()
	stores := &stubStores{
		profile: ProviderProfile{TipsEnabled: true, FeeConfigID: &feeID},
		feeConfigs: map[uuid.UUID]FeeConfig{
			feeID: {ID: feeID, FeeType: FeePercentage, FeePercentage: decPtr("10"), MinBookingAmount: decPtr("500"), IsActive: true},
		},
		defaults: PlatformDefaults{FeeType: strPtr(FeePercentage), FeePercentage: decPtr("5")},
	}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:  dec("100"),
		ProviderID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "service fee percentage", res.ServiceFeePercentage, "5")
	assertDecimal(t, "service fee amount", res.ServiceFeeAmount, "5.00")
	assertDecimal(t, "total", res.TotalAmount, "105.00")
}

func TestComputeDanglingFeeConfigFallsBack(t *testing.T) {
	missing := uuid.New()
	stores := &stubStores{
		profile:  ProviderProfile{TipsEnabled: true, FeeConfigID: &missing},
		defaults: PlatformDefaults{FeeType: strPtr(FeeFixedAmount), FeeFixedAmount: decPtr("7.50")},
	}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:  dec("100"),
		ProviderID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "service fee amount", res.ServiceFeeAmount, "7.50")
	assertDecimal(t, "service fee percentage", res.ServiceFeePercentage, "0")
}

func TestComputeTipsDisabled(t *testing.T) {
	stores := &stubStores{profile: ProviderProfile{TipsEnabled: false}}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:  dec("100"),
		ProviderID: uuid.New(),
		TipAmount:  decPtr("20"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "tip", res.TipAmount, "0")
	assertDecimal(t, "total", res.TotalAmount, "100.00")
}

func TestComputeTipIncludedAfterDiscount(t *testing.T) {
	stores := &stubStores{
		profile: ProviderProfile{TipsEnabled: true},
		promos: map[string]Promotion{
			"TEN": {ID: uuid.New(), Code: "TEN", Type: PromotionFixed, Value: dec("10"), IsActive: true},
		},
	}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:     dec("100"),
		ProviderID:    uuid.New(),
		TipAmount:     decPtr("20"),
		PromotionCode: strPtr("TEN"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "tip", res.TipAmount, "20")
	// Tip rides on top of the discounted subtotal untouched by the promotion.
	assertDecimal(t, "total", res.TotalAmount, "110.00")
	assertDecimal(t, "commission base", res.CommissionBase, "90")
}

func TestComputeNegativeInputsClamped(t *testing.T) {
	stores := &stubStores{profile: ProviderProfile{TipsEnabled: true}}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:  dec("-50"),
		TravelFee:  dec("-10"),
		ProviderID: uuid.New(),
		TipAmount:  decPtr("-5"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "subtotal", res.Subtotal, "0")
	assertDecimal(t, "travel fee", res.TravelFee, "0")
	assertDecimal(t, "tip", res.TipAmount, "0")
	assertDecimal(t, "total", res.TotalAmount, "0.00")
}

func TestComputeTravelFeeInSubtotal(t *testing.T) {
	stores := &stubStores{
		profile: ProviderProfile{TaxRatePercent: decPtr("10"), TipsEnabled: true},
	}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:    dec("100"),
		TravelFee:    dec("25"),
		ProviderID:   uuid.New(),
		LocationType: AtHome,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "subtotal", res.Subtotal, "125")
	assertDecimal(t, "travel fee", res.TravelFee, "25")
	assertDecimal(t, "tax amount", res.TaxAmount, "12.50")
	assertDecimal(t, "total", res.TotalAmount, "137.50")
}

func TestComputeProviderTaxOverridesPlatform(t *testing.T) {
	stores := &stubStores{
		profile:  ProviderProfile{TaxRatePercent: decPtr("5"), TipsEnabled: true},
		defaults: PlatformDefaults{TaxRatePercent: decPtr("10")},
	}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:  dec("100"),
		ProviderID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "tax rate", res.TaxRate, "5")
	assertDecimal(t, "tax amount", res.TaxAmount, "5.00")
}

func TestComputeRoundsHalfUp(t *testing.T) {
	stores := &stubStores{
		profile: ProviderProfile{TaxRatePercent: decPtr("15"), TipsEnabled: true},
	}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:  dec("0.10"),
		ProviderID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "tax amount", res.TaxAmount, "0.02")
	assertDecimal(t, "total", res.TotalAmount, "0.12")
}

func TestComputeZeroDiscountDropsPromotion(t *testing.T) {
	stores := &stubStores{
		profile: ProviderProfile{TipsEnabled: true},
		promos: map[string]Promotion{
			"TINY": {ID: uuid.New(), Code: "TINY", Type: PromotionPercentage, Value: dec("1"), IsActive: true},
		},
	}
	res, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:     dec("0.10"),
		ProviderID:    uuid.New(),
		PromotionCode: strPtr("TINY"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PromotionID != nil {
		t.Fatalf("expected promotion dropped when discount rounds to zero, got %v", res.PromotionID)
	}
	assertDecimal(t, "discount", res.DiscountAmount, "0")
}

func TestComputeSettingsLookupFailure(t *testing.T) {
	stores := &stubStores{
		profile:     ProviderProfile{TipsEnabled: true},
		defaultsErr: errors.New("connection refused"),
	}
	_, err := newEngine(stores).Compute(context.Background(), Input{
		BasePrice:  dec("100"),
		ProviderID: uuid.New(),
	})
	var lookupErr *ConfigLookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected ConfigLookupError, got %v", err)
	}
	if lookupErr.Source != "platform settings" {
		t.Fatalf("expected platform settings source, got %q", lookupErr.Source)
	}
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func strPtr(value string) *string {
	return &value
}

func assertDecimal(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("expected %s %s, got %s", field, want, got)
	}
}
