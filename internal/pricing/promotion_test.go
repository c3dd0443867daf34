package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  summer10 "); got != "SUMMER10" {
		t.Fatalf("expected SUMMER10, got %q", got)
	}
}

func TestValidateInactive(t *testing.T) {
	promo := Promotion{IsActive: false}
	if err := promo.Validate(testNow, dec("100"), AtSalon, nil); !errors.Is(err, ErrPromotionInactive) {
		t.Fatalf("expected ErrPromotionInactive, got %v", err)
	}
}

func TestValidateWindowInclusive(t *testing.T) {
	from := testNow
	until := testNow
	promo := Promotion{IsActive: true, ValidFrom: &from, ValidUntil: &until}
	if err := promo.Validate(testNow, dec("100"), AtSalon, nil); err != nil {
		t.Fatalf("boundary instants must be eligible, got %v", err)
	}
	if err := promo.Validate(testNow.Add(time.Second), dec("100"), AtSalon, nil); !errors.Is(err, ErrPromotionExpired) {
		t.Fatalf("expected ErrPromotionExpired, got %v", err)
	}
	if err := promo.Validate(testNow.Add(-time.Second), dec("100"), AtSalon, nil); !errors.Is(err, ErrPromotionInactive) {
		t.Fatalf("expected ErrPromotionInactive before window, got %v", err)
	}
}

func TestValidateUsageLimit(t *testing.T) {
	limit := int32(5)
	promo := Promotion{IsActive: true, UsageLimit: &limit, UsageCount: 5}
	if err := promo.Validate(testNow, dec("100"), AtSalon, nil); !errors.Is(err, ErrUsageLimitReached) {
		t.Fatalf("expected ErrUsageLimitReached, got %v", err)
	}
	promo.UsageCount = 4
	if err := promo.Validate(testNow, dec("100"), AtSalon, nil); err != nil {
		t.Fatalf("expected eligible below limit, got %v", err)
	}
	promo.UsageLimit = nil
	promo.UsageCount = 1_000_000
	if err := promo.Validate(testNow, dec("100"), AtSalon, nil); err != nil {
		t.Fatalf("expected unlimited usage without a limit, got %v", err)
	}
}

func TestValidateMinPurchase(t *testing.T) {
	promo := Promotion{IsActive: true, MinPurchaseAmount: decPtr("150")}
	if err := promo.Validate(testNow, dec("149.99"), AtSalon, nil); !errors.Is(err, ErrMinPurchaseUnmet) {
		t.Fatalf("expected ErrMinPurchaseUnmet, got %v", err)
	}
	if err := promo.Validate(testNow, dec("150"), AtSalon, nil); err != nil {
		t.Fatalf("expected subtotal equal to minimum to qualify, got %v", err)
	}
}

func TestValidateLocationScope(t *testing.T) {
	locID := uuid.New()
	otherID := uuid.New()

	unscoped := Promotion{IsActive: true}
	if err := unscoped.Validate(testNow, dec("100"), AtHome, nil); err != nil {
		t.Fatalf("unscoped promotion must apply everywhere, got %v", err)
	}

	scoped := Promotion{IsActive: true, LocationID: &locID}
	if err := scoped.Validate(testNow, dec("100"), AtSalon, &locID); err != nil {
		t.Fatalf("expected match at scoped salon, got %v", err)
	}
	if err := scoped.Validate(testNow, dec("100"), AtSalon, &otherID); !errors.Is(err, ErrLocationMismatch) {
		t.Fatalf("expected ErrLocationMismatch at another salon, got %v", err)
	}
	if err := scoped.Validate(testNow, dec("100"), AtSalon, nil); !errors.Is(err, ErrLocationMismatch) {
		t.Fatalf("expected ErrLocationMismatch without a location, got %v", err)
	}
	if err := scoped.Validate(testNow, dec("100"), AtHome, &locID); !errors.Is(err, ErrLocationMismatch) {
		t.Fatalf("expected ErrLocationMismatch for at-home booking, got %v", err)
	}
}

func TestDiscountPercentageCapped(t *testing.T) {
	promo := Promotion{Type: PromotionPercentage, Value: dec("50"), MaxDiscountAmount: decPtr("60")}
	if got := promo.Discount(dec("200")); !got.Equal(dec("60")) {
		t.Fatalf("expected discount 60, got %s", got)
	}
}

func TestDiscountPercentageRounding(t *testing.T) {
	promo := Promotion{Type: PromotionPercentage, Value: dec("10")}
	if got := promo.Discount(dec("99.99")); !got.Equal(dec("10.00")) {
		t.Fatalf("expected discount 10.00, got %s", got)
	}
}

func TestDiscountFixedClampedToSubtotal(t *testing.T) {
	promo := Promotion{Type: PromotionFixed, Value: dec("100")}
	if got := promo.Discount(dec("80")); !got.Equal(dec("80")) {
		t.Fatalf("expected discount clamped to 80, got %s", got)
	}
}

func TestDiscountUnknownType(t *testing.T) {
	promo := Promotion{Type: "bogus", Value: dec("10")}
	if got := promo.Discount(dec("80")); !got.IsZero() {
		t.Fatalf("expected zero discount for unknown type, got %s", got)
	}
}

func TestDiscountNegativeValue(t *testing.T) {
	promo := Promotion{Type: PromotionFixed, Value: dec("-5")}
	if got := promo.Discount(dec("80")); !got.IsZero() {
		t.Fatalf("expected zero discount for negative value, got %s", got)
	}
}

func TestDiscountZeroSubtotal(t *testing.T) {
	promo := Promotion{Type: PromotionPercentage, Value: dec("50")}
	if got := promo.Discount(dec("0")); !got.IsZero() {
		t.Fatalf("expected zero discount on zero subtotal, got %s", got)
	}
}
