package pricing

import "testing"

func TestQuotePercentageCapped(t *testing.T) {
	cfg := FeeConfig{FeeType: FeePercentage, FeePercentage: decPtr("10"), MaxFeeAmount: decPtr("50"), IsActive: true}
	quote := cfg.Quote(dec("1000"))
	if !quote.Amount.Equal(dec("50")) {
		t.Fatalf("expected fee capped at 50, got %s", quote.Amount)
	}
	if !quote.Percentage.Equal(dec("10")) {
		t.Fatalf("expected percentage 10, got %s", quote.Percentage)
	}
}

func TestQuoteBelowMinimum(t *testing.T) {
	cfg := FeeConfig{FeeType: FeePercentage, FeePercentage: decPtr("10"), MinBookingAmount: decPtr("500"), IsActive: true}
	quote := cfg.Quote(dec("100"))
	if !quote.Amount.IsZero() {
		t.Fatalf("expected zero fee below minimum, got %s", quote.Amount)
	}
}

func TestQuoteMinimumBoundary(t *testing.T) {
	cfg := FeeConfig{FeeType: FeePercentage, FeePercentage: decPtr("10"), MinBookingAmount: decPtr("500"), IsActive: true}
	quote := cfg.Quote(dec("500"))
	if !quote.Amount.Equal(dec("50.00")) {
		t.Fatalf("expected fee 50.00 at the minimum, got %s", quote.Amount)
	}
}

func TestQuoteInactive(t *testing.T) {
	cfg := FeeConfig{FeeType: FeePercentage, FeePercentage: decPtr("10"), IsActive: false}
	if quote := cfg.Quote(dec("1000")); !quote.Amount.IsZero() {
		t.Fatalf("expected zero fee for inactive config, got %s", quote.Amount)
	}
}

func TestQuoteFixedAmount(t *testing.T) {
	cfg := FeeConfig{FeeType: FeeFixedAmount, FeeFixedAmount: decPtr("25"), IsActive: true}
	quote := cfg.Quote(dec("1000"))
	if !quote.Amount.Equal(dec("25")) {
		t.Fatalf("expected fixed fee 25, got %s", quote.Amount)
	}
	if !quote.Percentage.IsZero() {
		t.Fatalf("fixed fees report zero percentage, got %s", quote.Percentage)
	}
}

func TestQuoteFixedIgnoresCap(t *testing.T) {
	cfg := FeeConfig{FeeType: FeeFixedAmount, FeeFixedAmount: decPtr("100"), MaxFeeAmount: decPtr("50"), IsActive: true}
	if quote := cfg.Quote(dec("1000")); !quote.Amount.Equal(dec("100")) {
		t.Fatalf("expected fixed fee applied verbatim, got %s", quote.Amount)
	}
}

func TestQuoteMissingValue(t *testing.T) {
	cfg := FeeConfig{FeeType: FeePercentage, IsActive: true}
	if quote := cfg.Quote(dec("1000")); !quote.Amount.IsZero() {
		t.Fatalf("expected zero fee for missing percentage, got %s", quote.Amount)
	}
}

func TestPlatformFeeNoMinimum(t *testing.T) {
	defaults := PlatformDefaults{FeeType: strPtr(FeePercentage), FeePercentage: decPtr("5")}
	quote := defaults.Fee(dec("1"))
	if !quote.Amount.Equal(dec("0.05")) {
		t.Fatalf("expected platform fee 0.05, got %s", quote.Amount)
	}
}

func TestPlatformFeeUnconfigured(t *testing.T) {
	var defaults PlatformDefaults
	if quote := defaults.Fee(dec("1000")); !quote.Amount.IsZero() {
		t.Fatalf("expected zero fee without platform config, got %s", quote.Amount)
	}
}

func TestResolveTaxRate(t *testing.T) {
	if got := ResolveTaxRate(nil, nil); !got.IsZero() {
		t.Fatalf("expected zero rate, got %s", got)
	}
	if got := ResolveTaxRate(decPtr("11"), decPtr("10")); !got.Equal(dec("11")) {
		t.Fatalf("expected provider rate 11, got %s", got)
	}
	if got := ResolveTaxRate(nil, decPtr("10")); !got.Equal(dec("10")) {
		t.Fatalf("expected platform rate 10, got %s", got)
	}
	if got := ResolveTaxRate(decPtr("-1"), decPtr("10")); !got.Equal(dec("10")) {
		t.Fatalf("expected negative provider rate ignored, got %s", got)
	}
}
