package pricing

import "github.com/shopspring/decimal"

// FeeQuote is the resolved platform service fee for one computation.
// Percentage stays zero for fixed-amount fees.
type FeeQuote struct {
	Percentage decimal.Decimal
	Amount     decimal.Decimal
}

// Quote computes the provider-level fee against the post-discount
// subtotal. Inactive configs, subtotals below MinBookingAmount, and
// misconfigured values all quote zero, which signals the caller to
// consult the platform fallback.
func (c FeeConfig) Quote(subtotal decimal.Decimal) FeeQuote {
	if !c.IsActive {
		return FeeQuote{}
	}
	min := decimal.Zero
	if c.MinBookingAmount != nil {
		min = *c.MinBookingAmount
	}
	if subtotal.LessThan(min) {
		return FeeQuote{}
	}
	switch c.FeeType {
	case FeePercentage:
		if c.FeePercentage == nil {
			return FeeQuote{}
		}
		amount := percentOf(subtotal, *c.FeePercentage)
		if c.MaxFeeAmount != nil && amount.GreaterThan(*c.MaxFeeAmount) {
			amount = Round2(*c.MaxFeeAmount)
		}
		if amount.IsNegative() {
			return FeeQuote{}
		}
		return FeeQuote{Percentage: *c.FeePercentage, Amount: amount}
	case FeeFixedAmount:
		if c.FeeFixedAmount == nil {
			return FeeQuote{}
		}
		amount := Round2(*c.FeeFixedAmount)
		if amount.IsNegative() {
			return FeeQuote{}
		}
		return FeeQuote{Amount: amount}
	}
	return FeeQuote{}
}

// Fee applies the platform-wide fallback fee. Unlike provider configs
// there is no minimum-booking check at this layer.
func (d PlatformDefaults) Fee(subtotal decimal.Decimal) FeeQuote {
	if d.FeeType == nil {
		return FeeQuote{}
	}
	switch *d.FeeType {
	case FeePercentage:
		if d.FeePercentage == nil {
			return FeeQuote{}
		}
		amount := percentOf(subtotal, *d.FeePercentage)
		if amount.IsNegative() {
			return FeeQuote{}
		}
		return FeeQuote{Percentage: *d.FeePercentage, Amount: amount}
	case FeeFixedAmount:
		if d.FeeFixedAmount == nil {
			return FeeQuote{}
		}
		amount := Round2(*d.FeeFixedAmount)
		if amount.IsNegative() {
			return FeeQuote{}
		}
		return FeeQuote{Amount: amount}
	}
	return FeeQuote{}
}
